package waste

import (
	"regexp"
	"strings"

	"github.com/talus-io/talus/pkg/textnorm"
)

// Exclusion heuristics: rows that mention waste-adjacent vocabulary but
// describe equipment rental, vehicle fleet entries, or trade flows rather
// than a physical waste stream.
var (
	rentalPrefixes = map[string]bool{
		"loc":       true,
		"locat":     true,
		"location":  true,
		"locations": true,
	}

	vehicleWords = wordList(
		"camion", "camions", "vehicule", "vehicules",
		"tracteur", "tracteurs", "fourgon", "semi",
	)

	bodyTypeWords = wordList(
		"benne", "bennes", "plateau", "ampliroll", "grue", "ridelles",
	)

	// Fleet numbers ("PL 4812 benne") and axle configurations ("8x4 benne").
	vehicleCodeRe = regexp.MustCompile(`(?:^|\s)(\d{3,}|\d+x\d+)(?:\s|$)`)

	genericWasteWords = wordList(
		"dechet", "dechets", "decharge", "decheterie", "dechetterie",
		"enfouissement", "exutoire", "evacuation", "recyclage", "tri",
		"isdi", "isdnd",
	)
)

func wordList(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

// IsWaste reports whether a resource label describes a physical waste
// stream eligible for tracking. Exclusion heuristics run first; a label
// survives by carrying an explicit code, matching a keyword-map entry, or
// mentioning a generic waste-handling term. A bare skip mention ("benne")
// with no waste-type keyword is not enough.
func IsWaste(label string) bool {
	norm := textnorm.Normalize(label)
	if norm == "" {
		return false
	}

	words := strings.Fields(norm)
	if rentalPrefixes[words[0]] {
		return false
	}
	if isVehicleListing(norm, words) {
		return false
	}
	if isQuarryResale(words) {
		return false
	}

	if _, _, ok := ExtractCode(label); ok {
		return true
	}

	t, err := tables()
	if err != nil {
		return false
	}

	set := wordSet(words)
	if len(fullMatches(t, set)) > 0 {
		return true
	}

	for w := range genericWasteWords {
		if set[w] {
			return true
		}
	}
	return false
}

func isVehicleListing(norm string, words []string) bool {
	for _, w := range words {
		if vehicleWords[w] {
			return true
		}
	}

	if !vehicleCodeRe.MatchString(norm) {
		return false
	}
	for _, w := range words {
		if bodyTypeWords[w] {
			return true
		}
	}
	return false
}

// "Matériaux de revente carrière" is a trade flow, not a waste stream.
func isQuarryResale(words []string) bool {
	set := wordSet(words)
	if !set["revente"] && !set["reventes"] {
		return false
	}
	return set["carriere"] || set["carrieres"] || set["materiau"] || set["materiaux"]
}
