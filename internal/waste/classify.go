package waste

import (
	"strings"

	"github.com/talus-io/talus/pkg/textnorm"
)

// Codes referenced by the post-selection override rules.
const (
	codeCleanSoil    = "170504"
	codePollutedSoil = "170503"
	codeBitumenClean = "170302"
	codeBitumenTar   = "170301"
)

var (
	pollutionWords = []string{
		"pollue", "pollution", "contamine", "souille", "hydrocarbure", "hap",
	}
	tarWords = []string{
		"goudron", "goudronne", "hap", "ancien", "ancienne",
	}
)

// Suggest resolves a free-text resource label to a classification, trying
// the correspondence table, explicit code extraction, and keyword matching
// in strict order. Returns nil when no tier succeeds; such rows are routed
// to manual completion downstream, never dropped silently.
//
// The final hazard flag is the OR of the tier's own flag and an asterisk
// marker anywhere in the original label.
func Suggest(label string, source Source) *Result {
	t, err := tables()
	if err != nil {
		return nil
	}

	norm := textnorm.Normalize(label)
	if norm == "" {
		return nil
	}
	marked := strings.Contains(label, "*")

	if r := lookupCorrespondence(t, norm, source); r != nil {
		r.Hazardous = r.Hazardous || marked
		return r
	}

	if code, codeHaz, ok := ExtractCode(label); ok {
		if e, found := t.byCode[code]; found {
			return &Result{
				Code:      code,
				Label:     e.Label,
				Category:  e.Category,
				Hazardous: e.Hazardous || codeHaz || marked,
				Tier:      TierExplicit,
			}
		}
		return &Result{
			Code:      code,
			Category:  CategoryUndetermined,
			Hazardous: codeHaz || marked,
			Tier:      TierExplicit,
		}
	}

	if r := matchKeywords(t, norm); r != nil {
		r.Hazardous = r.Hazardous || marked
		return r
	}

	return nil
}

// lookupCorrespondence scans correspondence entries, restricted to the
// declared source first, then across all sources in priority order. A match
// is containment in either direction between the normalized label and the
// normalized term.
func lookupCorrespondence(t *referenceTables, norm string, source Source) *Result {
	order := []Source{SourceAtelier, SourceLabo, SourceDepot}
	if source != SourceNone {
		ordered := []Source{source}
		for _, s := range order {
			if s != source {
				ordered = append(ordered, s)
			}
		}
		order = ordered
	}

	for _, s := range order {
		for _, e := range t.correspondence[s] {
			if e.normTerm == "" {
				continue
			}
			if strings.Contains(norm, e.normTerm) || strings.Contains(e.normTerm, norm) {
				return &Result{
					Code:      e.Code,
					Label:     e.Formulation,
					Category:  categoryForCode(t, e.Code, e.Hazardous),
					Hazardous: e.Hazardous,
					Tier:      TierTable,
				}
			}
		}
	}
	return nil
}

func categoryForCode(t *referenceTables, code string, hazardous bool) Category {
	if e, ok := t.byCode[code]; ok {
		return e.Category
	}
	if hazardous {
		return CategoryHazardous
	}
	return CategoryUndetermined
}

type candidate struct {
	entry MapEntry
	score int
}

// matchKeywords selects the most specific fully-matching map entry, then
// applies the ordered override rules.
func matchKeywords(t *referenceTables, norm string) *Result {
	set := wordSet(strings.Fields(norm))

	cands := fullMatches(t, set)
	if len(cands) == 0 {
		return nil
	}

	best := cands[0]
	for _, c := range cands[1:] {
		if c.score > best.score {
			best = c
		}
	}

	entry := applyOverrides(t, norm, set, best, cands)
	return &Result{
		Code:      entry.Code,
		Label:     entry.Label,
		Category:  entry.Category,
		Hazardous: entry.Hazardous,
		Tier:      TierKeyword,
	}
}

// fullMatches returns every map entry whose significant pattern words (>= 3
// characters) all appear whole-word in the label, preserving table order so
// ties keep the hazardous > inert > non-hazardous priority.
func fullMatches(t *referenceTables, set map[string]bool) []candidate {
	var cands []candidate
	for _, e := range t.entries {
		score := 0
		full := true
		for _, w := range e.Patterns {
			w = textnorm.Normalize(w)
			if len(w) < 3 {
				continue
			}
			if !matchWord(set, w) {
				full = false
				break
			}
			score++
		}
		if full && score > 0 {
			cands = append(cands, candidate{entry: e, score: score})
		}
	}
	return cands
}

// Override rules run after best-match selection, in order. Each is a pure
// predicate plus substitution so new domain exceptions slot in without
// touching the scoring pass.
var overrideRules = []func(t *referenceTables, norm string, set map[string]bool, best candidate, cands []candidate) (MapEntry, bool){
	overrideUnpollutedSoil,
	overridePollutedSoil,
	overrideTarBitumen,
}

func applyOverrides(t *referenceTables, norm string, set map[string]bool, best candidate, cands []candidate) MapEntry {
	for _, rule := range overrideRules {
		if e, ok := rule(t, norm, set, best, cands); ok {
			return e
		}
	}
	return best.entry
}

// "terre non polluée" carries the pollution word but is explicitly negated:
// it is the clean-soil entry, not the hazardous one.
func overrideUnpollutedSoil(t *referenceTables, norm string, _ map[string]bool, best candidate, _ []candidate) (MapEntry, bool) {
	if best.entry.Code != codePollutedSoil {
		return MapEntry{}, false
	}
	if !strings.Contains(norm, "non pollue") && !strings.Contains(norm, "hors pollution") {
		return MapEntry{}, false
	}
	if e, ok := t.byCode[codeCleanSoil]; ok {
		return e, true
	}
	return MapEntry{}, false
}

// Visibly polluted material must never resolve to the clean-soil entry:
// discard it and re-select, falling back to the polluted-soil entry when
// nothing else matched.
func overridePollutedSoil(t *referenceTables, _ string, set map[string]bool, best candidate, cands []candidate) (MapEntry, bool) {
	if best.entry.Code != codeCleanSoil || !anyWord(set, pollutionWords) {
		return MapEntry{}, false
	}

	var next *candidate
	for i := range cands {
		if cands[i].entry.Code == codeCleanSoil {
			continue
		}
		if next == nil || cands[i].score > next.score {
			next = &cands[i]
		}
	}
	if next != nil {
		return next.entry, true
	}
	if e, ok := t.byCode[codePollutedSoil]; ok {
		return e, true
	}
	return MapEntry{}, false
}

// Bituminous mixtures with a tar/PAH indicator are upgraded to the
// tar-bearing hazardous entry unless a tar-specific entry already matched.
func overrideTarBitumen(t *referenceTables, _ string, set map[string]bool, best candidate, cands []candidate) (MapEntry, bool) {
	if best.entry.Code != codeBitumenClean || !anyWord(set, tarWords) {
		return MapEntry{}, false
	}
	for _, c := range cands {
		if c.entry.Code == codeBitumenTar {
			return MapEntry{}, false
		}
	}
	if e, ok := t.byCode[codeBitumenTar]; ok {
		return e, true
	}
	return MapEntry{}, false
}

func wordSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

// matchWord tolerates singular/plural spelling drift between reference
// patterns and site labels.
func matchWord(set map[string]bool, w string) bool {
	if set[w] || set[w+"s"] {
		return true
	}
	if trimmed, ok := strings.CutSuffix(w, "s"); ok && set[trimmed] {
		return true
	}
	return false
}

// anyWord matches indicator stems by prefix so inflected forms count:
// "pollue" covers "polluée", "pollués"; "ancien" covers "anciennes".
func anyWord(set map[string]bool, words []string) bool {
	for token := range set {
		for _, w := range words {
			if strings.HasPrefix(token, w) {
				return true
			}
		}
	}
	return false
}
