// Package perimeter encodes the cost-accounting perimeter: which movement
// rows belong to the tracked scope at all. The lists below are exact
// literals from the accounting referential, matched byte-for-byte on
// purpose — a drifted chapter or rubric spelling is a referential problem
// to surface, not one to paper over with fuzzy matching.
package perimeter

import "github.com/talus-io/talus/internal/columns"

// excludedOrigin marks internal personnel timesheet rows, which mirror
// labor hours into the movement export and never describe material.
const excludedOrigin = "POINTAGE PERSONNEL INTERNE"

var allowedChapters = map[string]bool{
	"MATERIAUX ET FOURNITURES":      true,
	"MISE EN DECHARGE ET TRI":       true,
	"TRANSPORTS ET ENGINS":          true,
	"SOUS-TRAITANCE ET PRESTATIONS": true,
}

var excludedSubChapters = map[string]bool{
	"CARBURANTS ET LUBRIFIANTS": true,
	"FOURNITURES DE BUREAU":     true,
	"PERSONNEL INTERIMAIRE":     true,
}

var allowedRubrics = map[string]bool{
	"Mise en décharge de gravats":       true,
	"Mise en décharge de terres":        true,
	"Mise en décharge DIB":              true,
	"Mise en décharge déchets inertes":  true,
	"Evacuation de déblais":             true,
	"Evacuation de gravats":             true,
	"Evacuation de terres":              true,
	"Evacuation bois":                   true,
	"Evacuation déchets verts":          true,
	"Transport de déblais":              true,
	"Transport amiante":                 true,
	"Traitement amiante":                true,
	"Traitement de terres polluées":     true,
	"Tri de déchets":                    true,
	"Location de benne":                 true,
	"Enlèvement de ferraille":           true,
	"Fourniture de matériaux recyclés":  true,
	"Redevance ISDI":                    true,
	"Redevance ISDND":                   true,
	"Rabotage d'enrobés":                true,
	"Démolition d'ouvrages béton":       true,
	"Apport en déchèterie":              true,
}

// Chapters returns the chapter allow-list, used by the column resolver as
// anchor values when inferring positions in headerless files.
func Chapters() []string {
	out := make([]string, 0, len(allowedChapters))
	for chapter := range allowedChapters {
		out = append(out, chapter)
	}
	return out
}

// Passes reports whether a resolved row falls inside the tracked accounting
// perimeter. Pure predicate: origin must not be the internal-timesheet
// literal, the chapter must be allow-listed, the sub-chapter must not be
// deny-listed (an absent sub-chapter passes), and the rubric must equal one
// of the allow-listed literals exactly. A missing chapter or rubric rejects.
func Passes(f columns.Fields) bool {
	if f.Origin == excludedOrigin {
		return false
	}
	if !allowedChapters[f.Chapter] {
		return false
	}
	if f.SubChapter != "" && excludedSubChapters[f.SubChapter] {
		return false
	}
	return allowedRubrics[f.Rubric]
}
