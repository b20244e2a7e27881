// Package waste implements the waste classification domain for Talus.
// It resolves free-text resource labels from site accounting exports to
// six-digit European waste catalogue codes through three tiers: curated
// correspondence lookup, explicit code extraction, and keyword pattern
// matching with specificity scoring.
package waste

// Category groups waste codes by disposal regime.
type Category string

const (
	CategoryInert        Category = "inert"
	CategoryNonHazardous Category = "non_hazardous"
	CategoryHazardous    Category = "hazardous"
	CategoryUndetermined Category = "undetermined"
)

// Source identifies the declared origin context of a correspondence lookup.
// Resolution priority when no source is declared: atelier > labo > depot.
type Source string

const (
	SourceNone    Source = ""
	SourceAtelier Source = "atelier"
	SourceLabo    Source = "labo"
	SourceDepot   Source = "depot"
)

// Tier records which resolution tier produced a classification.
type Tier string

const (
	TierExplicit Tier = "explicit"
	TierTable    Tier = "table"
	TierKeyword  Tier = "keyword"
	TierNone     Tier = "none"
)

// Result is the outcome of classifying a resource label. Code is a bare
// six-digit string; the asterisk hazard convention never leaves the parsing
// boundary.
type Result struct {
	Code      string   `json:"code"`
	Label     string   `json:"label"`
	Category  Category `json:"category"`
	Hazardous bool     `json:"hazardous"`
	Tier      Tier     `json:"tier"`
}
