// Package columns resolves raw decoded rows into the canonical field set the
// filter and classifier operate on. Header spellings vary wildly across
// source systems (accents, case, punctuation), so lookups go through
// normalized keys; files decoded without a header fall back to a positional
// role map inferred from sampled cell values.
package columns

import (
	"strings"

	"github.com/talus-io/talus/internal/tabular"
	"github.com/talus-io/talus/pkg/textnorm"
)

// Fields is the canonical projection of one source row. Quantity and Date
// stay raw strings here; parsing them is the pipeline's concern so that a
// bad cell degrades to a row warning instead of losing the whole row.
type Fields struct {
	EntityCode     string
	EntityLabel    string
	SiteCode       string
	SiteLabel      string
	Resource       string
	Quantity       string
	Unit           string
	SupplierCode   string
	SupplierLabel  string
	Date           string
	ChapterCode    string
	Chapter        string
	SubChapterCode string
	SubChapter     string
	RubricCode     string
	Rubric         string
	Origin         string
	Destination    string
}

var (
	entityCodeHeaders  = []string{"Code entité", "Code société", "Entité"}
	entityLabelHeaders = []string{"Libellé entité", "Société", "Entreprise"}
	siteCodeHeaders    = []string{"Code chantier", "Chantier", "Code affaire"}
	siteLabelHeaders   = []string{"Libellé chantier", "Nom chantier", "Affaire"}
	resourceHeaders    = []string{"Libellé ressource", "Ressource", "Désignation", "Libellé"}
	quantityHeaders    = []string{"Quantité", "Qté", "Qte"}
	unitHeaders        = []string{"Unité", "Unite", "U"}
	supplierCodeHdrs   = []string{"Code fournisseur", "Code tiers"}
	supplierLabelHdrs  = []string{"Fournisseur", "Libellé fournisseur", "Tiers"}
	dateHeaders        = []string{"Date", "Date opération", "Date mouvement", "Date de pointage"}
	chapterCodeHdrs    = []string{"Code chapitre"}
	chapterHeaders     = []string{"Chapitre", "Libellé chapitre"}
	subChapterCodeHdrs = []string{"Code sous-chapitre"}
	subChapterHeaders  = []string{"Sous-chapitre", "Libellé sous-chapitre"}
	rubricCodeHeaders  = []string{"Code rubrique"}
	rubricHeaders      = []string{"Rubrique", "Libellé rubrique"}
	originHeaders      = []string{"Origine", "Provenance", "Lieu de départ"}
	destinationHeaders = []string{"Destination", "Exutoire", "Lieu de destination"}
)

// KnownHeaders returns every recognized header spelling, used by the decoder
// to detect whether a file's first record is a header row.
func KnownHeaders() []string {
	var out []string
	for _, group := range [][]string{
		entityCodeHeaders, entityLabelHeaders, siteCodeHeaders, siteLabelHeaders,
		resourceHeaders, quantityHeaders, unitHeaders, supplierCodeHdrs,
		supplierLabelHdrs, dateHeaders, chapterCodeHdrs, chapterHeaders,
		subChapterCodeHdrs, subChapterHeaders, rubricCodeHeaders, rubricHeaders,
		originHeaders, destinationHeaders,
	} {
		out = append(out, group...)
	}
	return out
}

// Resolve returns the first candidate header with a defined, non-empty value
// in the row, matching on normalized keys. Never errors: an unresolvable
// column yields ("", false).
func Resolve(row tabular.Row, candidates []string) (string, bool) {
	normalized := make(map[string]string, len(row))
	for key, value := range row {
		normalized[textnorm.Key(key)] = value
	}
	for _, candidate := range candidates {
		if value, ok := normalized[textnorm.Key(candidate)]; ok {
			if value = strings.TrimSpace(value); value != "" {
				return value, true
			}
		}
	}
	return "", false
}

// Resolver maps raw rows to canonical fields, carrying the positional role
// map inferred for headerless files.
type Resolver struct {
	positions map[int]string
}

// NewResolver builds a resolver for one decoded file. chapterTokens is the
// accounting-chapter allow-list used as an anchor when inferring column
// positions from values.
func NewResolver(rows []tabular.Row, chapterTokens []string) *Resolver {
	return &Resolver{positions: InferPositions(rows, chapterTokens)}
}

// Fields projects one raw row onto the canonical field set.
func (r *Resolver) Fields(row tabular.Row) Fields {
	return Fields{
		EntityCode:     r.resolve(row, "", entityCodeHeaders),
		EntityLabel:    r.resolve(row, "", entityLabelHeaders),
		SiteCode:       r.resolve(row, "", siteCodeHeaders),
		SiteLabel:      r.resolve(row, "", siteLabelHeaders),
		Resource:       r.resolve(row, RoleResource, resourceHeaders),
		Quantity:       r.resolve(row, RoleQuantity, quantityHeaders),
		Unit:           r.resolve(row, "", unitHeaders),
		SupplierCode:   r.resolve(row, "", supplierCodeHdrs),
		SupplierLabel:  r.resolve(row, "", supplierLabelHdrs),
		Date:           r.resolve(row, RoleDate, dateHeaders),
		ChapterCode:    r.resolve(row, "", chapterCodeHdrs),
		Chapter:        r.resolve(row, RoleChapter, chapterHeaders),
		SubChapterCode: r.resolve(row, "", subChapterCodeHdrs),
		SubChapter:     r.resolve(row, "", subChapterHeaders),
		RubricCode:     r.resolve(row, "", rubricCodeHeaders),
		Rubric:         r.resolve(row, "", rubricHeaders),
		Origin:         r.resolve(row, "", originHeaders),
		Destination:    r.resolve(row, "", destinationHeaders),
	}
}

func (r *Resolver) resolve(row tabular.Row, role string, candidates []string) string {
	if value, ok := Resolve(row, candidates); ok {
		return value
	}
	if role == "" {
		return ""
	}
	for index, assigned := range r.positions {
		if assigned == role {
			return strings.TrimSpace(row[tabular.PositionalKey(index)])
		}
	}
	return ""
}
