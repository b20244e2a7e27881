package columns_test

import (
	"testing"
	"time"

	"github.com/talus-io/talus/internal/columns"
	"github.com/talus-io/talus/internal/tabular"
)

var chapterTokens = []string{"MISE EN DECHARGE ET TRI", "MATERIAUX ET FOURNITURES"}

func TestResolveNormalizedHeaders(t *testing.T) {
	row := tabular.Row{
		"LIBELLE RESSOURCE": "Béton",
		"Qté":               "12,5",
		"Unité":             "T",
	}

	tests := []struct {
		name       string
		candidates []string
		want       string
		ok         bool
	}{
		{"accent and case drift", []string{"Libellé ressource"}, "Béton", true},
		{"abbreviated header", []string{"Quantité", "Qté"}, "12,5", true},
		{"first candidate with value wins", []string{"Désignation", "Libellé ressource"}, "Béton", true},
		{"absent column", []string{"Fournisseur"}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := columns.Resolve(row, tt.candidates)
			if got != tt.want || ok != tt.ok {
				t.Errorf("Resolve = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestResolveSkipsEmptyValues(t *testing.T) {
	row := tabular.Row{"Rubrique": "  ", "Libellé rubrique": "Evacuation de gravats"}

	got, ok := columns.Resolve(row, []string{"Rubrique", "Libellé rubrique"})
	if !ok || got != "Evacuation de gravats" {
		t.Errorf("Resolve = (%q, %v), want non-empty fallback candidate", got, ok)
	}
}

func TestResolverFieldsFromHeaders(t *testing.T) {
	resolver := columns.NewResolver(nil, chapterTokens)

	f := resolver.Fields(tabular.Row{
		"Libellé ressource": "Evacuation gravats",
		"Quantité":          "3",
		"Unité":             "T",
		"Date":              "12/03/2025",
		"Chapitre":          "MISE EN DECHARGE ET TRI",
		"Rubrique":          "Evacuation de gravats",
		"Origine":           "Chantier A",
		"Destination":       "ISDI Nord",
	})

	if f.Resource != "Evacuation gravats" {
		t.Errorf("Resource = %q", f.Resource)
	}
	if f.Chapter != "MISE EN DECHARGE ET TRI" {
		t.Errorf("Chapter = %q", f.Chapter)
	}
	if f.Destination != "ISDI Nord" {
		t.Errorf("Destination = %q", f.Destination)
	}
}

func TestInferPositions(t *testing.T) {
	rows := []tabular.Row{
		{"col_0": "12/03/2025", "col_1": "MISE EN DECHARGE ET TRI", "col_2": "Evacuation gravats", "col_3": "12,5"},
		{"col_0": "13/03/2025", "col_1": "MISE EN DECHARGE ET TRI", "col_2": "Mise en décharge terres", "col_3": "3"},
		{"col_0": "14/03/2025", "col_1": "MATERIAUX ET FOURNITURES", "col_2": "Béton C25/30", "col_3": "8"},
	}

	positions := columns.InferPositions(rows, chapterTokens)

	want := map[int]string{
		0: columns.RoleDate,
		1: columns.RoleChapter,
		2: columns.RoleResource,
		3: columns.RoleQuantity,
	}
	for index, role := range want {
		if positions[index] != role {
			t.Errorf("positions[%d] = %q, want %q", index, positions[index], role)
		}
	}
}

func TestInferPositionsHeaderKeyedRows(t *testing.T) {
	rows := []tabular.Row{{"Quantité": "3", "Date": "12/03/2025"}}

	if positions := columns.InferPositions(rows, chapterTokens); len(positions) != 0 {
		t.Errorf("positions = %v, want empty for header-keyed rows", positions)
	}
}

func TestResolverPositionalFallback(t *testing.T) {
	rows := []tabular.Row{
		{"col_0": "12/03/2025", "col_1": "Evacuation gravats", "col_2": "12,5"},
		{"col_0": "13/03/2025", "col_1": "Mise en décharge terres", "col_2": "3"},
	}
	resolver := columns.NewResolver(rows, chapterTokens)

	f := resolver.Fields(rows[0])
	if f.Date != "12/03/2025" {
		t.Errorf("Date = %q, want positional date", f.Date)
	}
	if f.Resource != "Evacuation gravats" {
		t.Errorf("Resource = %q, want positional resource", f.Resource)
	}
	if f.Quantity != "12,5" {
		t.Errorf("Quantity = %q, want positional quantity", f.Quantity)
	}
	if f.Rubric != "" {
		t.Errorf("Rubric = %q, want empty for unrecoverable column", f.Rubric)
	}
}

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    float64
		wantErr bool
	}{
		{"decimal comma", "12,5", 12.5, false},
		{"decimal point", "12.5", 12.5, false},
		{"grouping space", "1 250,75", 1250.75, false},
		{"integer", "3", 3, false},
		{"empty", "  ", 0, true},
		{"text", "douze", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := columns.ParseQuantity(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseQuantity(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseQuantity(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    time.Time
		wantErr bool
	}{
		{"day first", "12/03/2025", time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC), false},
		{"iso", "2025-03-12", time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC), false},
		{"two digit year", "12/03/25", time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC), false},
		{"spreadsheet serial", "45728", time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC), false},
		{"serial out of range", "123", time.Time{}, true},
		{"empty", "", time.Time{}, true},
		{"garbage", "mars 2025", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := columns.ParseDate(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDate(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
