package perimeter_test

import (
	"testing"

	"github.com/talus-io/talus/internal/columns"
	"github.com/talus-io/talus/internal/perimeter"
)

func inScope() columns.Fields {
	return columns.Fields{
		Origin:  "Chantier A",
		Chapter: "MISE EN DECHARGE ET TRI",
		Rubric:  "Evacuation de gravats",
	}
}

func TestPasses(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*columns.Fields)
		want   bool
	}{
		{"in scope", func(f *columns.Fields) {}, true},
		{"with neutral sub-chapter", func(f *columns.Fields) { f.SubChapter = "EVACUATION" }, true},
		{"internal timesheet origin", func(f *columns.Fields) { f.Origin = "POINTAGE PERSONNEL INTERNE" }, false},
		{"chapter outside allow-list", func(f *columns.Fields) { f.Chapter = "FRAIS GENERAUX" }, false},
		{"missing chapter", func(f *columns.Fields) { f.Chapter = "" }, false},
		{"deny-listed sub-chapter", func(f *columns.Fields) { f.SubChapter = "CARBURANTS ET LUBRIFIANTS" }, false},
		{"rubric outside allow-list", func(f *columns.Fields) { f.Rubric = "Achat de béton" }, false},
		{"missing rubric", func(f *columns.Fields) { f.Rubric = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := inScope()
			tt.mutate(&f)
			if got := perimeter.Passes(f); got != tt.want {
				t.Errorf("Passes = %v, want %v", got, tt.want)
			}
		})
	}
}

// The rubric list is matched exactly: case or whitespace drift must reject.
func TestPassesRubricExactness(t *testing.T) {
	tests := []struct {
		name   string
		rubric string
	}{
		{"trailing whitespace", "Evacuation de gravats "},
		{"leading whitespace", " Evacuation de gravats"},
		{"case drift", "EVACUATION DE GRAVATS"},
		{"accent stripped", "Evacuation de dechets verts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := inScope()
			f.Rubric = tt.rubric
			if perimeter.Passes(f) {
				t.Errorf("rubric %q accepted, want exact-match rejection", tt.rubric)
			}
		})
	}
}
