package waste

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/talus-io/talus/pkg/textnorm"
)

//go:embed wastemap.yaml
var wastemapYAML []byte

//go:embed correspondence.yaml
var correspondenceYAML []byte

// MapEntry is a keyword-map reference entry. Patterns are required words:
// every word of length >= 3 must appear whole-word in a normalized label for
// the entry to match. Entries are ordered hazardous > inert > non-hazardous
// so that specificity ties resolve toward the stricter regime.
type MapEntry struct {
	Patterns  []string
	Label     string
	Code      string
	Category  Category
	Hazardous bool
}

// CorrespondenceEntry is a curated literal term to code mapping declared by
// one of the site support functions (atelier, labo, depot).
type CorrespondenceEntry struct {
	Source      Source
	Term        string
	Formulation string
	Code        string
	Hazardous   bool

	normTerm string
}

type wastemapFile struct {
	Entries []struct {
		Patterns []string `yaml:"patterns"`
		Label    string   `yaml:"label"`
		Code     string   `yaml:"code"`
		Category Category `yaml:"category"`
	} `yaml:"entries"`
}

type correspondenceFile struct {
	Entries []struct {
		Source      Source `yaml:"source"`
		Term        string `yaml:"term"`
		Formulation string `yaml:"formulation"`
		Code        string `yaml:"code"`
	} `yaml:"entries"`
}

type referenceTables struct {
	entries        []MapEntry
	byCode         map[string]MapEntry
	correspondence map[Source][]CorrespondenceEntry
}

var (
	tablesOnce sync.Once
	tablesVal  *referenceTables
	tablesErr  error
)

// tables returns the process-wide reference tables, loading them from the
// embedded YAML on first use. The result is never mutated after load.
func tables() (*referenceTables, error) {
	tablesOnce.Do(func() {
		tablesVal, tablesErr = loadTables(wastemapYAML, correspondenceYAML)
	})
	return tablesVal, tablesErr
}

func loadTables(mapData, corrData []byte) (*referenceTables, error) {
	var mf wastemapFile
	if err := yaml.Unmarshal(mapData, &mf); err != nil {
		return nil, fmt.Errorf("parse waste map: %w", err)
	}

	t := &referenceTables{
		byCode:         make(map[string]MapEntry),
		correspondence: make(map[Source][]CorrespondenceEntry),
	}

	for i, e := range mf.Entries {
		code, hazardous, ok := ParseCode(e.Code)
		if !ok {
			return nil, fmt.Errorf("waste map entry %d: invalid code %q", i, e.Code)
		}
		if len(e.Patterns) == 0 {
			return nil, fmt.Errorf("waste map entry %d (%s): no patterns", i, e.Code)
		}

		entry := MapEntry{
			Patterns:  e.Patterns,
			Label:     e.Label,
			Code:      code,
			Category:  e.Category,
			Hazardous: hazardous || e.Category == CategoryHazardous,
		}
		t.entries = append(t.entries, entry)

		// First entry wins for code lookups so the priority ordering of the
		// file also decides which label represents a shared code.
		if _, seen := t.byCode[code]; !seen {
			t.byCode[code] = entry
		}
	}

	var cf correspondenceFile
	if err := yaml.Unmarshal(corrData, &cf); err != nil {
		return nil, fmt.Errorf("parse correspondence table: %w", err)
	}

	for i, e := range cf.Entries {
		code, hazardous, ok := ParseCode(e.Code)
		if !ok {
			return nil, fmt.Errorf("correspondence entry %d: invalid code %q", i, e.Code)
		}
		switch e.Source {
		case SourceAtelier, SourceLabo, SourceDepot:
		default:
			return nil, fmt.Errorf("correspondence entry %d: unknown source %q", i, e.Source)
		}

		t.correspondence[e.Source] = append(t.correspondence[e.Source], CorrespondenceEntry{
			Source:      e.Source,
			Term:        e.Term,
			Formulation: e.Formulation,
			Code:        code,
			Hazardous:   hazardous,
			normTerm:    textnorm.Normalize(e.Term),
		})
	}

	return t, nil
}

// LookupCode returns the keyword-map entry for a bare six-digit code.
func LookupCode(code string) (MapEntry, bool) {
	t, err := tables()
	if err != nil {
		return MapEntry{}, false
	}
	e, ok := t.byCode[code]
	return e, ok
}
