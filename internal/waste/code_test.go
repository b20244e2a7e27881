package waste_test

import (
	"testing"

	"github.com/talus-io/talus/internal/waste"
)

func TestParseCode(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		wantCode      string
		wantHazardous bool
		wantOK        bool
	}{
		{"spaced", "17 05 04", "170504", false, true},
		{"bare", "170504", "170504", false, true},
		{"hyphenated", "17-05-03", "170503", false, true},
		{"asterisk", "17 05 03*", "170503", true, true},
		{"asterisk with space", "170503 *", "170503", true, true},
		{"too short", "17 05", "", false, false},
		{"letters", "17a504", "", false, false},
		{"empty", "", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, hazardous, ok := waste.ParseCode(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if code != tt.wantCode || hazardous != tt.wantHazardous {
				t.Errorf("ParseCode(%q) = (%s, %v), want (%s, %v)",
					tt.input, code, hazardous, tt.wantCode, tt.wantHazardous)
			}
		})
	}
}

func TestParseCodeAsteriskEquivalence(t *testing.T) {
	plain, _, _ := waste.ParseCode("170503")
	marked, hazardous, _ := waste.ParseCode("170503*")
	if plain != marked {
		t.Errorf("same digits parsed as different codes: %s vs %s", plain, marked)
	}
	if !hazardous {
		t.Error("asterisk variant should be hazardous")
	}
}

func TestExtractCode(t *testing.T) {
	tests := []struct {
		name     string
		label    string
		wantCode string
		wantOK   bool
	}{
		{"trailing spaced", "Rabotage chaussée 17 03 02", "170302", true},
		{"trailing compact", "Evacuation DIB 200301", "200301", true},
		{"trailing hyphenated", "terres 17-05-04", "170504", true},
		{"underscore boundary", "exutoire_170504", "170504", true},
		{"whole label", "17 03 02", "170302", true},
		{"hazard marker", "enrobés HAP 17 03 01*", "170301", true},
		{"first digit not 1 or 2", "dalle 50 50 05", "", false},
		{"dimension code", "bordure T2 100x30x15", "", false},
		{"code not terminating", "17 03 02 sur RD12", "", false},
		{"no boundary before code", "ref X170302", "", false},
		{"no code", "béton", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, ok := waste.ExtractCode(tt.label)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v (code %q)", ok, tt.wantOK, code)
			}
			if code != tt.wantCode {
				t.Errorf("code = %q, want %q", code, tt.wantCode)
			}
		})
	}
}

func TestFormatCode(t *testing.T) {
	if got := waste.FormatCode("170503", true); got != "17 05 03*" {
		t.Errorf("FormatCode = %q, want 17 05 03*", got)
	}
	if got := waste.FormatCode("170504", false); got != "17 05 04" {
		t.Errorf("FormatCode = %q, want 17 05 04", got)
	}
}
