package batches_test

import (
	"testing"

	"github.com/talus-io/talus/internal/batches"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		want bool
	}{
		{"init allocates upload", batches.StatusPending, batches.StatusUploading, true},
		{"upload confirmed", batches.StatusUploading, batches.StatusPending, true},
		{"worker claim", batches.StatusPending, batches.StatusProcessing, true},
		{"clean finish", batches.StatusProcessing, batches.StatusCompleted, true},
		{"finish with warnings", batches.StatusProcessing, batches.StatusCompletedWithWarnings, true},
		{"fatal error", batches.StatusProcessing, batches.StatusFailed, true},
		{"lease reap", batches.StatusProcessing, batches.StatusPending, true},

		{"no skip over upload confirm", batches.StatusUploading, batches.StatusProcessing, false},
		{"no direct completion", batches.StatusPending, batches.StatusCompleted, false},
		{"completed is terminal", batches.StatusCompleted, batches.StatusPending, false},
		{"failed is terminal", batches.StatusFailed, batches.StatusProcessing, false},
		{"unknown status", "archived", batches.StatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := batches.CanTransition(tt.from, tt.to); got != tt.want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestIsTerminal(t *testing.T) {
	terminal := []string{
		batches.StatusCompleted,
		batches.StatusCompletedWithWarnings,
		batches.StatusFailed,
	}
	for _, status := range terminal {
		if !batches.IsTerminal(status) {
			t.Errorf("IsTerminal(%s) = false, want true", status)
		}
	}

	active := []string{
		batches.StatusPending,
		batches.StatusUploading,
		batches.StatusProcessing,
	}
	for _, status := range active {
		if batches.IsTerminal(status) {
			t.Errorf("IsTerminal(%s) = true, want false", status)
		}
	}
}

func TestCountersHasWarnings(t *testing.T) {
	tests := []struct {
		name     string
		counters batches.Counters
		want     bool
	}{
		{"clean run", batches.Counters{RowsIn: 10, RowsOk: 10}, false},
		{"skipped rows stay clean", batches.Counters{RowsIn: 10, RowsOk: 6, RowsSkipped: 4}, false},
		{"review rows stay clean", batches.Counters{RowsIn: 10, RowsOk: 8, RowsReview: 2}, false},
		{"warn rows flag the run", batches.Counters{RowsIn: 10, RowsOk: 9, RowsWarn: 1}, true},
		{"err rows flag the run", batches.Counters{RowsIn: 10, RowsOk: 9, RowsErr: 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.counters.HasWarnings(); got != tt.want {
				t.Errorf("HasWarnings = %v, want %v", got, tt.want)
			}
		})
	}
}
