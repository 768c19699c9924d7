package model

import "testing"

func TestDecidePlacement(t *testing.T) {
	const threshold = 100

	tests := []struct {
		name        string
		save        bool
		hasDiskPath bool
		size        int64
		want        PlacementDecision
	}{
		{"save next to file", true, true, 10, MoveAdjacentToSource},
		{"save large next to file", true, true, 1000, MoveAdjacentToSource},
		{"save without directory", true, false, 10, KeepTemp},
		{"too large to stream", false, true, threshold + 1, KeepTemp},
		{"at threshold streams", false, true, threshold, StreamIntoEditor},
		{"small untitled streams", false, false, 0, StreamIntoEditor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecidePlacement(tt.save, tt.hasDiskPath, tt.size, threshold); got != tt.want {
				t.Fatalf("DecidePlacement() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestPlacementDecisionString(t *testing.T) {
	tests := map[PlacementDecision]string{
		MoveAdjacentToSource:  "moved",
		KeepTemp:              "kept-temp",
		StreamIntoEditor:      "editor",
		PlacementDecision(42): "unknown",
	}

	for d, want := range tests {
		if got := d.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}
