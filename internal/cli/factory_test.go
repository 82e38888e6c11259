package cli

import (
	"strings"
	"testing"
)

func TestProgressBarRoundsToNearestBlock(t *testing.T) {
	tests := []struct {
		pct    int
		filled int
	}{
		{0, 0},
		{20, 2},
		{25, 3},
		{60, 6},
		{80, 8},
		{100, 10},
		{120, 10},
	}

	for _, tt := range tests {
		bar := progressBar(tt.pct)
		if got := strings.Count(bar, "█"); got != tt.filled {
			t.Errorf("progressBar(%d): expected %d filled blocks, got %d (%s)", tt.pct, tt.filled, got, bar)
		}
		if got := strings.Count(bar, "░"); got != 10-tt.filled {
			t.Errorf("progressBar(%d): expected %d empty blocks, got %d (%s)", tt.pct, 10-tt.filled, got, bar)
		}
	}
}
