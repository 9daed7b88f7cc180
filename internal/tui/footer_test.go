package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/typetest/internal/engine"
	"github.com/verte-zerg/typetest/internal/model"
	"github.com/verte-zerg/typetest/internal/stats"
)

func TestStatsLineTimed(t *testing.T) {
	snap := engine.Snapshot{
		Mode:     model.ModeTimed,
		Duration: 60 * time.Second,
		Metrics:  stats.Metrics{WPM: 72.4, Accuracy: 97.8, Errors: 3},
	}
	out := statsLine(snap, 17500*time.Millisecond)
	if !containsAll(out, []string{"Remaining 42.5 s", "WPM 72", "Accuracy 98 %", "Errors 3"}) {
		t.Fatalf("stats line missing expected segments: %s", out)
	}
}

func TestStatsLineRace(t *testing.T) {
	snap := engine.Snapshot{Mode: model.ModeRace}
	out := statsLine(snap, 62500*time.Millisecond)
	if !containsAll(out, []string{"Time 1:02.5", "WPM 0", "Accuracy 0 %", "Errors 0"}) {
		t.Fatalf("stats line missing expected segments: %s", out)
	}
}

func TestStatsLineRemainingNeverNegative(t *testing.T) {
	snap := engine.Snapshot{Mode: model.ModeTimed, Duration: 15 * time.Second}
	out := statsLine(snap, 20*time.Second)
	if !strings.Contains(out, "Remaining 0.0 s") {
		t.Fatalf("expected clamped remaining time: %s", out)
	}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}
