package textpool

import (
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/typetest/internal/model"
)

func TestTimedTargetChars(t *testing.T) {
	cases := []struct {
		duration int
		want     int
	}{
		{duration: 0, want: MinTargetChars},
		{duration: -5, want: MinTargetChars},
		{duration: 15, want: 360},
		{duration: 60, want: 1440},
		{duration: 120, want: 2880},
	}
	for _, tc := range cases {
		if got := TimedTargetChars(tc.duration); got != tc.want {
			t.Fatalf("TimedTargetChars(%d) = %d, want %d", tc.duration, got, tc.want)
		}
	}
}

func TestSentenceComesFromPool(t *testing.T) {
	gen := NewWithSource(rand.NewSource(1))
	for _, level := range model.Levels {
		pool := gen.Pool(level)
		for i := 0; i < 20; i++ {
			s := gen.Sentence(level)
			if !contains(pool, s) {
				t.Fatalf("sentence %q not in %s pool", s, level)
			}
		}
	}
}

func TestUnknownLevelFallsBackToL1(t *testing.T) {
	gen := NewWithSource(rand.NewSource(1))
	if !contains(gen.Pool(model.LevelL1), gen.Sentence("L9")) {
		t.Fatalf("expected L1 fallback for unknown level")
	}
}

func TestBuildTimedReachesMinimumWithSingleSpaces(t *testing.T) {
	gen := NewWithSource(rand.NewSource(7))
	text := gen.BuildTimed(model.LevelL1, 1000)
	if n := len([]rune(text)); n < 1000 {
		t.Fatalf("expected at least 1000 runes, got %d", n)
	}
	if strings.Contains(text, "  ") {
		t.Fatalf("expected no doubled spaces in %q", text)
	}
	if strings.HasPrefix(text, " ") || strings.HasSuffix(text, " ") {
		t.Fatalf("expected no leading or trailing space")
	}
}

func TestAppendChunkJoin(t *testing.T) {
	cases := []struct {
		target string
		chunk  string
		want   string
	}{
		{target: "", chunk: "abc", want: "abc"},
		{target: "abc", chunk: "def", want: "abc def"},
		{target: "abc ", chunk: "def", want: "abc def"},
		{target: "abc", chunk: " def", want: "abc def"},
		{target: "abc", chunk: "", want: "abc"},
	}
	for _, tc := range cases {
		got := string(AppendChunk([]rune(tc.target), tc.chunk))
		if got != tc.want {
			t.Fatalf("AppendChunk(%q, %q) = %q, want %q", tc.target, tc.chunk, got, tc.want)
		}
	}
}

func TestEnsureBufferIsPureExtension(t *testing.T) {
	gen := NewWithSource(rand.NewSource(3))
	original := []rune("hola mundo")
	prefix := string(original)

	grown := gen.EnsureBuffer(model.LevelL1, append([]rune(nil), original...), 5)
	if !strings.HasPrefix(string(grown), prefix) {
		t.Fatalf("expected buffer growth to preserve prefix %q", prefix)
	}
	if len(grown)-5 < MinBufferChars {
		t.Fatalf("expected at least %d remaining runes, got %d", MinBufferChars, len(grown)-5)
	}

	same := gen.EnsureBuffer(model.LevelL1, grown, 0)
	if len(same) != len(grown) {
		t.Fatalf("expected no growth when buffer is sufficient")
	}
}

func TestLoadPoolFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pool.txt")
	content := "# custom\n[L2]\nuno dos tres\n\ncuatro cinco\n[L3]\nseis\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write pool: %v", err)
	}
	pools, err := LoadPoolFile(path)
	if err != nil {
		t.Fatalf("load pool: %v", err)
	}
	if len(pools[model.LevelL2]) != 2 || len(pools[model.LevelL3]) != 1 {
		t.Fatalf("unexpected pools: %+v", pools)
	}

	gen := NewWithSource(rand.NewSource(1))
	gen.Override(pools)
	if s := gen.Sentence(model.LevelL3); s != "seis" {
		t.Fatalf("expected overridden L3 sentence, got %q", s)
	}
	if len(gen.Pool(model.LevelL1)) != len(builtinPools[model.LevelL1]) {
		t.Fatalf("expected L1 pool untouched")
	}
}

func TestLoadPoolFileErrors(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"unknown.txt": "[L7]\nhola\n",
		"orphan.txt":  "hola\n",
		"empty.txt":   "# nothing\n",
	}
	for name, content := range cases {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		if _, err := LoadPoolFile(path); err == nil {
			t.Fatalf("expected error for %s", name)
		}
	}
}

func contains(pool []string, s string) bool {
	for _, p := range pool {
		if p == s {
			return true
		}
	}
	return false
}
