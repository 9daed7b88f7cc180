package ranking

import (
	"math"

	"github.com/samber/lo"
	"github.com/tidwall/gjson"

	"github.com/verte-zerg/typetest/internal/model"
)

// SanitizeResult type-checks and range-checks a raw JSON result. Records that
// fail any check are dropped, never partially repaired.
func SanitizeResult(v gjson.Result) (model.Result, bool) {
	if !v.IsObject() {
		return model.Result{}, false
	}
	mode := model.Mode(stringField(v, "mode"))
	if !mode.Valid() {
		return model.Result{}, false
	}
	level := model.Level(stringField(v, "level"))
	if !level.Valid() {
		return model.Result{}, false
	}

	timeMs, ok := boundedField(v, "timeMs", maxSafeInteger)
	if !ok {
		return model.Result{}, false
	}
	wpm, ok := numberField(v, "wpm")
	if !ok {
		return model.Result{}, false
	}
	accuracy, ok := numberField(v, "accuracy")
	if !ok {
		return model.Result{}, false
	}
	errs, ok := boundedField(v, "errors", math.MaxInt32)
	if !ok {
		return model.Result{}, false
	}
	finished, ok := boundedField(v, "finishedAtEpochMs", maxSafeInteger)
	if !ok {
		return model.Result{}, false
	}

	r := model.Result{
		Mode:              mode,
		Level:             level,
		TimeMs:            int64(math.Max(0, math.Round(timeMs))),
		WPM:               math.Max(0, wpm),
		Accuracy:          lo.Clamp(accuracy, 0, 100),
		Errors:            int(math.Max(0, math.Round(errs))),
		FinishedAtEpochMs: int64(math.Max(0, math.Round(finished))),
	}
	if mode == model.ModeTimed {
		duration, ok := boundedField(v, "durationSec", math.MaxInt32)
		if !ok {
			return model.Result{}, false
		}
		d := int(math.Round(duration))
		if !lo.Contains(model.Durations, d) {
			return model.Result{}, false
		}
		r.DurationSec = &d
	}
	return r, true
}

// SanitizeLeaderboard keeps every category whose entries survive
// sanitization, re-sorted and truncated under the category's policy.
// Entries that do not belong to the category they are filed under are
// dropped.
func SanitizeLeaderboard(v gjson.Result) Leaderboard {
	out := Leaderboard{}
	if !v.IsObject() {
		return out
	}
	v.ForEach(func(key, raw gjson.Result) bool {
		if !raw.IsArray() {
			return true
		}
		mode, ok := ModeOfKey(key.String())
		if !ok {
			return true
		}
		cleaned := []model.Result{}
		raw.ForEach(func(_, item gjson.Result) bool {
			if r, ok := SanitizeResult(item); ok && KeyOf(r) == key.String() {
				cleaned = append(cleaned, r)
			}
			return true
		})
		if len(cleaned) == 0 {
			return true
		}
		Sort(mode, cleaned)
		if len(cleaned) > LeaderboardEntries {
			cleaned = cleaned[:LeaderboardEntries]
		}
		out[key.String()] = cleaned
		return true
	})
	return out
}

// SanitizeHistory keeps valid entries in their original order, truncated.
func SanitizeHistory(v gjson.Result) []model.Result {
	if !v.IsArray() {
		return []model.Result{}
	}
	items := v.Array()
	results := lo.FilterMap(items, func(item gjson.Result, _ int) (model.Result, bool) {
		return SanitizeResult(item)
	})
	if len(results) > HistoryEntries {
		results = results[:HistoryEntries]
	}
	return results
}

// maxSafeInteger is the largest integer a JSON number holds exactly.
const maxSafeInteger = 1 << 53

func stringField(v gjson.Result, name string) string {
	f := v.Get(name)
	if f.Type != gjson.String {
		return ""
	}
	return f.Str
}

func numberField(v gjson.Result, name string) (float64, bool) {
	f := v.Get(name)
	if f.Type != gjson.Number {
		return 0, false
	}
	if math.IsNaN(f.Num) || math.IsInf(f.Num, 0) {
		return 0, false
	}
	return f.Num, true
}

// boundedField reads a number whose rounded magnitude must not exceed limit,
// so that converting it to an integer cannot overflow.
func boundedField(v gjson.Result, name string, limit float64) (float64, bool) {
	n, ok := numberField(v, name)
	if !ok || math.Abs(math.Round(n)) > limit {
		return 0, false
	}
	return n, true
}
