package scorecard

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/smartgolf/smartgolf-api/internal/models"
)

var holeNumber = regexp.MustCompile(`\d+`)

// ParseHoleScores extracts per-hole strokes from the model's reply. The reply is
// expected to hold a JSON object, possibly inside a markdown code fence, keyed by hole
// ("1", "Hole 1", "hole_1", "Hole1Score", ...). Keys are normalized to HoleNScore. Holes
// the model marked unknown, or whose value is not a whole number, are left out. ok is
// false when no hole could be read.
func ParseHoleScores(reply string) (scores map[string]int, ok bool) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end <= start {
		return nil, false
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(reply[start:end+1]), &raw); err != nil {
		return nil, false
	}

	scores = make(map[string]int)
	for key, v := range raw {
		hole, err := strconv.Atoi(holeNumber.FindString(key))
		if err != nil || hole < 1 || hole > models.HoleCount {
			continue
		}
		if strokes, ok := strokesOf(v); ok {
			scores[models.HoleScoreKey(hole)] = strokes
		}
	}
	if len(scores) == 0 {
		return nil, false
	}
	return scores, true
}

func strokesOf(v any) (int, bool) {
	switch v := v.(type) {
	case float64:
		if v != math.Trunc(v) || v < 1 {
			return 0, false
		}
		return int(v), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n < 1 {
			return 0, false
		}
		return n, true
	}
	return 0, false
}
