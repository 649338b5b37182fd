package store

import (
	"sort"
	"time"

	"github.com/smartgolf/smartgolf-api/internal/models"
)

// dateLayouts are the formats the web client has sent over time.
var dateLayouts = []string{"2006-01-02", "1/2/2006", time.RFC3339}

// ParseScoreDate parses a round date; ok is false for unrecognised formats.
func ParseScoreDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// NewestFirst sorts rounds by date, newest first, and truncates to limit (0 = no limit).
// Unparseable dates sort last; ties keep ScoreID order so results are stable.
func NewestFirst(scores []models.Score, limit int) []models.Score {
	sort.SliceStable(scores, func(i, j int) bool {
		ti, oki := ParseScoreDate(scores[i].Date)
		tj, okj := ParseScoreDate(scores[j].Date)
		switch {
		case oki != okj:
			return oki
		case !ti.Equal(tj):
			return ti.After(tj)
		default:
			return scores[i].ScoreID < scores[j].ScoreID
		}
	})
	if limit > 0 && len(scores) > limit {
		scores = scores[:limit]
	}
	return scores
}
