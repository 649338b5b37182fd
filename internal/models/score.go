package models

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Attribute names of the flat score item. The per-hole names match what the web client
// submits, so a stored item can be sent straight back as JSON.
const (
	AttrUserID   = "userID"
	AttrScoreID  = "scoreID"
	AttrCourseID = "courseID"
	AttrDate     = "Date"
)

// HoleScoreKey returns "Hole{n}Score" for a 1-based hole number.
func HoleScoreKey(hole int) string { return "Hole" + strconv.Itoa(hole) + "Score" }

// HolePuttsKey returns "Hole{n}Putts" for a 1-based hole number.
func HolePuttsKey(hole int) string { return "Hole" + strconv.Itoa(hole) + "Putts" }

// HoleParKey returns "Hole{n}Par" for a 1-based hole number.
func HoleParKey(hole int) string { return "Hole" + strconv.Itoa(hole) + "Par" }

// Total returns the sum of strokes over all holes.
func (s Score) Total() int {
	total := 0
	for _, h := range s.Holes {
		total += h.Strokes
	}
	return total
}

// Flat returns the score as a flat attribute map.
func (s Score) Flat() map[string]any {
	out := map[string]any{
		AttrUserID:  s.UserID,
		AttrScoreID: s.ScoreID,
		AttrDate:    s.Date,
	}
	if s.CourseID != "" {
		out[AttrCourseID] = s.CourseID
	}
	for i, h := range s.Holes {
		out[HoleScoreKey(i+1)] = h.Strokes
		if h.Putts != nil {
			out[HolePuttsKey(i+1)] = *h.Putts
		}
		if h.Par != nil {
			out[HoleParKey(i+1)] = *h.Par
		}
	}
	return out
}

// MarshalJSON writes the flat form.
func (s Score) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Flat())
}

// MarshalDynamoDBAttributeValue implements attributevalue.Marshaler so that
// attributevalue.MarshalMap(score) yields the flat item.
func (s Score) MarshalDynamoDBAttributeValue() (types.AttributeValue, error) {
	item := make(map[string]types.AttributeValue, 4+3*HoleCount)
	for k, v := range s.Flat() {
		switch v := v.(type) {
		case string:
			item[k] = &types.AttributeValueMemberS{Value: v}
		case int:
			item[k] = &types.AttributeValueMemberN{Value: strconv.Itoa(v)}
		}
	}
	return &types.AttributeValueMemberM{Value: item}, nil
}

// UnmarshalDynamoDBAttributeValue implements attributevalue.Unmarshaler.
func (s *Score) UnmarshalDynamoDBAttributeValue(av types.AttributeValue) error {
	m, ok := av.(*types.AttributeValueMemberM)
	if !ok {
		return fmt.Errorf("expected map AttributeValue, got %T", av)
	}
	item := m.Value

	var out Score
	out.UserID = stringAttr(item, AttrUserID)
	out.ScoreID = stringAttr(item, AttrScoreID)
	out.CourseID = stringAttr(item, AttrCourseID)
	out.Date = stringAttr(item, AttrDate)

	for i := range out.Holes {
		hole := i + 1
		strokes, ok, err := intAttr(item, HoleScoreKey(hole))
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("score item %s missing %s", out.ScoreID, HoleScoreKey(hole))
		}
		out.Holes[i].Strokes = strokes

		if putts, ok, err := intAttr(item, HolePuttsKey(hole)); err != nil {
			return err
		} else if ok {
			out.Holes[i].Putts = &putts
		}
		if par, ok, err := intAttr(item, HoleParKey(hole)); err != nil {
			return err
		} else if ok {
			out.Holes[i].Par = &par
		}
	}

	*s = out
	return nil
}

func stringAttr(item map[string]types.AttributeValue, key string) string {
	if v, ok := item[key].(*types.AttributeValueMemberS); ok {
		return v.Value
	}
	return ""
}

// intAttr accepts numbers and numeric strings; early imports stored some holes as strings.
func intAttr(item map[string]types.AttributeValue, key string) (int, bool, error) {
	var raw string
	switch v := item[key].(type) {
	case *types.AttributeValueMemberN:
		raw = v.Value
	case *types.AttributeValueMemberS:
		raw = v.Value
	default:
		return 0, false, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return n, true, nil
}
