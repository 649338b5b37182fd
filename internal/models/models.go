// Package models defines the records the Smart Golf functions read and write.
// The same structs travel three ways: as JSON in request/response bodies, as DynamoDB
// items (via `dynamodbav` tags or custom marshalers) and, through the postgres store's
// row types, as relational rows.
//
// The data model is intentionally flat:
//   - a Course is created once per external course id and never updated
//   - a Score is one submitted round: 18 holes for one user on one date
//   - a UserProfile holds a user's name, email and play preferences
//   - a FeatureFlag is a toggle scoped to an environment ("dev", "prod", ...)
package models

// HoleCount is the number of holes on a scorecard. Nine-hole rounds are not supported.
const HoleCount = 18

// Course is a golf course known to the app.
// CourseID is our internal UUID; ExternalCourseID is the id used by the external course API.
// CourseData holds the full document fetched from that API (holes, tees, ratings), kept as
// an opaque nested map because the app only ever passes it through to the client.
type Course struct {
	CourseID         string         `json:"courseID" dynamodbav:"courseID"`
	ExternalCourseID string         `json:"externalCourseID" dynamodbav:"externalCourseID"`
	CourseName       string         `json:"courseName" dynamodbav:"courseName"`
	CourseData       map[string]any `json:"course_data,omitempty" dynamodbav:"course_data,omitempty"`
}

// CourseSummary is the projection returned by course search, without the nested course document.
type CourseSummary struct {
	CourseID         string `json:"courseID" dynamodbav:"courseID"`
	ExternalCourseID string `json:"externalCourseID" dynamodbav:"externalCourseID"`
	CourseName       string `json:"courseName" dynamodbav:"courseName"`
}

// HoleScore is one hole of a submitted round.
// Putts and Par are optional: older clients only send strokes.
type HoleScore struct {
	Strokes int  `json:"strokes"`
	Putts   *int `json:"putts,omitempty"`
	Par     *int `json:"par,omitempty"`
}

// Score is one submitted round, keyed by UserID (partition) and ScoreID (sort).
// Its wire and storage form is flat (Hole1Score, Hole1Putts, Hole1Par, ...); see score.go.
type Score struct {
	UserID   string
	ScoreID  string
	CourseID string
	Date     string // As sent by the client, e.g. "2025-02-25"
	Holes    [HoleCount]HoleScore
}

// Scoring styles and tee boxes applied when a profile omits them.
const (
	DefaultScoringType = "Normal Scoring"
	DefaultTeeBox      = "Championship Back"
)

// UserProfile is keyed by the Cognito subject of the user.
type UserProfile struct {
	UserID      string `json:"userID" dynamodbav:"userID"`
	FirstName   string `json:"firstName" dynamodbav:"firstName"`
	LastName    string `json:"lastName" dynamodbav:"lastName"`
	Email       string `json:"email" dynamodbav:"email"`
	HomeCourse  string `json:"homeCourse" dynamodbav:"homeCourse"`
	ScoringType string `json:"scoringType" dynamodbav:"scoringType"`
	TeeBox      string `json:"teeBox" dynamodbav:"teeBox"`
}

// FeatureFlag is a single toggle stored for one environment. Config is opaque: usually
// an object, but any JSON value is passed through to clients unchanged.
type FeatureFlag struct {
	Environment string `json:"environment" dynamodbav:"environment"`
	FlagName    string `json:"flagname" dynamodbav:"flagname"`
	IsEnabled   bool   `json:"isEnabled" dynamodbav:"isEnabled"`
	Config      any    `json:"config" dynamodbav:"config"`
}

// FlagState is what clients receive per flag name.
type FlagState struct {
	IsEnabled bool `json:"isEnabled"`
	Config    any  `json:"config"`
}

// FlagSet maps flag names to their state for one environment.
type FlagSet map[string]FlagState

// NewFlagSet folds stored flags into the client-facing map. A missing config becomes
// an empty object so clients never have to null-check it.
func NewFlagSet(flags []FeatureFlag) FlagSet {
	set := make(FlagSet, len(flags))
	for _, f := range flags {
		cfg := f.Config
		if cfg == nil {
			cfg = map[string]any{}
		}
		set[f.FlagName] = FlagState{IsEnabled: f.IsEnabled, Config: cfg}
	}
	return set
}
