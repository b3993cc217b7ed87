package standing

import (
	"time"
)

const (
	OutcomeWin  = "W"
	OutcomeDraw = "D"
	OutcomeLoss = "L"
)

// FormLength caps the "last results" list at the five most recent outcomes.
const FormLength = 5

// Overlay is the reversible contribution of one in-play match to a team's
// record. It exists only while that match is LIVE or HALFTIME and is removed
// exactly once when the match finalizes. Authoritative counters (played,
// won/drawn/lost, form) are never touched by an overlay.
type Overlay struct {
	MatchID      string
	GoalsFor     int
	GoalsAgainst int
	Points       int
}

// Record is a team's cumulative table row within one league and season.
type Record struct {
	LeagueID     string
	Season       string
	TeamID       string
	Position     int
	Played       int
	Won          int
	Drawn        int
	Lost         int
	GoalsFor     int
	GoalsAgainst int
	Points       int
	Form         string
	Live         *Overlay
	UpdatedAt    time.Time
}

// GoalDifference is derived at read time, never stored.
func (r Record) GoalDifference() int {
	return r.GoalsFor - r.GoalsAgainst
}

// NewRecord returns a zeroed row for a team that has not been accounted yet.
func NewRecord(leagueID, season, teamID string, now time.Time) Record {
	return Record{
		LeagueID:  leagueID,
		Season:    season,
		TeamID:    teamID,
		UpdatedAt: now,
	}
}

// PushForm prepends the newest outcome symbol and truncates to FormLength.
func PushForm(form, outcome string) string {
	out := outcome + form
	if len(out) > FormLength {
		out = out[:FormLength]
	}
	return out
}

// ApplyResult folds one finalized scoreline into the record. The caller is
// responsible for never applying the same match twice.
func ApplyResult(rec *Record, goalsFor, goalsAgainst int, now time.Time) {
	rec.Played++
	rec.GoalsFor += goalsFor
	rec.GoalsAgainst += goalsAgainst

	switch {
	case goalsFor > goalsAgainst:
		rec.Won++
		rec.Points += 3
		rec.Form = PushForm(rec.Form, OutcomeWin)
	case goalsFor < goalsAgainst:
		rec.Lost++
		rec.Form = PushForm(rec.Form, OutcomeLoss)
	default:
		rec.Drawn++
		rec.Points++
		rec.Form = PushForm(rec.Form, OutcomeDraw)
	}

	rec.UpdatedAt = now
}

// ProvisionalPoints is the 3/1/0 contribution a scoreline would award if the
// match ended right now.
func ProvisionalPoints(goalsFor, goalsAgainst int) int {
	switch {
	case goalsFor > goalsAgainst:
		return 3
	case goalsFor < goalsAgainst:
		return 0
	default:
		return 1
	}
}

// StripOverlay removes a record's provisional contribution, restoring the
// purely finalized counters. Safe to call when no overlay is present.
func StripOverlay(rec *Record) {
	if rec.Live == nil {
		return
	}
	rec.GoalsFor -= rec.Live.GoalsFor
	rec.GoalsAgainst -= rec.Live.GoalsAgainst
	rec.Points -= rec.Live.Points
	rec.Live = nil
}

// SetOverlay replaces any previous provisional contribution with the given
// one: each live update is a full replace, not an increment, which is what
// keeps the math reversible as the score changes.
func SetOverlay(rec *Record, matchID string, goalsFor, goalsAgainst int, now time.Time) {
	StripOverlay(rec)

	points := ProvisionalPoints(goalsFor, goalsAgainst)
	rec.GoalsFor += goalsFor
	rec.GoalsAgainst += goalsAgainst
	rec.Points += points
	rec.Live = &Overlay{
		MatchID:      matchID,
		GoalsFor:     goalsFor,
		GoalsAgainst: goalsAgainst,
		Points:       points,
	}
	rec.UpdatedAt = now
}
