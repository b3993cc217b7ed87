package match

import (
	"fmt"
	"strings"
	"time"
)

const (
	StatusNotStarted = "NOT_STARTED"
	StatusLive       = "LIVE"
	StatusHalftime   = "HALFTIME"
	StatusEnded      = "ENDED"
	StatusPostponed  = "POSTPONED"
	StatusCanceled   = "CANCELED"
)

const (
	EventGoal         = "GOAL"
	EventOwnGoal      = "OWN_GOAL"
	EventPenaltyGoal  = "PENALTY_GOAL"
	EventYellowCard   = "YELLOW_CARD"
	EventRedCard      = "RED_CARD"
	EventSubstitution = "SUBSTITUTION"
)

// Match is one scheduled or played fixture between two teams.
type Match struct {
	ID         string
	LeagueID   string
	Season     string
	HomeTeamID string
	AwayTeamID string
	HomeScore  int
	AwayScore  int
	Status     string
	KickoffAt  time.Time
	FinishedAt *time.Time
}

// Event is a timeline entry recorded while a match is in play.
type Event struct {
	ID         string
	MatchID    string
	TeamID     string
	Type       string
	Minute     int
	PlayerName string
	RecordedAt time.Time
}

func (m Match) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("match id is required")
	}
	if m.LeagueID == "" {
		return fmt.Errorf("match league id is required")
	}
	if m.Season == "" {
		return fmt.Errorf("match season is required")
	}
	if m.HomeTeamID == "" || m.AwayTeamID == "" {
		return fmt.Errorf("match team ids are required")
	}
	if m.HomeTeamID == m.AwayTeamID {
		return fmt.Errorf("match teams must differ")
	}
	if m.HomeScore < 0 || m.AwayScore < 0 {
		return fmt.Errorf("match scores cannot be negative")
	}

	return nil
}

func NormalizeStatus(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	if status == "" {
		return StatusNotStarted
	}
	return status
}

// IsInPlayStatus reports whether live provisional standings apply.
func IsInPlayStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusLive, StatusHalftime:
		return true
	default:
		return false
	}
}

func IsKnownStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusNotStarted, StatusLive, StatusHalftime, StatusEnded, StatusPostponed, StatusCanceled:
		return true
	default:
		return false
	}
}

// CanTransition encodes the one-way match lifecycle. ENDED is terminal:
// a match finalizes at most once.
func CanTransition(from, to string) bool {
	from = NormalizeStatus(from)
	to = NormalizeStatus(to)
	if from == to {
		return false
	}

	switch from {
	case StatusNotStarted:
		return to == StatusLive || to == StatusPostponed || to == StatusCanceled
	case StatusLive:
		return to == StatusHalftime || to == StatusEnded || to == StatusCanceled
	case StatusHalftime:
		return to == StatusLive || to == StatusEnded || to == StatusCanceled
	case StatusPostponed:
		return to == StatusNotStarted || to == StatusCanceled
	default:
		return false
	}
}

// IsScoringEvent reports whether an event type changes the scoreline.
func IsScoringEvent(eventType string) bool {
	switch strings.ToUpper(strings.TrimSpace(eventType)) {
	case EventGoal, EventOwnGoal, EventPenaltyGoal:
		return true
	default:
		return false
	}
}

func IsKnownEventType(eventType string) bool {
	switch strings.ToUpper(strings.TrimSpace(eventType)) {
	case EventGoal, EventOwnGoal, EventPenaltyGoal, EventYellowCard, EventRedCard, EventSubstitution:
		return true
	default:
		return false
	}
}
