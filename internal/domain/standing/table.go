package standing

import (
	"sort"
	"time"

	"github.com/adyatma/scorewire/internal/domain/match"
)

// BuildTable folds a set of finalized matches into a full table for the
// given roster. Matches are processed in kickoff order so that the form list
// reads as the genuine last five results; every cumulative counter is
// order-independent. Teams that appear in matches but not in the roster are
// skipped on purpose: the roster is the authority on league membership.
func BuildTable(leagueID, season string, teamIDs []string, matches []match.Match, now time.Time) []Record {
	records := make(map[string]*Record, len(teamIDs))
	order := make([]string, 0, len(teamIDs))
	for _, teamID := range teamIDs {
		if _, ok := records[teamID]; ok {
			continue
		}
		rec := NewRecord(leagueID, season, teamID, now)
		records[teamID] = &rec
		order = append(order, teamID)
	}

	sorted := make([]match.Match, len(matches))
	copy(sorted, matches)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].KickoffAt.Before(sorted[j].KickoffAt)
	})

	for _, m := range sorted {
		if match.NormalizeStatus(m.Status) != match.StatusEnded {
			continue
		}
		if home, ok := records[m.HomeTeamID]; ok {
			ApplyResult(home, m.HomeScore, m.AwayScore, now)
		}
		if away, ok := records[m.AwayTeamID]; ok {
			ApplyResult(away, m.AwayScore, m.HomeScore, now)
		}
	}

	out := make([]Record, 0, len(order))
	for _, teamID := range order {
		out = append(out, *records[teamID])
	}

	return Rank(out)
}

// Rank sorts a table by the documented total order and assigns positions
// 1..N. Order: points desc, goal difference desc, goals for desc, then team
// ID asc as the final deterministic tie-break.
func Rank(records []Record) []Record {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDifference() != b.GoalDifference() {
			return a.GoalDifference() > b.GoalDifference()
		}
		if a.GoalsFor != b.GoalsFor {
			return a.GoalsFor > b.GoalsFor
		}
		return a.TeamID < b.TeamID
	})

	for idx := range records {
		records[idx].Position = idx + 1
	}

	return records
}
