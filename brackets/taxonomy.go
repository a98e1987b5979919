package brackets

import (
	"sort"

	"github.com/masters-arena/arena-server/models"
)

// StageFilter narrows a Classify call. Stage is required; Round and
// GroupID apply only when non-nil.
type StageFilter struct {
	Stage   models.Stage
	Round   *int
	GroupID *int
}

// RoundGroup is one bucket produced by GroupByRound.
type RoundGroup struct {
	Round   int
	Matches []models.Match
}

// StagesForFormat returns the stage vocabulary a tournament format
// implies. The knockout vocabulary and the double-elimination vocabulary
// are disjoint and must never be mixed within one tournament.
func StagesForFormat(format models.Format) []models.Stage {
	switch format {
	case models.FormatDoubleElimination:
		return []models.Stage{
			models.StageOpeningRound,
			models.StageWinnersBracket,
			models.StageLosersBracket,
			models.StageGrandFinal,
			models.StageGrandFinalReset,
		}
	default:
		return []models.Stage{
			models.StageGroup,
			models.StageQuarter,
			models.StageSemi,
			models.StageFinal,
			models.StageThirdPlace,
		}
	}
}

// StageAllowed reports whether stage belongs to the vocabulary of the
// given format.
func StageAllowed(format models.Format, stage models.Stage) bool {
	for _, s := range StagesForFormat(format) {
		if s == stage {
			return true
		}
	}
	return false
}

// Classify returns exactly the matches whose stage (and, when supplied,
// round and group) fields satisfy the filter, preserving input order.
func Classify(matches []models.Match, filter StageFilter) []models.Match {
	out := make([]models.Match, 0)
	for _, m := range matches {
		if m.Stage != filter.Stage {
			continue
		}
		if filter.Round != nil && m.Round != *filter.Round {
			continue
		}
		if filter.GroupID != nil {
			if m.GroupID == nil || *m.GroupID != *filter.GroupID {
				continue
			}
		}
		out = append(out, m)
	}
	return out
}

// GroupByRound buckets matches by their round field, returning buckets
// in ascending numeric round order. Within a bucket, input order is
// preserved. Used where a flat list must be presented as columns.
func GroupByRound(matches []models.Match) []RoundGroup {
	byRound := make(map[int][]models.Match)
	for _, m := range matches {
		byRound[m.Round] = append(byRound[m.Round], m)
	}

	rounds := make([]int, 0, len(byRound))
	for r := range byRound {
		rounds = append(rounds, r)
	}
	sort.Ints(rounds)

	groups := make([]RoundGroup, 0, len(rounds))
	for _, r := range rounds {
		groups = append(groups, RoundGroup{Round: r, Matches: byRound[r]})
	}
	return groups
}
