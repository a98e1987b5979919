package brackets

import (
	"errors"
	"fmt"
	"math/bits"
)

var (
	ErrNonPositiveMatchCount = errors.New("opening match count must be positive")
	ErrNotPowerOfTwo         = errors.New("opening match count must be a power of two")
)

// BracketRound describes one column of a double-elimination path:
// round r holds openingMatchCount / 2^r matches. The same shape applies
// to the winners path and the losers path independently.
type BracketRound struct {
	RoundIndex int `json:"round_index"`
	MatchCount int `json:"match_count"`
}

// ComputeRounds derives the per-round match counts that follow an
// opening round of openingMatchCount matches, halving each round until a
// single match remains. The survivors of the last winners-path round and
// the last losers-path round feed the grand final; an eventual reset
// match is triggered externally and has no shape here.
//
// One opening match already is the final pairing, so it yields no
// subsequent rounds. Non-positive or non-power-of-two inputs are caller
// errors and are rejected.
func ComputeRounds(openingMatchCount int) ([]BracketRound, error) {
	if openingMatchCount <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrNonPositiveMatchCount, openingMatchCount)
	}
	if openingMatchCount&(openingMatchCount-1) != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrNotPowerOfTwo, openingMatchCount)
	}

	roundCount := bits.Len(uint(openingMatchCount)) - 1 // log2 for powers of two
	rounds := make([]BracketRound, 0, roundCount)
	for r := 1; r <= roundCount; r++ {
		rounds = append(rounds, BracketRound{
			RoundIndex: r,
			MatchCount: openingMatchCount >> r,
		})
	}
	return rounds, nil
}
