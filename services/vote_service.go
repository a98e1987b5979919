package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/masters-arena/arena-server/models"
	"github.com/masters-arena/arena-server/repositories"
)

// VoteService records spectator predictions. Voting closes once a
// match's result is in.
type VoteService interface {
	Cast(ctx context.Context, userID, matchID int, prediction models.VoteOption) (*models.MatchVote, error)
	Tally(ctx context.Context, matchID int) (*models.VoteTally, error)
	// VoteOf returns the caller's own vote on the match, nil when they
	// have not voted.
	VoteOf(ctx context.Context, userID, matchID int) (*models.MatchVote, error)
}

type voteService struct {
	voteRepo  repositories.VoteRepository
	matchRepo repositories.MatchRepository
}

func NewVoteService(voteRepo repositories.VoteRepository, matchRepo repositories.MatchRepository) VoteService {
	return &voteService{voteRepo: voteRepo, matchRepo: matchRepo}
}

func (s *voteService) Cast(ctx context.Context, userID, matchID int, prediction models.VoteOption) (*models.MatchVote, error) {
	if !prediction.Valid() {
		return nil, ErrInvalidVoteOption
	}

	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to find match: %w", err)
	}
	if match.Played {
		return nil, ErrMatchAlreadyPlayed
	}

	existing, err := s.voteRepo.GetByMatchAndUser(ctx, matchID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing vote: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadyVoted
	}

	vote := &models.MatchVote{
		MatchID:         matchID,
		UserID:          userID,
		PredictedWinner: prediction,
	}
	if err := s.voteRepo.Create(ctx, vote); err != nil {
		// The unique index is the authority; the pre-check only makes
		// the common path cheap.
		if errors.Is(err, repositories.ErrVoteConflict) {
			return nil, ErrAlreadyVoted
		}
		return nil, fmt.Errorf("failed to record vote: %w", err)
	}
	return vote, nil
}

func (s *voteService) Tally(ctx context.Context, matchID int) (*models.VoteTally, error) {
	tally, err := s.voteRepo.Tally(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to tally votes: %w", err)
	}
	return tally, nil
}

func (s *voteService) VoteOf(ctx context.Context, userID, matchID int) (*models.MatchVote, error) {
	vote, err := s.voteRepo.GetByMatchAndUser(ctx, matchID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find vote: %w", err)
	}
	return vote, nil
}
