package services

import (
	"context"
	"errors"

	"samaj_server/models"
)

// MatchService answers match-status queries. Reads only; clients poll
// CheckMatch on every profile-detail view so it must stay side-effect free.
type MatchService struct {
	Store Store
}

// MatchStatus is the check-match answer. MatchID is empty when Matched is
// false.
type MatchStatus struct {
	Matched bool   `json:"matched"`
	MatchID string `json:"match_id,omitempty"`
}

// CheckMatch reports whether a match exists for the unordered pair.
func (s *MatchService) CheckMatch(ctx context.Context, userA, userB string) (MatchStatus, error) {
	match, err := s.Store.GetMatchByPair(ctx, userA, userB)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return MatchStatus{Matched: false}, nil
		}
		return MatchStatus{}, err
	}
	return MatchStatus{Matched: true, MatchID: match.MatchID}, nil
}

// MatchesForUser returns every match the user participates in, newest first.
func (s *MatchService) MatchesForUser(ctx context.Context, user string) ([]models.Match, error) {
	return s.Store.ListMatchesForUser(ctx, user)
}
