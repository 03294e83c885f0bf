package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"samaj_server/models"

	"github.com/google/uuid"
)

// RequestService owns the interest-request lifecycle: send, accept/reject,
// and the incoming/outgoing inbox views.
type RequestService struct {
	Store Store
}

// SendRequest creates a pending request from -> to. At most one active
// (pending or accepted) request may exist per unordered pair; a rejected
// request releases the pair again.
func (s *RequestService) SendRequest(ctx context.Context, from, to string) (string, error) {
	if from == "" || to == "" {
		return "", fmt.Errorf("%w: from_user_id and to_user_id are required", ErrEmptyMessage)
	}
	if from == to {
		return "", ErrSelfRequest
	}

	req := models.MatchRequest{
		ID:         uuid.NewString(),
		FromUserID: from,
		ToUserID:   to,
		Status:     models.RequestStatusPending,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
	}

	if err := s.Store.PutRequest(ctx, req); err != nil {
		return "", err
	}

	log.Printf("Request sent: %s -> %s (%s)", from, to, req.ID)
	return req.ID, nil
}

// Respond resolves a pending request. Only the to_user_id party may act, and
// only once: concurrent accepts race on the store's pending->terminal
// transition, the loser gets ErrAlreadyResolved and no second match is ever
// created.
func (s *RequestService) Respond(ctx context.Context, requestID, responder, action string) (*models.Match, error) {
	req, err := s.Store.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if responder != req.ToUserID {
		return nil, ErrNotAuthorized
	}

	var status string
	switch action {
	case models.RequestActionAccept:
		status = models.RequestStatusAccepted
	case models.RequestActionReject:
		status = models.RequestStatusRejected
	default:
		return nil, fmt.Errorf("unknown action %q", action)
	}

	resolved, err := s.Store.ResolveRequest(ctx, requestID, status)
	if err != nil {
		return nil, err
	}

	if status == models.RequestStatusRejected {
		// Free the pair so a fresh request between the same users is allowed.
		if err := s.Store.ReleasePair(ctx, resolved.FromUserID, resolved.ToUserID); err != nil {
			log.Printf("Failed to release pair after reject: %v", err)
		}
		log.Printf("Request %s rejected by %s", requestID, responder)
		return nil, nil
	}

	match := models.Match{
		PairKey:   models.PairKey(resolved.FromUserID, resolved.ToUserID),
		MatchID:   uuid.NewString(),
		User1:     resolved.FromUserID,
		User2:     resolved.ToUserID,
		Status:    models.MatchStatusActive,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.Store.PutMatch(ctx, match); err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}

	log.Printf("Match created: %s <-> %s (%s)", match.User1, match.User2, match.MatchID)
	return &match, nil
}

// ListIncoming returns requests addressed to user, newest first.
func (s *RequestService) ListIncoming(ctx context.Context, user string) ([]models.MatchRequest, error) {
	return s.Store.ListRequestsTo(ctx, user)
}

// ListOutgoing returns requests sent by user, newest first.
func (s *RequestService) ListOutgoing(ctx context.Context, user string) ([]models.MatchRequest, error) {
	return s.Store.ListRequestsFrom(ctx, user)
}
