package services

import (
	"context"

	"samaj_server/models"
)

// Store is the persistence boundary shared by every domain service. Two
// implementations exist: DynamoStore for production and MemoryStore for
// development and tests (STORE=memory). The atomic primitives live here so
// either backend can honor them its own way — conditional writes on
// DynamoDB, a mutex in memory.
type Store interface {
	ProfileStore
	RequestStore
	MatchStore
	MessageStore
	PublicChatStore
}

type ProfileStore interface {
	PutProfile(ctx context.Context, profile models.UserProfile) error
	GetProfile(ctx context.Context, phone string) (*models.UserProfile, error)
	ListProfiles(ctx context.Context) ([]models.UserProfile, error)
}

type RequestStore interface {
	// PutRequest persists a new pending request. It fails with
	// ErrDuplicateRequest when an active (pending or accepted) request
	// already exists for the unordered pair.
	PutRequest(ctx context.Context, req models.MatchRequest) error
	GetRequest(ctx context.Context, id string) (*models.MatchRequest, error)
	// ResolveRequest transitions a pending request to accepted/rejected.
	// First writer wins; a later call gets ErrAlreadyResolved.
	ResolveRequest(ctx context.Context, id, status string) (*models.MatchRequest, error)
	// ReleasePair clears the active-pair guard after a reject so a fresh
	// request between the same users is allowed again.
	ReleasePair(ctx context.Context, userA, userB string) error
	ListRequestsTo(ctx context.Context, user string) ([]models.MatchRequest, error)
	ListRequestsFrom(ctx context.Context, user string) ([]models.MatchRequest, error)
}

type MatchStore interface {
	PutMatch(ctx context.Context, match models.Match) error
	GetMatch(ctx context.Context, matchID string) (*models.Match, error)
	GetMatchByPair(ctx context.Context, userA, userB string) (*models.Match, error)
	ListMatchesForUser(ctx context.Context, user string) ([]models.Match, error)
}

type MessageStore interface {
	// AppendMessage assigns the per-match sequence number and persists the
	// message. When msg.ClientKey matches an already-stored message of the
	// same match, that message is returned instead of appending a duplicate.
	AppendMessage(ctx context.Context, msg *models.Message) (*models.Message, error)
	// ListMessages returns the full log ascending by sequence. The order is
	// total and stable across calls.
	ListMessages(ctx context.Context, matchID string) ([]models.Message, error)
	LatestMessage(ctx context.Context, matchID string) (*models.Message, error)
	// SetDelivered / SetSeen flip the monotonic flags. Unknown ids and
	// already-set flags are no-ops, never errors.
	SetDelivered(ctx context.Context, ids []string) error
	SetSeen(ctx context.Context, ids []string) error
}

type PublicChatStore interface {
	AppendPublicMessage(ctx context.Context, msg *models.PublicMessage) (*models.PublicMessage, error)
	ListPublicMessages(ctx context.Context, limit int) ([]models.PublicMessage, error)
}
