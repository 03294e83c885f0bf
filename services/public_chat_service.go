package services

import (
	"context"
	"fmt"
	"time"

	"samaj_server/models"

	"github.com/google/uuid"
)

// PublicChatService is the degenerate single-room case of the chat contract:
// no match gating, any registered user posts and reads, clients poll it
// continuously while the screen is open.
type PublicChatService struct {
	Store Store
}

// defaultPublicLimit bounds a room fetch; the screen only renders the tail.
const defaultPublicLimit = 100

// Send appends a message to the shared room.
func (s *PublicChatService) Send(ctx context.Context, userPhone, text string) (*models.PublicMessage, error) {
	if userPhone == "" {
		return nil, fmt.Errorf("%w: user_phone is required", ErrEmptyMessage)
	}
	if text == "" {
		return nil, ErrEmptyMessage
	}

	msg := &models.PublicMessage{
		ID:        uuid.NewString(),
		UserPhone: userPhone,
		Message:   text,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if profile, err := s.Store.GetProfile(ctx, userPhone); err == nil {
		msg.UserName = profile.FullName
	}

	return s.Store.AppendPublicMessage(ctx, msg)
}

// List returns the newest messages of the room, oldest first.
func (s *PublicChatService) List(ctx context.Context, limit int) ([]models.PublicMessage, error) {
	if limit <= 0 {
		limit = defaultPublicLimit
	}
	return s.Store.ListPublicMessages(ctx, limit)
}
