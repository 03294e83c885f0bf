package sync

import (
	"context"
	"log"
	stdsync "sync"
	"time"

	"samaj_server/models"
	"samaj_server/services"

	"github.com/google/uuid"
)

// Poll intervals observed by the screens: an open match chat refetches every
// 3s, the shared room every 2s.
const (
	DefaultMatchInterval = 3 * time.Second
	DefaultRoomInterval  = 2 * time.Second

	// maxBackoff caps the failure backoff; a recovered poll returns to the
	// normal interval immediately.
	maxBackoff = 30 * time.Second
)

// Synchronizer keeps one open match chat reconciled with the server. Each
// poll refetches the full log and replaces the local view; optimistic sends
// ride along under their client key until the server record shows up, then
// are discarded. After every fetch, own unflagged received messages get
// fire-and-forget delivered/seen marks; a failed mark self-heals on the next
// poll because the flags are read fresh every time.
type Synchronizer struct {
	Client   *Client
	Self     string
	MatchID  string
	Interval time.Duration

	// OnUpdate, when set, receives the merged view after each successful
	// poll. Called outside the internal lock.
	OnUpdate func([]models.Message)

	mu       stdsync.Mutex
	pending  map[string]models.Message // client key -> optimistic entry
	messages []models.Message
}

func NewSynchronizer(client *Client, self, matchID string) *Synchronizer {
	return &Synchronizer{
		Client:   client,
		Self:     self,
		MatchID:  matchID,
		Interval: DefaultMatchInterval,
		pending:  make(map[string]models.Message),
	}
}

// Run polls until ctx is cancelled. Cancelling is the view-exit teardown: the
// timer is stopped and any response still in flight is discarded, never
// applied to the view. Consecutive failures back off exponentially up to
// maxBackoff.
func (s *Synchronizer) Run(ctx context.Context) {
	interval := s.Interval
	if interval <= 0 {
		interval = DefaultMatchInterval
	}

	wait := interval
	timer := time.NewTimer(0) // first poll immediately
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		if err := s.poll(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("Poll failed for match %s: %v", s.MatchID, err)
			wait *= 2
			if wait > maxBackoff {
				wait = maxBackoff
			}
		} else {
			wait = interval
		}
		timer.Reset(wait)
	}
}

func (s *Synchronizer) poll(ctx context.Context) error {
	msgs, err := s.Client.Messages(ctx, s.MatchID, s.Self)
	if err != nil {
		return err
	}
	// The view may have been closed while the request was in flight.
	if ctx.Err() != nil {
		return ctx.Err()
	}

	merged := s.applyServerView(msgs)
	if s.OnUpdate != nil {
		s.OnUpdate(merged)
	}

	var toDeliver, toSee []string
	for _, m := range msgs {
		if m.ReceiverID != s.Self {
			continue
		}
		if !m.Delivered {
			toDeliver = append(toDeliver, m.ID)
		}
		if !m.Seen {
			toSee = append(toSee, m.ID)
		}
	}
	if len(toDeliver) > 0 {
		if err := s.Client.MarkDelivered(ctx, toDeliver); err != nil {
			log.Printf("Failed to mark delivered: %v", err)
		}
	}
	if len(toSee) > 0 {
		if err := s.Client.MarkSeen(ctx, toSee); err != nil {
			log.Printf("Failed to mark seen: %v", err)
		}
	}
	return nil
}

// applyServerView replaces the local view with the server log, folding in
// optimistic entries the server has not acknowledged yet and dropping the
// ones it has (exact client-key correlation, no timestamp heuristics).
func (s *Synchronizer) applyServerView(msgs []models.Message) []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range msgs {
		if m.ClientKey != "" {
			delete(s.pending, m.ClientKey)
		}
	}

	merged := make([]models.Message, len(msgs), len(msgs)+len(s.pending))
	copy(merged, msgs)
	for _, p := range s.pending {
		merged = append(merged, p)
	}
	s.messages = merged
	return merged
}

// Send posts a message with a fresh client key, keeping an optimistic entry
// in the view until the server record arrives. The key makes retries exact:
// a resend after a lost response cannot duplicate the message.
func (s *Synchronizer) Send(ctx context.Context, text, imageURL, audioURL string) (*models.Message, error) {
	key := uuid.NewString()

	optimistic := models.Message{
		ID:        "local-" + key,
		MatchID:   s.MatchID,
		SenderID:  s.Self,
		Message:   text,
		ImageURL:  imageURL,
		AudioURL:  audioURL,
		ClientKey: key,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	s.mu.Lock()
	s.pending[key] = optimistic
	s.messages = append(s.messages, optimistic)
	s.mu.Unlock()

	stored, err := s.Client.SendMessage(ctx, services.SendMessageInput{
		MatchID:   s.MatchID,
		SenderID:  s.Self,
		Message:   text,
		ImageURL:  imageURL,
		AudioURL:  audioURL,
		ClientKey: key,
	})
	if err != nil {
		s.mu.Lock()
		delete(s.pending, key)
		s.mu.Unlock()
		return nil, err
	}

	s.mu.Lock()
	delete(s.pending, key)
	s.mu.Unlock()
	return stored, nil
}

// Snapshot returns the current merged view.
func (s *Synchronizer) Snapshot() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// RoomSynchronizer polls the shared community room while its screen is open.
// Same teardown rules as the match synchronizer.
type RoomSynchronizer struct {
	Client   *Client
	Interval time.Duration
	Limit    int

	OnUpdate func([]models.PublicMessage)
}

func NewRoomSynchronizer(client *Client) *RoomSynchronizer {
	return &RoomSynchronizer{Client: client, Interval: DefaultRoomInterval}
}

// Run polls until ctx is cancelled.
func (r *RoomSynchronizer) Run(ctx context.Context) {
	interval := r.Interval
	if interval <= 0 {
		interval = DefaultRoomInterval
	}

	wait := interval
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		msgs, err := r.Client.PublicMessages(ctx, r.Limit)
		switch {
		case ctx.Err() != nil:
			return
		case err != nil:
			log.Printf("Public room poll failed: %v", err)
			wait *= 2
			if wait > maxBackoff {
				wait = maxBackoff
			}
		default:
			wait = interval
			if r.OnUpdate != nil {
				r.OnUpdate(msgs)
			}
		}
		timer.Reset(wait)
	}
}
