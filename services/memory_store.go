package services

import (
	"context"
	"sort"
	"sync"

	"samaj_server/models"
)

// MemoryStore keeps everything behind one mutex. It backs the tests and the
// STORE=memory development mode, and is the reference for the atomicity
// semantics the Dynamo backend implements with conditional writes.
type MemoryStore struct {
	mu sync.Mutex

	profiles    map[string]models.UserProfile
	requests    map[string]*models.MatchRequest
	activePairs map[string]string // pair key -> request id holding the pair
	matchByPair map[string]*models.Match
	matchByID   map[string]*models.Match
	messages    map[string][]*models.Message // match id -> ascending by seq
	messageByID map[string]*models.Message
	clientKeys  map[string]*models.Message // match id + "#" + client key
	public      []*models.PublicMessage
	publicSeq   int64
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles:    make(map[string]models.UserProfile),
		requests:    make(map[string]*models.MatchRequest),
		activePairs: make(map[string]string),
		matchByPair: make(map[string]*models.Match),
		matchByID:   make(map[string]*models.Match),
		messages:    make(map[string][]*models.Message),
		messageByID: make(map[string]*models.Message),
		clientKeys:  make(map[string]*models.Message),
	}
}

func (s *MemoryStore) PutProfile(_ context.Context, profile models.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.Phone] = profile
	return nil
}

func (s *MemoryStore) GetProfile(_ context.Context, phone string) (*models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[phone]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (s *MemoryStore) ListProfiles(_ context.Context) ([]models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.UserProfile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Phone < out[j].Phone })
	return out, nil
}

func (s *MemoryStore) PutRequest(_ context.Context, req models.MatchRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	pair := models.PairKey(req.FromUserID, req.ToUserID)
	if _, taken := s.activePairs[pair]; taken {
		return ErrDuplicateRequest
	}
	r := req
	s.requests[r.ID] = &r
	s.activePairs[pair] = r.ID
	return nil
}

func (s *MemoryStore) GetRequest(_ context.Context, id string) (*models.MatchRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *MemoryStore) ResolveRequest(_ context.Context, id, status string) (*models.MatchRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[id]
	if !ok {
		return nil, ErrNotFound
	}
	if r.Status != models.RequestStatusPending {
		return nil, ErrAlreadyResolved
	}
	r.Status = status
	cp := *r
	return &cp, nil
}

func (s *MemoryStore) ReleasePair(_ context.Context, userA, userB string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.activePairs, models.PairKey(userA, userB))
	return nil
}

func (s *MemoryStore) ListRequestsTo(_ context.Context, user string) ([]models.MatchRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collectRequests(func(r *models.MatchRequest) bool { return r.ToUserID == user }), nil
}

func (s *MemoryStore) ListRequestsFrom(_ context.Context, user string) ([]models.MatchRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collectRequests(func(r *models.MatchRequest) bool { return r.FromUserID == user }), nil
}

// collectRequests returns matching requests newest first. Caller holds the lock.
func (s *MemoryStore) collectRequests(keep func(*models.MatchRequest) bool) []models.MatchRequest {
	out := make([]models.MatchRequest, 0)
	for _, r := range s.requests {
		if keep(r) {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt > out[j].CreatedAt
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (s *MemoryStore) PutMatch(_ context.Context, match models.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.matchByPair[match.PairKey]; exists {
		return ErrAlreadyResolved
	}
	m := match
	s.matchByPair[m.PairKey] = &m
	s.matchByID[m.MatchID] = &m
	return nil
}

func (s *MemoryStore) GetMatch(_ context.Context, matchID string) (*models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matchByID[matchID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (s *MemoryStore) GetMatchByPair(_ context.Context, userA, userB string) (*models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matchByPair[models.PairKey(userA, userB)]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (s *MemoryStore) ListMatchesForUser(_ context.Context, user string) ([]models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Match, 0)
	for _, m := range s.matchByID {
		if m.HasParticipant(user) {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out, nil
}

func (s *MemoryStore) AppendMessage(_ context.Context, msg *models.Message) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if msg.ClientKey != "" {
		if existing, ok := s.clientKeys[msg.MatchID+"#"+msg.ClientKey]; ok {
			cp := *existing
			return &cp, nil
		}
	}
	m, ok := s.matchByID[msg.MatchID]
	if !ok {
		return nil, ErrNotFound
	}
	m.LastSeq++
	stored := *msg
	stored.Seq = m.LastSeq
	s.messages[msg.MatchID] = append(s.messages[msg.MatchID], &stored)
	s.messageByID[stored.ID] = &stored
	if stored.ClientKey != "" {
		s.clientKeys[stored.MatchID+"#"+stored.ClientKey] = &stored
	}
	cp := stored
	return &cp, nil
}

func (s *MemoryStore) ListMessages(_ context.Context, matchID string) ([]models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	log := s.messages[matchID]
	out := make([]models.Message, len(log))
	for i, m := range log {
		out[i] = *m
	}
	return out, nil
}

func (s *MemoryStore) LatestMessage(_ context.Context, matchID string) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	log := s.messages[matchID]
	if len(log) == 0 {
		return nil, ErrNotFound
	}
	cp := *log[len(log)-1]
	return &cp, nil
}

func (s *MemoryStore) SetDelivered(_ context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		if m, ok := s.messageByID[id]; ok {
			m.Delivered = true
		}
	}
	return nil
}

// SetSeen also raises delivered, keeping seen => delivered true even when a
// client marks seen without having marked delivered first.
func (s *MemoryStore) SetSeen(_ context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		if m, ok := s.messageByID[id]; ok {
			m.Seen = true
			m.Delivered = true
		}
	}
	return nil
}

func (s *MemoryStore) AppendPublicMessage(_ context.Context, msg *models.PublicMessage) (*models.PublicMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publicSeq++
	stored := *msg
	stored.Seq = s.publicSeq
	stored.Room = models.PublicRoom
	s.public = append(s.public, &stored)
	cp := stored
	return &cp, nil
}

func (s *MemoryStore) ListPublicMessages(_ context.Context, limit int) ([]models.PublicMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := 0
	if limit > 0 && len(s.public) > limit {
		start = len(s.public) - limit
	}
	out := make([]models.PublicMessage, 0, len(s.public)-start)
	for _, m := range s.public[start:] {
		out = append(out, *m)
	}
	return out, nil
}
