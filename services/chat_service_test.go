package services

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"samaj_server/models"
)

// newMatchedPair runs the full request workflow for two users and returns
// the services plus the created match id.
func newMatchedPair(t *testing.T, userA, userB string) (*ChatService, *MemoryStore, string) {
	t.Helper()
	store := NewMemoryStore()
	requests := &RequestService{Store: store}
	ctx := context.Background()

	id, err := requests.SendRequest(ctx, userA, userB)
	if err != nil {
		t.Fatalf("send request failed: %v", err)
	}
	match, err := requests.Respond(ctx, id, userB, models.RequestActionAccept)
	if err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	return &ChatService{Store: store}, store, match.MatchID
}

func TestSendMessageRoundTrip(t *testing.T) {
	chat, _, matchID := newMatchedPair(t, "1111111111", "2222222222")
	ctx := context.Background()

	sent, err := chat.SendMessage(ctx, SendMessageInput{
		MatchID:  matchID,
		SenderID: "1111111111",
		Message:  "hello",
	})
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if sent.ID == "" || sent.CreatedAt == "" {
		t.Fatalf("server must assign id and timestamp: %+v", sent)
	}
	if sent.ReceiverID != "2222222222" {
		t.Fatalf("receiver must be the other participant, got %s", sent.ReceiverID)
	}
	if sent.Delivered || sent.Seen {
		t.Fatalf("new message must start undelivered and unseen: %+v", sent)
	}
	if sent.Type != models.MessageTypeText {
		t.Fatalf("expected text type, got %s", sent.Type)
	}

	msgs, err := chat.ListForMatch(ctx, matchID, "2222222222")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(msgs) != 1 || msgs[0].ID != sent.ID {
		t.Fatalf("sent message missing from immediate list: %+v", msgs)
	}
}

func TestSendMessageValidation(t *testing.T) {
	chat, _, matchID := newMatchedPair(t, "1111111111", "2222222222")
	ctx := context.Background()

	if _, err := chat.SendMessage(ctx, SendMessageInput{MatchID: matchID, SenderID: "1111111111"}); !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
	if _, err := chat.SendMessage(ctx, SendMessageInput{MatchID: matchID, SenderID: "9999999999", Message: "hi"}); !errors.Is(err, ErrNotAMatchParticipant) {
		t.Fatalf("expected ErrNotAMatchParticipant, got %v", err)
	}
	if _, err := chat.SendMessage(ctx, SendMessageInput{MatchID: "no-such-match", SenderID: "1111111111", Message: "hi"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// An image-only message is valid and typed as image.
	sent, err := chat.SendMessage(ctx, SendMessageInput{MatchID: matchID, SenderID: "1111111111", ImageURL: "https://cdn.example/pic.jpg"})
	if err != nil {
		t.Fatalf("image-only send failed: %v", err)
	}
	if sent.Type != models.MessageTypeImage {
		t.Fatalf("expected image type, got %s", sent.Type)
	}
}

func TestListForMatchStableTotalOrder(t *testing.T) {
	chat, _, matchID := newMatchedPair(t, "1111111111", "2222222222")
	ctx := context.Background()

	// Burst of sends inside the same second: timestamps tie, sequence
	// numbers must still give one fixed order.
	senders := []string{"1111111111", "2222222222", "1111111111", "1111111111", "2222222222"}
	for i, sender := range senders {
		if _, err := chat.SendMessage(ctx, SendMessageInput{MatchID: matchID, SenderID: sender, Message: string(rune('a' + i))}); err != nil {
			t.Fatalf("send %d failed: %v", i, err)
		}
	}

	first, err := chat.ListForMatch(ctx, matchID, "1111111111")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	second, err := chat.ListForMatch(ctx, matchID, "1111111111")
	if err != nil {
		t.Fatalf("second list failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated list calls must return identical sequences")
	}
	for i := 1; i < len(first); i++ {
		if first[i].Seq <= first[i-1].Seq {
			t.Fatalf("sequence not strictly ascending at %d: %+v", i, first)
		}
	}
}

func TestListForMatchParticipantCheck(t *testing.T) {
	chat, _, matchID := newMatchedPair(t, "1111111111", "2222222222")

	if _, err := chat.ListForMatch(context.Background(), matchID, "9999999999"); !errors.Is(err, ErrNotAMatchParticipant) {
		t.Fatalf("expected ErrNotAMatchParticipant, got %v", err)
	}
}

func TestMarkFlagsIdempotentAndMonotonic(t *testing.T) {
	chat, _, matchID := newMatchedPair(t, "1111111111", "2222222222")
	ctx := context.Background()

	sent, err := chat.SendMessage(ctx, SendMessageInput{MatchID: matchID, SenderID: "1111111111", Message: "hi"})
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	ids := []string{sent.ID}

	// Both participants' polling loops may mark overlapping id sets at once.
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if err := chat.MarkDelivered(ctx, ids); err != nil {
				t.Errorf("mark delivered failed: %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			if err := chat.MarkSeen(ctx, ids); err != nil {
				t.Errorf("mark seen failed: %v", err)
			}
		}()
	}
	wg.Wait()

	// Unknown ids are a no-op, not an error.
	if err := chat.MarkDelivered(ctx, []string{"no-such-id"}); err != nil {
		t.Fatalf("unknown id must be a no-op: %v", err)
	}

	msgs, err := chat.ListForMatch(ctx, matchID, "2222222222")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !msgs[0].Delivered || !msgs[0].Seen {
		t.Fatalf("flags must be set: %+v", msgs[0])
	}
}

func TestMarkSeenImpliesDelivered(t *testing.T) {
	chat, _, matchID := newMatchedPair(t, "1111111111", "2222222222")
	ctx := context.Background()

	sent, err := chat.SendMessage(ctx, SendMessageInput{MatchID: matchID, SenderID: "1111111111", Message: "hi"})
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}

	// Seen without a prior delivered mark still yields delivered=true.
	if err := chat.MarkSeen(ctx, []string{sent.ID}); err != nil {
		t.Fatalf("mark seen failed: %v", err)
	}
	msgs, _ := chat.ListForMatch(ctx, matchID, "2222222222")
	if !msgs[0].Seen || !msgs[0].Delivered {
		t.Fatalf("seen must imply delivered: %+v", msgs[0])
	}
}

func TestClientKeyDeduplicatesResend(t *testing.T) {
	chat, _, matchID := newMatchedPair(t, "1111111111", "2222222222")
	ctx := context.Background()

	input := SendMessageInput{
		MatchID:   matchID,
		SenderID:  "1111111111",
		Message:   "once only",
		ClientKey: "key-123",
	}
	first, err := chat.SendMessage(ctx, input)
	if err != nil {
		t.Fatalf("first send failed: %v", err)
	}
	second, err := chat.SendMessage(ctx, input)
	if err != nil {
		t.Fatalf("resend failed: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("resend with same client key must return the stored record")
	}

	msgs, _ := chat.ListForMatch(ctx, matchID, "1111111111")
	if len(msgs) != 1 {
		t.Fatalf("expected one stored message, got %d", len(msgs))
	}
}

func TestChatListIncludesMessagelessMatch(t *testing.T) {
	chat, _, matchID := newMatchedPair(t, "1111111111", "2222222222")
	ctx := context.Background()

	for _, user := range []string{"1111111111", "2222222222"} {
		entries, err := chat.ChatList(ctx, user)
		if err != nil {
			t.Fatalf("chat list for %s failed: %v", user, err)
		}
		if len(entries) != 1 {
			t.Fatalf("match without messages must still appear for %s: %+v", user, entries)
		}
		if entries[0].MatchID != matchID {
			t.Fatalf("unexpected match id: %+v", entries[0])
		}
		if entries[0].LastMessage != "" || entries[0].LastMessageTime != "" {
			t.Fatalf("expected empty preview, got %+v", entries[0])
		}
	}
}

func TestChatListPreviewAndProfileNames(t *testing.T) {
	chat, store, matchID := newMatchedPair(t, "1111111111", "2222222222")
	ctx := context.Background()

	if err := store.PutProfile(ctx, models.UserProfile{Phone: "1111111111", FullName: "Ramesh", AvatarURL: "https://cdn.example/r.jpg"}); err != nil {
		t.Fatalf("put profile failed: %v", err)
	}

	if _, err := chat.SendMessage(ctx, SendMessageInput{MatchID: matchID, SenderID: "1111111111", Message: "કેમ છો?"}); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	entries, err := chat.ChatList(ctx, "2222222222")
	if err != nil {
		t.Fatalf("chat list failed: %v", err)
	}
	if entries[0].UserName != "Ramesh" || entries[0].UserAvatar == "" {
		t.Fatalf("entry must carry the other participant's profile: %+v", entries[0])
	}
	if entries[0].LastMessage != "કેમ છો?" {
		t.Fatalf("unexpected preview: %+v", entries[0])
	}

	// The other side has no stored profile; the phone stands in as name.
	reverse, err := chat.ChatList(ctx, "1111111111")
	if err != nil {
		t.Fatalf("reverse chat list failed: %v", err)
	}
	if reverse[0].UserName != "2222222222" {
		t.Fatalf("expected phone fallback, got %+v", reverse[0])
	}
}

// The end-to-end workflow: request, accept, message, flags.
func TestMatrimonyChatScenario(t *testing.T) {
	store := NewMemoryStore()
	requests := &RequestService{Store: store}
	matches := &MatchService{Store: store}
	chat := &ChatService{Store: store}
	ctx := context.Background()

	reqID, err := requests.SendRequest(ctx, "1111111111", "2222222222")
	if err != nil {
		t.Fatalf("send request failed: %v", err)
	}
	if _, err := requests.Respond(ctx, reqID, "2222222222", models.RequestActionAccept); err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	status, err := matches.CheckMatch(ctx, "1111111111", "2222222222")
	if err != nil || !status.Matched {
		t.Fatalf("expected matched pair, got %+v (%v)", status, err)
	}

	if _, err := chat.SendMessage(ctx, SendMessageInput{MatchID: status.MatchID, SenderID: "1111111111", Message: "નમસ્તે"}); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	msgs, err := chat.ListForMatch(ctx, status.MatchID, "2222222222")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(msgs) != 1 || msgs[0].Message != "નમસ્તે" || msgs[0].Delivered {
		t.Fatalf("unexpected fetch for receiver: %+v", msgs)
	}

	if err := chat.MarkDelivered(ctx, []string{msgs[0].ID}); err != nil {
		t.Fatalf("mark delivered failed: %v", err)
	}
	if err := chat.MarkSeen(ctx, []string{msgs[0].ID}); err != nil {
		t.Fatalf("mark seen failed: %v", err)
	}

	again, err := chat.ListForMatch(ctx, status.MatchID, "2222222222")
	if err != nil {
		t.Fatalf("refetch failed: %v", err)
	}
	if !again[0].Delivered || !again[0].Seen {
		t.Fatalf("flags must survive the refetch: %+v", again[0])
	}
}
