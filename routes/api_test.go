package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"samaj_server/services"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store := services.NewMemoryStore()
	srv := httptest.NewServer(NewRouter(Services{
		Profile:    &services.ProfileService{Store: store},
		Request:    &services.RequestService{Store: store},
		Match:      &services.MatchService{Store: store},
		Chat:       &services.ChatService{Store: store},
		PublicChat: &services.PublicChatService{Store: store},
	}))
	t.Cleanup(srv.Close)
	return srv
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func doJSON(t *testing.T, method, url string, body interface{}) (int, []byte) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	defer resp.Body.Close()
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, buf.Bytes()
}

func decodeEnvelope(t *testing.T, raw []byte) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("decode envelope from %s: %v", raw, err)
	}
	return env
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	status, raw := doJSON(t, http.MethodGet, srv.URL+"/health", nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	var body map[string]string
	if err := json.Unmarshal(raw, &body); err != nil || body["status"] != "healthy" {
		t.Fatalf("unexpected health body: %s", raw)
	}
}

// The full contract flow over HTTP: request, accept, check, message, flags.
func TestRequestToChatFlow(t *testing.T) {
	srv := newTestServer(t)

	// Interest request from A to B.
	status, raw := doJSON(t, http.MethodPost, srv.URL+"/send-request", map[string]string{
		"from_user_id": "1111111111",
		"to_user_id":   "2222222222",
	})
	if status != http.StatusOK {
		t.Fatalf("send-request: expected 200, got %d (%s)", status, raw)
	}
	env := decodeEnvelope(t, raw)
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &created); err != nil || created.ID == "" {
		t.Fatalf("send-request data missing id: %s", raw)
	}

	// B sees it incoming, A sees it outgoing.
	status, raw = doJSON(t, http.MethodGet, srv.URL+"/requests/incoming?userId=2222222222", nil)
	if status != http.StatusOK {
		t.Fatalf("incoming: expected 200, got %d", status)
	}
	env = decodeEnvelope(t, raw)
	var incoming []struct {
		ID         string `json:"id"`
		FromUserID string `json:"from_user_id"`
		Status     string `json:"status"`
	}
	if err := json.Unmarshal(env.Data, &incoming); err != nil || len(incoming) != 1 {
		t.Fatalf("unexpected incoming list: %s", raw)
	}
	if incoming[0].ID != created.ID || incoming[0].Status != "pending" {
		t.Fatalf("unexpected incoming entry: %+v", incoming[0])
	}

	status, raw = doJSON(t, http.MethodGet, srv.URL+"/requests/outgoing?userId=1111111111", nil)
	env = decodeEnvelope(t, raw)
	var outgoing []json.RawMessage
	if status != http.StatusOK || json.Unmarshal(env.Data, &outgoing) != nil || len(outgoing) != 1 {
		t.Fatalf("unexpected outgoing list: %d %s", status, raw)
	}

	// Before accept, no match.
	status, raw = doJSON(t, http.MethodGet, srv.URL+"/check-match?user1=1111111111&user2=2222222222", nil)
	var check struct {
		Matched bool   `json:"matched"`
		MatchID string `json:"match_id"`
	}
	if status != http.StatusOK || json.Unmarshal(raw, &check) != nil {
		t.Fatalf("check-match before accept: %d %s", status, raw)
	}
	if check.Matched {
		t.Fatalf("pair must not be matched yet: %s", raw)
	}

	// B accepts.
	status, raw = doJSON(t, http.MethodPost, srv.URL+"/requests/respond", map[string]string{
		"requestId":     created.ID,
		"action":        "accept",
		"currentUserId": "2222222222",
	})
	if status != http.StatusOK {
		t.Fatalf("respond: expected 200, got %d (%s)", status, raw)
	}
	env = decodeEnvelope(t, raw)
	var accepted struct {
		MatchID string `json:"match_id"`
	}
	if err := json.Unmarshal(env.Data, &accepted); err != nil || accepted.MatchID == "" {
		t.Fatalf("respond data missing match_id: %s", raw)
	}

	// check-match now reports the match, top level and argument-order
	// independent.
	for _, query := range []string{
		"user1=1111111111&user2=2222222222",
		"user1=2222222222&user2=1111111111",
	} {
		status, raw = doJSON(t, http.MethodGet, srv.URL+"/check-match?"+query, nil)
		if status != http.StatusOK || json.Unmarshal(raw, &check) != nil {
			t.Fatalf("check-match: %d %s", status, raw)
		}
		if !check.Matched || check.MatchID != accepted.MatchID {
			t.Fatalf("unexpected check-match result: %s", raw)
		}
	}

	// A sends a message.
	status, raw = doJSON(t, http.MethodPost, srv.URL+"/send-message", map[string]string{
		"match_id":  accepted.MatchID,
		"sender_id": "1111111111",
		"message":   "નમસ્તે",
	})
	if status != http.StatusOK {
		t.Fatalf("send-message: expected 200, got %d (%s)", status, raw)
	}
	env = decodeEnvelope(t, raw)
	var sent struct {
		ID        string `json:"id"`
		Delivered bool   `json:"delivered"`
		Seen      bool   `json:"seen"`
		CreatedAt string `json:"created_at"`
	}
	if err := json.Unmarshal(env.Data, &sent); err != nil || sent.ID == "" || sent.CreatedAt == "" {
		t.Fatalf("send-message data incomplete: %s", raw)
	}
	if sent.Delivered || sent.Seen {
		t.Fatalf("new message must start unflagged: %s", raw)
	}

	// B fetches and marks.
	status, raw = doJSON(t, http.MethodGet, srv.URL+"/messages/"+accepted.MatchID+"?userId=2222222222", nil)
	env = decodeEnvelope(t, raw)
	var messages []struct {
		ID      string `json:"id"`
		Message string `json:"message"`
	}
	if status != http.StatusOK || json.Unmarshal(env.Data, &messages) != nil || len(messages) != 1 {
		t.Fatalf("messages fetch: %d %s", status, raw)
	}
	if messages[0].Message != "નમસ્તે" {
		t.Fatalf("unexpected message text: %+v", messages[0])
	}

	for _, path := range []string{"/message-delivered", "/message-seen"} {
		status, raw = doJSON(t, http.MethodPost, srv.URL+path, map[string][]string{"ids": {messages[0].ID}})
		if status != http.StatusOK || !decodeEnvelope(t, raw).Success {
			t.Fatalf("%s: %d %s", path, status, raw)
		}
	}

	// Chat list for both participants.
	for _, user := range []string{"1111111111", "2222222222"} {
		status, raw = doJSON(t, http.MethodGet, srv.URL+"/chat-list?userId="+user, nil)
		env = decodeEnvelope(t, raw)
		var entries []struct {
			MatchID     string `json:"match_id"`
			LastMessage string `json:"last_message"`
		}
		if status != http.StatusOK || json.Unmarshal(env.Data, &entries) != nil || len(entries) != 1 {
			t.Fatalf("chat-list for %s: %d %s", user, status, raw)
		}
		if entries[0].MatchID != accepted.MatchID || entries[0].LastMessage != "નમસ્તે" {
			t.Fatalf("unexpected chat-list entry for %s: %+v", user, entries[0])
		}
	}
}

func TestErrorStatuses(t *testing.T) {
	srv := newTestServer(t)

	// Seed one pending request.
	_, raw := doJSON(t, http.MethodPost, srv.URL+"/send-request", map[string]string{
		"from_user_id": "1111111111",
		"to_user_id":   "2222222222",
	})
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(decodeEnvelope(t, raw).Data, &created); err != nil {
		t.Fatalf("seed request: %s", raw)
	}

	cases := []struct {
		name   string
		method string
		path   string
		body   interface{}
		want   int
	}{
		{"self request", http.MethodPost, "/send-request",
			map[string]string{"from_user_id": "1111111111", "to_user_id": "1111111111"}, http.StatusBadRequest},
		{"duplicate request", http.MethodPost, "/send-request",
			map[string]string{"from_user_id": "1111111111", "to_user_id": "2222222222"}, http.StatusConflict},
		{"reverse duplicate", http.MethodPost, "/send-request",
			map[string]string{"from_user_id": "2222222222", "to_user_id": "1111111111"}, http.StatusConflict},
		{"respond by sender", http.MethodPost, "/requests/respond",
			map[string]string{"requestId": created.ID, "action": "accept", "currentUserId": "1111111111"}, http.StatusForbidden},
		{"respond unknown request", http.MethodPost, "/requests/respond",
			map[string]string{"requestId": "no-such-id", "action": "accept", "currentUserId": "2222222222"}, http.StatusNotFound},
		{"respond bad action", http.MethodPost, "/requests/respond",
			map[string]string{"requestId": created.ID, "action": "maybe", "currentUserId": "2222222222"}, http.StatusBadRequest},
		{"incoming without user", http.MethodGet, "/requests/incoming", nil, http.StatusBadRequest},
		{"chat-list without user", http.MethodGet, "/chat-list", nil, http.StatusBadRequest},
		{"messages for unknown match", http.MethodGet, "/messages/no-such-match", nil, http.StatusNotFound},
		{"send to unknown match", http.MethodPost, "/send-message",
			map[string]string{"match_id": "no-such-match", "sender_id": "1111111111", "message": "hi"}, http.StatusNotFound},
		{"check-match missing params", http.MethodGet, "/check-match?user1=1111111111", nil, http.StatusBadRequest},
		{"profile unknown phone", http.MethodGet, "/profiles/0000000000", nil, http.StatusNotFound},
		{"public send empty", http.MethodPost, "/public-chat/send",
			map[string]string{"user_phone": "1111111111", "message": ""}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, raw := doJSON(t, tc.method, srv.URL+tc.path, tc.body)
			if status != tc.want {
				t.Fatalf("expected %d, got %d (%s)", tc.want, status, raw)
			}
			env := decodeEnvelope(t, raw)
			if env.Success || env.Error == "" {
				t.Fatalf("failure envelope must carry error: %s", raw)
			}
		})
	}
}

func TestRejectedRequestFreesPair(t *testing.T) {
	srv := newTestServer(t)

	sendRequest := func() string {
		_, raw := doJSON(t, http.MethodPost, srv.URL+"/send-request", map[string]string{
			"from_user_id": "1111111111",
			"to_user_id":   "2222222222",
		})
		var created struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(decodeEnvelope(t, raw).Data, &created); err != nil || created.ID == "" {
			t.Fatalf("send-request: %s", raw)
		}
		return created.ID
	}

	first := sendRequest()
	status, raw := doJSON(t, http.MethodPost, srv.URL+"/requests/respond", map[string]string{
		"requestId": first, "action": "reject", "currentUserId": "2222222222",
	})
	if status != http.StatusOK || !decodeEnvelope(t, raw).Success {
		t.Fatalf("reject: %d %s", status, raw)
	}

	// A fresh request after the reject is allowed, and a second respond on
	// the old one conflicts.
	second := sendRequest()
	if second == first {
		t.Fatal("fresh request must get a new id")
	}
	status, _ = doJSON(t, http.MethodPost, srv.URL+"/requests/respond", map[string]string{
		"requestId": first, "action": "accept", "currentUserId": "2222222222",
	})
	if status != http.StatusConflict {
		t.Fatalf("re-respond on resolved request: expected 409, got %d", status)
	}
}

func TestProfileEndpoints(t *testing.T) {
	srv := newTestServer(t)

	status, raw := doJSON(t, http.MethodPost, srv.URL+"/profiles", map[string]interface{}{
		"phone":     "1111111111",
		"full_name": "Ramesh Patel",
		"city":      "Anand",
		"age":       28,
	})
	if status != http.StatusOK {
		t.Fatalf("profile upsert: expected 200, got %d (%s)", status, raw)
	}

	status, raw = doJSON(t, http.MethodGet, srv.URL+"/profiles/1111111111", nil)
	env := decodeEnvelope(t, raw)
	var profile struct {
		Phone    string `json:"phone"`
		FullName string `json:"full_name"`
	}
	if status != http.StatusOK || json.Unmarshal(env.Data, &profile) != nil {
		t.Fatalf("profile get: %d %s", status, raw)
	}
	if profile.Phone != "1111111111" || profile.FullName != "Ramesh Patel" {
		t.Fatalf("unexpected profile: %+v", profile)
	}

	status, raw = doJSON(t, http.MethodGet, srv.URL+"/profiles", nil)
	env = decodeEnvelope(t, raw)
	var all []json.RawMessage
	if status != http.StatusOK || json.Unmarshal(env.Data, &all) != nil || len(all) != 1 {
		t.Fatalf("profile list: %d %s", status, raw)
	}
}

func TestPublicChatEndpoints(t *testing.T) {
	srv := newTestServer(t)

	for i := 0; i < 3; i++ {
		status, raw := doJSON(t, http.MethodPost, srv.URL+"/public-chat/send", map[string]string{
			"user_phone": "1111111111",
			"message":    fmt.Sprintf("post %d", i),
		})
		if status != http.StatusOK || !decodeEnvelope(t, raw).Success {
			t.Fatalf("public send %d: %d %s", i, status, raw)
		}
	}

	status, raw := doJSON(t, http.MethodGet, srv.URL+"/public-chat?limit=2", nil)
	env := decodeEnvelope(t, raw)
	var messages []struct {
		Message string `json:"message"`
	}
	if status != http.StatusOK || json.Unmarshal(env.Data, &messages) != nil {
		t.Fatalf("public list: %d %s", status, raw)
	}
	if len(messages) != 2 || messages[0].Message != "post 1" || messages[1].Message != "post 2" {
		t.Fatalf("unexpected public tail: %+v", messages)
	}
}
