package models

// ChatListEntry is the derived per-user chat summary: the other participant
// of a match plus the latest message preview. It is recomputed on every
// fetch, never stored. A match with no messages yet still produces an entry
// with an empty preview, since the match alone unlocks the chat.
type ChatListEntry struct {
	MatchID         string `json:"match_id"`
	UserID          string `json:"user_id"`
	UserName        string `json:"user_name"`
	UserAvatar      string `json:"user_avatar,omitempty"`
	LastMessage     string `json:"last_message,omitempty"`
	LastMessageTime string `json:"last_message_time,omitempty"`
}
