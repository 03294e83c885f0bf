package models

// Message belongs to exactly one match. Seq is a per-match monotonic counter
// assigned on append; it is the sort key and the tie-breaker for messages
// sharing a second-resolution timestamp. Delivered and Seen only ever move
// false -> true.
type Message struct {
	ID         string `dynamodbav:"id" json:"id"`
	MatchID    string `dynamodbav:"match_id" json:"match_id"`
	Seq        int64  `dynamodbav:"seq" json:"seq"`
	SenderID   string `dynamodbav:"sender_id" json:"sender_id"`
	ReceiverID string `dynamodbav:"receiver_id" json:"receiver_id"`
	Message    string `dynamodbav:"message" json:"message"`
	Type       string `dynamodbav:"type" json:"type"`
	ImageURL   string `dynamodbav:"image_url,omitempty" json:"image_url,omitempty"`
	AudioURL   string `dynamodbav:"audio_url,omitempty" json:"audio_url,omitempty"`
	ClientKey  string `dynamodbav:"client_key,omitempty" json:"client_key,omitempty"`
	Delivered  bool   `dynamodbav:"delivered" json:"delivered"`
	Seen       bool   `dynamodbav:"seen" json:"seen"`
	CreatedAt  string `dynamodbav:"created_at" json:"created_at"`
}

// MessagesTable is the DynamoDB table name for match messages
const MessagesTable = "Messages"

// MessageIDIndex resolves bare message ids back to their (match_id, seq) key
const MessageIDIndex = "id-index"

// MessageClientKeyIndex backs the idempotent-send lookup
const MessageClientKeyIndex = "client_key-index"
