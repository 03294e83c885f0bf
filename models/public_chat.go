package models

// PublicMessage lives in the single shared community room. No match gating:
// any registered user may post and read.
type PublicMessage struct {
	ID        string `dynamodbav:"id" json:"id"`
	Room      string `dynamodbav:"room" json:"-"`
	Seq       int64  `dynamodbav:"seq" json:"-"`
	UserPhone string `dynamodbav:"user_phone" json:"user_phone"`
	UserName  string `dynamodbav:"user_name,omitempty" json:"user_name,omitempty"`
	Message   string `dynamodbav:"message" json:"message"`
	CreatedAt string `dynamodbav:"created_at" json:"created_at"`
}

// PublicRoom is the partition key of the one shared room
const PublicRoom = "general"

// PublicMessagesTable is the DynamoDB table name for the community room
const PublicMessagesTable = "PublicMessages"
