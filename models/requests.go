package models

// MatchRequest is a one-directional interest expression. Status moves
// pending -> accepted or pending -> rejected exactly once, and only the
// to_user_id party may move it.
type MatchRequest struct {
	ID         string `dynamodbav:"id" json:"id"`
	FromUserID string `dynamodbav:"from_user_id" json:"from_user_id"`
	ToUserID   string `dynamodbav:"to_user_id" json:"to_user_id"`
	Status     string `dynamodbav:"status" json:"status"`
	CreatedAt  string `dynamodbav:"created_at" json:"created_at"`
}

// Active reports whether the request still blocks a fresh one between the
// same pair. Rejected requests do not block.
func (r MatchRequest) Active() bool {
	return r.Status == RequestStatusPending || r.Status == RequestStatusAccepted
}

// MatchRequestsTable is the DynamoDB table name for interest requests
const MatchRequestsTable = "MatchRequests"

// GSI names used when listing requests by direction
const (
	RequestToUserIndex   = "to_user_id-index"
	RequestFromUserIndex = "from_user_id-index"
)
