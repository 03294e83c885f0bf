package models

// Match exists once a request is accepted. It is keyed by the unordered pair
// so at most one match can ever exist between two users, and it owns the
// per-match message sequence counter.
type Match struct {
	PairKey   string `dynamodbav:"pair_key" json:"-"`
	MatchID   string `dynamodbav:"match_id" json:"match_id"`
	User1     string `dynamodbav:"user1" json:"user1"`
	User2     string `dynamodbav:"user2" json:"user2"`
	Status    string `dynamodbav:"status" json:"status"`
	LastSeq   int64  `dynamodbav:"last_seq" json:"-"`
	CreatedAt string `dynamodbav:"created_at" json:"created_at"`
}

// Other returns the participant opposite to user, or "" if user is not a
// participant.
func (m Match) Other(user string) string {
	switch user {
	case m.User1:
		return m.User2
	case m.User2:
		return m.User1
	}
	return ""
}

// HasParticipant reports whether user is one of the two match members.
func (m Match) HasParticipant(user string) bool {
	return user == m.User1 || user == m.User2
}

// PairKey builds the canonical unordered-pair key for two user ids.
func PairKey(a, b string) string {
	if a < b {
		return a + "#" + b
	}
	return b + "#" + a
}

// MatchesTable is the DynamoDB table name for matches
const MatchesTable = "Matches"

// GSI names used when listing matches per participant
const (
	MatchUser1Index = "user1-index"
	MatchUser2Index = "user2-index"
	MatchIDIndex    = "match_id-index"
)
