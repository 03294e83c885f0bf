package models

// Request statuses
const (
	RequestStatusPending  = "pending"
	RequestStatusAccepted = "accepted"
	RequestStatusRejected = "rejected"
)

// Request respond actions
const (
	RequestActionAccept = "accept"
	RequestActionReject = "reject"
)

// Match statuses
const (
	MatchStatusActive = "active"
)

// Message types
const (
	MessageTypeText  = "text"
	MessageTypeImage = "image"
	MessageTypeAudio = "audio"
)
