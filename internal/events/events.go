package events

// UserRegisteredEvent is published to user.registered once a registration
// attempt reaches its terminal Done state.
type UserRegisteredEvent struct {
	AccountID           string `json:"account_id"`
	Email               string `json:"email"`
	Role                string `json:"role"`
	FirstName           string `json:"first_name"`
	PendingVerification bool   `json:"pending_verification"`
	RegisteredAt        string `json:"registered_at"`
}

// DocumentUploadedEvent is published to document.uploaded after a document
// lands in its bucket.
type DocumentUploadedEvent struct {
	AccountID string `json:"account_id"`
	Bucket    string `json:"bucket"`
	Key       string `json:"key"`
	PublicURL string `json:"public_url"`
}
