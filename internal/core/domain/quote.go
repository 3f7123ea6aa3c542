package domain

import "time"

// QuoteStatus represents the lifecycle state of a quote.
type QuoteStatus string

const (
	QuotePending  QuoteStatus = "pending"
	QuoteSent     QuoteStatus = "sent"
	QuoteApproved QuoteStatus = "approved"
	QuoteRejected QuoteStatus = "rejected"
)

// ValidQuoteStatus reports whether s is a known quote status. Status changes
// are admin-only and unrestricted, so only membership is checked.
func ValidQuoteStatus(s QuoteStatus) bool {
	switch s {
	case QuotePending, QuoteSent, QuoteApproved, QuoteRejected:
		return true
	}
	return false
}

// Quote is a priced proposal issued to a client. Value is a non-negative
// currency amount. ClientName is joined from the client's profile at read
// time and is never written back.
type Quote struct {
	ID          string      `json:"id"`
	ClientID    string      `json:"client_id"`
	ClientName  string      `json:"client_name"`
	Title       string      `json:"title"`
	Details     string      `json:"details"`
	Value       float64     `json:"value"`
	Status      QuoteStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	Observation string      `json:"observation,omitempty"`
}
