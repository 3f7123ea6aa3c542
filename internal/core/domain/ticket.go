package domain

import "time"

// TicketStatus represents the lifecycle state of a support ticket.
type TicketStatus string

const (
	TicketOpen       TicketStatus = "open"
	TicketInProgress TicketStatus = "in_progress"
	TicketClosed     TicketStatus = "closed"
)

// ValidTicketStatus reports whether s is a known ticket status. Admins may
// move a ticket between any two statuses, so there is no transition graph —
// only membership matters.
func ValidTicketStatus(s TicketStatus) bool {
	switch s {
	case TicketOpen, TicketInProgress, TicketClosed:
		return true
	}
	return false
}

// StatusAfterReply applies the reopen-on-customer-reply policy: a reply from
// anyone but an admin on a closed ticket reopens it. Admin replies never
// change status.
func StatusAfterReply(current TicketStatus, senderRole string) TicketStatus {
	if current == TicketClosed && senderRole != RoleAdmin {
		return TicketOpen
	}
	return current
}

// Ticket is a support request owned by a single client. ClientName is
// joined from the client's profile at read time and is never written back.
type Ticket struct {
	ID         string       `json:"id"`
	ClientID   string       `json:"client_id"`
	ClientName string       `json:"client_name"`
	Subject    string       `json:"subject"`
	Status     TicketStatus `json:"status"`
	CreatedAt  time.Time    `json:"created_at"`
}

// Message is a single entry in a ticket's conversation. Messages are
// append-only and ordered by timestamp ascending. SenderName is joined from
// the sender's profile at read time.
type Message struct {
	ID         string    `json:"id"`
	TicketID   string    `json:"ticket_id"`
	SenderID   string    `json:"sender_id"`
	SenderName string    `json:"sender_name"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
}
