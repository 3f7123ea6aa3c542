package handler

import (
	"time"

	"github.com/elevva/client-portal/internal/core/domain"
	"github.com/elevva/client-portal/internal/core/service"
)

// errorMessage is the standard error envelope returned on all 4xx/5xx
// responses.
type errorMessage struct {
	Error string `json:"error"`
}

// --- Auth ---

type registerRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type registerResponse struct {
	UserID string `json:"user_id"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// --- Portal snapshot ---

type snapshotResponse struct {
	Stats     service.Stats    `json:"stats"`
	Tickets   []domain.Ticket  `json:"tickets"`
	Quotes    []domain.Quote   `json:"quotes"`
	Services  []domain.Service `json:"services"`
	Clients   []domain.Profile `json:"clients"`
	FetchedAt time.Time        `json:"fetched_at"`
	State     string           `json:"state"`
}

// --- Tickets ---

type createTicketRequest struct {
	ClientID string `json:"client_id"`
	Subject  string `json:"subject" validate:"required"`
	Content  string `json:"content" validate:"required"`
}

type postMessageRequest struct {
	Content string `json:"content" validate:"required"`
}

type setStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type ticketDetailResponse struct {
	Ticket   domain.Ticket    `json:"ticket"`
	Messages []domain.Message `json:"messages"`
}

// --- Quotes ---

type createQuoteRequest struct {
	ClientID    string  `json:"client_id"   validate:"required"`
	Title       string  `json:"title"       validate:"required"`
	Details     string  `json:"details"     validate:"required"`
	Value       float64 `json:"value"       validate:"gte=0"`
	Observation string  `json:"observation"`
}

type updateQuoteRequest struct {
	Title       string  `json:"title"       validate:"required"`
	Details     string  `json:"details"     validate:"required"`
	Value       float64 `json:"value"       validate:"gte=0"`
	Observation string  `json:"observation"`
}

// --- Services ---

type createServiceRequest struct {
	ClientID    string    `json:"client_id"   validate:"required"`
	Title       string    `json:"title"       validate:"required"`
	Description string    `json:"description" validate:"required"`
	StartDate   time.Time `json:"start_date"`
}

type updateServiceRequest struct {
	Title       string     `json:"title"       validate:"required"`
	Description string     `json:"description" validate:"required"`
	StartDate   time.Time  `json:"start_date"  validate:"required"`
	EndDate     *time.Time `json:"end_date"`
	Observation string     `json:"observation"`
}
