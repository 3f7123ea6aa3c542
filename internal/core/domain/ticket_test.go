package domain

import "testing"

func TestStatusAfterReply(t *testing.T) {
	cases := []struct {
		name       string
		current    TicketStatus
		senderRole string
		want       TicketStatus
	}{
		{"customer reply reopens closed", TicketClosed, RoleCustomer, TicketOpen},
		{"admin reply keeps closed", TicketClosed, RoleAdmin, TicketClosed},
		{"customer reply on open", TicketOpen, RoleCustomer, TicketOpen},
		{"customer reply on in_progress", TicketInProgress, RoleCustomer, TicketInProgress},
		{"admin reply on open", TicketOpen, RoleAdmin, TicketOpen},
	}

	for _, tc := range cases {
		if got := StatusAfterReply(tc.current, tc.senderRole); got != tc.want {
			t.Errorf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}
}

func TestValidTicketStatus(t *testing.T) {
	for _, s := range []TicketStatus{TicketOpen, TicketInProgress, TicketClosed} {
		if !ValidTicketStatus(s) {
			t.Errorf("%q must be valid", s)
		}
	}
	if ValidTicketStatus("resolved") {
		t.Error("unknown status must not be valid")
	}
}

func TestValidQuoteStatus(t *testing.T) {
	for _, s := range []QuoteStatus{QuotePending, QuoteSent, QuoteApproved, QuoteRejected} {
		if !ValidQuoteStatus(s) {
			t.Errorf("%q must be valid", s)
		}
	}
	if ValidQuoteStatus("draft") {
		t.Error("unknown status must not be valid")
	}
}

func TestValidServiceStatus(t *testing.T) {
	for _, s := range []ServiceStatus{ServiceNotStarted, ServiceInProgress, ServiceCompleted, ServiceOnHold} {
		if !ValidServiceStatus(s) {
			t.Errorf("%q must be valid", s)
		}
	}
	if ValidServiceStatus("cancelled") {
		t.Error("unknown status must not be valid")
	}
}

func TestIdentityIsAdmin(t *testing.T) {
	var nilIdentity *Identity
	if nilIdentity.IsAdmin() {
		t.Error("nil identity must not be admin")
	}
	if !(&Identity{Role: RoleAdmin}).IsAdmin() {
		t.Error("admin identity must be admin")
	}
	if (&Identity{Role: RoleCustomer}).IsAdmin() {
		t.Error("customer identity must not be admin")
	}
}
