package customers

import (
	"fmt"
	"strings"

	"stripe-sync/core/reconcile"
	"stripe-sync/core/utils"
)

// Result messages.
const (
	MsgInvalidEmail     = "Invalid email address"
	MsgUserNotFound     = "No user found with this email"
	MsgUserIDNotFound   = "No user found with this ID"
	MsgExistingCustomer = "Existing Stripe customer ID found"
	MsgCustomerSaved    = "Stripe customer ID found and saved"
	MsgCustomerNotFound = "No Stripe customer found for this email"
	MsgResynced         = "Stripe customer ID resynced"
	msgFailedPrefix     = "Lookup failed: "
)

// Result is the outcome of one admin lookup or resync.
type Result struct {
	Success    bool    `json:"success"`
	UserID     *uint64 `json:"user_id,omitempty"`
	Email      string  `json:"email"`
	CustomerID string  `json:"customer_id,omitempty"`
	Message    string  `json:"message"`
}

func failed(err error) string {
	return msgFailedPrefix + err.Error()
}

// ParseEmails splits a comma and/or newline delimited list. Blank entries are
// dropped; duplicates and order are kept.
func ParseEmails(raw string) []string {
	return utils.SplitList(raw)
}

// FormatResult renders a result as a single line for terminal output.
func FormatResult(r Result) string {
	var b strings.Builder
	if r.Success {
		b.WriteString("OK   ")
	} else {
		b.WriteString("FAIL ")
	}
	b.WriteString(r.Email)
	if r.UserID != nil {
		fmt.Fprintf(&b, " (user %d)", *r.UserID)
	}
	if r.CustomerID != "" {
		b.WriteString(" -> " + r.CustomerID)
	}
	b.WriteString(": " + r.Message)
	return b.String()
}

// SummaryMessage renders a pass summary as a human readable message.
func SummaryMessage(s *reconcile.RunSummary) string {
	if s == nil {
		return "No users processed"
	}
	return fmt.Sprintf("Processed %d users: %d newly mapped, %d already mapped, %d without a Stripe customer, %d failed",
		s.Scanned, s.Mapped, s.Skipped, s.Unmatched, s.Failed)
}
