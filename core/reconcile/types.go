package reconcile

import (
	"time"

	"stripe-sync/core/platform"
)

// Trigger identifies what started a reconciliation.
type Trigger string

const (
	TriggerSyncAll      Trigger = "all"
	TriggerSyncRecent   Trigger = "recent"
	TriggerUserCreated  Trigger = "user_created"
	TriggerEmailChanged Trigger = "email_changed"
	TriggerResync       Trigger = "resync"
)

// Action is what reconciliation did for one user.
type Action string

const (
	// ActionSkipped means a mapping already existed and no provider call was made.
	ActionSkipped Action = "skipped"
	// ActionMapped means a customer was resolved and stored.
	ActionMapped Action = "mapped"
	// ActionUnmatched means no customer was found and the mapping was left as it was.
	ActionUnmatched Action = "unmatched"
	// ActionRemoved means an email change found no customer and the mapping was deleted.
	ActionRemoved Action = "removed"
	// ActionIgnored means the trigger did not apply (unknown user, unchanged email).
	ActionIgnored Action = "ignored"
	// ActionFailed means a store or directory error occurred for this user.
	ActionFailed Action = "failed"
)

// Outcome is the result of reconciling one user.
type Outcome struct {
	// UserID is the local user ID.
	UserID uint64 `json:"user_id"`

	// Email is the email that was resolved.
	Email string `json:"email,omitempty"`

	// Action is what happened.
	Action Action `json:"action"`

	// CustomerID is the stored customer ID after the action, if any.
	CustomerID string `json:"customer_id,omitempty"`

	// Error holds the failure message when Action is ActionFailed.
	Error string `json:"error,omitempty"`
}

// RunSummary reports a bulk or recent pass.
type RunSummary struct {
	// RunID uniquely identifies this pass.
	RunID string `json:"run_id"`

	// Trigger is the pass type.
	Trigger Trigger `json:"trigger"`

	// StartedAt and FinishedAt bound the pass (UTC).
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// Scanned is the number of users visited.
	Scanned int `json:"scanned"`

	// Skipped is the number of users that already had a mapping.
	Skipped int `json:"skipped"`

	// Mapped is the number of users newly mapped by this pass.
	Mapped int `json:"mapped"`

	// Unmatched is the number of users without a provider customer.
	Unmatched int `json:"unmatched"`

	// Failed is the number of users whose reconciliation hit a store error.
	Failed int `json:"failed"`

	// Outcomes lists mapped and failed users only, so it stays small on large directories.
	Outcomes []Outcome `json:"outcomes"`
}

// Duration returns how long the pass took.
func (s *RunSummary) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}

func (s *RunSummary) record(o Outcome) {
	s.Scanned++
	switch o.Action {
	case ActionSkipped:
		s.Skipped++
	case ActionMapped:
		s.Mapped++
		s.Outcomes = append(s.Outcomes, o)
	case ActionUnmatched:
		s.Unmatched++
	case ActionFailed:
		s.Failed++
		s.Outcomes = append(s.Outcomes, o)
	}
}

// LookupResult is the result of a single email lookup.
type LookupResult struct {
	// User is the local user matching the email.
	User platform.User

	// CustomerID is the mapped customer ID, empty when none was found.
	CustomerID string

	// Cached is true when the mapping already existed and no provider call was made.
	Cached bool
}
