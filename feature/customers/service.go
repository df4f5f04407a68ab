package customers

import (
	"context"
	"errors"
	"fmt"

	"stripe-sync/core/payments"
	"stripe-sync/core/platform"
	"stripe-sync/core/reconcile"

	"go.uber.org/zap"
)

// Reconciler is the engine surface the admin operations use.
type Reconciler interface {
	SyncAll(ctx context.Context) (*reconcile.RunSummary, error)
	SyncRecent(ctx context.Context) (*reconcile.RunSummary, error)
	Resync(ctx context.Context, userID uint64) (reconcile.Outcome, error)
	Lookup(ctx context.Context, email string) (*reconcile.LookupResult, error)
	CustomerID(ctx context.Context, userID uint64) (string, error)
}

// Lister pages through users by mapping state.
type Lister interface {
	ListMapped(ctx context.Context, page, perPage int) (*platform.Page, error)
	ListUnmapped(ctx context.Context, page, perPage int) (*platform.Page, error)
}

// PaymentMethods is the read-only card listing of a mapped user.
type PaymentMethods struct {
	UserID         uint64                   `json:"user_id"`
	CustomerID     string                   `json:"customer_id"`
	PaymentMethods []payments.PaymentMethod `json:"payment_methods"`
}

// Service implements the admin operations on top of the reconciliation engine.
type Service struct {
	engine   Reconciler
	lister   Lister
	payments payments.Client
	logger   *zap.Logger
}

// NewService creates a new customers service.
func NewService(engine Reconciler, lister Lister, client payments.Client, logger *zap.Logger) *Service {
	return &Service{
		engine:   engine,
		lister:   lister,
		payments: client,
		logger:   logger,
	}
}

// LookupOne validates the email, finds the user and returns its mapping, resolving
// and saving it when absent.
func (s *Service) LookupOne(ctx context.Context, email string) Result {
	email = reconcile.NormalizeEmail(email)
	res := Result{Email: email}

	found, err := s.engine.Lookup(ctx, email)
	if found != nil {
		id := found.User.ID
		res.UserID = &id
	}

	switch {
	case err == nil && found.Cached:
		res.Success, res.CustomerID, res.Message = true, found.CustomerID, MsgExistingCustomer
	case err == nil:
		res.Success, res.CustomerID, res.Message = true, found.CustomerID, MsgCustomerSaved
	case errors.Is(err, reconcile.ErrInvalidEmail):
		res.Message = MsgInvalidEmail
	case errors.Is(err, reconcile.ErrUserNotFound):
		res.Message = MsgUserNotFound
	case errors.Is(err, reconcile.ErrCustomerNotFound):
		res.Message = MsgCustomerNotFound
	default:
		s.logger.Error("Customer lookup failed", zap.String("email", email), zap.Error(err))
		res.Message = failed(err)
	}
	return res
}

// LookupMany runs LookupOne for every non-blank entry, in order. Entries are not
// deduplicated and one failure never stops the batch.
func (s *Service) LookupMany(ctx context.Context, emails []string) []Result {
	results := make([]Result, 0, len(emails))
	for _, email := range emails {
		if reconcile.NormalizeEmail(email) == "" {
			continue
		}
		results = append(results, s.LookupOne(ctx, email))
	}
	return results
}

// LookupList parses a delimited list and runs LookupMany.
func (s *Service) LookupList(ctx context.Context, raw string) []Result {
	return s.LookupMany(ctx, ParseEmails(raw))
}

// SyncAll runs the bulk pass.
func (s *Service) SyncAll(ctx context.Context) (*reconcile.RunSummary, error) {
	return s.engine.SyncAll(ctx)
}

// SyncRecent runs the recent-users pass.
func (s *Service) SyncRecent(ctx context.Context) (*reconcile.RunSummary, error) {
	return s.engine.SyncRecent(ctx)
}

// Resync forces re-resolution of one user. A miss leaves the stored mapping as it was.
func (s *Service) Resync(ctx context.Context, userID uint64) Result {
	id := userID
	res := Result{UserID: &id}

	out, err := s.engine.Resync(ctx, userID)
	res.Email = out.Email

	switch {
	case err == nil:
		res.Success, res.CustomerID, res.Message = true, out.CustomerID, MsgResynced
	case errors.Is(err, reconcile.ErrUserNotFound):
		res.Message = MsgUserIDNotFound
	case errors.Is(err, reconcile.ErrCustomerNotFound):
		res.Message = MsgCustomerNotFound
	default:
		s.logger.Error("Resync failed", zap.Uint64("user_id", userID), zap.Error(err))
		res.Message = failed(err)
	}
	return res
}

// ListMapped returns one page of users with a stored customer ID.
func (s *Service) ListMapped(ctx context.Context, page, perPage int) (*platform.Page, error) {
	return s.lister.ListMapped(ctx, page, perPage)
}

// ListUnmapped returns one page of users without a stored customer ID.
func (s *Service) ListUnmapped(ctx context.Context, page, perPage int) (*platform.Page, error) {
	return s.lister.ListUnmapped(ctx, page, perPage)
}

// ListPaymentMethods returns the saved cards of a mapped user. It never resolves:
// an unmapped user yields reconcile.ErrCustomerNotFound.
func (s *Service) ListPaymentMethods(ctx context.Context, userID uint64) (*PaymentMethods, error) {
	customerID, err := s.engine.CustomerID(ctx, userID)
	if err != nil {
		return nil, err
	}

	methods, err := s.payments.ListPaymentMethods(ctx, customerID, "card")
	if err != nil {
		return nil, fmt.Errorf("failed to list payment methods: %w", err)
	}
	return &PaymentMethods{UserID: userID, CustomerID: customerID, PaymentMethods: methods}, nil
}
