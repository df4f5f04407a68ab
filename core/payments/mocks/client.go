package mocks

import (
	"context"

	"stripe-sync/core/payments"

	"github.com/stretchr/testify/mock"
)

// Client is a mock implementation of payments.Client
type Client struct {
	mock.Mock
}

func (m *Client) SearchCustomersByEmail(ctx context.Context, email string, limit int64) ([]payments.Customer, error) {
	args := m.Called(ctx, email, limit)
	if customers, ok := args.Get(0).([]payments.Customer); ok {
		return customers, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) ListPaymentMethods(ctx context.Context, customerID, methodType string) ([]payments.PaymentMethod, error) {
	args := m.Called(ctx, customerID, methodType)
	if methods, ok := args.Get(0).([]payments.PaymentMethod); ok {
		return methods, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
