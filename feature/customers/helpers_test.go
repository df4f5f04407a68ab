package customers_test

import (
	"context"
	"testing"
	"time"

	"stripe-sync/core/database"
	"stripe-sync/core/payments"
	"stripe-sync/core/payments/mocks"
	"stripe-sync/core/platform"
	"stripe-sync/core/reconcile"
	"stripe-sync/feature/customers"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	service *customers.Service
	store   *platform.Store
	db      *gorm.DB
	client  *mocks.Client
}

func newFixture(t *testing.T, emails ...string) *fixture {
	t.Helper()

	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)

	store, err := platform.NewStore(db, platform.Config{
		Profile:     platform.ProfileWordPress,
		TablePrefix: "wp_",
		MetaKey:     "_stripe_customer_id",
		PerPage:     20,
	})
	require.NoError(t, err)
	require.NoError(t, platform.Migrate(context.Background(), db, store.Schema()))

	for i, email := range emails {
		require.NoError(t, db.Table("wp_users").Create(&platform.WordPressUser{
			ID:             uint64(i + 1),
			UserEmail:      email,
			UserRegistered: time.Now().UTC(),
		}).Error)
	}

	client := new(mocks.Client)
	engine := reconcile.NewEngine(store, reconcile.NewPlatformMapping(store),
		reconcile.NewResolver(client, time.Second, nil), reconcile.Config{}, nil)

	return &fixture{
		service: customers.NewService(engine, store, client, zap.NewNop()),
		store:   store,
		db:      db,
		client:  client,
	}
}

func (f *fixture) stripeHas(email, id string) {
	f.client.On("SearchCustomersByEmail", mock.Anything, email, int64(1)).
		Return([]payments.Customer{{ID: id, Email: email}}, nil)
}

func (f *fixture) stripeLacks(email string) {
	f.client.On("SearchCustomersByEmail", mock.Anything, email, int64(1)).
		Return([]payments.Customer{}, nil)
}

func (f *fixture) mapping(t *testing.T, userID uint64) (string, bool) {
	t.Helper()
	id, ok, err := f.store.GetCustomerID(context.Background(), userID)
	require.NoError(t, err)
	return id, ok
}

func (f *fixture) setMapping(t *testing.T, userID uint64, customerID string) {
	t.Helper()
	require.NoError(t, f.store.SetCustomerID(context.Background(), userID, customerID))
}

func ptr(v uint64) *uint64 { return &v }
