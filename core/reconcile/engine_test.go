package reconcile

import (
	"context"
	"errors"
	"testing"
	"time"

	"stripe-sync/core/lock"
	"stripe-sync/core/payments"
	"stripe-sync/core/payments/mocks"
	"stripe-sync/core/platform"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func user(id uint64, email string, registered time.Time) fakeUser {
	return fakeUser{User: platform.User{ID: id, Email: email}, registered: registered}
}

func hit(client *mocks.Client, email, id string) {
	client.On("SearchCustomersByEmail", mock.Anything, email, int64(1)).
		Return([]payments.Customer{{ID: id, Email: email}}, nil)
}

func miss(client *mocks.Client, email string) {
	client.On("SearchCustomersByEmail", mock.Anything, email, int64(1)).
		Return([]payments.Customer{}, nil)
}

func newTestEngine(dir Directory, store MappingStore, client *mocks.Client, cfg Config, opts ...Option) *Engine {
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewEngine(dir, store, NewResolver(client, time.Second, nil), cfg, nil, opts...)
}

func TestSyncAll_RespectsExistingMappings(t *testing.T) {
	dir := newFakeDirectory(
		user(1, "a@example.com", fixedNow),
		user(2, "b@example.com", fixedNow),
		user(3, "c@example.com", fixedNow),
	)
	store := newFakeMappings()
	store.data[2] = "cus_existing"

	client := new(mocks.Client)
	hit(client, "a@example.com", "cus_a")
	miss(client, "c@example.com")

	engine := newTestEngine(dir, store, client, Config{BatchSize: 200})
	summary, err := engine.SyncAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, TriggerSyncAll, summary.Trigger)
	assert.NotEmpty(t, summary.RunID)
	assert.Equal(t, 3, summary.Scanned)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 1, summary.Mapped)
	assert.Equal(t, 1, summary.Unmatched)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, []Outcome{{UserID: 1, Email: "a@example.com", Action: ActionMapped, CustomerID: "cus_a"}}, summary.Outcomes)

	client.AssertNotCalled(t, "SearchCustomersByEmail", mock.Anything, "b@example.com", mock.Anything)
	assert.Equal(t, map[uint64]string{1: "cus_a", 2: "cus_existing"}, store.snapshot())
}

func TestSyncAll_SecondPassMakesNoCallsForMappedUsers(t *testing.T) {
	dir := newFakeDirectory(user(1, "a@example.com", fixedNow), user(2, "b@example.com", fixedNow))
	store := newFakeMappings()

	client := new(mocks.Client)
	hit(client, "a@example.com", "cus_a")
	hit(client, "b@example.com", "cus_b")

	engine := newTestEngine(dir, store, client, Config{})
	_, err := engine.SyncAll(context.Background())
	require.NoError(t, err)
	client.AssertNumberOfCalls(t, "SearchCustomersByEmail", 2)

	summary, err := engine.SyncAll(context.Background())
	require.NoError(t, err)
	client.AssertNumberOfCalls(t, "SearchCustomersByEmail", 2)
	assert.Equal(t, 2, summary.Skipped)
	assert.Equal(t, 0, summary.Mapped)
}

func TestSyncAll_PagesThroughDirectory(t *testing.T) {
	var users []fakeUser
	client := new(mocks.Client)
	for i := uint64(1); i <= 5; i++ {
		email := string(rune('a'+i-1)) + "@example.com"
		users = append(users, user(i, email, fixedNow))
		miss(client, email)
	}

	engine := newTestEngine(newFakeDirectory(users...), newFakeMappings(), client, Config{BatchSize: 2})
	summary, err := engine.SyncAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, summary.Scanned)
	assert.Equal(t, 5, summary.Unmatched)
	client.AssertNumberOfCalls(t, "SearchCustomersByEmail", 5)
}

func TestSyncAll_StoreFailureDoesNotAbort(t *testing.T) {
	dir := newFakeDirectory(
		user(1, "a@example.com", fixedNow),
		user(2, "b@example.com", fixedNow),
		user(3, "c@example.com", fixedNow),
	)
	store := newFakeMappings()
	store.setErr[1] = errStore
	store.getErr[2] = errStore

	client := new(mocks.Client)
	hit(client, "a@example.com", "cus_a")
	hit(client, "c@example.com", "cus_c")

	summary, err := newTestEngine(dir, store, client, Config{}).SyncAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Scanned)
	assert.Equal(t, 2, summary.Failed)
	assert.Equal(t, 1, summary.Mapped)
	assert.Equal(t, map[uint64]string{3: "cus_c"}, store.snapshot())
}

func TestSyncAll_ListError(t *testing.T) {
	dir := newFakeDirectory()
	dir.listErr = errors.New("db down")

	summary, err := newTestEngine(dir, newFakeMappings(), new(mocks.Client), Config{}).SyncAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
	require.NotNil(t, summary)
	assert.False(t, summary.FinishedAt.IsZero())
}

func TestSyncAll_ContextCancelled(t *testing.T) {
	dir := newFakeDirectory(user(1, "a@example.com", fixedNow))
	client := new(mocks.Client)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := newTestEngine(dir, newFakeMappings(), client, Config{}).SyncAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, summary.Scanned)
	client.AssertNotCalled(t, "SearchCustomersByEmail", mock.Anything, mock.Anything, mock.Anything)
}

func TestSyncAll_ReportsSummary(t *testing.T) {
	rec := &recorder{}
	dir := newFakeDirectory(user(1, "a@example.com", fixedNow))
	client := new(mocks.Client)
	miss(client, "a@example.com")

	summary, err := newTestEngine(dir, newFakeMappings(), client, Config{}, WithReporter(rec)).SyncAll(context.Background())
	require.NoError(t, err)
	require.Len(t, rec.summaries, 1)
	assert.Same(t, summary, rec.summaries[0])
}

func TestSyncAll_GuardRejectsHeldLock(t *testing.T) {
	guard := lock.NewGuard(heldLocker{}, nil)
	client := new(mocks.Client)

	engine := newTestEngine(newFakeDirectory(user(1, "a@example.com", fixedNow)), newFakeMappings(), client, Config{}, WithGuard(guard))
	summary, err := engine.SyncAll(context.Background())
	assert.ErrorIs(t, err, lock.ErrRunInProgress)
	assert.Nil(t, summary)
	client.AssertNotCalled(t, "SearchCustomersByEmail", mock.Anything, mock.Anything, mock.Anything)
}

type heldLocker struct{}

func (heldLocker) Acquire(context.Context, string) (func(context.Context) error, error) {
	return nil, lock.ErrRunInProgress
}

func TestSyncRecent_OnlyRecentUsers(t *testing.T) {
	dir := newFakeDirectory(
		user(1, "old@example.com", fixedNow.AddDate(0, 0, -30)),
		user(2, "new@example.com", fixedNow.AddDate(0, 0, -2)),
		user(3, "edge@example.com", fixedNow.AddDate(0, 0, -7)),
	)
	store := newFakeMappings()
	client := new(mocks.Client)
	hit(client, "new@example.com", "cus_new")
	hit(client, "edge@example.com", "cus_edge")

	summary, err := newTestEngine(dir, store, client, Config{RecentWindowDays: 7}).SyncRecent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, TriggerSyncRecent, summary.Trigger)
	assert.Equal(t, 2, summary.Scanned)
	assert.Equal(t, 2, summary.Mapped)
	client.AssertNotCalled(t, "SearchCustomersByEmail", mock.Anything, "old@example.com", mock.Anything)
}

func TestOnUserCreated(t *testing.T) {
	t.Run("HitStoresMapping", func(t *testing.T) {
		store := newFakeMappings()
		client := new(mocks.Client)
		hit(client, "a@example.com", "cus_a")

		out, err := newTestEngine(newFakeDirectory(user(1, "a@example.com", fixedNow)), store, client, Config{}).
			OnUserCreated(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, ActionMapped, out.Action)
		assert.Equal(t, "cus_a", store.data[1])
	})

	t.Run("IgnoresExistingMapping", func(t *testing.T) {
		store := newFakeMappings()
		store.data[1] = "cus_old"
		client := new(mocks.Client)
		hit(client, "a@example.com", "cus_a")

		out, err := newTestEngine(newFakeDirectory(user(1, "a@example.com", fixedNow)), store, client, Config{}).
			OnUserCreated(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, ActionMapped, out.Action)
		assert.Equal(t, "cus_a", store.data[1])
	})

	t.Run("MissStoresNothing", func(t *testing.T) {
		store := newFakeMappings()
		client := new(mocks.Client)
		miss(client, "a@example.com")

		out, err := newTestEngine(newFakeDirectory(user(1, "a@example.com", fixedNow)), store, client, Config{}).
			OnUserCreated(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, ActionUnmatched, out.Action)
		assert.Empty(t, store.snapshot())
	})

	t.Run("UnknownUserIsIgnored", func(t *testing.T) {
		client := new(mocks.Client)
		out, err := newTestEngine(newFakeDirectory(), newFakeMappings(), client, Config{}).
			OnUserCreated(context.Background(), 99)
		require.NoError(t, err)
		assert.Equal(t, ActionIgnored, out.Action)
		client.AssertNotCalled(t, "SearchCustomersByEmail", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("BlankEmailIsIgnored", func(t *testing.T) {
		client := new(mocks.Client)
		out, err := newTestEngine(newFakeDirectory(user(1, " ", fixedNow)), newFakeMappings(), client, Config{}).
			OnUserCreated(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, ActionIgnored, out.Action)
		client.AssertNotCalled(t, "SearchCustomersByEmail", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("StoreFailure", func(t *testing.T) {
		store := newFakeMappings()
		store.setErr[1] = errStore
		client := new(mocks.Client)
		hit(client, "a@example.com", "cus_a")

		out, err := newTestEngine(newFakeDirectory(user(1, "a@example.com", fixedNow)), store, client, Config{}).
			OnUserCreated(context.Background(), 1)
		assert.Error(t, err)
		assert.Equal(t, ActionFailed, out.Action)
	})
}

func TestOnEmailChanged(t *testing.T) {
	t.Run("SameEmailIsNoop", func(t *testing.T) {
		store := newFakeMappings()
		store.data[1] = "cus_a"
		client := new(mocks.Client)

		out, err := newTestEngine(newFakeDirectory(), store, client, Config{}).
			OnEmailChanged(context.Background(), 1, "a@example.com", " a@example.com")
		require.NoError(t, err)
		assert.Equal(t, ActionIgnored, out.Action)
		assert.Equal(t, "cus_a", store.data[1])
		client.AssertNotCalled(t, "SearchCustomersByEmail", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("CaseChangeIsResolved", func(t *testing.T) {
		client := new(mocks.Client)
		hit(client, "A@example.com", "cus_A")

		out, err := newTestEngine(newFakeDirectory(), newFakeMappings(), client, Config{}).
			OnEmailChanged(context.Background(), 1, "a@example.com", "A@example.com")
		require.NoError(t, err)
		assert.Equal(t, ActionMapped, out.Action)
	})

	t.Run("HitOverwrites", func(t *testing.T) {
		store := newFakeMappings()
		store.data[1] = "cus_old"
		client := new(mocks.Client)
		hit(client, "new@example.com", "cus_new")

		out, err := newTestEngine(newFakeDirectory(), store, client, Config{}).
			OnEmailChanged(context.Background(), 1, "old@example.com", "new@example.com")
		require.NoError(t, err)
		assert.Equal(t, ActionMapped, out.Action)
		assert.Equal(t, "cus_new", store.data[1])
	})

	t.Run("MissRemovesStaleMapping", func(t *testing.T) {
		store := newFakeMappings()
		store.data[1] = "cus_old"
		client := new(mocks.Client)
		miss(client, "new@example.com")

		out, err := newTestEngine(newFakeDirectory(), store, client, Config{}).
			OnEmailChanged(context.Background(), 1, "old@example.com", "new@example.com")
		require.NoError(t, err)
		assert.Equal(t, ActionRemoved, out.Action)
		_, ok := store.data[1]
		assert.False(t, ok)
	})

	t.Run("ProviderErrorRemovesStaleMapping", func(t *testing.T) {
		store := newFakeMappings()
		store.data[1] = "cus_old"
		client := new(mocks.Client)
		client.On("SearchCustomersByEmail", mock.Anything, "new@example.com", int64(1)).
			Return(nil, &payments.ProviderError{Op: "search_customers", Message: "timeout"})

		out, err := newTestEngine(newFakeDirectory(), store, client, Config{}).
			OnEmailChanged(context.Background(), 1, "old@example.com", "new@example.com")
		require.NoError(t, err)
		assert.Equal(t, ActionRemoved, out.Action)
		assert.Empty(t, store.snapshot())
	})
}

func TestResync(t *testing.T) {
	t.Run("Idempotent", func(t *testing.T) {
		store := newFakeMappings()
		store.data[1] = "cus_stale"
		client := new(mocks.Client)
		hit(client, "a@example.com", "cus_a")

		engine := newTestEngine(newFakeDirectory(user(1, "a@example.com", fixedNow)), store, client, Config{})
		first, err := engine.Resync(context.Background(), 1)
		require.NoError(t, err)
		second, err := engine.Resync(context.Background(), 1)
		require.NoError(t, err)

		assert.Equal(t, "cus_a", first.CustomerID)
		assert.Equal(t, first.CustomerID, second.CustomerID)
		assert.Equal(t, "cus_a", store.data[1])
		client.AssertNumberOfCalls(t, "SearchCustomersByEmail", 2)
	})

	t.Run("MissKeepsMapping", func(t *testing.T) {
		store := newFakeMappings()
		store.data[1] = "cus_keep"
		client := new(mocks.Client)
		miss(client, "a@example.com")

		out, err := newTestEngine(newFakeDirectory(user(1, "a@example.com", fixedNow)), store, client, Config{}).
			Resync(context.Background(), 1)
		assert.ErrorIs(t, err, ErrCustomerNotFound)
		assert.Equal(t, ActionUnmatched, out.Action)
		assert.Equal(t, "cus_keep", store.data[1])
		assert.Empty(t, store.deleted)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		_, err := newTestEngine(newFakeDirectory(), newFakeMappings(), new(mocks.Client), Config{}).
			Resync(context.Background(), 42)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestLookup(t *testing.T) {
	dir := newFakeDirectory(
		user(1, "a@example.com", fixedNow),
		user(2, "cached@example.com", fixedNow),
		user(3, "none@example.com", fixedNow),
	)

	t.Run("InvalidEmail", func(t *testing.T) {
		client := new(mocks.Client)
		_, err := newTestEngine(dir, newFakeMappings(), client, Config{}).Lookup(context.Background(), "not-an-email")
		assert.ErrorIs(t, err, ErrInvalidEmail)
		client.AssertNotCalled(t, "SearchCustomersByEmail", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		client := new(mocks.Client)
		_, err := newTestEngine(dir, newFakeMappings(), client, Config{}).Lookup(context.Background(), "ghost@example.com")
		assert.ErrorIs(t, err, ErrUserNotFound)
		client.AssertNotCalled(t, "SearchCustomersByEmail", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Cached", func(t *testing.T) {
		store := newFakeMappings()
		store.data[2] = "cus_cached"
		client := new(mocks.Client)

		res, err := newTestEngine(dir, store, client, Config{}).Lookup(context.Background(), "cached@example.com")
		require.NoError(t, err)
		assert.True(t, res.Cached)
		assert.Equal(t, "cus_cached", res.CustomerID)
		assert.Equal(t, uint64(2), res.User.ID)
		client.AssertNotCalled(t, "SearchCustomersByEmail", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("ResolvedAndSaved", func(t *testing.T) {
		store := newFakeMappings()
		client := new(mocks.Client)
		hit(client, "a@example.com", "cus_a")

		res, err := newTestEngine(dir, store, client, Config{}).Lookup(context.Background(), " a@example.com ")
		require.NoError(t, err)
		assert.False(t, res.Cached)
		assert.Equal(t, "cus_a", res.CustomerID)
		assert.Equal(t, "cus_a", store.data[1])
	})

	t.Run("MissLeavesStoreUntouched", func(t *testing.T) {
		store := newFakeMappings()
		client := new(mocks.Client)
		miss(client, "none@example.com")

		res, err := newTestEngine(dir, store, client, Config{}).Lookup(context.Background(), "none@example.com")
		assert.ErrorIs(t, err, ErrCustomerNotFound)
		require.NotNil(t, res)
		assert.Equal(t, uint64(3), res.User.ID)
		assert.Empty(t, store.snapshot())
		assert.Zero(t, store.sets)
		assert.Empty(t, store.deleted)
	})
}

func TestCustomerID(t *testing.T) {
	store := newFakeMappings()
	store.data[1] = "cus_a"
	engine := newTestEngine(newFakeDirectory(user(1, "a@example.com", fixedNow), user(2, "b@example.com", fixedNow)), store, new(mocks.Client), Config{})

	id, err := engine.CustomerID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "cus_a", id)

	_, err = engine.CustomerID(context.Background(), 2)
	assert.ErrorIs(t, err, ErrCustomerNotFound)

	_, err = engine.CustomerID(context.Background(), 3)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestConfigDefaults(t *testing.T) {
	assert.Equal(t, 24*time.Hour, Config{}.IntervalDuration())
	assert.Equal(t, 6*time.Hour, Config{Interval: "6h"}.IntervalDuration())
	assert.Equal(t, 24*time.Hour, Config{Interval: "soon"}.IntervalDuration())
	assert.Equal(t, 7*24*time.Hour, Config{}.RecentWindow())
	assert.Equal(t, 200, Config{}.batchSize())
}
