package reconcile

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"stripe-sync/core/platform"
)

type fakeUser struct {
	platform.User
	registered time.Time
}

// fakeDirectory is an in-memory Directory.
type fakeDirectory struct {
	users   map[uint64]fakeUser
	listErr error
}

func newFakeDirectory(users ...fakeUser) *fakeDirectory {
	d := &fakeDirectory{users: map[uint64]fakeUser{}}
	for _, u := range users {
		d.users[u.ID] = u
	}
	return d
}

func (d *fakeDirectory) Get(_ context.Context, id uint64) (*platform.User, error) {
	u, ok := d.users[id]
	if !ok {
		return nil, platform.ErrUserNotFound
	}
	user := u.User
	return &user, nil
}

func (d *fakeDirectory) FindByEmail(_ context.Context, email string) (*platform.User, error) {
	for _, id := range d.sortedIDs() {
		if d.users[id].Email == email {
			user := d.users[id].User
			return &user, nil
		}
	}
	return nil, platform.ErrUserNotFound
}

func (d *fakeDirectory) List(ctx context.Context, afterID uint64, limit int) ([]platform.User, error) {
	return d.ListRegisteredSince(ctx, time.Time{}, afterID, limit)
}

func (d *fakeDirectory) ListRegisteredSince(_ context.Context, since time.Time, afterID uint64, limit int) ([]platform.User, error) {
	if d.listErr != nil {
		return nil, d.listErr
	}
	var out []platform.User
	for _, id := range d.sortedIDs() {
		u := d.users[id]
		if id <= afterID || u.registered.Before(since) {
			continue
		}
		out = append(out, u.User)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (d *fakeDirectory) sortedIDs() []uint64 {
	ids := make([]uint64, 0, len(d.users))
	for id := range d.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// fakeMappings is an in-memory MappingStore with error injection.
type fakeMappings struct {
	mu      sync.Mutex
	data    map[uint64]string
	setErr  map[uint64]error
	getErr  map[uint64]error
	deleted []uint64
	sets    int
}

func newFakeMappings() *fakeMappings {
	return &fakeMappings{data: map[uint64]string{}, setErr: map[uint64]error{}, getErr: map[uint64]error{}}
}

func (m *fakeMappings) Get(_ context.Context, userID uint64) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.getErr[userID]; err != nil {
		return "", false, err
	}
	id, ok := m.data[userID]
	return id, ok && id != "", nil
}

func (m *fakeMappings) Set(_ context.Context, userID uint64, customerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.setErr[userID]; err != nil {
		return err
	}
	m.sets++
	m.data[userID] = customerID
	return nil
}

func (m *fakeMappings) Delete(_ context.Context, userID uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, userID)
	m.deleted = append(m.deleted, userID)
	return nil
}

func (m *fakeMappings) snapshot() map[uint64]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[uint64]string, len(m.data))
	for k, v := range m.data {
		out[k] = v
	}
	return out
}

var errStore = errors.New("store unavailable")

// recorder collects reported summaries.
type recorder struct {
	mu        sync.Mutex
	summaries []*RunSummary
}

func (r *recorder) Report(_ context.Context, s *RunSummary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.summaries = append(r.summaries, s)
}
