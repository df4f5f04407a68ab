package platform

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Store is the gorm-backed host platform collaborator. It serves the user directory
// and the per-user attribute store holding the customer mapping.
type Store struct {
	db      *gorm.DB
	schema  Schema
	metaKey string
	perPage int
}

// NewStore creates a platform store for the configured profile.
func NewStore(db *gorm.DB, cfg Config) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	schema, err := SchemaFor(cfg)
	if err != nil {
		return nil, err
	}
	perPage := cfg.PerPage
	if perPage <= 0 {
		perPage = 20
	}
	return &Store{db: db, schema: schema, metaKey: cfg.MetaKey, perPage: perPage}, nil
}

// Schema returns the resolved profile schema.
func (s *Store) Schema() Schema {
	return s.schema
}

// PerPage returns the default listing page size.
func (s *Store) PerPage() int {
	return s.perPage
}

type userRow struct {
	ID    uint64 `gorm:"column:id"`
	Email string `gorm:"column:email"`
}

func (s *Store) userColumns() string {
	return fmt.Sprintf("%s AS id, %s AS email", s.schema.UserID, s.schema.UserEmail)
}

func (s *Store) users(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Table(s.schema.UsersTable).Select(s.userColumns())
}

// Get returns the user with the given ID.
func (s *Store) Get(ctx context.Context, id uint64) (*User, error) {
	var row userRow
	err := s.users(ctx).Where(fmt.Sprintf("%s = ?", s.schema.UserID), id).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user %d: %w", id, err)
	}
	return &User{ID: row.ID, Email: row.Email}, nil
}

// FindByEmail returns the first user (lowest ID) registered with the given email.
func (s *Store) FindByEmail(ctx context.Context, email string) (*User, error) {
	var row userRow
	err := s.users(ctx).
		Where(fmt.Sprintf("%s = ?", s.schema.UserEmail), strings.TrimSpace(email)).
		Order(s.schema.UserID).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return &User{ID: row.ID, Email: row.Email}, nil
}

// List returns up to limit users with an ID greater than afterID, in ID order.
func (s *Store) List(ctx context.Context, afterID uint64, limit int) ([]User, error) {
	var rows []userRow
	err := s.users(ctx).
		Where(fmt.Sprintf("%s > ?", s.schema.UserID), afterID).
		Order(s.schema.UserID).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return toUsers(rows), nil
}

// ListRegisteredSince is List restricted to users registered at or after since.
func (s *Store) ListRegisteredSince(ctx context.Context, since time.Time, afterID uint64, limit int) ([]User, error) {
	var rows []userRow
	err := s.users(ctx).
		Where(fmt.Sprintf("%s > ?", s.schema.UserID), afterID).
		Where(fmt.Sprintf("%s >= ?", s.schema.UserRegistered), since).
		Order(s.schema.UserID).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recent users: %w", err)
	}
	return toUsers(rows), nil
}

// ListMapped returns a page of users that have a non-empty customer mapping.
func (s *Store) ListMapped(ctx context.Context, page, perPage int) (*Page, error) {
	return s.listPage(ctx, page, perPage, true)
}

// ListUnmapped returns a page of users without a customer mapping.
func (s *Store) ListUnmapped(ctx context.Context, page, perPage int) (*Page, error) {
	return s.listPage(ctx, page, perPage, false)
}

func (s *Store) listPage(ctx context.Context, page, perPage int, mapped bool) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = s.perPage
	}

	sc := s.schema
	join := fmt.Sprintf("LEFT JOIN %s AS m ON m.%s = u.%s AND m.%s = ? AND m.%s <> ''",
		sc.MetaTable, sc.MetaUser, sc.UserID, sc.MetaKey, sc.MetaValue)
	filter := fmt.Sprintf("m.%s IS NULL", sc.MetaID)
	if mapped {
		filter = fmt.Sprintf("m.%s IS NOT NULL", sc.MetaID)
	}
	base := func() *gorm.DB {
		return s.db.WithContext(ctx).
			Table(sc.UsersTable+" AS u").
			Joins(join, s.metaKey).
			Where(filter)
	}

	var total int64
	if err := base().Distinct("u." + sc.UserID).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	var rows []MappedUser
	err := base().
		Select(fmt.Sprintf("u.%s AS id, u.%s AS email, COALESCE(MAX(m.%s), '') AS customer_id", sc.UserID, sc.UserEmail, sc.MetaValue)).
		Group(fmt.Sprintf("u.%s, u.%s", sc.UserID, sc.UserEmail)).
		Order("u." + sc.UserID).
		Offset((page - 1) * perPage).
		Limit(perPage).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	if rows == nil {
		rows = []MappedUser{}
	}

	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	return &Page{
		Users:      rows,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	}, nil
}

func toUsers(rows []userRow) []User {
	users := make([]User, 0, len(rows))
	for _, r := range rows {
		users = append(users, User{ID: r.ID, Email: r.Email})
	}
	return users
}
