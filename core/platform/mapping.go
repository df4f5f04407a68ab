package platform

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type metaRow struct {
	Value string `gorm:"column:value"`
}

func (s *Store) meta(ctx context.Context, userID uint64) *gorm.DB {
	return s.db.WithContext(ctx).
		Table(s.schema.MetaTable).
		Where(fmt.Sprintf("%s = ? AND %s = ?", s.schema.MetaUser, s.schema.MetaKey), userID, s.metaKey)
}

// GetCustomerID returns the stored Stripe customer ID for a user.
// An empty stored value counts as no mapping.
func (s *Store) GetCustomerID(ctx context.Context, userID uint64) (string, bool, error) {
	var row metaRow
	err := s.meta(ctx, userID).
		Select(fmt.Sprintf("%s AS value", s.schema.MetaValue)).
		Order(s.schema.MetaID).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read customer mapping for user %d: %w", userID, err)
	}
	if row.Value == "" {
		return "", false, nil
	}
	return row.Value, true, nil
}

// SetCustomerID stores the Stripe customer ID for a user, replacing any previous value.
// There is no locking: concurrent writers race and the last write wins.
func (s *Store) SetCustomerID(ctx context.Context, userID uint64, customerID string) error {
	var count int64
	if err := s.meta(ctx, userID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check customer mapping for user %d: %w", userID, err)
	}

	if count > 0 {
		err := s.meta(ctx, userID).Update(s.schema.MetaValue, customerID).Error
		if err != nil {
			return fmt.Errorf("failed to update customer mapping for user %d: %w", userID, err)
		}
		return nil
	}

	err := s.db.WithContext(ctx).Table(s.schema.MetaTable).Create(map[string]any{
		s.schema.MetaUser:  userID,
		s.schema.MetaKey:   s.metaKey,
		s.schema.MetaValue: customerID,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to insert customer mapping for user %d: %w", userID, err)
	}
	return nil
}

// DeleteCustomerID removes any stored customer mapping for a user.
func (s *Store) DeleteCustomerID(ctx context.Context, userID uint64) error {
	err := s.db.WithContext(ctx).Exec(
		fmt.Sprintf("DELETE FROM %s WHERE %s = ? AND %s = ?", s.schema.MetaTable, s.schema.MetaUser, s.schema.MetaKey),
		userID, s.metaKey,
	).Error
	if err != nil {
		return fmt.Errorf("failed to delete customer mapping for user %d: %w", userID, err)
	}
	return nil
}
