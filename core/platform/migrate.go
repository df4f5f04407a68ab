package platform

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Migrate creates the profile's tables when they do not exist yet.
// It is meant for the native profile and for local sandboxes; a WordPress
// installation already owns its tables.
func Migrate(ctx context.Context, db *gorm.DB, schema Schema) error {
	for _, t := range []struct {
		name  string
		model any
	}{
		{schema.UsersTable, schema.UserModel},
		{schema.MetaTable, schema.MetaModel},
	} {
		if err := db.WithContext(ctx).Table(t.name).AutoMigrate(t.model); err != nil {
			return fmt.Errorf("failed to migrate table %s: %w", t.name, err)
		}
	}
	return nil
}
