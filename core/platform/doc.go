// Package platform is the host platform collaborator: the user directory and the per-user
// attribute store that holds the Stripe customer mapping.
//
// # Profiles
//
// The host schema differs between installations, so table and column names come from a
// profile:
//
//   - wordpress: '<prefix>users' (ID, user_email, user_registered) and
//     '<prefix>usermeta' (umeta_id, user_id, meta_key, meta_value).
//   - native: 'users' (id, email, created_at) and
//     'user_attributes' (id, user_id, attr_key, attr_value).
//
// Each profile is described by gorm models (WordPressUser, NativeUser, ...) which double as
// the expected schema for the integrity check and as the source for Migrate.
//
// # Mapping
//
// The mapping lives under a single reserved attribute key (default "_stripe_customer_id").
// GetCustomerID / SetCustomerID / DeleteCustomerID implement get, set (upsert) and delete.
// There is no concurrency control; the last writer wins.
//
// # Usage
//
//	store, err := platform.NewStore(db, cfg.Platform)
//	user, err := store.FindByEmail(ctx, "a@example.com")
//	id, ok, err := store.GetCustomerID(ctx, user.ID)
package platform
