package platform

import "fmt"

// Schema names the tables and columns of a platform profile.
type Schema struct {
	Profile string

	UsersTable     string
	UserID         string
	UserEmail      string
	UserRegistered string

	MetaTable string
	MetaID    string
	MetaUser  string
	MetaKey   string
	MetaValue string

	// UserModel and MetaModel are the gorm models describing both tables.
	UserModel any
	MetaModel any
}

// SchemaFor resolves the schema for the configured profile.
func SchemaFor(cfg Config) (Schema, error) {
	if err := cfg.Validate(); err != nil {
		return Schema{}, err
	}

	switch cfg.Profile {
	case ProfileWordPress:
		return Schema{
			Profile:        ProfileWordPress,
			UsersTable:     cfg.TablePrefix + "users",
			UserID:         "ID",
			UserEmail:      "user_email",
			UserRegistered: "user_registered",
			MetaTable:      cfg.TablePrefix + "usermeta",
			MetaID:         "umeta_id",
			MetaUser:       "user_id",
			MetaKey:        "meta_key",
			MetaValue:      "meta_value",
			UserModel:      WordPressUser{},
			MetaModel:      WordPressUserMeta{},
		}, nil
	case ProfileNative:
		return Schema{
			Profile:        ProfileNative,
			UsersTable:     NativeUser{}.TableName(),
			UserID:         "id",
			UserEmail:      "email",
			UserRegistered: "created_at",
			MetaTable:      NativeUserAttribute{}.TableName(),
			MetaID:         "id",
			MetaUser:       "user_id",
			MetaKey:        "attr_key",
			MetaValue:      "attr_value",
			UserModel:      NativeUser{},
			MetaModel:      NativeUserAttribute{},
		}, nil
	}
	return Schema{}, fmt.Errorf("unknown platform profile: %s", cfg.Profile)
}

// Tables maps each table name to its gorm model.
func (s Schema) Tables() map[string]any {
	return map[string]any{
		s.UsersTable: s.UserModel,
		s.MetaTable:  s.MetaModel,
	}
}
