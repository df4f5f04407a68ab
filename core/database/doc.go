// Package database handles the host platform database connection and schema inspection.
//
// It wraps GORM to configure MySQL connections (the production host platform, e.g. a
// WordPress installation) and sqlite connections (local sandboxes and tests).
//
// # Connect
//
// Connect builds the DSN, applies pool settings and pings the server with the configured
// timeout. It knows nothing about the platform schema; table and column names are owned
// by core/platform profiles.
//
// # Schema Inspection
//
// GetTableColumns lists a table's columns (SHOW COLUMNS on MySQL, PRAGMA table_info on
// sqlite). The integrity feature uses it to verify that the configured platform profile
// matches the connected database before any sync pass runs.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "wp_usermeta")
package database
