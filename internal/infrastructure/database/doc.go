// Package database provides SQLite connection management for BattWatch.
//
// It wraps database/sql with:
//   - WAL mode and busy-timeout configuration
//   - Embedded schema migrations (see the migrations package)
//   - Health checks and lifecycle management
//
// The only consumer is the notification journal; battery readings are
// never persisted.
//
// # Usage
//
//	db, err := database.Open(database.Config{Path: cfg.Database.Path})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    return err
//	}
package database
