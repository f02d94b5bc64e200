// Package database handles database connections for the note store.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) to properly configure
// MySQL connections based on the application's configuration.
//
// # Connect
//
// The Connect function establishes a pooled connection to the database and verifies it
// with a ping. The note and detail schemas themselves are defined by the feature packages
// (see feature/notes/models) and migrated at startup.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
package database
