// Package database connects to the MySQL database holding the library catalog.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) to properly configure
// MySQL connections based on the application's configuration.
//
// # Connect
//
// Connect establishes the connection with DSN-level timeouts and verifies it
// with a ping. The catalog is optional, so callers should degrade gracefully
// when it fails.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns read a table's columns with SHOW COLUMNS,
// which the catalog check uses to verify the catalog table before listing it.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    logger.Warn("Catalog unavailable", zap.Error(err))
//	}
//
//	missing, err := database.MissingColumns(db, "library_documents", "name", "location", "enabled")
package database
