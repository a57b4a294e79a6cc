// Package config provides configuration management for the document composer.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file. Defaults come from the `default` struct tags of each
// section and are registered by reflection, so every key can be overridden by
// its SECTION_KEY environment variable.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Compose: fuzzy threshold, interactive confirmation, reject policy, batch workers
//   - Library: library directories, bucket prefix, catalog, collision policy, cache
//   - Server: HTTP port and API key
//   - Database: MySQL connection details for the library catalog
//   - Storage: S3/MinIO credentials and bucket settings
//   - Log: Logging level and format
//
// The loaded configuration is validated; a *validation.Error names the failing
// keys (e.g. compose.fuzzy_threshold).
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Compose.FuzzyThreshold)
package config
