package library

import (
	"strings"
	"time"
)

// Config holds configuration for the document library.
type Config struct {
	// Dirs is a comma separated list of library directories, highest priority first.
	Dirs string `mapstructure:"dirs" default:"./library"`
	// Extension is the file extension of library documents.
	Extension string `mapstructure:"extension" default:".docx" validate:"required,startswith=."`
	// BucketPrefix enables the bucket source under this prefix of the storage bucket.
	BucketPrefix string `mapstructure:"bucket_prefix" default:""`
	// UseCatalog enables the database catalog source.
	UseCatalog bool `mapstructure:"use_catalog" default:"false"`
	// CatalogTable is the catalog table name.
	CatalogTable string `mapstructure:"catalog_table" default:"library_documents"`
	// CollisionPolicy decides whether name collisions are fatal (prefer-first or error).
	CollisionPolicy string `mapstructure:"collision_policy" default:"prefer-first" validate:"oneof=prefer-first error"`
	// CacheTTLSeconds is how long a library snapshot is reused. Zero reloads every run.
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds" default:"300" validate:"gte=0"`
	// Watch invalidates the cache when library directories change.
	Watch bool `mapstructure:"watch" default:"true"`
}

// Directories returns the configured directories in priority order.
func (c Config) Directories() []string {
	var dirs []string
	for _, d := range strings.Split(c.Dirs, ",") {
		if d = strings.TrimSpace(d); d != "" {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// CacheTTL returns the snapshot TTL.
func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}
