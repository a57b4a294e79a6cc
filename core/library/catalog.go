package library

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"doc-composer/core/database"
	"doc-composer/core/resolve"
	"doc-composer/core/storage"

	"github.com/minio/minio-go/v7"
	"gorm.io/gorm"
)

// DefaultCatalogTable is the table holding catalog documents.
const DefaultCatalogTable = "library_documents"

// Document is a catalog row naming a library document and where its content lives.
type Document struct {
	ID uint `gorm:"primaryKey"`
	// Name is the section name the manifest refers to.
	Name string `gorm:"size:255;not null"`
	// Location is a filesystem path or an s3://bucket/key location.
	Location string `gorm:"size:1024;not null"`
	// Enabled hides a row from the library when false.
	Enabled bool `gorm:"not null;default:true"`
}

// CatalogSource lists documents registered in a database table.
type CatalogSource struct {
	DB     *gorm.DB
	Table  string
	Client storage.Client
}

// NewCatalogSource creates a catalog source. client may be nil when no row
// points into object storage.
func NewCatalogSource(db *gorm.DB, table string, client storage.Client) *CatalogSource {
	if table == "" {
		table = DefaultCatalogTable
	}
	return &CatalogSource{DB: db, Table: table, Client: client}
}

// Name returns "catalog:<table>".
func (s *CatalogSource) Name() string {
	return "catalog:" + s.Table
}

// List loads every enabled catalog row.
func (s *CatalogSource) List(ctx context.Context) ([]resolve.Item, error) {
	var docs []Document
	err := s.DB.WithContext(ctx).
		Table(s.Table).
		Select("id", "name", "location").
		Where("enabled = ?", true).
		Order("name").
		Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog %s: %w", s.Table, err)
	}

	items := make([]resolve.Item, 0, len(docs))
	for _, d := range docs {
		items = append(items, resolve.Item{
			Name:   d.Name,
			Handle: d.Location,
			Source: s.Name(),
		})
	}
	return items, nil
}

// Open reads the row's location from object storage or the filesystem.
func (s *CatalogSource) Open(ctx context.Context, item resolve.Item) (io.ReadCloser, error) {
	if bucket, key, ok := storage.ParseLocation(item.Handle); ok {
		if s.Client == nil {
			return nil, fmt.Errorf("catalog entry %q points to object storage but no storage client is configured", item.Name)
		}
		obj, err := s.Client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
		if err != nil {
			return nil, fmt.Errorf("failed to get %s: %w", item.Handle, err)
		}
		return obj, nil
	}

	f, err := os.Open(item.Handle)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", item.Handle, err)
	}
	return f, nil
}

// catalogColumns are the columns List and Register rely on.
var catalogColumns = []string{"id", "name", "location", "enabled"}

// Verify checks that the catalog table exists with the columns the source reads.
func (s *CatalogSource) Verify(ctx context.Context) error {
	missing, err := database.MissingColumns(s.DB.WithContext(ctx), s.Table, catalogColumns...)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("catalog table %s is missing columns: %s", s.Table, strings.Join(missing, ", "))
	}
	return nil
}

// Migrate creates the catalog table if it does not exist.
func (s *CatalogSource) Migrate(ctx context.Context) error {
	return s.DB.WithContext(ctx).Table(s.Table).AutoMigrate(&Document{})
}

// Register adds or updates a catalog row by name.
func (s *CatalogSource) Register(ctx context.Context, name, location string) error {
	doc := Document{Name: name, Location: location, Enabled: true}
	res := s.DB.WithContext(ctx).Table(s.Table).
		Where("name = ?", name).
		Assign(map[string]any{"location": location, "enabled": true}).
		FirstOrCreate(&doc)
	if res.Error != nil {
		return fmt.Errorf("failed to register %q: %w", name, res.Error)
	}
	return nil
}
