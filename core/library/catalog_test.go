package library

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"doc-composer/core/resolve"
	"doc-composer/core/storage/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// setupMockDB creates a mock GORM DB for testing.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestCatalogSource_List(t *testing.T) {
	db, sqlMock := setupMockDB(t)

	rows := sqlmock.NewRows([]string{"id", "name", "location"}).
		AddRow(1, "Financial Overview", "s3://documents/library/financial-overview.docx").
		AddRow(2, "Market Analysis", "/srv/library/market-analysis.docx")
	sqlMock.ExpectQuery("SELECT .* FROM `library_documents` WHERE enabled = \\? ORDER BY name").
		WithArgs(true).
		WillReturnRows(rows)

	src := NewCatalogSource(db, "", nil)
	assert.Equal(t, "catalog:library_documents", src.Name())

	items, err := src.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Financial Overview", items[0].Name)
	assert.Equal(t, "s3://documents/library/financial-overview.docx", items[0].Handle)
	assert.Equal(t, "catalog:library_documents", items[1].Source)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestCatalogSource_ListError(t *testing.T) {
	db, sqlMock := setupMockDB(t)
	sqlMock.ExpectQuery(".*").WillReturnError(assert.AnError)

	_, err := NewCatalogSource(db, "docs", nil).List(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
	assert.ErrorContains(t, err, "docs")
}

func TestCatalogSource_Verify(t *testing.T) {
	columns := func(fields ...string) *sqlmock.Rows {
		rows := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"})
		for _, f := range fields {
			rows.AddRow(f, "varchar(255)", "NO", "", nil, "")
		}
		return rows
	}

	t.Run("Complete", func(t *testing.T) {
		db, sqlMock := setupMockDB(t)
		sqlMock.ExpectQuery("SHOW COLUMNS FROM `library_documents`").
			WillReturnRows(columns("id", "name", "location", "enabled"))

		assert.NoError(t, NewCatalogSource(db, "", nil).Verify(context.Background()))
	})

	t.Run("Missing Columns", func(t *testing.T) {
		db, sqlMock := setupMockDB(t)
		sqlMock.ExpectQuery("SHOW COLUMNS FROM `docs`").
			WillReturnRows(columns("id", "name"))

		err := NewCatalogSource(db, "docs", nil).Verify(context.Background())
		assert.EqualError(t, err, "catalog table docs is missing columns: enabled, location")
	})
}

func TestCatalogSource_Register(t *testing.T) {
	db, sqlMock := setupMockDB(t)

	sqlMock.ExpectQuery("SELECT .* FROM `library_documents` WHERE name = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "location", "enabled"}))
	sqlMock.ExpectBegin()
	sqlMock.ExpectExec("INSERT INTO `library_documents`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	sqlMock.ExpectCommit()

	err := NewCatalogSource(db, "", nil).Register(context.Background(), "Cover Page", "/srv/library/cover.docx")
	require.NoError(t, err)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestCatalogSource_Open(t *testing.T) {
	t.Run("ObjectStorage", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("GetObject", mock.Anything, "documents", "library/financial-overview.docx", mock.Anything).
			Return(io.NopCloser(strings.NewReader("finance")), nil)

		src := NewCatalogSource(nil, "", client)
		rc, err := src.Open(context.Background(), resolve.Item{Name: "Financial Overview", Handle: "s3://documents/library/financial-overview.docx"})
		require.NoError(t, err)
		data, _ := io.ReadAll(rc)
		assert.Equal(t, "finance", string(data))
	})

	t.Run("ObjectStorageWithoutClient", func(t *testing.T) {
		src := NewCatalogSource(nil, "", nil)
		_, err := src.Open(context.Background(), resolve.Item{Name: "x", Handle: "s3://documents/x.docx"})
		assert.ErrorContains(t, err, "no storage client")
	})

	t.Run("Filesystem", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "market.docx")
		require.NoError(t, os.WriteFile(path, []byte("market"), 0o644))

		rc, err := NewCatalogSource(nil, "", nil).Open(context.Background(), resolve.Item{Name: "Market", Handle: path})
		require.NoError(t, err)
		defer rc.Close()
		data, _ := io.ReadAll(rc)
		assert.Equal(t, "market", string(data))
	})
}
