package sqlite

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Dialector returns the GORM SQLite dialector for dsn. It matches
// database.DriverFunc.
func Dialector(dsn string) gorm.Dialector {
	return gormsqlite.Open(dsn)
}

// FileSource is a fixture source over a SQLite database file. Closing it
// deletes the file.
type FileSource struct {
	// Path is the database file.
	Path string
	// Options adds DSN parameters; its DataSource is replaced by Path.
	Options  ConnectionString
	Setup    []string
	Teardown []string
}

// Name returns the file name without its extension.
func (s *FileSource) Name() string {
	base := filepath.Base(s.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ConnectionString returns the DSN for Path.
func (s *FileSource) ConnectionString() string {
	cs := s.Options
	cs.DataSource = s.Path
	return cs.String()
}

func (s *FileSource) SetupStatements() []string { return s.Setup }

func (s *FileSource) TeardownStatements() []string { return s.Teardown }

// Close deletes the database file. A missing file is not an error.
func (s *FileSource) Close() error {
	if err := os.Remove(s.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// TempPath returns a unique database file path inside dir. An empty dir
// means the system temporary directory.
func TempPath(dir string) string {
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "fixture-"+uuid.NewString()+".db")
}
