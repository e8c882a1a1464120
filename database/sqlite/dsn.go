package sqlite

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ConnectionString describes a SQLite connection in terms of the
// mattn/go-sqlite3 DSN parameters.
type ConnectionString struct {
	// DataSource is the database file path.
	DataSource string
	// Mode is ro, rw, rwc or memory.
	Mode string
	// Cache is shared or private.
	Cache string
	// ForeignKeys enables foreign key enforcement when true.
	ForeignKeys bool
	// BusyTimeout is how long to wait on a locked database.
	BusyTimeout time.Duration
	// JournalMode is DELETE, TRUNCATE, PERSIST, MEMORY, WAL or OFF.
	JournalMode string
}

// String returns the DSN. Without parameters it is the bare path, unless
// the path contains a ? that the driver would take for a query. Otherwise
// it is a file: URI whose path has ?, # and % escaped.
func (c ConnectionString) String() string {
	q := url.Values{}
	if c.Mode != "" {
		q.Set("mode", c.Mode)
	}
	if c.Cache != "" {
		q.Set("cache", c.Cache)
	}
	if c.ForeignKeys {
		q.Set("_foreign_keys", "1")
	}
	if c.BusyTimeout > 0 {
		q.Set("_busy_timeout", strconv.FormatInt(c.BusyTimeout.Milliseconds(), 10))
	}
	if c.JournalMode != "" {
		q.Set("_journal_mode", c.JournalMode)
	}

	if len(q) == 0 && !strings.Contains(c.DataSource, "?") {
		return c.DataSource
	}
	uri := "file:" + (&url.URL{Path: c.DataSource}).EscapedPath()
	if len(q) == 0 {
		return uri
	}
	return uri + "?" + q.Encode()
}
