// Package sqlite provides SQLite fixtures backed by a database file.
//
// ConnectionString builds mattn/go-sqlite3 DSNs, FileSource deletes its
// database file when the fixture is disposed, and New wires both to a
// GORM executor:
//
//	f, err := sqlite.New(ctx, sqlite.TempPath(t.TempDir()), setup, teardown)
//	if err != nil {
//		t.Fatal(err)
//	}
//	defer f.Dispose(ctx)
package sqlite
