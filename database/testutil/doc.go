// Package testutil provides assertions for tests that check what a
// fixture left in a SQLite database.
//
//	db := testutil.MustOpen(t, path)
//	testutil.AssertRowCount(t, db, "users", 2)
//
//	f.Dispose(ctx)
//	testutil.AssertTableMissing(t, db, "users")
package testutil
