// Package fixture installs and removes database test fixtures.
//
// A Fixture pairs a Source, which supplies a connection string and the
// ordered setup and teardown statements, with an Executor, which runs one
// batch of statements inside a single transaction on a fresh connection.
// The fixture tracks whether its setup batch is currently installed so
// that inserting twice or removing twice is a no-op:
//
//	src := fixture.StaticSource{
//		DSN:      "file:test.db",
//		Setup:    []string{"CREATE TABLE test (id INT, name TEXT)", "INSERT INTO test VALUES (1, 'Name')"},
//		Teardown: []string{"DROP TABLE test"},
//	}
//	f, err := fixture.New(ctx, exec, src)
//	if err != nil {
//		return err
//	}
//	defer f.Dispose(ctx)
//
// A Source that also implements io.Closer is closed by Dispose after the
// teardown batch, which lets file-backed sources delete their database.
//
// Fixture satisfies component.Component, so fixtures can be started and
// stopped through a component.Registry or the testutil helpers.
package fixture
