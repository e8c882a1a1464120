// Package testutil runs fixtures and other components inside Go tests.
//
// A TestComponent is a component.Component that can also be reset,
// snapshotted and restored between test cases. *fixture.Fixture is one.
//
// Per test, with automatic cleanup:
//
//	func TestUsers(t *testing.T) {
//	    testutil.T(t).Setup(f)
//	    // f is stopped when the test ends
//	}
//
// Per package, shared by every test, with a Collection started from
// TestMain:
//
//	func TestMain(m *testing.M) {
//	    fixtures.Add(f)
//	    os.Exit(fixtures.Run(m))
//	}
package testutil
