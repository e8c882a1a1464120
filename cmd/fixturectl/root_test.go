package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// executeCommand runs a fresh root command and captures its output.
func executeCommand(args ...string) (string, error) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

type project struct {
	dir    string
	config string
	dsn    string
}

// newProject writes a config file and a two-version fixture directory.
func newProject(t *testing.T, driver string) project {
	t.Helper()
	dir := t.TempDir()
	fixtures := filepath.Join(dir, "fixtures")
	if err := os.Mkdir(fixtures, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	files := map[string]string{
		"1_create_test.up.sql":   "CREATE TABLE test (id INT, name TEXT);",
		"1_create_test.down.sql": "DROP TABLE test;",
		"2_seed_test.up.sql":     "INSERT INTO test VALUES (1, 'Name');\nINSERT INTO test VALUES (2, 'Other');",
		"2_seed_test.down.sql":   "DELETE FROM test;",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(fixtures, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	dsn := filepath.Join(dir, "fixture.db")
	cfg := fmt.Sprintf(`name: fixturectl-test
logging:
  level: disabled
  format: json
database:
  driver: %s
  dsn: %s
fixtures:
  dir: %s
observability:
  enabled: false
`, driver, dsn, fixtures)

	configPath := filepath.Join(dir, "fixturectl.yml")
	if err := os.WriteFile(configPath, []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return project{dir: dir, config: configPath, dsn: dsn}
}

func countRows(t *testing.T, dsn string) (int, error) {
	t.Helper()
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	var n int
	err = db.QueryRow("SELECT COUNT(*) FROM test").Scan(&n)
	return n, err
}

func TestApplyAndRevert(t *testing.T) {
	for _, driver := range []string{"sqlite", "sqlite3"} {
		t.Run(driver, func(t *testing.T) {
			p := newProject(t, driver)

			out, err := executeCommand("apply", "--config", p.config)
			if err != nil {
				t.Fatalf("apply failed: %v\n%s", err, out)
			}
			if !strings.Contains(out, "applied 2 setup statements") {
				t.Errorf("unexpected apply output: %q", out)
			}
			n, err := countRows(t, p.dsn)
			if err != nil || n != 2 {
				t.Fatalf("after apply: rows=%d err=%v, want 2 rows", n, err)
			}

			out, err = executeCommand("revert", "--config", p.config)
			if err != nil {
				t.Fatalf("revert failed: %v\n%s", err, out)
			}
			if _, err := countRows(t, p.dsn); err == nil {
				t.Error("expected the test table to be dropped by revert")
			}
		})
	}
}

func TestVerify(t *testing.T) {
	p := newProject(t, "sqlite")

	out, err := executeCommand("verify", "--config", p.config)
	if err != nil {
		t.Fatalf("verify failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "fixturectl-test: healthy") {
		t.Errorf("expected healthy status in output, got %q", out)
	}
	if !strings.Contains(out, "setup=2 teardown=2") {
		t.Errorf("expected description in output, got %q", out)
	}
	if _, err := countRows(t, p.dsn); err == nil {
		t.Error("expected verify to leave no test table behind")
	}
}

func TestVerify_FailingFixture(t *testing.T) {
	p := newProject(t, "sqlite")
	bad := filepath.Join(p.dir, "fixtures", "3_broken.up.sql")
	if err := os.WriteFile(bad, []byte("INSERT INTO missing VALUES (1);"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := executeCommand("verify", "--config", p.config); err == nil {
		t.Fatal("expected verify to fail")
	}
	if _, err := countRows(t, p.dsn); err == nil {
		t.Error("expected the failed setup batch to be rolled back")
	}
}

func TestList(t *testing.T) {
	p := newProject(t, "sqlite")

	out, err := executeCommand("list", "--config", p.config)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	setupAt := strings.Index(out, "setup (2):")
	teardownAt := strings.Index(out, "teardown (2):")
	if setupAt < 0 || teardownAt < setupAt {
		t.Fatalf("unexpected list output: %q", out)
	}
	// teardown runs the newest version first
	if !strings.Contains(out[teardownAt:], "[0] DELETE FROM test;") {
		t.Errorf("expected DELETE first in teardown, got %q", out[teardownAt:])
	}
}

func TestFlagOverrides(t *testing.T) {
	p := newProject(t, "sqlite")
	other := filepath.Join(p.dir, "other.db")

	if out, err := executeCommand("apply", "--config", p.config, "--dsn", other, "--driver", "sqlite3"); err != nil {
		t.Fatalf("apply failed: %v\n%s", err, out)
	}
	if n, err := countRows(t, other); err != nil || n != 2 {
		t.Errorf("expected rows in the --dsn database, rows=%d err=%v", n, err)
	}
	if _, err := os.Stat(p.dsn); err == nil {
		t.Error("expected the configured database to stay untouched")
	}
}

func TestConfigErrors(t *testing.T) {
	p := newProject(t, "sqlite")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown driver", []string{"apply", "--config", p.config, "--driver", "oracle"}, "unsupported driver"},
		{"missing dir", []string{"apply", "--config", p.config, "--dir", filepath.Join(p.dir, "nope")}, "must be an existing directory"},
		{"missing config", []string{"apply", "--config", filepath.Join(p.dir, "nope.yml")}, "not found"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := executeCommand(tc.args...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not contain %q", err.Error(), tc.want)
			}
		})
	}
}

func TestVersion(t *testing.T) {
	out, err := executeCommand("version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(out, "fixturectl ") {
		t.Errorf("unexpected version output: %q", out)
	}
}
