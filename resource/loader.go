package resource

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/golang-migrate/migrate/v4/source/iofs"

	apperrors "github.com/kbukum/dbfixture/errors"
	"github.com/kbukum/dbfixture/fixture"
)

// Set is an ordered pair of setup and teardown statements.
type Set struct {
	Setup    []string
	Teardown []string
}

// Source returns a fixture source over the set.
func (s Set) Source(dsn string) fixture.StaticSource {
	return fixture.StaticSource{DSN: dsn, Setup: s.Setup, Teardown: s.Teardown}
}

// Split returns a copy of the set with every script split into single
// statements, for drivers that execute one statement per call.
func (s Set) Split() Set {
	return Set{Setup: splitAll(s.Setup), Teardown: splitAll(s.Teardown)}
}

func splitAll(scripts []string) []string {
	var out []string
	for _, script := range scripts {
		out = append(out, Split(script)...)
	}
	return out
}

// Statements reads the named files from fsys in order, one statement or
// script per file. Files that are empty after trimming are skipped.
func Statements(fsys fs.FS, names ...string) ([]string, error) {
	statements := make([]string, 0, len(names))
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, apperrors.NotFound("fixture file", name).WithCause(err)
			}
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		if stmt := strings.TrimSpace(string(data)); stmt != "" {
			statements = append(statements, stmt)
		}
	}
	return statements, nil
}

// LoadVersioned reads the golang-migrate style files in dir. Each
// version must have an up file; a missing down file contributes nothing
// to the teardown batch.
func LoadVersioned(fsys fs.FS, dir string) (Set, error) {
	src, err := iofs.New(fsys, dir)
	if err != nil {
		return Set{}, fmt.Errorf("opening fixture directory %s: %w", dir, err)
	}
	defer src.Close()

	var versions []uint
	v, err := src.First()
	for err == nil {
		versions = append(versions, v)
		v, err = src.Next(v)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return Set{}, fmt.Errorf("listing fixture versions in %s: %w", dir, err)
	}

	var set Set
	for _, v := range versions {
		r, name, err := src.ReadUp(v)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return Set{}, apperrors.NotFound("up fixture", fmt.Sprintf("%d", v)).WithCause(err)
			}
			return Set{}, fmt.Errorf("reading up fixture %d: %w", v, err)
		}
		stmt, err := readAll(r)
		if err != nil {
			return Set{}, fmt.Errorf("reading up fixture %d_%s: %w", v, name, err)
		}
		if stmt != "" {
			set.Setup = append(set.Setup, stmt)
		}
	}

	for i := len(versions) - 1; i >= 0; i-- {
		v := versions[i]
		r, name, err := src.ReadDown(v)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Set{}, fmt.Errorf("reading down fixture %d: %w", v, err)
		}
		stmt, err := readAll(r)
		if err != nil {
			return Set{}, fmt.Errorf("reading down fixture %d_%s: %w", v, name, err)
		}
		if stmt != "" {
			set.Teardown = append(set.Teardown, stmt)
		}
	}

	return set, nil
}

func readAll(r io.ReadCloser) (string, error) {
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
