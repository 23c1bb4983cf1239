package storage

import (
	"context"
	"fmt"
	"path/filepath"
)

// DefaultSQLiteFile is the database file name used when no path is given.
const DefaultSQLiteFile = "clientdesk.db"

// Options selects and configures a driver.
type Options struct {
	Driver     Driver
	Dir        string
	SQLitePath string
}

// Open returns the KV named by opts.Driver.
func Open(ctx context.Context, opts Options) (KV, error) {
	driver, err := ParseDriver(string(opts.Driver))
	if err != nil {
		return nil, err
	}
	switch driver {
	case DriverFile:
		return NewFile(opts.Dir)
	case DriverSQLite:
		path := opts.SQLitePath
		if path == "" {
			path = filepath.Join(opts.Dir, DefaultSQLiteFile)
		}
		return NewSQLite(ctx, path)
	case DriverMemory:
		return NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
}

// Describe returns a human-readable location for kv.
func Describe(kv KV) string {
	switch s := kv.(type) {
	case *File:
		return "file:" + s.Dir()
	case *SQLite:
		return "sqlite:" + s.Path()
	case *Memory:
		return "memory"
	}
	return fmt.Sprintf("%T", kv)
}
