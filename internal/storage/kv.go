package storage

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

// Persisted keys.
const (
	KeyClients = "allClientCards"
	KeyTheme   = "theme"
)

// KV is a flat byte store addressed by key.
type KV interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Set replaces the value for key.
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Driver names a KV implementation.
type Driver string

const (
	DriverFile   Driver = "file"
	DriverSQLite Driver = "sqlite"
	DriverMemory Driver = "memory"
)

// Drivers lists the accepted driver names.
func Drivers() []Driver {
	return []Driver{DriverFile, DriverSQLite, DriverMemory}
}

// ParseDriver normalizes a driver name. Empty selects DriverFile.
func ParseDriver(s string) (Driver, error) {
	d := Driver(strings.ToLower(strings.TrimSpace(s)))
	if d == "" {
		return DriverFile, nil
	}
	if slices.Contains(Drivers(), d) {
		return d, nil
	}
	return "", fmt.Errorf("unknown storage driver %q (want one of %v)", s, Drivers())
}

func checkKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("empty key")
	}
	if strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return fmt.Errorf("invalid key %q", key)
	}
	return nil
}
