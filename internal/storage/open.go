package storage

import (
	"fmt"
	"path/filepath"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Open returns the Store selected by backend, rooted at base. sqlitePath
// defaults to <base>/desk.db when empty. The returned close function is
// always non-nil.
func Open(backend, base, sqlitePath string) (Store, func() error, error) {
	noop := func() error { return nil }
	switch backend {
	case "", BackendFile:
		return NewFile(base), noop, nil
	case BackendSQLite:
		if sqlitePath == "" {
			sqlitePath = filepath.Join(base, "desk.db")
		}
		db, err := NewSQLite(sqlitePath)
		if err != nil {
			return nil, noop, err
		}
		return db, db.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown storage backend %q (want %q or %q)", backend, BackendFile, BackendSQLite)
	}
}
