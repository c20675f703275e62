package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// acquireRunLock takes an advisory file lock scoped to the base
// collection name. Two concurrent runs against the same alias would
// both create new generations and race on the swap, so runs on one
// host are serialized here. The lock does not cover runs from other
// hosts; the build pipeline must serialize those.
func acquireRunLock(collection string) (func(), error) {
	path := filepath.Join(os.TempDir(), "siteindex-"+collection+".lock")

	fl := flock.New(path)
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock %s: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("another reindex run for %q is in progress (lock: %s)", collection, path)
	}

	return func() { _ = fl.Unlock() }, nil
}
