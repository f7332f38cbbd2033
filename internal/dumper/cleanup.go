package dumper

import (
	"errors"
	"fmt"
	"os"
)

// removeTemp deletes each path: files with os.Remove, directories with their
// whole contents. Paths that no longer exist are skipped.
func removeTemp(paths []string) error {
	var errs []error
	for _, p := range paths {
		info, err := os.Lstat(p)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to stat %s: %w", p, err))
			continue
		}

		if info.IsDir() {
			err = os.RemoveAll(p)
		} else {
			err = os.Remove(p)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to remove %s: %w", p, err))
		}
	}
	return errors.Join(errs...)
}
