package rename

import (
	"fmt"
	"path/filepath"
)

// MaxConflictAttempts bounds the numbered variants tried for one file.
const MaxConflictAttempts = 1000

// conflictName inserts "_N" before the extension: ("PRD001", ".png", 2)
// becomes "PRD001_2.png".
func conflictName(stem, ext string, n int) string {
	return fmt.Sprintf("%s_%d%s", stem, n, ext)
}

// resolveConflict returns the first free path among dir/stem_1ext ...
// dir/stem_Next for N up to MaxConflictAttempts. The unnumbered name is
// assumed to be taken already.
func resolveConflict(fsys FileSystem, dir, stem, ext string) (string, error) {
	for n := 1; n <= MaxConflictAttempts; n++ {
		candidate := filepath.Join(dir, conflictName(stem, ext, n))
		taken, err := exists(fsys, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", &TooManyConflictsError{Name: stem + ext, Attempts: MaxConflictAttempts}
}
