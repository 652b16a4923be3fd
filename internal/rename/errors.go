package rename

import "fmt"

// DirectoryNotFoundError is returned before any write when the input
// directory is missing or is not a directory.
type DirectoryNotFoundError struct {
	Path   string
	NotDir bool
	Err    error
}

func (e *DirectoryNotFoundError) Error() string {
	if e.NotDir {
		return fmt.Sprintf("input path is not a directory: %s", e.Path)
	}
	return fmt.Sprintf("input directory not found: %s", e.Path)
}

func (e *DirectoryNotFoundError) Unwrap() error { return e.Err }

// TooManyConflictsError is returned for a single file when every numbered
// variant of its destination name is taken.
type TooManyConflictsError struct {
	Name     string
	Attempts int
}

func (e *TooManyConflictsError) Error() string {
	return fmt.Sprintf("too many name conflicts for %s (%d attempts)", e.Name, e.Attempts)
}

// InvalidTargetError is returned when a twin code cannot be used as a file
// name inside the output directory.
type InvalidTargetError struct {
	Code string
}

func (e *InvalidTargetError) Error() string {
	return fmt.Sprintf("twin code %q is not a valid file name", e.Code)
}
