package rename

// Outcome is the terminal state of one scanned file.
type Outcome int

const (
	// ExtensionRejected files are ignored and appear in no counter.
	ExtensionRejected Outcome = iota
	Unmatched
	Copied
	Errored
)

func (o Outcome) String() string {
	switch o {
	case ExtensionRejected:
		return "extension-rejected"
	case Unmatched:
		return "skipped-unmatched"
	case Copied:
		return "copied"
	case Errored:
		return "errored"
	default:
		return "unknown"
	}
}

// Task records what happened to one file during a pass.
type Task struct {
	Source      string
	Code        string
	Target      string
	Destination string
	Outcome     Outcome
	Err         error
}
