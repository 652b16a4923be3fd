package models

// Result holds the aggregate counters of one rename pass.
type Result struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
	Errors    int `json:"errors"`
}

// Total is the number of files with an allowed extension that were examined.
func (r Result) Total() int {
	return r.Processed + r.Skipped + r.Errors
}
