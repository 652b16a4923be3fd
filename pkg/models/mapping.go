package models

import "fmt"

// CodeMapping is a symmetric code table: if m[a] == b then m[b] == a.
// Each code belongs to at most one pair.
type CodeMapping map[string]string

// Pairs returns the number of twin pairs held by the mapping.
func (m CodeMapping) Pairs() int {
	return len(m) / 2
}

// Twin returns the code paired with code.
func (m CodeMapping) Twin(code string) (string, bool) {
	twin, ok := m[code]
	return twin, ok
}

// RejectedRow is a source row dropped because one of its codes was
// already claimed by an earlier pair.
type RejectedRow struct {
	Left  string `json:"left"`
	Right string `json:"right"`
	Line  int    `json:"line"`
}

func (r RejectedRow) String() string {
	return fmt.Sprintf("%s <-> %s", r.Left, r.Right)
}

// BuildReport describes how a mapping was obtained from its source.
type BuildReport struct {
	Source      string        `json:"source"`
	Format      string        `json:"format"`
	Encoding    string        `json:"encoding,omitempty"`
	Delimiter   string        `json:"delimiter,omitempty"`
	LeftColumn  string        `json:"leftColumn"`
	RightColumn string        `json:"rightColumn"`
	Accepted    int           `json:"accepted"`
	Dropped     int           `json:"dropped"`
	Duplicates  []RejectedRow `json:"duplicates,omitempty"`
}
