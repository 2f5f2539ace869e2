// Package readahead issues kernel read-ahead advisories: the external
// collaborator spec.md §1(c) and §6.3 describe as hinting that a byte
// range of an open file will be read soon.
package readahead

import "os"

// Advisor issues a read-ahead hint for a byte range of an already-open
// file.
type Advisor interface {
	Advise(f *os.File, offset, length int64) error
}

// Default is the platform's read-ahead advisor.
var Default Advisor = platformAdvisor{}

// Advise issues a read-ahead hint using the default advisor.
func Advise(f *os.File, offset, length int64) error {
	return Default.Advise(f, offset, length)
}
