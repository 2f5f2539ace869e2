//go:build !linux

package readahead

import "os"

type platformAdvisor struct{}

func (platformAdvisor) Advise(f *os.File, offset, length int64) error {
	return nil
}
