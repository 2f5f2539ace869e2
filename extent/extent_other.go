//go:build !linux

package extent

import "errors"

type platformMapper struct{}

// Map is unsupported outside Linux: FIEMAP is a Linux-specific ioctl,
// and this package makes no attempt at a cross-platform equivalent, per
// spec.md's Linux-only scope.
func (platformMapper) Map(path string) ([]Extent, error) {
	return nil, errors.New("extent: FIEMAP is only supported on linux")
}
