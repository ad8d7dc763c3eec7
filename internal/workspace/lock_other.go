// SPDX-License-Identifier: MPL-2.0

//go:build !linux

package workspace

import "errors"

// errFlockUnavailable is returned where no cross-process lock is implemented. The
// installer then relies on its in-process mutex alone.
var errFlockUnavailable = errors.New("flock not available on this platform")

type fileLock struct{}

func acquireLock(string) (*fileLock, error) {
	return nil, errFlockUnavailable
}

// Release is a no-op.
func (l *fileLock) Release() {}
