// Package secmem keeps key buffers out of swap where the platform allows it.
//
// Lock and Release are best effort: a failure (for example RLIMIT_MEMLOCK being
// too low) is returned to the caller, which is expected to log it and carry on
// with an unlocked buffer.
package secmem

import "github.com/dmitrijs2005/vaultrecovery/internal/common"

// Lock pins b in physical memory. Empty slices are ignored.
func Lock(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	return lockMemory(b)
}

// Release wipes b and then unpins it.
func Release(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	common.WipeByteArray(b)
	return unlockMemory(b)
}
