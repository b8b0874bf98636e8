//go:build !(linux || darwin || freebsd)

package secmem

func lockMemory(b []byte) error   { return nil }
func unlockMemory(b []byte) error { return nil }
