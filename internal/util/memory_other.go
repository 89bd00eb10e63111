//go:build !linux

package util

// AvailableMemoryBytes returns the available memory in bytes.
// Returns 0 on platforms without a supported probe; callers treat 0 as
// "unknown" and fall back to conservative defaults.
func AvailableMemoryBytes() uint64 {
	return 0
}
