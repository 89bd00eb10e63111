//go:build linux

package util

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// AvailableMemoryBytes returns the available memory in bytes.
// Prefers MemAvailable from /proc/meminfo, which accounts for reclaimable
// page cache; falls back to sysinfo free memory. Returns 0 if memory cannot
// be determined.
func AvailableMemoryBytes() uint64 {
	if mem := memAvailableProc(); mem > 0 {
		return mem
	}

	var si unix.Sysinfo_t
	if err := unix.Sysinfo(&si); err != nil {
		return 0
	}
	return uint64(si.Freeram) * uint64(si.Unit)
}

func memAvailableProc() uint64 {
	f, err := os.Open("/proc/meminfo")
	if err != nil {
		return 0
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "MemAvailable:") {
			fields := strings.Fields(line)
			if len(fields) >= 2 {
				kb, err := strconv.ParseUint(fields[1], 10, 64)
				if err == nil {
					return kb * 1024
				}
			}
		}
	}
	return 0
}
