package util

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// SystemInfo contains information about the host system.
type SystemInfo struct {
	Hostname string
	NumCPU   int
	OS       string
	Arch     string
}

// GetSystemInfo collects system information.
func GetSystemInfo() SystemInfo {
	hostname, _ := os.Hostname()
	return SystemInfo{
		Hostname: hostname,
		NumCPU:   runtime.NumCPU(),
		OS:       runtime.GOOS,
		Arch:     runtime.GOARCH,
	}
}

// MaxPipelinesForMemory calculates how many decode pipelines can safely run
// at once given available memory. pipelineMemBytes is the estimated working
// set per pipeline (decode buffers plus detector state). memFraction is the
// fraction of available memory to use (e.g. 0.7 for 70%). Returns at least 1.
func MaxPipelinesForMemory(pipelineMemBytes uint64, memFraction float64) int {
	available := AvailableMemoryBytes()
	if available == 0 {
		return 1 // Can't determine memory, be conservative
	}

	usable := uint64(float64(available) * memFraction)
	if usable < pipelineMemBytes {
		return 1
	}

	pipelines := int(usable / pipelineMemBytes)
	return max(pipelines, 1)
}

// LogicalCores returns the number of logical CPU cores (includes hyperthreads).
func LogicalCores() int {
	return runtime.NumCPU()
}

// PhysicalCores returns the number of physical CPU cores.
// On systems with SMT/hyperthreading, this will be less than LogicalCores().
// Falls back to LogicalCores()/2 if detection fails.
func PhysicalCores() int {
	switch runtime.GOOS {
	case "linux":
		if cores := physicalCoresLinux(); cores > 0 {
			return cores
		}
	case "darwin":
		if cores := physicalCoresDarwin(); cores > 0 {
			return cores
		}
	}
	// Fallback: assume hyperthreading (2 threads per core)
	logical := LogicalCores()
	if logical > 1 {
		return logical / 2
	}
	return 1
}

// physicalCoresLinux reads physical core count from sysfs topology.
// Returns 0 if detection fails.
func physicalCoresLinux() int {
	cpuDir := "/sys/devices/system/cpu"
	entries, err := os.ReadDir(cpuDir)
	if err != nil {
		return 0
	}

	coreIDs := make(map[string]struct{})
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "cpu") {
			continue
		}
		suffix := name[3:]
		if len(suffix) == 0 {
			continue
		}
		if _, err := strconv.Atoi(suffix); err != nil {
			continue
		}

		coreIDPath := filepath.Join(cpuDir, name, "topology", "core_id")
		data, err := os.ReadFile(coreIDPath)
		if err != nil {
			continue
		}

		// Combine with physical_package_id to handle multi-socket systems
		pkgIDPath := filepath.Join(cpuDir, name, "topology", "physical_package_id")
		pkgData, err := os.ReadFile(pkgIDPath)
		if err != nil {
			coreIDs[strings.TrimSpace(string(data))] = struct{}{}
		} else {
			key := strings.TrimSpace(string(pkgData)) + ":" + strings.TrimSpace(string(data))
			coreIDs[key] = struct{}{}
		}
	}

	if len(coreIDs) > 0 {
		return len(coreIDs)
	}
	return 0
}

// physicalCoresDarwin uses sysctl to get physical core count on macOS.
// Returns 0 if detection fails.
func physicalCoresDarwin() int {
	out, err := exec.Command("sysctl", "-n", "hw.physicalcpu").Output()
	if err != nil {
		return 0
	}
	cores, err := strconv.Atoi(strings.TrimSpace(string(out)))
	if err != nil || cores <= 0 {
		return 0
	}
	return cores
}
