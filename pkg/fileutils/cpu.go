package fileutils

import (
	"os"
	"regexp"
	"runtime"
)

var coreCountRe = regexp.MustCompile(`(?m)^cpu cores\s*:\s*(\d+)`)
var physicalIDRe = regexp.MustCompile(`(?m)^physical id\s*:\s*(\d+)`)

// GetPhysicalCPUCount counts physical cores, ignoring SMT siblings.
// Scanning is memory-bandwidth bound; running one worker per hardware
// thread just thrashes the shared cache. Falls back to runtime.NumCPU
// where /proc/cpuinfo is unavailable.
func GetPhysicalCPUCount() int {
	if runtime.GOOS == "linux" {
		if data, err := os.ReadFile("/proc/cpuinfo"); err == nil {
			if n := parseCPUInfo(string(data)); n > 0 {
				return n
			}
		}
	}
	return runtime.NumCPU()
}

func parseCPUInfo(info string) int {
	ids := make(map[string]bool)
	for _, m := range physicalIDRe.FindAllStringSubmatch(info, -1) {
		ids[m[1]] = true
	}
	if len(ids) == 0 {
		return 0
	}
	// cpu cores repeats per logical CPU; one sample per package is enough.
	m := coreCountRe.FindStringSubmatch(info)
	if m == nil {
		return 0
	}
	perPackage := 0
	for _, c := range m[1] {
		perPackage = perPackage*10 + int(c-'0')
	}
	return perPackage * len(ids)
}
