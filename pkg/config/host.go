package config

import (
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
)

// ResolveWorkers returns requested, or the logical CPU count when it is zero
func ResolveWorkers(requested int) int {
	if requested > 0 {
		return requested
	}
	if n, err := cpu.Counts(true); err == nil && n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// DescribeHost reports the CPU model, logical cores and memory for the startup log.
// Missing information is left out rather than reported as an error.
func DescribeHost() string {
	model := "unknown CPU"
	if info, err := cpu.Info(); err == nil && len(info) > 0 && info[0].ModelName != "" {
		model = info[0].ModelName
	}

	description := fmt.Sprintf("%s, %d logical cores", model, ResolveWorkers(0))
	if vm, err := mem.VirtualMemory(); err == nil {
		description += fmt.Sprintf(", %.1f GiB RAM", float64(vm.Total)/(1<<30))
	}
	return description
}
