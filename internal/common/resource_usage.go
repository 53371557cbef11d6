package common

import (
	"os"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// ResourceUsage represents current process and system resource usage
type ResourceUsage struct {
	AllocMB              int64   // Currently allocated heap memory
	SysMB                int64   // Memory obtained from the OS by the Go runtime
	RSSMB                int64   // Resident set size of this process
	Goroutines           int     // Number of goroutines
	GCCount              int64   // Number of completed GC cycles
	SystemMemUsedPercent float64 // System memory used percentage
}

// GetResourceUsage returns current resource usage statistics. System figures
// are left at zero when the platform does not expose them.
func GetResourceUsage() ResourceUsage {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	usage := ResourceUsage{
		AllocMB:    int64(m.Alloc / 1024 / 1024),
		SysMB:      int64(m.Sys / 1024 / 1024),
		Goroutines: runtime.NumGoroutine(),
		GCCount:    int64(m.NumGC),
	}

	if vmStat, err := mem.VirtualMemory(); err == nil {
		usage.SystemMemUsedPercent = vmStat.UsedPercent
	}

	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if info, err := proc.MemoryInfo(); err == nil && info != nil {
			usage.RSSMB = int64(info.RSS / 1024 / 1024)
		}
	}

	return usage
}

// LogResourceUsage writes a resource usage event at debug level.
func LogResourceUsage(logger zerolog.Logger, stage string) {
	usage := GetResourceUsage()
	logger.Debug().
		Str("stage", stage).
		Int64("alloc_mb", usage.AllocMB).
		Int64("sys_mb", usage.SysMB).
		Int64("rss_mb", usage.RSSMB).
		Int("goroutines", usage.Goroutines).
		Int64("gc_count", usage.GCCount).
		Float64("system_mem_used_percent", usage.SystemMemUsedPercent).
		Msg("Resource usage")
}
