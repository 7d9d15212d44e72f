package monument

import (
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/mem"
)

// defaultGraphSizeLimit is the spec's default Config.GraphSizeLimit.
const defaultGraphSizeLimit = 100_000

// memLimitReserve is subtracted from the memory budget so the search
// leaves headroom for the rest of the process (the graph, the method
// tables, the host application) rather than chasing every last byte of
// available RAM.
const memLimitReserve = 500 * 1024 * 1024

// memLimitFraction is the share of available system memory the default
// Config.MemLimit claims for the search frontier and path arena.
const memLimitFraction = 0.8

// fallbackMemLimit is used when the host's available memory can't be
// queried (e.g. a sandboxed or unusual environment gopsutil can't read).
const fallbackMemLimit = 5 * 1024 * 1024 * 1024

// Config is the resource envelope a Search runs inside.
type Config struct {
	// ThreadLimit is accepted for interface compatibility with a
	// multi-threaded future, but the search itself is single-threaded per
	// the spec's Non-goals; a non-nil value beyond 1 has no effect today.
	ThreadLimit *int
	// GraphSizeLimit bounds the number of chunks the builder may produce
	// before aborting with ErrGraphTooLarge.
	GraphSizeLimit int
	// MemLimit bounds the combined size of the search frontier and its
	// path arena, in bytes, before the frontier is truncated.
	MemLimit int
	// LeakSearchMemory skips freeing the frontier at the end of Run, on
	// the assumption the caller's process is about to exit anyway.
	LeakSearchMemory bool

	// Logger receives internal diagnostics. The zero value is a no-op
	// logger, so a caller that doesn't care about diagnostics pays no
	// logging overhead and needs no setup.
	Logger zerolog.Logger
}

// DefaultConfig returns a Config with the spec's defaults: a 100,000-chunk
// graph size limit and a memory limit of 80% of available system RAM
// (falling back to 5GB if that can't be determined), minus a fixed
// reserve for the rest of the process.
func DefaultConfig() Config {
	return Config{
		GraphSizeLimit: defaultGraphSizeLimit,
		MemLimit:       defaultMemLimit(),
		Logger:         zerolog.Nop(),
	}
}

func defaultMemLimit() int {
	vm, err := mem.VirtualMemory()
	if err != nil || vm.Available == 0 {
		return fallbackMemLimit
	}
	limit := int(float64(vm.Available)*memLimitFraction) - memLimitReserve
	if limit <= 0 {
		return fallbackMemLimit
	}
	return limit
}
