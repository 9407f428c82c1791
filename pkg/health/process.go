package health

import (
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// ProcessSampler reads memory figures of the running process. The Go runtime has
// no heap/external split like a JS engine, so:
//
//	RSS       resident pages from /proc/self/statm, or MemStats.Sys off Linux
//	HeapTotal MemStats.HeapSys
//	HeapUsed  MemStats.HeapAlloc
//	External  MemStats.Sys - HeapSys (stacks, GC metadata, runtime structures)
type ProcessSampler struct {
	startedAt time.Time
	statmPath string
	now       func() time.Time
}

func NewProcessSampler() *ProcessSampler {
	return &ProcessSampler{
		startedAt: time.Now(),
		statmPath: "/proc/self/statm",
		now:       time.Now,
	}
}

func (s *ProcessSampler) Memory() MemorySnapshot {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	snap := MemorySnapshot{
		RSS:       ms.Sys,
		HeapTotal: ms.HeapSys,
		HeapUsed:  ms.HeapAlloc,
		External:  ms.Sys - ms.HeapSys,
	}
	if rss, ok := s.residentBytes(); ok {
		snap.RSS = rss
	}
	return snap
}

func (s *ProcessSampler) Uptime() time.Duration {
	return s.now().Sub(s.startedAt)
}

func (s *ProcessSampler) Now() time.Time {
	return s.now()
}

// statm: size resident shared text lib data dt, counted in pages.
func (s *ProcessSampler) residentBytes() (uint64, bool) {
	data, err := os.ReadFile(s.statmPath)
	if err != nil {
		return 0, false
	}
	fields := strings.Fields(string(data))
	if len(fields) < 2 {
		return 0, false
	}
	pages, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return pages * uint64(os.Getpagesize()), true
}
