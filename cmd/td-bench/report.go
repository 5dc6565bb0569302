package main

import (
	"io"
	"runtime"
	"text/template"
	"time"

	"github.com/plus3/veggietd/ecs"
	"github.com/plus3/veggietd/game"
)

type Report struct {
	// Configuration
	Sessions int
	Duration time.Duration
	Tick     time.Duration
	MaxSim   time.Duration

	// Results
	Results        []SessionResult
	TotalTime      time.Duration
	TickTime       Stats
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

type SessionResult struct {
	Index     int
	Final     game.GameState
	Ticks     uint64
	Simulated time.Duration
	WallTime  time.Duration

	Kills   int
	Escapes int
	Shots   int
	Hits    int
	Expired int
	Towers  int
	Money   uint32
	Health  int

	Storage   ecs.StorageStats
	Scheduler *ecs.SchedulerStats
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		s.Min = min(s.Min, sample)
		s.Max = max(s.Max, sample)
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

const reportTemplate = `
# Simulation Benchmark Report

## Configuration
- **Sessions:** {{.Sessions}}
- **Wall-clock limit:** {{.Duration}}
- **Tick:** {{.Tick}}
- **Simulated limit:** {{.MaxSim}}

## Tick Time
- **Total Ticks:** {{len .TickTime.Samples}}
- **Total Time:** {{.TotalTime}}
- **Avg:** {{.TickTime.Avg}}
- **Min:** {{.TickTime.Min}}
- **Max:** {{.TickTime.Max}}
{{range .Results}}
## Session {{.Index}}
- **Result:** {{.Final}} after {{.Ticks}} ticks ({{.Simulated}} simulated, {{.WallTime}} wall)
- **Kills / Escapes:** {{.Kills}} / {{.Escapes}}
- **Shots / Hits / Expired:** {{.Shots}} / {{.Hits}} / {{.Expired}}
- **Towers:** {{.Towers}}, money ${{.Money}}, health {{.Health}}
- **Storage:** {{.Storage.TotalEntityCount}} entities in {{.Storage.ArchetypeCount}} archetypes, {{.Storage.SingletonCount}} singletons

| System | Runs | Skipped | Avg | Max |
|--------|------|---------|-----|-----|
{{- range .Scheduler.Systems}}
| {{.Name}} | {{.ExecutionCount}} | {{.SkipCount}} | {{.AvgDuration}} | {{.MaxDuration}} |
{{- end}}
{{end}}
## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
{{end}}`

func (r *Report) Generate(w io.Writer) error {
	fm := template.FuncMap{
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}
