// Package health turns a store connection state and a process memory snapshot
// into the report served on /health.
package health

import (
	"fmt"
	"math"
	"time"
)

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"

	RSSThresholdMB      = 200.0
	HeapUsedThresholdMB = 150.0

	bytesPerMB = 1024 * 1024
)

const actionablePrefix = "Please review the warnings and take the appropriate actions: "

// MemorySnapshot figures are in bytes.
type MemorySnapshot struct {
	RSS       uint64
	HeapTotal uint64
	HeapUsed  uint64
	External  uint64
}

type Input struct {
	Driver    string
	State     string // disconnected, connecting, connected, disconnecting
	Memory    MemorySnapshot
	Uptime    time.Duration
	Timestamp time.Time
}

type MemoryUsage struct {
	RSS       string `json:"rss"`
	HeapTotal string `json:"heapTotal"`
	HeapUsed  string `json:"heapUsed"`
	External  string `json:"external"`
}

type MemoryWarnings struct {
	RSS      string `json:"rss"`
	HeapUsed string `json:"heapUsed"`
}

type DatabaseStatus struct {
	Driver      string `json:"driver"`
	State       string `json:"state"`
	IsConnected bool   `json:"isConnected"`
	Suggestion  string `json:"suggestion"`
}

type Report struct {
	Status            string         `json:"status"`
	Message           string         `json:"message"`
	Uptime            string         `json:"uptime"`
	MemoryUsage       MemoryUsage    `json:"memoryUsage"`
	MemoryWarnings    MemoryWarnings `json:"memoryWarnings"`
	Database          DatabaseStatus `json:"database"`
	Timestamp         string         `json:"timestamp"`
	ActionableMessage string         `json:"actionableMessage,omitempty"`
}

// Healthy reports whether the endpoint should answer 200.
func (r *Report) Healthy() bool {
	return r.Status == StatusHealthy
}

// Aggregate is pure: the same input always yields the same report.
func Aggregate(in Input) *Report {
	connected := in.State == "connected"

	rssMB := toMB(in.Memory.RSS)
	heapUsedMB := toMB(in.Memory.HeapUsed)
	rssHigh := rssMB >= RSSThresholdMB
	heapHigh := heapUsedMB >= HeapUsedThresholdMB

	report := &Report{
		Status:  StatusUnhealthy,
		Message: "Application is not connected to the database",
		Uptime:  FormatUptime(in.Uptime),
		MemoryUsage: MemoryUsage{
			RSS:       formatMB(rssMB),
			HeapTotal: formatMB(toMB(in.Memory.HeapTotal)),
			HeapUsed:  formatMB(heapUsedMB),
			External:  formatMB(toMB(in.Memory.External)),
		},
		MemoryWarnings: MemoryWarnings{
			RSS:      "Memory usage is within acceptable limits.",
			HeapUsed: "Heap memory usage is within acceptable limits.",
		},
		Database: DatabaseStatus{
			Driver:      in.Driver,
			State:       in.State,
			IsConnected: connected,
			Suggestion:  "Check the database connection and restart the service if necessary.",
		},
		Timestamp: in.Timestamp.UTC().Format(time.RFC3339Nano),
	}

	if connected {
		report.Message = "Application is connected to the database"
		report.Database.Suggestion = "No action needed. The database is connected."
	}
	if rssHigh {
		report.MemoryWarnings.RSS = fmt.Sprintf("Warning: RSS memory usage (%s) exceeds the threshold of %d MB.", formatMB(rssMB), int(RSSThresholdMB))
	}
	if heapHigh {
		report.MemoryWarnings.HeapUsed = fmt.Sprintf("Warning: Heap used memory (%s) exceeds the threshold of %d MB.", formatMB(heapUsedMB), int(HeapUsedThresholdMB))
	}

	if connected && !rssHigh && !heapHigh {
		report.Status = StatusHealthy
		return report
	}

	msg := actionablePrefix
	if !connected {
		msg += "Check database connection. "
	}
	if rssHigh {
		msg += "Investigate high memory usage (RSS). "
	}
	if heapHigh {
		msg += "Investigate high heap memory usage."
	}
	report.ActionableMessage = msg

	return report
}

// FormatUptime renders whole minutes and the remaining whole seconds.
func FormatUptime(d time.Duration) string {
	secs := int64(d / time.Second)
	return fmt.Sprintf("%d minutes %d seconds", secs/60, secs%60)
}

func toMB(b uint64) float64 {
	return float64(b) / bytesPerMB
}

func formatMB(mb float64) string {
	return fmt.Sprintf("%.2f MB", math.Round(mb*100)/100)
}
