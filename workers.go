package md2docx

import "runtime"

// Worker sizing constants.
const (
	// MinWorkers ensures at least one worker is available.
	MinWorkers = 1

	// MaxWorkers caps concurrent renderer processes (a headless browser
	// each for mmdc).
	MaxWorkers = 8

	// cpuDivisor leaves headroom for the renderer's child processes.
	cpuDivisor = 2
)

// ResolveWorkers determines how many conversions or diagram renders run at
// once. Priority: explicit workers > GOMAXPROCS-based calculation.
// Exported for use by servers and CLIs.
func ResolveWorkers(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is adjusted by automaxprocs for containers.
	n := runtime.GOMAXPROCS(0) / cpuDivisor
	return min(max(n, MinWorkers), MaxWorkers)
}
