package cmd

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
)

// startProfiling starts CPU profiling and execution tracing for the paths
// that are set. The returned stop func ends both and writes the heap
// profile to memPath.
func startProfiling(cpuPath, memPath, tracePath string) (func(), error) {
	var stops []func()
	stopAll := func() {
		for i := len(stops) - 1; i >= 0; i-- {
			stops[i]()
		}
	}

	if cpuPath != "" {
		f, err := os.Create(cpuPath)
		if err != nil {
			return nil, fmt.Errorf("could not create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return nil, fmt.Errorf("could not start CPU profile: %w", err)
		}
		stops = append(stops, func() {
			pprof.StopCPUProfile()
			closeProfile(f, "CPU profile")
		})
	}

	if tracePath != "" {
		f, err := os.Create(tracePath)
		if err != nil {
			stopAll()
			return nil, fmt.Errorf("could not create trace: %w", err)
		}
		if err := trace.Start(f); err != nil {
			f.Close()
			stopAll()
			return nil, fmt.Errorf("could not start trace: %w", err)
		}
		stops = append(stops, func() {
			trace.Stop()
			closeProfile(f, "trace")
		})
	}

	return func() {
		stopAll()
		if memPath != "" {
			writeHeapProfile(memPath)
		}
	}, nil
}

func writeHeapProfile(path string) {
	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not create memory profile: %v\n", err)
		return
	}
	defer closeProfile(f, "memory profile")

	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		fmt.Fprintf(os.Stderr, "could not write memory profile: %v\n", err)
	}
}

func closeProfile(f *os.File, what string) {
	if err := f.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "could not close %s file: %v\n", what, err)
	}
}
