// Package prof drives optional CPU and heap capture for one CLI run.
package prof

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
)

// Profiler writes pprof data for the run it brackets. Empty paths disable
// the corresponding capture, so a Profiler can always be started and
// stopped unconditionally.
type Profiler struct {
	cpuPath string
	memPath string
	cpuFile *os.File
}

// New returns a Profiler capturing to the given paths. Either may be empty.
func New(cpuPath, memPath string) *Profiler {
	return &Profiler{cpuPath: cpuPath, memPath: memPath}
}

// Start begins CPU sampling when a CPU path was configured.
func (p *Profiler) Start() error {
	if p.cpuPath == "" {
		return nil
	}
	f, err := os.Create(p.cpuPath)
	if err != nil {
		return fmt.Errorf("create cpu profile: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("start cpu profile: %w", err)
	}
	p.cpuFile = f
	return nil
}

// Stop ends CPU sampling and writes the heap profile when configured.
// Safe to call after a failed Start.
func (p *Profiler) Stop() error {
	if p.cpuFile != nil {
		pprof.StopCPUProfile()
		if err := p.cpuFile.Close(); err != nil {
			return fmt.Errorf("close cpu profile: %w", err)
		}
		p.cpuFile = nil
	}
	if p.memPath == "" {
		return nil
	}
	f, err := os.Create(p.memPath)
	if err != nil {
		return fmt.Errorf("create heap profile: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()
	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		return fmt.Errorf("write heap profile: %w", err)
	}
	return nil
}
