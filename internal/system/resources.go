package system

import (
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// frameMemory estimates what one render worker holds: its canvas, a frame
// queued for the encoder and scratch space for dimmed cards.
func frameMemory(width, height int) uint64 {
	return uint64(width) * uint64(height) * 4 * 3
}

// RecommendedWorkers sizes the render pool from the logical CPU count,
// leaving one core to ffmpeg, and caps it so in-flight frames fit in half
// of the available memory.
func RecommendedWorkers(width, height int) int {
	cores, err := cpu.Counts(true)
	if err != nil || cores <= 0 {
		cores = runtime.NumCPU()
	}

	var available uint64
	if vm, err := mem.VirtualMemory(); err == nil {
		available = vm.Available
	}
	return workersFor(cores, available, frameMemory(width, height))
}

func workersFor(cores int, available, perWorker uint64) int {
	n := cores - 1
	if available > 0 && perWorker > 0 {
		if byMem := int(available / 2 / perWorker); byMem < n {
			n = byMem
		}
	}
	if n < 1 {
		n = 1
	}
	return n
}
