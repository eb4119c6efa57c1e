package opt

import (
	"unsafe"

	"golang.org/x/sys/cpu"
)

// CacheLineSize is used in structure padding to prevent false sharing.
// It's automatically calculated using the `golang.org/x/sys` package.
const CacheLineSize = unsafe.Sizeof(cpu.CacheLinePad{})

// CacheLinePad pads a struct field to a full cache line so that two
// counters updated by different goroutines never share one.
type CacheLinePad = cpu.CacheLinePad
