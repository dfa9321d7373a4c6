// Package irq holds the interrupt vector table, the interrupt service
// routines that feed the event channel, and a host-side interrupt emulator.
package irq

import (
	"strconv"

	"blinky-go/errcode"
	"blinky-go/fault"
)

// ID is an exception/interrupt vector number (Cortex-M numbering).
type ID uint8

const (
	NMI        ID = 2
	HardFault  ID = 3
	MemManage  ID = 4
	BusFault   ID = 5
	UsageFault ID = 6
	SVCall     ID = 11
	PendSV     ID = 14
	SysTick    ID = 15
)

const (
	NumExceptions = 16
	NumExternal   = 32
	NumVectors    = NumExceptions + NumExternal
)

// External returns the vector number of external (NVIC) interrupt n.
func External(n uint8) ID { return ID(NumExceptions + int(n)) }

// IsExternal reports whether id is an NVIC line rather than a core exception.
func (id ID) IsExternal() bool { return id >= NumExceptions && id < NumVectors }

// Line returns the NVIC line number of an external vector.
func (id ID) Line() uint8 { return uint8(id) - NumExceptions }

func (id ID) String() string {
	switch id {
	case NMI:
		return "nmi"
	case HardFault:
		return "hard_fault"
	case MemManage:
		return "mem_manage"
	case BusFault:
		return "bus_fault"
	case UsageFault:
		return "usage_fault"
	case SVCall:
		return "svcall"
	case PendSV:
		return "pendsv"
	case SysTick:
		return "systick"
	}
	if id.IsExternal() {
		return "irq" + strconv.Itoa(int(id.Line()))
	}
	return "vector" + strconv.Itoa(int(id))
}

// Handler is an interrupt service routine. It must run to completion
// without blocking.
type Handler func()

// Table maps vector numbers to handlers. Fault vectors are fixed at
// construction; SysTick, PendSV and the external lines are installable.
type Table struct {
	vec [NumVectors]Handler
}

// NewTable returns a table with every fault vector halting the device and
// every other vector unset.
func NewTable() *Table {
	t := &Table{}
	t.vec[NMI] = haltWith(errcode.NMI)
	t.vec[HardFault] = haltWith(errcode.HardFault)
	t.vec[MemManage] = haltWith(errcode.MemFault)
	t.vec[BusFault] = haltWith(errcode.BusFault)
	t.vec[UsageFault] = haltWith(errcode.UsageFault)
	t.vec[SVCall] = haltWith(errcode.UnhandledVector)
	return t
}

func haltWith(c errcode.Code) Handler {
	return func() { fault.Stop(c) }
}

// Set installs h on vector id.
func (t *Table) Set(id ID, h Handler) error {
	if int(id) >= NumVectors || (id < PendSV) {
		return &errcode.E{C: errcode.InvalidParams, Op: "irq.Set", Msg: "vector " + id.String() + " is not installable"}
	}
	t.vec[id] = h
	return nil
}

// Installed reports whether a handler is present on id.
func (t *Table) Installed(id ID) bool {
	return int(id) < NumVectors && t.vec[id] != nil
}

// Dispatch runs the handler for id. A vector with no handler is a spurious
// interrupt and halts the device.
func (t *Table) Dispatch(id ID) {
	if int(id) >= NumVectors || t.vec[id] == nil {
		fault.Stop(errcode.UnhandledVector)
		return
	}
	t.vec[id]()
}
