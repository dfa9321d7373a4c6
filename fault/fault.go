// Package fault is the single exit for conditions the device cannot recover
// from: invariant violations, memory exhaustion and hardware fault vectors.
package fault

import "blinky-go/errcode"

// Halted is the value a host build panics with when the device halts.
type Halted struct {
	Err error
}

func (h *Halted) Error() string { return "halted: " + h.Err.Error() }
func (h *Halted) Unwrap() error { return h.Err }

// Halt stops execution. It never returns.
func Halt(err error) {
	if err == nil {
		err = errcode.Error
	}
	halt(err)
}

// HaltCode is Halt with an operation label attached to a bare code.
func HaltCode(c errcode.Code, op string) {
	Halt(&errcode.E{C: c, Op: op})
}

// Stop halts with a bare code. It does not allocate, so interrupt
// handlers may call it.
func Stop(c errcode.Code) {
	stop(c)
}

// Code inspects a value obtained from recover and reports the halt code, if
// the panic came from Halt.
func Code(recovered any) (errcode.Code, bool) {
	h, ok := recovered.(*Halted)
	if !ok {
		return "", false
	}
	return errcode.Of(h.Err), true
}
