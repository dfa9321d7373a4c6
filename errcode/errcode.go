package errcode

// Code is a stable error identifier.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK Code = "ok"

	// Programming-invariant violations. Always fatal.
	CritSecUnderflow Code = "critsec_underflow"
	ChannelUninit    Code = "channel_uninit"

	// Resource exhaustion. Fatal.
	OutOfMemory Code = "out_of_memory"

	// Hardware fault vectors.
	NMI             Code = "nmi"
	HardFault       Code = "hard_fault"
	MemFault        Code = "mem_fault"
	BusFault        Code = "bus_fault"
	UsageFault      Code = "usage_fault"
	UnhandledVector Code = "unhandled_vector"

	InvalidParams Code = "invalid_params"
	InvalidConfig Code = "invalid_config"
	Unsupported   Code = "unsupported"

	Error Code = "error" // generic fallback
)

// Optional wrapper when we want to keep context and a cause.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	s := string(e.C)
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	type unwrapper interface{ Unwrap() error }
	if u, ok := err.(unwrapper); ok {
		return Of(u.Unwrap())
	}
	return Error
}

// Fatal reports whether a code denotes a condition the device cannot continue from.
func Fatal(c Code) bool {
	switch c {
	case CritSecUnderflow, ChannelUninit, OutOfMemory,
		NMI, HardFault, MemFault, BusFault, UsageFault, UnhandledVector:
		return true
	}
	return false
}
