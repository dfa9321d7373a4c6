//go:build !rp2040 && !rp2350

package fault

import "blinky-go/errcode"

// On hosts a halt unwinds as a panic so tests and the simulator can observe it.
func halt(err error) {
	panic(&Halted{Err: err})
}

func stop(c errcode.Code) { halt(c) }
