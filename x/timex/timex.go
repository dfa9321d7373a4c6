package timex

import "time"

// PeriodFromHz returns the period of a requested frequency.
// freqHz==0 is coerced to 1 to avoid division by zero.
func PeriodFromHz(freqHz uint32) time.Duration {
	if freqHz == 0 {
		freqHz = 1
	}
	return time.Duration(uint64(time.Second) / uint64(freqHz))
}

// SysTickMax is the largest value the 24-bit SysTick reload register holds.
const SysTickMax = 1<<24 - 1

// SysTickReload returns the reload count for a tick of freqHz on a core
// clocked at cpuHz, and false if it does not fit the 24-bit counter.
func SysTickReload(cpuHz, freqHz uint32) (uint32, bool) {
	if freqHz == 0 {
		freqHz = 1
	}
	n := cpuHz / freqHz
	if n == 0 || n > SysTickMax {
		return 0, false
	}
	return n, true
}
