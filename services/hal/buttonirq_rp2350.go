//go:build rp2350

package hal

import "blinky-go/irq"

// ButtonIRQ is the vector the button edge arrives on: IO_IRQ_BANK0 is NVIC
// line 21 on RP2350.
const ButtonIRQ = irq.ID(irq.NumExceptions + 21)
