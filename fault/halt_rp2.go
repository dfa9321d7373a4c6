//go:build rp2040 || rp2350

package fault

import (
	"device/arm"

	"blinky-go/errcode"
)

func halt(err error) {
	println("fault:", err.Error())
	spin()
}

func stop(c errcode.Code) {
	println("fault:", string(c))
	spin()
}

func spin() {
	for {
		arm.Asm("bkpt")
	}
}
