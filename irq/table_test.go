// irq/table_test.go
package irq

import (
	"testing"

	"blinky-go/errcode"
	"blinky-go/fault"
)

func haltCode(fn func()) (c errcode.Code) {
	defer func() {
		c, _ = fault.Code(recover())
	}()
	fn()
	return ""
}

func TestFaultVectorsHalt(t *testing.T) {
	tbl := NewTable()
	cases := map[ID]errcode.Code{
		NMI:        errcode.NMI,
		HardFault:  errcode.HardFault,
		MemManage:  errcode.MemFault,
		BusFault:   errcode.BusFault,
		UsageFault: errcode.UsageFault,
		SVCall:     errcode.UnhandledVector,
	}
	for id, want := range cases {
		if got := haltCode(func() { tbl.Dispatch(id) }); got != want {
			t.Errorf("%v: halt=%q want %q", id, got, want)
		}
	}
}

func TestUnsetVectorHalts(t *testing.T) {
	tbl := NewTable()
	if got := haltCode(func() { tbl.Dispatch(External(3)) }); got != errcode.UnhandledVector {
		t.Fatalf("halt=%q", got)
	}
	if got := haltCode(func() { tbl.Dispatch(ID(200)) }); got != errcode.UnhandledVector {
		t.Fatalf("out of range: halt=%q", got)
	}
}

func TestSetAndDispatch(t *testing.T) {
	tbl := NewTable()
	n := 0
	if err := tbl.Set(SysTick, func() { n++ }); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if !tbl.Installed(SysTick) {
		t.Fatal("not installed")
	}
	tbl.Dispatch(SysTick)
	tbl.Dispatch(SysTick)
	if n != 2 {
		t.Fatalf("n=%d", n)
	}
}

func TestSetRejectsFaultAndOutOfRange(t *testing.T) {
	tbl := NewTable()
	for _, id := range []ID{NMI, HardFault, BusFault, SVCall, ID(NumVectors)} {
		if err := tbl.Set(id, func() {}); errcode.Of(err) != errcode.InvalidParams {
			t.Errorf("Set(%v) err=%v", id, err)
		}
	}
}

func TestIDNames(t *testing.T) {
	if got := External(13).String(); got != "irq13" {
		t.Fatalf("got %q", got)
	}
	if !External(0).IsExternal() || SysTick.IsExternal() {
		t.Fatal("IsExternal wrong")
	}
	if External(13).Line() != 13 {
		t.Fatal("Line wrong")
	}
}
