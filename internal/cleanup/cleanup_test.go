package cleanup

import "testing"

func TestRunAllExecutesPendingActions(t *testing.T) {
	ran := false
	g := Register(func() { ran = true })
	defer g.Cancel()

	runAll()

	if !ran {
		t.Error("registered action did not run")
	}
}

func TestCancelledActionDoesNotRun(t *testing.T) {
	ran := false
	g := Register(func() { ran = true })
	g.Cancel()

	runAll()

	if ran {
		t.Error("cancelled action ran")
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	g := Register(func() {})
	g.Cancel()
	g.Cancel()
}

func TestRunAllClearsActions(t *testing.T) {
	count := 0
	g := Register(func() { count++ })
	defer g.Cancel()

	runAll()
	runAll()

	if count != 1 {
		t.Errorf("action ran %d times, want 1", count)
	}
}

func TestIndependentGuards(t *testing.T) {
	first, second := false, false
	g1 := Register(func() { first = true })
	g2 := Register(func() { second = true })
	defer g2.Cancel()
	g1.Cancel()

	runAll()

	if first {
		t.Error("cancelled guard ran")
	}
	if !second {
		t.Error("active guard did not run")
	}
}
