package clock

import (
	"reflect"
	"testing"
	"time"
)

func TestManual_AdvanceFiresInDeadlineOrder(t *testing.T) {
	clk := NewManual(time.Unix(100, 0))

	var order []string
	clk.AfterFunc(30*time.Millisecond, func() { order = append(order, "c") })
	clk.AfterFunc(10*time.Millisecond, func() { order = append(order, "a") })
	clk.AfterFunc(10*time.Millisecond, func() { order = append(order, "b") })

	clk.Advance(9 * time.Millisecond)
	if len(order) != 0 {
		t.Fatalf("fired early: %v", order)
	}

	clk.Advance(25 * time.Millisecond)
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(order, want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	if got := clk.Now(); !got.Equal(time.Unix(100, 0).Add(34 * time.Millisecond)) {
		t.Fatalf("Now = %v, want start+34ms", got)
	}
}

func TestManual_CallbackSeesItsDeadline(t *testing.T) {
	start := time.Unix(0, 0)
	clk := NewManual(start)

	var seen time.Time
	clk.AfterFunc(5*time.Second, func() { seen = clk.Now() })
	clk.Advance(time.Minute)

	if !seen.Equal(start.Add(5 * time.Second)) {
		t.Fatalf("callback saw %v, want %v", seen, start.Add(5*time.Second))
	}
}

func TestManual_NestedSchedulingFiresWhenDue(t *testing.T) {
	clk := NewManual(time.Unix(0, 0))

	fired := 0
	clk.AfterFunc(time.Second, func() {
		fired++
		clk.AfterFunc(time.Second, func() { fired++ })
		clk.AfterFunc(time.Hour, func() { fired++ })
	})

	clk.Advance(3 * time.Second)
	if fired != 2 {
		t.Fatalf("fired = %d, want 2", fired)
	}
	if clk.Pending() != 1 {
		t.Fatalf("Pending = %d, want 1", clk.Pending())
	}
}

func TestManual_Stop(t *testing.T) {
	clk := NewManual(time.Unix(0, 0))

	fired := false
	timer := clk.AfterFunc(time.Second, func() { fired = true })
	if !timer.Stop() {
		t.Fatal("Stop() = false on pending timer")
	}
	if timer.Stop() {
		t.Fatal("second Stop() = true, want false")
	}
	clk.Advance(time.Minute)
	if fired {
		t.Fatal("stopped timer fired")
	}
	if clk.Pending() != 0 {
		t.Fatalf("Pending = %d, want 0", clk.Pending())
	}
}

func TestManual_SameDeadlineKeepsSchedulingOrder(t *testing.T) {
	clk := NewManual(time.Unix(0, 0))

	var order []string
	clk.AfterFunc(time.Second, func() {
		order = append(order, "a")
		clk.AfterFunc(0, func() { order = append(order, "c") })
	})
	clk.AfterFunc(time.Second, func() { order = append(order, "b") })

	clk.Advance(time.Second)
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(order, want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
}

func TestReal_AfterFuncStops(t *testing.T) {
	clk := Real()
	if clk.Now().IsZero() {
		t.Fatal("Now() returned the zero time")
	}

	fired := make(chan struct{}, 1)
	timer := clk.AfterFunc(time.Hour, func() { fired <- struct{}{} })
	if !timer.Stop() {
		t.Fatal("Stop() = false on pending timer")
	}

	clk.AfterFunc(time.Millisecond, func() { fired <- struct{}{} })
	select {
	case <-fired:
	case <-time.After(5 * time.Second):
		t.Fatal("AfterFunc never fired")
	}
}
