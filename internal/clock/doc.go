// Package clock abstracts wall-clock time and delayed callbacks.
//
// The mock transport and the auth issuer take a Clock instead of calling the
// time package directly. Production code passes Real(); tests pass a Manual
// clock and drive it with Advance, which makes simulated network latency and
// jitter fully reproducible:
//
//	clk := clock.NewManual(time.Unix(0, 0))
//	clk.AfterFunc(50*time.Millisecond, func() { fmt.Println("fired") })
//	clk.Advance(49 * time.Millisecond) // nothing
//	clk.Advance(time.Millisecond)      // prints "fired"
package clock
