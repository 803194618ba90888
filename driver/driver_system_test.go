// ----------------------------------------------------------------------------
// FILE: driver/driver_system_test.go
// ----------------------------------------------------------------------------
// PURPOSE: End-to-end pipeline tests exercising recursion, loops, and
//          runtime error conditions through the full lex/parse/analyze/
//          evaluate sequence, the way a whole source file would be run.
// ----------------------------------------------------------------------------

package driver

import "testing"

func runAndExpect(t *testing.T, source string, expectedExitCode int) {
	t.Helper()
	d := New(nil)
	res, err := d.Run(source, "system_test", false)
	if err != nil {
		t.Fatalf("unexpected evaluation error: %s", err)
	}
	if res.ExitCode != expectedExitCode {
		t.Errorf("expected exit code %d, got %d", expectedExitCode, res.ExitCode)
	}
}

func TestSystem_FibonacciRecursion(t *testing.T) {
	source := `
func fib(n: i32) -> i32 {
	if n < 2 {
		return n;
	}
	return fib(n - 1) + fib(n - 2);
}
func main() -> i32 {
	return fib(10);
}
`
	runAndExpect(t, source, 55)
}

func TestSystem_WhileLoopAccumulation(t *testing.T) {
	source := `
func main() -> i32 {
	let mut sum: i32 = 0;
	let mut counter: i32 = 0;
	while counter < 1000 {
		sum = sum + 1;
		counter = counter + 1;
	}
	return sum;
}
`
	runAndExpect(t, source, 1000)
}

func TestSystem_DeepRecursion(t *testing.T) {
	source := `
func dive(n: i32) -> i32 {
	if n == 0 {
		return 0;
	}
	return dive(n - 1);
}
func main() -> i32 {
	return dive(200);
}
`
	runAndExpect(t, source, 0)
}

func TestSystem_ShadowingAndScope(t *testing.T) {
	source := `
func main() -> i32 {
	let x: i32 = 10;
	if true {
		let x: i32 = 20;
		let y: i32 = x + 1;
	}
	return x;
}
`
	runAndExpect(t, source, 10)
}

func TestSystem_EdgeCaseDivisionByZero(t *testing.T) {
	d := New(nil)
	res, err := d.Run(`
func main() -> i32 {
	return 10 / 0;
}
`, "division_by_zero", false)
	if err == nil {
		t.Fatalf("expected a runtime error for division by zero, got exit code %d", res.ExitCode)
	}
}
