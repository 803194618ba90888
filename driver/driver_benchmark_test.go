// ----------------------------------------------------------------------------
// FILE: driver/driver_benchmark_test.go
// ----------------------------------------------------------------------------
// PURPOSE: Benchmarks for the full lex/parse/analyze/evaluate pipeline under
//          iterative and recursive workloads.
// ----------------------------------------------------------------------------

package driver

import "testing"

func BenchmarkSystem_HeavyLoop(b *testing.B) {
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
	d := New(nil)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		d.Run(source, "heavy_loop", false)
	}
}

func BenchmarkSystem_DeepRecursion(b *testing.B) {
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
	d := New(nil)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		d.Run(source, "deep_recursion", false)
	}
}

func BenchmarkSystem_StringConcatenation(b *testing.B) {
	source := `
func main() -> i32 {
	let mut s: string = "";
	let mut i: i32 = 0;
	while i < 100 {
		s = s + "a";
		i = i + 1;
	}
	return i;
}
`
	d := New(nil)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		d.Run(source, "string_concat", false)
	}
}
