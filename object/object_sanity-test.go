// ==============================================================================================
// FILE: object/object_sanity-test.go
// ==============================================================================================
// PURPOSE: Sanity checks for the Object system. Verifies that empty
//          collections behave correctly and deep scope chains don't crash.
// ==============================================================================================

package object

import "testing"

func TestSanityEmptyTensor(t *testing.T) {
	tensor := &Tensor{Elements: []Object{}}
	if tensor.Inspect() != "[]" {
		t.Errorf("empty tensor inspect failed, got %q", tensor.Inspect())
	}
}

func TestSanityNestedEnvironments(t *testing.T) {
	root := NewEnvironment()
	root.Define("target", TRUE)

	current := root
	for i := 0; i < 100; i++ {
		current = NewEnclosedEnvironment(current)
	}

	val, ok := current.Get("target")
	if !ok {
		t.Fatalf("deep nested lookup failed")
	}
	if val.Inspect() != "true" {
		t.Errorf("deep nested value corrupted, got %q", val.Inspect())
	}
}
