// ==============================================================================================
// FILE: object/object_integration_test.go
// ==============================================================================================
// PURPOSE: Integration tests for the Object system. Validates the
//          interaction between distinct object types: storing structs and
//          closures inside environments, and scope-aware assignment.
// ==============================================================================================

package object

import "testing"

func TestIntegrationStructStorage(t *testing.T) {
	instance := &StructInstance{
		TypeName: "Person",
		Fields: map[string]Object{
			"name": &String{Value: "Alice"},
			"age":  &Integer{Value: 30},
		},
	}

	env := NewEnvironment()
	env.Define("user", instance)

	obj, ok := env.Get("user")
	if !ok {
		t.Fatalf("failed to retrieve struct")
	}
	retrieved, ok := obj.(*StructInstance)
	if !ok {
		t.Fatalf("object is not a *StructInstance")
	}
	if retrieved.Fields["name"].(*String).Value != "Alice" {
		t.Errorf("struct field 'name' corrupted")
	}
}

func TestIntegrationClosureCapturesEnclosingEnvironment(t *testing.T) {
	outer := NewEnvironment()
	outer.Define("captured", &Integer{Value: 42})

	fn := &Function{Name: "f", Env: outer}

	// The function's closure environment resolves names defined before it
	// was created.
	obj, ok := fn.Env.Get("captured")
	if !ok {
		t.Fatalf("closure did not capture outer binding")
	}
	if obj.(*Integer).Value != 42 {
		t.Errorf("expected captured value 42, got %v", obj)
	}
}

func TestIntegrationAssignWalksToDefiningScope(t *testing.T) {
	outer := NewEnvironment()
	outer.Define("x", &Integer{Value: 1})
	inner := NewEnclosedEnvironment(outer)

	if !inner.Assign("x", &Integer{Value: 2}) {
		t.Fatalf("expected Assign to find 'x' in the outer scope")
	}

	// Reading from the inner scope now sees the update, since Assign
	// mutated the outer binding rather than shadowing it.
	obj, _ := inner.Get("x")
	if obj.(*Integer).Value != 2 {
		t.Errorf("expected outer binding updated to 2, got %v", obj)
	}

	outerObj, _ := outer.Get("x")
	if outerObj.(*Integer).Value != 2 {
		t.Errorf("expected outer scope itself updated to 2, got %v", outerObj)
	}
}

func TestIntegrationLetShadowsRatherThanAssigns(t *testing.T) {
	outer := NewEnvironment()
	outer.Define("x", &Integer{Value: 1})
	inner := NewEnclosedEnvironment(outer)

	inner.Define("x", &Integer{Value: 99})

	innerObj, _ := inner.Get("x")
	if innerObj.(*Integer).Value != 99 {
		t.Errorf("expected inner binding 99, got %v", innerObj)
	}
	outerObj, _ := outer.Get("x")
	if outerObj.(*Integer).Value != 1 {
		t.Errorf("expected outer binding untouched at 1, got %v", outerObj)
	}
}
