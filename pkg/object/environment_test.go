package object

import "testing"

func TestGetWalksOuterChain(t *testing.T) {
	outer := NewEnvironment()
	outer.Set("x", &Integer{Value: 1})
	inner := NewEnclosedEnvironment(outer)

	obj, ok := inner.Get("x")
	if !ok {
		t.Fatal("expected to find x through the outer chain")
	}
	if obj.(*Integer).Value != 1 {
		t.Fatalf("value wrong. expected=1, got=%d", obj.(*Integer).Value)
	}
}

func TestSetShadowsOuter(t *testing.T) {
	outer := NewEnvironment()
	outer.Set("x", &Integer{Value: 1})
	inner := NewEnclosedEnvironment(outer)

	inner.Set("x", &Integer{Value: 2})

	obj, _ := inner.Get("x")
	if obj.(*Integer).Value != 2 {
		t.Fatalf("inner value wrong. expected=2, got=%d", obj.(*Integer).Value)
	}
	obj, _ = outer.Get("x")
	if obj.(*Integer).Value != 1 {
		t.Fatalf("outer value changed. expected=1, got=%d", obj.(*Integer).Value)
	}
}

func TestUpdateMutatesNearestBindingFrame(t *testing.T) {
	outer := NewEnvironment()
	outer.Set("count", &Integer{Value: 0})
	inner := NewEnclosedEnvironment(outer)

	inner.Update("count", &Integer{Value: 1})

	if _, ok := inner.Bindings()["count"]; ok {
		t.Fatal("Update created a local binding instead of mutating the outer frame")
	}
	obj, _ := outer.Get("count")
	if obj.(*Integer).Value != 1 {
		t.Fatalf("outer value wrong. expected=1, got=%d", obj.(*Integer).Value)
	}
}

func TestUpdateFallsBackToLocal(t *testing.T) {
	env := NewEnvironment()
	env.Update("fresh", &Integer{Value: 7})

	obj, ok := env.Get("fresh")
	if !ok {
		t.Fatal("expected Update to create the binding locally")
	}
	if obj.(*Integer).Value != 7 {
		t.Fatalf("value wrong. expected=7, got=%d", obj.(*Integer).Value)
	}
}

func TestTruthiness(t *testing.T) {
	tests := []struct {
		obj      Object
		expected bool
	}{
		{NIL, false},
		{TRUE, true},
		{FALSE, false},
		{&Integer{Value: 0}, false},
		{&Integer{Value: -3}, true},
		{&String{Value: ""}, false},
		{&String{Value: "x"}, true},
		{&Error{Message: "boom"}, false},
		{&Class{Name: "C"}, true},
	}

	for _, tt := range tests {
		if got := tt.obj.IsTruthy(); got != tt.expected {
			t.Errorf("%s IsTruthy wrong. expected=%t, got=%t",
				tt.obj.Inspect(), tt.expected, got)
		}
	}
}

func TestSingletonBooleans(t *testing.T) {
	if NativeBoolToBoolean(true) != TRUE || NativeBoolToBoolean(false) != FALSE {
		t.Fatal("NativeBoolToBoolean does not return the shared singletons")
	}
}
