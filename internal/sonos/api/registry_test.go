package api

import "testing"

func TestHandlerRegistry_RemoveByToken(t *testing.T) {
	r := newHandlerRegistry[func()]()

	tokenA := r.add("X", func() {})
	tokenB := r.add("X", func() {})

	// Removing A must leave B registered regardless of insertion order.
	r.remove("X", tokenA)
	if got := len(r.handlers("X")); got != 1 {
		t.Fatalf("handlers after remove = %d, want 1", got)
	}

	// Removing the same token again is a no-op.
	r.remove("X", tokenA)
	if got := len(r.handlers("X")); got != 1 {
		t.Errorf("handlers after duplicate remove = %d, want 1", got)
	}

	r.remove("X", tokenB)
	if got := len(r.handlers("X")); got != 0 {
		t.Errorf("handlers after removing all = %d, want 0", got)
	}
}

func TestHandlerRegistry_Drop(t *testing.T) {
	r := newHandlerRegistry[func()]()
	r.add("X", func() {})
	r.add("X", func() {})
	r.add("Y", func() {})

	r.drop("X")

	if got := len(r.handlers("X")); got != 0 {
		t.Errorf("handlers(X) after drop = %d, want 0", got)
	}
	if got := len(r.handlers("Y")); got != 1 {
		t.Errorf("handlers(Y) after dropping X = %d, want 1", got)
	}
}

func TestHandlerRegistry_PreservesOrder(t *testing.T) {
	r := newHandlerRegistry[int]()
	r.add("X", 1)
	r.add("X", 2)
	r.add("X", 3)

	got := r.handlers("X")
	for i, want := range []int{1, 2, 3} {
		if got[i] != want {
			t.Fatalf("handlers order = %v", got)
		}
	}
}
