package utils

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestOrderedMapPreservesInsertionOrder(t *testing.T) {
	m := NewOrderedMap[int]()
	m.Put("b", 2)
	m.Put("a", 1)
	m.Put("c", 3)
	if diff := cmp.Diff([]string{"b", "a", "c"}, m.Keys()); diff != "" {
		t.Errorf("key order mismatch (-want +got):\n%s", diff)
	}
	// Replacing keeps the original position.
	m.Put("a", 10)
	if diff := cmp.Diff([]string{"b", "a", "c"}, m.Keys()); diff != "" {
		t.Errorf("key order after replace (-want +got):\n%s", diff)
	}
	if v, ok := m.Get("a"); !ok || v != 10 {
		t.Errorf("Get(a) = %d, %v; want 10, true", v, ok)
	}
	if m.Len() != 3 {
		t.Errorf("Len = %d, want 3", m.Len())
	}
}

func TestOrderedMapRange(t *testing.T) {
	m := NewOrderedMap[string]()
	m.Put("x", "1")
	m.Put("y", "2")
	var seen []string
	m.Range(func(k, v string) bool {
		seen = append(seen, k+v)
		return true
	})
	if diff := cmp.Diff([]string{"x1", "y2"}, seen); diff != "" {
		t.Errorf("range order (-want +got):\n%s", diff)
	}
	count := 0
	m.Range(func(string, string) bool {
		count++
		return false
	})
	if count != 1 {
		t.Errorf("early-stop range visited %d entries, want 1", count)
	}
}
