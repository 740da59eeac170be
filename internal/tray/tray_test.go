package tray

import (
	"errors"
	"testing"
)

func TestAdd(t *testing.T) {
	tr := New()
	if err := tr.Add("  Apple ", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := tr.Add("apple", "piece"); !errors.Is(err, ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
	if err := tr.Add("   ", ""); !errors.Is(err, ErrEmptyName) {
		t.Errorf("expected ErrEmptyName, got %v", err)
	}

	entries := tr.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e.Name != "Apple" || e.Quantity != 1 || e.Unit != "serving" {
		t.Errorf("unexpected entry %+v", e)
	}
}

func TestIncreaseDecrease(t *testing.T) {
	tr := New()
	if err := tr.Add("rice", "cup"); err != nil {
		t.Fatal(err)
	}

	q, err := tr.Increase(0)
	if err != nil || q != 1.5 {
		t.Fatalf("expected 1.5, got %v (%v)", q, err)
	}
	for _, want := range []float64{1, 0.5} {
		q, err = tr.Decrease(0)
		if err != nil || q != want {
			t.Fatalf("expected %v, got %v (%v)", want, q, err)
		}
	}
	q, err = tr.Decrease(0)
	if err != nil || q != 0 {
		t.Fatalf("expected removal, got %v (%v)", q, err)
	}
	if tr.Len() != 0 {
		t.Errorf("expected empty tray, got %d items", tr.Len())
	}
}

func TestIndexErrors(t *testing.T) {
	tr := New()
	if _, err := tr.Increase(0); !errors.Is(err, ErrNoSuchItem) {
		t.Errorf("expected ErrNoSuchItem, got %v", err)
	}
	if _, err := tr.Decrease(-1); !errors.Is(err, ErrNoSuchItem) {
		t.Errorf("expected ErrNoSuchItem, got %v", err)
	}
	if err := tr.Remove(3); !errors.Is(err, ErrNoSuchItem) {
		t.Errorf("expected ErrNoSuchItem, got %v", err)
	}
}

func TestRemoveAndClear(t *testing.T) {
	tr := New()
	for _, n := range []string{"eggs", "bread", "milk"} {
		if err := tr.Add(n, ""); err != nil {
			t.Fatal(err)
		}
	}
	if err := tr.Remove(1); err != nil {
		t.Fatal(err)
	}
	entries := tr.Entries()
	if len(entries) != 2 || entries[0].Name != "eggs" || entries[1].Name != "milk" {
		t.Errorf("unexpected entries after remove: %+v", entries)
	}

	entries[0].Name = "changed"
	if tr.Entries()[0].Name != "eggs" {
		t.Error("expected Entries to return a copy")
	}

	if n := tr.Clear(); n != 2 {
		t.Errorf("expected 2 cleared, got %d", n)
	}
	if n := tr.Clear(); n != 0 {
		t.Errorf("expected 0 cleared on empty tray, got %d", n)
	}
}

func TestAddN(t *testing.T) {
	tr := New()
	if err := tr.AddN("oats", "cup", 2.5); err != nil {
		t.Fatal(err)
	}
	if q := tr.Entries()[0].Quantity; q != 2.5 {
		t.Errorf("expected 2.5, got %v", q)
	}
	for _, q := range []float64{0, -1} {
		if err := tr.AddN("tea", "", q); !errors.Is(err, ErrInvalidQuantity) {
			t.Errorf("qty %v: expected ErrInvalidQuantity, got %v", q, err)
		}
	}
}
