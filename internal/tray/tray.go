// internal/tray/tray.go

// Package tray holds the editable list of foods a meal is built from.
package tray

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"mcp-meal-score/internal/models"
)

const (
	step        = 0.5
	defaultUnit = "serving"
)

var (
	ErrEmptyName       = errors.New("food name is required")
	ErrDuplicate       = errors.New("food item is already in the list")
	ErrNoSuchItem      = errors.New("no food item at that position")
	ErrInvalidQuantity = errors.New("quantity must be a positive finite number")
)

// Tray is not safe for concurrent use.
type Tray struct {
	items []models.FoodEntry
}

func New() *Tray {
	return &Tray{}
}

// Add appends name with quantity 1. Names are compared case-insensitively.
func (t *Tray) Add(name, unit string) error {
	return t.AddN(name, unit, 1)
}

func (t *Tray) AddN(name, unit string, qty float64) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if math.IsNaN(qty) || math.IsInf(qty, 0) || qty <= 0 {
		return fmt.Errorf("%q: %w", name, ErrInvalidQuantity)
	}
	for _, it := range t.items {
		if strings.EqualFold(it.Name, name) {
			return fmt.Errorf("%q: %w", name, ErrDuplicate)
		}
	}
	if unit == "" {
		unit = defaultUnit
	}
	t.items = append(t.items, models.FoodEntry{Name: name, Quantity: qty, Unit: unit})
	return nil
}

// Increase adds half a unit and returns the new quantity.
func (t *Tray) Increase(i int) (float64, error) {
	if err := t.check(i); err != nil {
		return 0, err
	}
	t.items[i].Quantity += step
	return t.items[i].Quantity, nil
}

// Decrease removes half a unit. An item at or below half a unit is removed
// instead and the returned quantity is zero.
func (t *Tray) Decrease(i int) (float64, error) {
	if err := t.check(i); err != nil {
		return 0, err
	}
	if t.items[i].Quantity > step {
		t.items[i].Quantity -= step
		return t.items[i].Quantity, nil
	}
	return 0, t.Remove(i)
}

func (t *Tray) Remove(i int) error {
	if err := t.check(i); err != nil {
		return err
	}
	t.items = append(t.items[:i], t.items[i+1:]...)
	return nil
}

// Clear empties the tray and reports how many items were dropped.
func (t *Tray) Clear() int {
	n := len(t.items)
	t.items = nil
	return n
}

func (t *Tray) Entries() []models.FoodEntry {
	out := make([]models.FoodEntry, len(t.items))
	copy(out, t.items)
	return out
}

func (t *Tray) Len() int {
	return len(t.items)
}

func (t *Tray) check(i int) error {
	if i < 0 || i >= len(t.items) {
		return fmt.Errorf("index %d: %w", i, ErrNoSuchItem)
	}
	return nil
}
