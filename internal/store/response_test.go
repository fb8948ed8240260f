package store

import (
	"testing"

	"github.com/dukerupert/mealsbot/internal/model"
)

const testWeek = "2025-06-02"

func TestToggleUnsetBecomesTrue(t *testing.T) {
	ms, rs := setupTestDB(t)
	if _, err := ms.Upsert(100, "", "Frodo", ""); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	v, err := rs.Toggle(100, testWeek, model.Monday, model.Breakfast)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !v {
		t.Error("first toggle must set the cell to true")
	}

	r, err := rs.Get(100, testWeek, model.Monday, model.Breakfast)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if r == nil || !r.Value {
		t.Errorf("stored cell = %+v, want true", r)
	}
}

func TestToggleParity(t *testing.T) {
	ms, rs := setupTestDB(t)
	if _, err := ms.Upsert(100, "", "Frodo", ""); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	// Odd toggle counts from unset end true, even counts end false.
	want := []bool{true, false, true, false, true}
	for i, expected := range want {
		v, err := rs.Toggle(100, testWeek, model.Tuesday, model.Dinner)
		if err != nil {
			t.Fatalf("toggle %d: %v", i+1, err)
		}
		if v != expected {
			t.Errorf("toggle %d = %v, want %v", i+1, v, expected)
		}
	}
}

func TestToggleKeepsOneRowPerCell(t *testing.T) {
	ms, rs := setupTestDB(t)
	if _, err := ms.Upsert(100, "", "Frodo", ""); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	for i := 0; i < 4; i++ {
		if _, err := rs.Toggle(100, testWeek, model.Monday, model.Lunch); err != nil {
			t.Fatalf("toggle: %v", err)
		}
	}

	rows, err := rs.ListForWeek(100, testWeek)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row after repeated toggles, got %d", len(rows))
	}
}

func TestToggleCellsAreIndependent(t *testing.T) {
	ms, rs := setupTestDB(t)
	if _, err := ms.Upsert(100, "", "Frodo", ""); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if _, err := ms.Upsert(200, "", "Sam", ""); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if _, err := rs.Toggle(100, testWeek, model.Monday, model.Breakfast); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if _, err := rs.Toggle(200, testWeek, model.Monday, model.Breakfast); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if _, err := rs.Toggle(200, testWeek, model.Monday, model.Breakfast); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	a, err := rs.Get(100, testWeek, model.Monday, model.Breakfast)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if a == nil || !a.Value {
		t.Errorf("member 100 cell = %+v, want true", a)
	}

	b, err := rs.Get(200, testWeek, model.Monday, model.Breakfast)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if b == nil || b.Value {
		t.Errorf("member 200 cell = %+v, want false", b)
	}
}

func TestCountSelected(t *testing.T) {
	ms, rs := setupTestDB(t)
	if _, err := ms.Upsert(100, "", "Frodo", ""); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	count, err := rs.CountSelected(100, testWeek)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}

	if _, err := rs.Toggle(100, testWeek, model.Monday, model.Breakfast); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if _, err := rs.Toggle(100, testWeek, model.Monday, model.Lunch); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	// Flip breakfast back off; only lunch remains selected.
	if _, err := rs.Toggle(100, testWeek, model.Monday, model.Breakfast); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	count, err = rs.CountSelected(100, testWeek)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestWeeklyCounts(t *testing.T) {
	ms, rs := setupTestDB(t)
	for i, name := range []string{"Frodo", "Sam", "Pippin"} {
		if _, err := ms.Upsert(int64(100+i), "", name, ""); err != nil {
			t.Fatalf("upsert %s: %v", name, err)
		}
	}

	// Two members want Monday lunch; a third toggles it on then off,
	// leaving a false row that must not count.
	if _, err := rs.Toggle(100, testWeek, model.Monday, model.Lunch); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if _, err := rs.Toggle(101, testWeek, model.Monday, model.Lunch); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if _, err := rs.Toggle(102, testWeek, model.Monday, model.Lunch); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if _, err := rs.Toggle(102, testWeek, model.Monday, model.Lunch); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if _, err := rs.Toggle(100, testWeek, model.Friday, model.Dinner); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	counts, err := rs.WeeklyCounts(testWeek)
	if err != nil {
		t.Fatalf("weekly counts: %v", err)
	}

	got := map[string]int{}
	for _, c := range counts {
		got[string(c.Day)+"/"+string(c.Meal)] = c.Count
	}
	if got["Monday/lunch"] != 2 {
		t.Errorf("Monday lunch = %d, want 2", got["Monday/lunch"])
	}
	if got["Friday/dinner"] != 1 {
		t.Errorf("Friday dinner = %d, want 1", got["Friday/dinner"])
	}
	if _, ok := got["Monday/breakfast"]; ok {
		t.Error("unselected cell should be absent from the aggregate")
	}
}

func TestResponsesScopedToWeek(t *testing.T) {
	ms, rs := setupTestDB(t)
	if _, err := ms.Upsert(100, "", "Frodo", ""); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if _, err := rs.Toggle(100, "2025-05-26", model.Monday, model.Lunch); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if _, err := rs.Toggle(100, testWeek, model.Monday, model.Lunch); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	rows, err := rs.ListForWeek(100, testWeek)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("expected 1 row for the current week, got %d", len(rows))
	}
}
