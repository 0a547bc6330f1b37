package scheduling

import (
	"fmt"
	"testing"
)

func TestGenerateSlots_Length(t *testing.T) {
	slots := GenerateSlots()
	if len(slots) != 109 {
		t.Fatalf("expected 109 slots, got %d", len(slots))
	}
	if SlotCount != 109 {
		t.Errorf("expected SlotCount 109, got %d", SlotCount)
	}
}

func TestGenerateSlots_Bounds(t *testing.T) {
	slots := GenerateSlots()
	if slots[0] != "09:00" {
		t.Errorf("expected first slot 09:00, got %s", slots[0])
	}
	if slots[len(slots)-1] != "18:00" {
		t.Errorf("expected last slot 18:00, got %s", slots[len(slots)-1])
	}
	for _, s := range slots {
		if s > "18:00" {
			t.Errorf("slot %s is past 18:00", s)
		}
	}
}

func TestGenerateSlots_FiveMinuteSteps(t *testing.T) {
	slots := GenerateSlots()
	prev := -1
	for _, s := range slots {
		var h, m int
		if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
			t.Fatalf("slot %q is not HH:MM: %v", s, err)
		}
		cur := h*60 + m
		if prev >= 0 && cur-prev != 5 {
			t.Errorf("expected 5 minute step before %s, got %d", s, cur-prev)
		}
		prev = cur
	}
}

func TestGenerateSlots_Deterministic(t *testing.T) {
	a, b := GenerateSlots(), GenerateSlots()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("slot %d differs between calls: %s vs %s", i, a[i], b[i])
		}
	}
	a[0] = "mutated"
	if GenerateSlots()[0] != "09:00" {
		t.Error("callers must not share the catalogue slice")
	}
}

func TestIsSlot(t *testing.T) {
	cases := map[string]bool{
		"09:00": true,
		"10:05": true,
		"18:00": true,
		"18:05": false,
		"08:55": false,
		"10:03": false,
		"9:00":  false,
		"":      false,
	}
	for in, want := range cases {
		if got := IsSlot(in); got != want {
			t.Errorf("IsSlot(%q) = %v, want %v", in, got, want)
		}
	}
}
