package core

import "testing"

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 5, 5)

	tests := []struct {
		x, y     int
		expected bool
	}{
		{10, 10, true},  // Top-left corner
		{14, 14, true},  // Bottom-right inside
		{15, 15, false}, // Just outside
		{9, 10, false},  // Left of rect
		{12, 12, true},  // Center
	}

	for _, tc := range tests {
		result := r.Contains(tc.x, tc.y)
		if result != tc.expected {
			t.Errorf("Contains(%d, %d) = %v, expected %v", tc.x, tc.y, result, tc.expected)
		}
	}
}

func TestRectCentered(t *testing.T) {
	outer := NewRect(0, 0, 80, 24)
	inner := outer.Centered(20, 10)

	if inner.X != 30 || inner.Y != 7 {
		t.Errorf("Centered() origin = (%d, %d), expected (30, 7)", inner.X, inner.Y)
	}
	if inner.Right() != 50 || inner.Bottom() != 17 {
		t.Errorf("Centered() edges = (%d, %d), expected (50, 17)", inner.Right(), inner.Bottom())
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
		{0, 0, 10, 0},
		{10, 0, 10, 10},
	}

	for _, tc := range tests {
		result := Clamp(tc.val, tc.min, tc.max)
		if result != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.min, tc.max, result, tc.expected)
		}
	}
}

func TestMinMax(t *testing.T) {
	if Min(3, 7) != 3 || Min(7, 3) != 3 {
		t.Error("Min returned the larger value")
	}
	if Max(3, 7) != 7 || Max(7, 3) != 7 {
		t.Error("Max returned the smaller value")
	}
}

func TestParseColor(t *testing.T) {
	if c, ok := ParseColor("bright-magenta"); !ok || c != ColorBrightMagenta {
		t.Errorf("ParseColor(bright-magenta) = %v, %v", c, ok)
	}
	if c, ok := ParseColor("plaid"); ok || c != ColorDefault {
		t.Errorf("ParseColor(plaid) = %v, %v, expected default and false", c, ok)
	}
}

func TestInputFrame(t *testing.T) {
	f := InputOf(ActionLeft, ActionSelect)
	if !f.Has(ActionLeft) || !f.Has(ActionSelect) {
		t.Error("InputOf should set every given action")
	}
	if f.Has(ActionRight) {
		t.Error("Has should be false for unset actions")
	}

	f.Clear()
	if f.Has(ActionLeft) {
		t.Error("Clear should reset actions")
	}

	var zero InputFrame
	if zero.Has(ActionQuit) {
		t.Error("zero frame should have no actions")
	}
}
