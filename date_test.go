package portodash

import (
	"testing"
	"time"
)

func TestDateOf(t *testing.T) {
	testCases := []struct {
		name string
		in   time.Time
		want Date
	}{
		{"Midnight UTC", time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), NewDate(2025, 3, 14)},
		{"Late evening UTC", time.Date(2025, 3, 14, 23, 59, 59, 0, time.UTC), NewDate(2025, 3, 14)},
		{"Eastern evening is next UTC day", time.Date(2025, 3, 14, 20, 30, 0, 0, time.FixedZone("EDT", -4*3600)), NewDate(2025, 3, 15)},
		{"Tokyo morning is previous UTC day", time.Date(2025, 3, 15, 8, 0, 0, 0, time.FixedZone("JST", 9*3600)), NewDate(2025, 3, 14)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DateOf(tc.in); got != tc.want {
				t.Errorf("DateOf(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-07-01")
	if err != nil {
		t.Fatalf("ParseDate() error = %v", err)
	}
	if d != NewDate(2025, 7, 1) {
		t.Errorf("ParseDate() = %v, want 2025-07-01", d)
	}

	if _, err := ParseDate("not-a-date"); err == nil {
		t.Error("ParseDate() expected an error for garbage input")
	}
}

func TestDateNormalization(t *testing.T) {
	// Day overflows roll over to the next month.
	if got := NewDate(2025, 1, 31).Add(1); got != NewDate(2025, 2, 1) {
		t.Errorf("Add(1) = %v, want 2025-02-01", got)
	}
	if got := NewDate(2024, 2, 28).Add(1); got != NewDate(2024, 2, 29) {
		t.Errorf("Add(1) = %v, want 2024-02-29 (leap year)", got)
	}
}
