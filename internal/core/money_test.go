package core

import "testing"

func TestParseCents(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"12.34", 1234, true},
		{"12,34", 1234, true},
		{"12.344", 1234, true}, // third decimal below half rounds down
		{"12.345", 1235, true}, // half rounds up
		{"12.346", 1235, true},
		{"0.5", 50, true},
		{"-8.50", -850, true},
		{"+3", 300, true},
		{"", 0, false},
		{"0", 0, false},
		{"0.00", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseCents(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("ParseCents(%q) unexpected error: %v", tc.in, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("ParseCents(%q) expected error", tc.in)
		}
		if tc.ok && got != tc.want {
			t.Fatalf("ParseCents(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestSplitEqual(t *testing.T) {
	cases := []struct {
		total int64
		n     int
		want  []int64
	}{
		{3000, 3, []int64{1000, 1000, 1000}},
		{1000, 3, []int64{334, 333, 333}}, // remainder cent to the first share
		{101, 2, []int64{51, 50}},
		{5, 3, []int64{2, 2, 1}},
	}
	for _, tc := range cases {
		shares := SplitEqual(Money{Cents: tc.total}, tc.n)
		if len(shares) != tc.n {
			t.Fatalf("SplitEqual(%d, %d) produced %d shares", tc.total, tc.n, len(shares))
		}
		var sum int64
		for i, s := range shares {
			sum += s.Cents
			if s.Cents != tc.want[i] {
				t.Fatalf("SplitEqual(%d, %d) share %d = %d, want %d", tc.total, tc.n, i, s.Cents, tc.want[i])
			}
		}
		if sum != tc.total {
			t.Fatalf("SplitEqual(%d, %d) shares sum to %d", tc.total, tc.n, sum)
		}
	}
}

func TestMoneyString(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{1234, "12.34"},
		{-5, "-0.05"},
		{0, "0.00"},
		{350000, "3500.00"},
	}
	for _, tc := range cases {
		if got := (Money{Cents: tc.cents}).String(); got != tc.want {
			t.Fatalf("Money{%d}.String() = %q, want %q", tc.cents, got, tc.want)
		}
	}
}
