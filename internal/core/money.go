// Package core holds the domain types of the ledger engine.
//
// All monetary values are fixed-point int64 cents. Floating point is only
// used at the display boundary; aggregates, limit comparisons and splits are
// integer arithmetic throughout, so threshold checks never drift.
package core

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ParseCents converts a decimal string to signed cents with half-up rounding
// on the third decimal place. Both dot and comma decimal separators are
// accepted. A leading minus records a credit; zero is rejected because the
// ledger never stores zero-amount rows.
//
// Examples:
//
//	ParseCents("12.34")  -> 1234
//	ParseCents("12,345") -> 1235 (rounds up)
//	ParseCents("-8.50")  -> -850
func ParseCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")

	negative := false
	switch {
	case strings.HasPrefix(s, "-"):
		negative = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}

	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}

	// First two fractional digits are cents; half-up on the third.
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}

	cents := iv*100 + fracCents
	if cents == 0 {
		return 0, ErrInvalidAmount
	}
	if negative {
		cents = -cents
	}
	return cents, nil
}

// SplitEqual divides total cents into n shares. The remainder cents are
// assigned one each to the earliest shares, so the shares always sum to the
// total and the split is deterministic. total and n must be positive.
func SplitEqual(total Money, n int) []Money {
	if n <= 0 {
		return nil
	}
	base := total.Cents / int64(n)
	remainder := total.Cents % int64(n)

	shares := make([]Money, n)
	for i := range shares {
		shares[i] = Money{Cents: base}
		if int64(i) < remainder {
			shares[i].Cents++
		}
	}
	return shares
}

// Validate rejects non-positive amounts. Used where only a positive value is
// meaningful (limits, targets, contributions).
func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Neg returns the amount with its sign flipped.
func (m Money) Neg() Money {
	return Money{Cents: -m.Cents}
}

// Sub returns m - other.
func (m Money) Sub(other Money) Money {
	return Money{Cents: m.Cents - other.Cents}
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}

// String formats the amount as a plain decimal, e.g. "1234.56" or "-0.05".
func (m Money) String() string {
	cents := m.Cents
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// Float returns the value in whole currency units for display purposes only.
func (m Money) Float() float64 {
	return float64(m.Cents) / 100.0
}
