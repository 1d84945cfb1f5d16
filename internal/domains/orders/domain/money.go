package domain

import "errors"

var ErrInvalidAmount = errors.New("money amount must not be negative")

// Money is an immutable amount in the smallest currency unit.
// Every operation returns a fresh value; a Money can never go negative.
type Money struct {
	amount int64
}

// NewMoney validates and constructs a Money value.
func NewMoney(amount int64) (Money, error) {
	if amount < 0 {
		return Money{}, ErrInvalidAmount
	}
	return Money{amount: amount}, nil
}

// Zero is the additive identity.
func Zero() Money {
	return Money{}
}

// Amount exposes the raw value in the smallest currency unit.
func (m Money) Amount() int64 {
	return m.amount
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount + other.amount}
}

// Sub returns the difference floored at zero. Shortfalls are not signalled
// here; callers that must reject over-spending validate before subtracting.
func (m Money) Sub(other Money) Money {
	if other.amount >= m.amount {
		return Money{}
	}
	return Money{amount: m.amount - other.amount}
}

// Mul scales the amount by a non-negative factor. Negative factors clamp to zero.
func (m Money) Mul(factor int64) Money {
	if factor <= 0 {
		return Money{}
	}
	return Money{amount: m.amount * factor}
}

// Equal reports whether both amounts match.
func (m Money) Equal(other Money) bool {
	return m.amount == other.amount
}

// Less reports whether m is strictly smaller than other.
func (m Money) Less(other Money) bool {
	return m.amount < other.amount
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.amount == 0
}
