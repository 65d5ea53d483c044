package models

import (
	"fmt"
	"math"
	"strconv"
)

// NullFloat is a float64 that may be undefined. Undefined values marshal as
// JSON null and never take part in ordering.
type NullFloat struct {
	Value float64
	Valid bool
}

func Float(v float64) NullFloat { return NullFloat{Value: v, Valid: true} }

// OrZero substitutes 0 for an undefined value.
func (n NullFloat) OrZero() float64 {
	if !n.Valid {
		return 0
	}
	return n.Value
}

// Div returns n / d, undefined when d is undefined or zero. Callers decide
// whether an undefined numerator is substituted before dividing.
func (n NullFloat) Div(d NullFloat) NullFloat {
	if !n.Valid || !d.Valid || d.Value == 0 {
		return NullFloat{}
	}
	q := n.Value / d.Value
	if math.IsNaN(q) || math.IsInf(q, 0) {
		return NullFloat{}
	}
	return Float(q)
}

// Less reports n < v; an undefined value does not qualify.
func (n NullFloat) Less(v float64) bool { return n.Valid && n.Value < v }

func (n NullFloat) String() string {
	if !n.Valid {
		return ""
	}
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}

func (n NullFloat) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	if math.IsInf(n.Value, 0) || math.IsNaN(n.Value) {
		return nil, fmt.Errorf("models: unsupported float value %v", n.Value)
	}
	return strconv.AppendFloat(nil, n.Value, 'f', -1, 64), nil
}

type NullInt struct {
	Value int64
	Valid bool
}

func Int(v int64) NullInt { return NullInt{Value: v, Valid: true} }

func (n NullInt) OrZero() int64 {
	if !n.Valid {
		return 0
	}
	return n.Value
}

func (n NullInt) String() string {
	if !n.Valid {
		return ""
	}
	return strconv.FormatInt(n.Value, 10)
}

func (n NullInt) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return strconv.AppendInt(nil, n.Value, 10), nil
}
