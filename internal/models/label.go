package models

import "strconv"

// Label is the performance classification of a record. The zero value is
// LabelUnset.
type Label int

const (
	LabelUnset Label = iota
	LabelTopROAS
	LabelNoRevenue
	LabelLowROAS
)

func (l Label) String() string {
	switch l {
	case LabelTopROAS:
		return "Top ROAS"
	case LabelNoRevenue:
		return "No Revenue"
	case LabelLowROAS:
		return "Low ROAS"
	default:
		return ""
	}
}

func (l Label) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(l.String())), nil
}
