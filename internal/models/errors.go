package models

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
)

var ErrInvalidDataset = errors.New("invalid dataset")

// SchemaError reports a source table that lacks a required column.
type SchemaError struct {
	Dataset string
	Column  string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema: dataset %q is missing required column %q", e.Dataset, e.Column)
}

var validate = validator.New()

// Validate checks row-level constraints: identifiers present, counts and
// amounts non-negative and finite, at most one payout per influencer.
func (d Dataset) Validate() error {
	if err := validate.Struct(d); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) {
			first := vErrs[0]
			return fmt.Errorf("%w: field [%s] failed rule [%s]", ErrInvalidDataset, first.Namespace(), first.Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalidDataset, err)
	}
	for i, t := range d.Tracking {
		if !finite(t.Revenue) {
			return fmt.Errorf("%w: tracking[%d] revenue is not finite", ErrInvalidDataset, i)
		}
	}
	for i, p := range d.Payouts {
		if !finite(p.Rate) || !finite(p.TotalPayout) {
			return fmt.Errorf("%w: payouts[%d] amount is not finite", ErrInvalidDataset, i)
		}
	}
	seen := make(map[string]struct{}, len(d.Payouts))
	for _, p := range d.Payouts {
		if _, ok := seen[p.InfluencerID]; ok {
			return fmt.Errorf("%w: duplicate payout for influencer %q", ErrInvalidDataset, p.InfluencerID)
		}
		seen[p.InfluencerID] = struct{}{}
	}
	return nil
}

func finite(v float64) bool { return !math.IsInf(v, 0) && !math.IsNaN(v) }
