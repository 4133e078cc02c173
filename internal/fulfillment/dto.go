package fulfillment

import (
	"go.uber.org/multierr"
)

// BottleDelivery reports potions the bottler produced for one recipe.
type BottleDelivery struct {
	PotionType []int64 `json:"potion_type" validate:"len=4"`
	Quantity   int     `json:"quantity" validate:"gt=0"`
}

// LineResult describes the outcome of one delivered line item.
type LineResult struct {
	Index  int    `json:"index"`
	SKU    string `json:"sku,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// Result summarizes a delivery. A line is either accepted or rejected; one
// rejected line never fails the rest.
type Result struct {
	OrderRef        string       `json:"order_ref"`
	AlreadyRecorded bool         `json:"already_recorded"`
	Accepted        []LineResult `json:"accepted"`
	Rejected        []LineResult `json:"rejected"`
	GoldChange      int          `json:"gold_change"`

	errs error
}

func newResult(orderRef string) *Result {
	return &Result{OrderRef: orderRef, Accepted: []LineResult{}, Rejected: []LineResult{}}
}

func (r *Result) accept(index int, sku string) {
	r.Accepted = append(r.Accepted, LineResult{Index: index, SKU: sku})
}

func (r *Result) reject(index int, sku string, err error) {
	r.Rejected = append(r.Rejected, LineResult{Index: index, SKU: sku, Reason: err.Error()})
	r.errs = multierr.Append(r.errs, err)
}

// Err combines every rejection, or nil when all lines were accepted.
func (r *Result) Err() error {
	return r.errs
}
