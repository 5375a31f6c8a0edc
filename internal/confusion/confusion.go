// Package confusion turns batches of ground-truth masks and binarized
// predictions into confusion totals and false positive/negative rates.
package confusion

import (
	"fmt"

	"github.com/ironsheep/segmetrics-mcp/internal/tensor"
)

// Outcome codes produced by mask*2 + pred for binary inputs.
const (
	codeTrueNegative  = 0
	codeFalsePositive = 1
	codeFalseNegative = 2
	codeTruePositive  = 3
)

// Totals holds per-class element counts.
type Totals struct {
	TruePositives  int `json:"tp"`
	TrueNegatives  int `json:"tn"`
	FalsePositives int `json:"fp"`
	FalseNegatives int `json:"fn"`
}

// Report is the outcome of Aggregate.
type Report struct {
	// FPR and FNR are the false positive and false negative rates as whole
	// percentages, e.g. "7%".
	FPR string `json:"fpr"`
	FNR string `json:"fnr"`

	FalsePositives int `json:"fp_total"`
	FalseNegatives int `json:"fn_total"`

	// Errors is FalsePositives + FalseNegatives.
	Errors int `json:"error_total"`

	// Totals are the raw counts the report was derived from.
	Totals Totals `json:"totals"`

	// FalsePositiveRate and FalseNegativeRate are the unformatted rates in
	// [0,1].
	FalsePositiveRate float64 `json:"false_positive_rate"`
	FalseNegativeRate float64 `json:"false_negative_rate"`
}

// Count classifies every element of a single (mask, pred) pair.
//
// Elements whose combined code mask*2+pred is not one of 0..3 (inputs outside
// {0,1}) are counted in no class.
func Count(mask, pred *tensor.Array) (Totals, error) {
	if err := tensor.CheckSameShape("confusion count", mask, pred); err != nil {
		return Totals{}, err
	}

	var t Totals
	p := pred.Data()
	for i, m := range mask.Data() {
		switch m*2 + p[i] {
		case codeTrueNegative:
			t.TrueNegatives++
		case codeFalsePositive:
			t.FalsePositives++
		case codeFalseNegative:
			t.FalseNegatives++
		case codeTruePositive:
			t.TruePositives++
		}
	}
	return t, nil
}

// Aggregate classifies every element of every (masks[i], preds[i]) pair,
// sums the totals over the batch and derives the report.
//
// The batches must have equal length and each pair identical shapes;
// otherwise the error is a *tensor.ShapeMismatchError. An empty batch yields
// an all-zero report.
func Aggregate(masks, preds []*tensor.Array) (*Report, error) {
	if len(masks) != len(preds) {
		return nil, &tensor.ShapeMismatchError{
			Op:   "confusion batch",
			Want: []int{len(masks)},
			Got:  []int{len(preds)},
		}
	}

	var total Totals
	for i := range masks {
		t, err := Count(masks[i], preds[i])
		if err != nil {
			return nil, fmt.Errorf("pair %d: %w", i, err)
		}
		total = total.Add(t)
	}

	r := total.Report()
	return &r, nil
}

// Add returns the element-wise sum of t and o.
func (t Totals) Add(o Totals) Totals {
	return Totals{
		TruePositives:  t.TruePositives + o.TruePositives,
		TrueNegatives:  t.TrueNegatives + o.TrueNegatives,
		FalsePositives: t.FalsePositives + o.FalsePositives,
		FalseNegatives: t.FalseNegatives + o.FalseNegatives,
	}
}

// Total is the number of classified elements.
func (t Totals) Total() int {
	return t.TruePositives + t.TrueNegatives + t.FalsePositives + t.FalseNegatives
}

// FalsePositiveRate is fp / (fp + tn), or 0 when both are zero.
func (t Totals) FalsePositiveRate() float64 {
	return ratio(t.FalsePositives, t.FalsePositives+t.TrueNegatives)
}

// FalseNegativeRate is fn / (fn + tp), or 0 when both are zero.
func (t Totals) FalseNegativeRate() float64 {
	return ratio(t.FalseNegatives, t.FalseNegatives+t.TruePositives)
}

// Precision is tp / (tp + fp), or 0 when both are zero.
func (t Totals) Precision() float64 {
	return ratio(t.TruePositives, t.TruePositives+t.FalsePositives)
}

// Recall is tp / (tp + fn), or 0 when both are zero.
func (t Totals) Recall() float64 {
	return ratio(t.TruePositives, t.TruePositives+t.FalseNegatives)
}

// Dice is 2tp / (2tp + fp + fn), or 0 when the denominator is zero.
func (t Totals) Dice() float64 {
	return ratio(2*t.TruePositives, 2*t.TruePositives+t.FalsePositives+t.FalseNegatives)
}

// Report derives the rates and error counts from t.
func (t Totals) Report() Report {
	fpr := t.FalsePositiveRate()
	fnr := t.FalseNegativeRate()
	return Report{
		FPR:               FormatPercent(fpr),
		FNR:               FormatPercent(fnr),
		FalsePositives:    t.FalsePositives,
		FalseNegatives:    t.FalseNegatives,
		Errors:            t.FalsePositives + t.FalseNegatives,
		Totals:            t,
		FalsePositiveRate: fpr,
		FalseNegativeRate: fnr,
	}
}

// FormatPercent renders a rate in [0,1] as a whole percentage. Exact halves
// round to even, so 0.125 renders as "12%".
func FormatPercent(rate float64) string {
	return fmt.Sprintf("%.0f%%", rate*100)
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
