package output

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/shopspring/decimal"
)

// CSVFormatter writes one row per cohort followed by summary rows
type CSVFormatter struct{}

func (c CSVFormatter) Name() string { return "csv" }

func (c CSVFormatter) Format(r *Report) ([]byte, error) {
	if r == nil || r.Output == nil {
		return nil, fmt.Errorf("csv: empty report")
	}
	out := r.Output

	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{
		"Cohort", "Filers", "AvgAGI", "AdditionalTaxPerFiler",
		"MechanicalGain", "MigrationPct", "MigrationLoss", "NetChange",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, cr := range out.Cohorts {
		row := []string{
			cr.Cohort.Label,
			cr.Cohort.FilerCount.StringFixed(0),
			cr.AvgAGI.StringFixed(2),
			cr.AdditionalTaxPerFiler.StringFixed(2),
			cr.MechanicalGain.StringFixed(2),
			cr.MigrationShare.Mul(hundred).StringFixed(4),
			cr.MigrationLoss.StringFixed(2),
			cr.NetRevenueChange.StringFixed(2),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	off := out.Offset
	summary := [][]string{
		{"TotalMechanicalGain", out.TotalMechanicalGain.StringFixed(2)},
		{"TotalBehavioralLoss", out.TotalBehavioralLoss.StringFixed(2)},
		{"NetRevenueChange", out.NetRevenueChange.StringFixed(2)},
		{"BaselineRevenue", out.BaselineRevenue.StringFixed(2)},
		{"NetPctOfBaseline", out.NetAsPctOfBaseline().StringFixed(4)},
		{"OffsetRate", optionalFixed(off.RateIncrease, 6)},
		{"OffsetPerFiler", optionalFixed(off.PerFilerCost, 2)},
		{"OffsetPctOfIncome", optionalFixed(off.PctOfIncome, 6)},
	}
	for _, row := range summary {
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func optionalFixed(d *decimal.Decimal, places int32) string {
	if d == nil {
		return ""
	}
	return d.StringFixed(places)
}
