package output

import (
	"bytes"
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx/v2"
)

// XLSXFormatter writes a workbook with a Cohorts sheet and a Summary sheet
type XLSXFormatter struct{}

func (x XLSXFormatter) Name() string { return "xlsx" }

func (x XLSXFormatter) Format(r *Report) ([]byte, error) {
	if r == nil || r.Output == nil || r.Scenario == nil {
		return nil, fmt.Errorf("xlsx: empty report")
	}
	out := r.Output
	f := xlsx.NewFile()

	cohorts, err := f.AddSheet("Cohorts")
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: add cohorts sheet")
	}
	addStringRow(cohorts, "Cohort", "Filers", "AvgAGI", "AdditionalTaxPerFiler",
		"MechanicalGain", "MigrationShare", "LeavingFilers", "MigrationLoss", "NetChange")
	for _, cr := range out.Cohorts {
		row := cohorts.AddRow()
		row.AddCell().SetString(cr.Cohort.Label)
		addNumber(row, cr.Cohort.FilerCount)
		addNumber(row, cr.AvgAGI)
		addNumber(row, cr.AdditionalTaxPerFiler)
		addNumber(row, cr.MechanicalGain)
		addNumber(row, cr.MigrationShare)
		addNumber(row, cr.LeavingFilers)
		addNumber(row, cr.MigrationLoss)
		addNumber(row, cr.NetRevenueChange)
	}

	summary, err := f.AddSheet("Summary")
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: add summary sheet")
	}
	addStringRow(summary, "Scenario", r.Scenario.Name)
	addStringRow(summary, "Dataset", out.Dataset)
	addStringRow(summary, "TimeHorizon", out.Horizon.String())
	addStringRow(summary, "BehavioralModel", r.Behavioral.Model.String())
	addLabeledNumber(summary, "SurchargeRate", r.Scenario.Policy.SurchargeRate)
	addLabeledNumber(summary, "SurchargeThreshold", r.Scenario.Policy.SurchargeThreshold)
	addLabeledNumber(summary, "TotalMechanicalGain", out.TotalMechanicalGain)
	addLabeledNumber(summary, "TotalBehavioralLoss", out.TotalBehavioralLoss)
	addLabeledNumber(summary, "NetRevenueChange", out.NetRevenueChange)
	addLabeledNumber(summary, "BaselineRevenue", out.BaselineRevenue)
	addLabeledNumber(summary, "WeightedMigrationShare", out.WeightedMigrationShare)
	if out.Offset.HasOffset() {
		addLabeledNumber(summary, "OffsetRate", *out.Offset.RateIncrease)
		addLabeledNumber(summary, "OffsetPerFiler", *out.Offset.PerFilerCost)
		addLabeledNumber(summary, "OffsetPctOfIncome", *out.Offset.PctOfIncome)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, eris.Wrap(err, "xlsx: write workbook")
	}
	return buf.Bytes(), nil
}

func addStringRow(sheet *xlsx.Sheet, values ...string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}

func addNumber(row *xlsx.Row, d decimal.Decimal) {
	row.AddCell().SetFloat(d.InexactFloat64())
}

func addLabeledNumber(sheet *xlsx.Sheet, label string, d decimal.Decimal) {
	row := sheet.AddRow()
	row.AddCell().SetString(label)
	addNumber(row, d)
}
