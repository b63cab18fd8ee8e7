package calculation

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/revimpact/internal/domain"
)

// migrationCurve returns the long-run out-migration share before horizon scaling,
// replacement and clamping. additionalTax is always positive here.
type migrationCurve func(additionalTax, avgAGI decimal.Decimal, bp domain.BehavioralParameters) decimal.Decimal

var migrationCurves = map[domain.BehavioralModelType]migrationCurve{
	domain.ModelNone:       noResponse,
	domain.ModelElasticity: elasticityResponse,
	domain.ModelThreshold:  thresholdResponse,
	domain.ModelHybrid:     hybridResponse,
}

var half = decimal.NewFromFloat(0.5)

func noResponse(_, _ decimal.Decimal, _ domain.BehavioralParameters) decimal.Decimal {
	return decimal.Zero
}

func elasticityResponse(additionalTax, avgAGI decimal.Decimal, bp domain.BehavioralParameters) decimal.Decimal {
	if !avgAGI.IsPositive() {
		return bp.BaseMigrationRate
	}
	return bp.BaseMigrationRate.Add(bp.MigrationElasticity.Mul(additionalTax.Div(avgAGI)))
}

// thresholdResponse holds at the base rate up to the threshold, then ramps to the
// maximum over one threshold width.
func thresholdResponse(additionalTax, _ decimal.Decimal, bp domain.BehavioralParameters) decimal.Decimal {
	threshold := bp.ThresholdDollars
	if additionalTax.LessThanOrEqual(threshold) {
		return bp.BaseMigrationRate
	}
	if threshold.IsZero() {
		return bp.MaxMigrationShare
	}
	progress := additionalTax.Sub(threshold).Div(threshold)
	if progress.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return bp.MaxMigrationShare
	}
	return bp.BaseMigrationRate.Add(bp.MaxMigrationShare.Sub(bp.BaseMigrationRate).Mul(progress))
}

// hybridResponse is a logistic curve centred on the threshold with width LogisticSlope.
func hybridResponse(additionalTax, _ decimal.Decimal, bp domain.BehavioralParameters) decimal.Decimal {
	span := bp.MaxMigrationShare.Sub(bp.BaseMigrationRate)
	return bp.BaseMigrationRate.Add(span.Mul(logisticWeight(additionalTax, bp.ThresholdDollars, bp.LogisticSlope)))
}

// logisticWeight returns sigmoid((x − center) / slope). A zero slope is a step with 0.5 at the center.
func logisticWeight(x, center, slope decimal.Decimal) decimal.Decimal {
	if slope.IsZero() {
		switch x.Cmp(center) {
		case -1:
			return decimal.Zero
		case 0:
			return half
		default:
			return decimal.NewFromInt(1)
		}
	}
	z := x.Sub(center).Div(slope).InexactFloat64()
	return decimal.NewFromFloat(1 / (1 + math.Exp(-z)))
}

// MigrationShare returns the fraction of a cohort projected to leave by the horizon.
// The result is zero for any non-positive burden and never exceeds MaxMigrationShare.
func MigrationShare(additionalTax, avgAGI decimal.Decimal, bp domain.BehavioralParameters, horizon domain.TimeHorizon) decimal.Decimal {
	if !additionalTax.IsPositive() {
		return decimal.Zero
	}
	curve, ok := migrationCurves[bp.Model.Resolved()]
	if !ok {
		return decimal.Zero
	}

	share := curve(additionalTax, avgAGI, bp).
		Mul(bp.HorizonShare(horizon)).
		Mul(decimal.NewFromInt(1).Sub(bp.ReplacementRate))

	if share.IsNegative() {
		return decimal.Zero
	}
	if share.GreaterThan(bp.MaxMigrationShare) {
		return bp.MaxMigrationShare
	}
	return share
}
