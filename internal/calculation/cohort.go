package calculation

import (
	"github.com/rgehrsitz/revimpact/internal/domain"
)

// EvaluateCohort applies a policy and behavioral response to one cohort.
//
// Departing filers take their whole existing liability with them, not only the
// increment, so the migration loss is leaving × (existing + additional).
func EvaluateCohort(c domain.IncomeCohort, policy domain.PolicyChange, bp domain.BehavioralParameters, horizon domain.TimeHorizon) domain.CohortResult {
	avgAGI := c.AvgAGI()

	nysTax := AdditionalTaxPerFiler(avgAGI, policy.StateOnly())
	nycTax := AdditionalTaxPerFiler(avgAGI, policy).Sub(nysTax)
	additional := nysTax.Add(nycTax.Mul(c.NYCResidentShare))

	mechanical := additional.Mul(c.FilerCount)
	share := MigrationShare(additional, avgAGI, bp, horizon)
	leaving := share.Mul(c.FilerCount)
	loss := leaving.Mul(c.ExistingTaxPerFiler().Add(additional))

	return domain.CohortResult{
		Cohort:                c,
		AvgAGI:                avgAGI,
		AdditionalTaxPerFiler: additional,
		MechanicalGain:        mechanical,
		MigrationShare:        share,
		LeavingFilers:         leaving,
		MigrationLoss:         loss,
		NetRevenueChange:      mechanical.Sub(loss),
	}
}
