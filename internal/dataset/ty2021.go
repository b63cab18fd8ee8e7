package dataset

import (
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/revimpact/internal/domain"
)

const source2021 = "Approximated from NYS DTF Analysis of Statewide Personal Income Tax Returns, TY2021 (rounded)"

var ty2021 = Dataset{
	Name:        "ty2021",
	TaxYear:     2021,
	Description: "Tax year 2021 resident returns, ten AGI cohorts",
	Cohorts: []domain.IncomeCohort{
		cohort("Under $50K", 0, 50000, 4900000, 107800000000, 1617000000, 1504200000, 0.40, source2021),
		cohort("$50K-$100K", 50000, 100000, 2100000, 151200000000, 6501600000, 2004300000, 0.38, source2021),
		cohort("$100K-$200K", 100000, 200000, 1450000, 203000000000, 10962000000, 2620100000, 0.37, source2021),
		cohort("$200K-$500K", 200000, 500000, 560000, 162400000000, 10231200000, 2266100000, 0.40, source2021),
		cohort("$500K-$1M", 500000, 1000000, 110000, 75900000000, 5237100000, 1191500000, 0.45, source2021),
		cohort("$1M-$2M", 1000000, 2000000, 42000, 57960000000, 4636800000, 970500000, 0.48, source2021),
		cohort("$2M-$5M", 2000000, 5000000, 21000, 63000000000, 5670000000, 1142800000, 0.52, source2021),
		cohort("$5M-$10M", 5000000, 10000000, 6300, 43470000000, 4260100000, 834000000, 0.55, source2021),
		cohort("$10M-$25M", 10000000, 25000000, 3300, 49500000000, 5049000000, 1001500000, 0.58, source2021),
		cohort("$25M+", 25000000, 0, 1500, 127500000000, 13770000000, 2668600000, 0.60, source2021),
	},
	// Single-filer schedule after the April 2021 rate increases.
	NYSBrackets: []domain.TaxBracket{
		bracket(0, 8500, 0.04),
		bracket(8500, 11700, 0.045),
		bracket(11700, 13900, 0.0525),
		bracket(13900, 21400, 0.059),
		bracket(21400, 80650, 0.0597),
		bracket(80650, 215400, 0.0633),
		bracket(215400, 1077550, 0.0685),
		bracket(1077550, 5000000, 0.0965),
		bracket(5000000, 25000000, 0.103),
		bracket(25000000, 0, 0.109),
	},
	NYCBrackets:           nycBrackets,
	BenchmarkNYSLiability: decimal.NewFromInt(66000000000),
}
