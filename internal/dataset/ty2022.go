package dataset

import (
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/revimpact/internal/domain"
)

const source2022 = "Approximated from NYS DTF Analysis of Statewide Personal Income Tax Returns, TY2022 (rounded)"

var ty2022 = Dataset{
	Name:        "ty2022",
	TaxYear:     2022,
	Description: "Tax year 2022 resident returns, ten AGI cohorts",
	Cohorts: []domain.IncomeCohort{
		cohort("Under $50K", 0, 50000, 4949000, 112144000000, 1682200000, 1564800000, 0.40, source2022),
		cohort("$50K-$100K", 50000, 100000, 2121000, 157293000000, 6763600000, 2085100000, 0.38, source2022),
		cohort("$100K-$200K", 100000, 200000, 1493500, 213272000000, 11516700000, 2752700000, 0.37, source2022),
		cohort("$200K-$500K", 200000, 500000, 588000, 172225000000, 10850200000, 2403200000, 0.40, source2022),
		cohort("$500K-$1M", 500000, 1000000, 112200, 76644000000, 5288400000, 1203100000, 0.45, source2022),
		cohort("$1M-$2M", 1000000, 2000000, 40700, 53919000000, 4313500000, 902800000, 0.48, source2022),
		cohort("$2M-$5M", 2000000, 5000000, 20000, 55800000000, 5022000000, 1012200000, 0.52, source2022),
		cohort("$5M-$10M", 5000000, 10000000, 5800, 36018000000, 3529800000, 691000000, 0.55, source2022),
		cohort("$10M-$25M", 10000000, 25000000, 2970, 39204000000, 3998800000, 793200000, 0.58, source2022),
		cohort("$25M+", 25000000, 0, 1320, 92004000000, 9936400000, 1925700000, 0.60, source2022),
	},
	// Middle-class rate cuts phased in for 2022 on the 5.97% and 6.33% brackets.
	NYSBrackets: []domain.TaxBracket{
		bracket(0, 8500, 0.04),
		bracket(8500, 11700, 0.045),
		bracket(11700, 13900, 0.0525),
		bracket(13900, 80650, 0.0585),
		bracket(80650, 215400, 0.0625),
		bracket(215400, 1077550, 0.0685),
		bracket(1077550, 5000000, 0.0965),
		bracket(5000000, 25000000, 0.103),
		bracket(25000000, 0, 0.109),
	},
	NYCBrackets:           nycBrackets,
	BenchmarkNYSLiability: decimal.NewFromInt(61000000000),
}
