package output

// DefaultAssumptions lists key modeling assumptions rendered in console reports.
var DefaultAssumptions = []string{
	"Each cohort is represented by its average filer",
	"Departing filers take their full existing liability with them",
	"Migration is measured at the chosen horizon and net of in-movers",
	"NYC surcharges apply to the city-resident share of each cohort",
	"The middle-income offset prorates cohorts that straddle the band edges",
}
