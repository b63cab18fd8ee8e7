package tui

import (
	"github.com/rgehrsitz/revimpact/internal/domain"
)

// CalculationCompleteMsg carries the result of one model run and its surcharge sweep.
// Seq identifies the request so stale results can be dropped.
type CalculationCompleteMsg struct {
	Seq    int
	Output *domain.ModelOutput
	Sweep  *domain.SensitivityAnalysis
	Err    error
}
