package tuistyles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "$1,234,567", FormatCurrency(1234567.4))
	assert.Equal(t, "-$5,000", FormatCurrency(-5000))
	assert.Equal(t, "$0", FormatCurrency(0))
}

func TestFormatBillions(t *testing.T) {
	assert.Equal(t, "$5.35B", FormatBillions(5.3466e9))
	assert.Equal(t, "-$1.20B", FormatBillions(-1.2e9))
	assert.Equal(t, "$250.0M", FormatBillions(2.5e8))
	assert.Equal(t, "-$0.5M", FormatBillions(-500000))
}

func TestTrendIndicator(t *testing.T) {
	assert.Equal(t, "▲", TrendIndicator(true))
	assert.Equal(t, "▼", TrendIndicator(false))
}
