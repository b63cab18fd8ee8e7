package components

import "strconv"

func formatFloat(v float64, places int) string {
	return strconv.FormatFloat(v, 'f', places, 64)
}

// PercentFormatter renders a fraction such as 0.0125 as "1.25%"
func PercentFormatter(places int) ValueFormatter {
	return func(v float64) string {
		return formatFloat(v*100, places) + "%"
	}
}

// SignedPercentFormatter renders a fraction with an explicit sign
func SignedPercentFormatter(places int) ValueFormatter {
	return func(v float64) string {
		s := formatFloat(v*100, places) + "%"
		if v >= 0 {
			s = "+" + s
		}
		return s
	}
}

// YearsFormatter renders a whole number of years
func YearsFormatter(v float64) string {
	n := int(v)
	if n == 1 {
		return "1 year"
	}
	return strconv.Itoa(n) + " years"
}
