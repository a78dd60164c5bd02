package utils

import (
	"strconv"
	"strings"
)

const sizeStep = 1024

var sizeUnits = []string{"b", "kb", "mb", "gb", "tb", "pb"}

// FormatFileSize renders a byte count with a lower-case unit, keeping one
// decimal below ten units ("1.5kb", "10mb", "512b").
func FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return "0" + sizeUnits[0]
	}
	if bytes < sizeStep {
		return strconv.FormatInt(bytes, 10) + sizeUnits[0]
	}
	value := float64(bytes)
	unit := 0
	for value >= sizeStep && unit < len(sizeUnits)-1 {
		value /= sizeStep
		unit++
	}
	precision := 0
	if value < 10 {
		precision = 1
	}
	formatted := strings.TrimSuffix(strconv.FormatFloat(value, 'f', precision, 64), ".0")
	return formatted + sizeUnits[unit]
}
