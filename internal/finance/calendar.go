package finance

import (
	"fmt"
	"regexp"
)

// MonthsPerPeriod is the number of cycles every period holds.
const MonthsPerPeriod = 12

var monthNames = [MonthsPerPeriod]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

var yearTitle = regexp.MustCompile(`^[0-9]{4}$`)

// MonthName returns the English name of a 1-based month.
func MonthName(month int) (string, error) {
	if month < 1 || month > MonthsPerPeriod {
		return "", fmt.Errorf("month %d out of range 1..%d", month, MonthsPerPeriod)
	}
	return monthNames[month-1], nil
}

// ValidPeriodTitle reports whether title is a four digit year.
func ValidPeriodTitle(title string) bool {
	return yearTitle.MatchString(title)
}
