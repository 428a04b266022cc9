// institution-portal/internal/ledger/month.go
package ledger

import "fmt"

// ParseMonth validates a "YYYY-MM" billing period key and returns its parts.
func ParseMonth(month string) (year, m int, err error) {
	if len(month) != 7 || month[4] != '-' {
		return 0, 0, fmt.Errorf("%w: month %q is not in YYYY-MM form", ErrInvalidInput, month)
	}
	if _, err := fmt.Sscanf(month, "%4d-%2d", &year, &m); err != nil {
		return 0, 0, fmt.Errorf("%w: month %q is not in YYYY-MM form", ErrInvalidInput, month)
	}
	// Sscanf tolerates trailing junk and embedded spaces; only keys that
	// round-trip to the canonical zero-padded form are valid.
	if fmt.Sprintf("%04d-%02d", year, m) != month {
		return 0, 0, fmt.Errorf("%w: month %q is not in YYYY-MM form", ErrInvalidInput, month)
	}
	if m < 1 || m > 12 || year < 1 {
		return 0, 0, fmt.Errorf("%w: month %q is out of range", ErrInvalidInput, month)
	}
	return year, m, nil
}

// PrevMonth returns the calendar predecessor of a billing month; January
// rolls back to December of the prior year.
func PrevMonth(month string) (string, error) {
	year, m, err := ParseMonth(month)
	if err != nil {
		return "", err
	}
	if m == 1 {
		return fmt.Sprintf("%04d-12", year-1), nil
	}
	return fmt.Sprintf("%04d-%02d", year, m-1), nil
}
