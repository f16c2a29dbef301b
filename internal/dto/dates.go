package dto

import (
	"fmt"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
)

const calendarDateLayout = "2006-01-02"

var calendarDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ParseInvoiceDate converts a client supplied date. A bare YYYY-MM-DD is
// pinned to 09:00 UTC so it renders as the same calendar day in every
// western timezone; anything else must be RFC 3339.
func ParseInvoiceDate(s string) (time.Time, error) {
	if calendarDatePattern.MatchString(s) {
		d, err := time.Parse(calendarDateLayout, s)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
		}
		return d.Add(9 * time.Hour), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD or RFC 3339", s)
	}
	return t.UTC(), nil
}

func validateCalendarDate(fl validator.FieldLevel) bool {
	_, err := ParseInvoiceDate(fl.Field().String())
	return err == nil
}

// RegisterValidators adds the custom binding rules used by the request DTOs.
func RegisterValidators(v *validator.Validate) error {
	return v.RegisterValidation("calendar_date", validateCalendarDate)
}
