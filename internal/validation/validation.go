// Package validation holds the field rules shared by every form handler.
// Rules are applied in order by the caller and the first failure wins.
package validation

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	util "github.com/saulo-duarte/strive/internal/utils"
)

var ErrInvalidID = errors.New("invalid id format")

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Error is a user-facing rule failure for one form field.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func New(field, message string) *Error {
	return &Error{Field: field, Message: message}
}

func As(err error) (*Error, bool) {
	var verr *Error
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}

func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func Required(field, value, message string) *Error {
	if IsBlank(value) {
		return New(field, message)
	}
	return nil
}

func Email(field, value, message string) *Error {
	if !emailPattern.MatchString(strings.TrimSpace(value)) {
		return New(field, message)
	}
	return nil
}

func MinLength(field, value string, n int, message string) *Error {
	if len(value) < n {
		return New(field, message)
	}
	return nil
}

// ParseID accepts positive decimal identifiers only.
func ParseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidID
	}
	return uint(id), nil
}

func ParseDate(field, raw, message string) (util.Date, *Error) {
	d, err := util.ParseDate(raw)
	if err != nil {
		return util.Date{}, New(field, message)
	}
	return d, nil
}

// NotInPast rejects dates strictly before today; today itself is allowed.
func NotInPast(field string, d, today util.Date, message string) *Error {
	if d.Before(today) {
		return New(field, message)
	}
	return nil
}

// Clock reports the current calendar day.
type Clock func() util.Date

func TodayIn(loc *time.Location) Clock {
	return func() util.Date {
		return util.Today(loc, time.Now())
	}
}

func FixedClock(d util.Date) Clock {
	return func() util.Date { return d }
}
