package service

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	appErrors "github.com/enrollhq/registration-api/pkg/errors"
)

// Permissive address shape: no spaces, one "@", a dot somewhere after it.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NewValidator builds the validator shared by the registration services:
// json tag names in error reports plus the permissive `emailish` rule.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("emailish", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	return v
}

// checkPayload maps validator failures onto the wire messages. Presence
// failures win over format failures, and within each group the first field
// in declaration order wins.
func checkPayload(v *validator.Validate, payload interface{}) error {
	err := v.Struct(payload)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("Missing required field: %s", fe.Field()))
		}
	}
	for _, fe := range verrs {
		switch fe.Field() {
		case "email":
			return appErrors.Clone(appErrors.ErrValidation, "Invalid email format")
		case "motivation":
			return appErrors.Clone(appErrors.ErrValidation, "Motivation must be at least 100 characters")
		case "mobile":
			return appErrors.Clone(appErrors.ErrValidation, "Mobile number must be at least 8 characters")
		}
	}
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
}

// Year accepts a JSON number or a numeric string, since HTML forms post
// numbers as strings. No range check is applied to graduation years.
type Year int

// UnmarshalJSON implements json.Unmarshaler.
func (y *Year) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*y = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("graduationYear must be numeric")
	}
	*y = Year(n)
	return nil
}

// parseDate accepts RFC 3339 timestamps or plain calendar dates.
func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
