// Package validation holds the field rules for employee records and query
// parameters. Every rule is a pure function returning a bool; Register exposes
// the same rules as go-playground/validator tags for DTO binding.
package validation

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/FedyaB/restapi-server-spbstu/internal/model"

	"github.com/go-playground/validator/v10"
)

const (
	maxNameLength     = 100
	minPasswordLength = 4
	maxPasswordLength = 20
)

var nameRegExp = regexp.MustCompile(`^\p{L}+$`)

var daysInMonth = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// ValidName reports whether s is 1..100 letters.
func ValidName(s string) bool {
	n := utf8.RuneCountInString(s)
	return n >= 1 && n <= maxNameLength && nameRegExp.MatchString(s)
}

// ValidBirthday reports whether s is a real calendar date written DD/MM/YYYY.
func ValidBirthday(s string) bool {
	bits := strings.Split(s, "/")
	if len(bits) != 3 {
		return false
	}
	d, ok := parseDigits(bits[0])
	if !ok {
		return false
	}
	m, ok := parseDigits(bits[1])
	if !ok || m < 1 || m > 12 {
		return false
	}
	y, ok := parseDigits(bits[2])
	if !ok {
		return false
	}

	days := daysInMonth[m-1]
	if m == 2 && IsLeapYear(y) {
		days = 29
	}
	return d >= 1 && d <= days
}

// IsLeapYear applies the Gregorian rule.
func IsLeapYear(y int) bool {
	return (y%4 == 0 && y%100 != 0) || y%400 == 0
}

// ValidPosition reports membership in the position enumeration.
func ValidPosition(s string) bool {
	for _, p := range model.Positions {
		if p == s {
			return true
		}
	}
	return false
}

// ValidSalary reports whether n is a non-negative amount.
func ValidSalary(n int64) bool { return n >= 0 }

// ValidID reports whether n can be an employee id.
func ValidID(n int64) bool { return n >= 1 }

// ValidPage reports whether s is a positive base-10 integer.
func ValidPage(s string) bool {
	n, err := strconv.Atoi(s)
	return err == nil && n >= 1
}

// ValidFilter reports whether s can match a name.
func ValidFilter(s string) bool { return ValidName(s) }

// ValidPassword reports whether s fits the credentials length bounds.
func ValidPassword(s string) bool {
	n := utf8.RuneCountInString(s)
	return n >= minPasswordLength && n <= maxPasswordLength
}

// parseDigits accepts only ASCII digits, so "+1", " 1" and "1e1" are rejected.
func parseDigits(s string) (int, bool) {
	if s == "" || len(s) > 4 {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	return n, err == nil
}

// Register installs the empname, birthday, position, password, salary and
// employeeid tags on v. Pointer fields are checked through their element.
func Register(v *validator.Validate) error {
	textTags := map[string]func(string) bool{
		"empname":  ValidName,
		"birthday": ValidBirthday,
		"position": ValidPosition,
		"password": ValidPassword,
	}
	for tag, fn := range textTags {
		fn := fn
		err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return fn(fl.Field().String())
		})
		if err != nil {
			return err
		}
	}

	intTags := map[string]func(int64) bool{
		"salary":     ValidSalary,
		"employeeid": ValidID,
	}
	for tag, fn := range intTags {
		fn := fn
		err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			f := fl.Field()
			if !f.CanInt() {
				return false
			}
			return fn(f.Int())
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// NewValidator returns a validator with the employee tags installed.
func NewValidator() *validator.Validate {
	v := validator.New()
	if err := Register(v); err != nil {
		panic(err)
	}
	return v
}

// Describe renders validator errors as "field: tag" pairs for client messages.
func Describe(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, strings.ToLower(fe.Field())+": "+fe.Tag())
	}
	return "invalid fields (" + strings.Join(parts, ", ") + ")"
}
