package validate

import (
	"encoding/json"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"mywallet/internal/models"
)

const (
	nameMaxLen           = 20
	descriptionMinLen    = 3
	minEmailDomainLabels = 2
)

// PasswordPattern restricts passwords to letters, digits and !@#$%&*.
var PasswordPattern = regexp.MustCompile(`^[a-zA-Z0-9!@#$%&*]{3,30}$`)

// Name requires a trimmed name of 1 to 20 characters.
func Name(p Payload) []string {
	s, errs := stringField(p, "name")
	if errs != nil {
		return errs
	}
	s = strings.TrimSpace(s)
	switch n := utf8.RuneCountInString(s); {
	case n == 0:
		return []string{msg("name", "is not allowed to be empty")}
	case n > nameMaxLen:
		return []string{msg("name", "length must be less than or equal to %d characters long", nameMaxLen)}
	}
	return nil
}

// Email requires a bare address whose domain has at least two labels.
func Email(p Payload) []string {
	s, errs := stringField(p, "email")
	if errs != nil {
		return errs
	}
	if s == "" {
		return []string{msg("email", "is not allowed to be empty")}
	}
	if !validEmail(s) {
		return []string{msg("email", "must be a valid email")}
	}
	return nil
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s || addr.Name != "" {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	labels := strings.Split(s[at+1:], ".")
	if len(labels) < minEmailDomainLabels {
		return false
	}
	for _, l := range labels {
		if l == "" {
			return false
		}
	}
	return true
}

// Password requires a value matching PasswordPattern.
func Password(p Payload) []string {
	s, errs := stringField(p, "password")
	if errs != nil {
		return errs
	}
	if s == "" {
		return []string{msg("password", "is not allowed to be empty")}
	}
	if !PasswordPattern.MatchString(s) {
		return []string{msg("password", "fails to match the required pattern: /%s/", PasswordPattern.String())}
	}
	return nil
}

// RepeatPassword checks the optional repeat_password field against password.
func RepeatPassword(p Payload) []string {
	v, ok := p["repeat_password"]
	if !ok {
		return nil
	}
	repeat, isString := v.(string)
	password, _ := p["password"].(string)
	if !isString || repeat != password {
		return []string{msg("repeat_password", "must be [ref:password]")}
	}
	return nil
}

// Kind requires type to be exactly one of the accepted entry kinds.
func Kind(p Payload) []string {
	s, errs := stringField(p, "type")
	if errs != nil {
		return errs
	}
	if _, ok := models.ParseKind(s); !ok {
		return []string{msg("type", "must be one of [income, expense, input, output]")}
	}
	return nil
}

// Amount requires value to be a JSON number, or numeric string, that is not
// negative.
func Amount(p Payload) []string {
	v, ok := p["value"]
	if !ok || v == nil {
		return []string{msg("value", "is required")}
	}
	d, ok := toDecimal(v)
	if !ok {
		return []string{msg("value", "must be a number")}
	}
	if d.IsNegative() {
		return []string{msg("value", "must be greater than or equal to 0")}
	}
	return nil
}

func toDecimal(v any) (decimal.Decimal, bool) {
	var s string
	switch t := v.(type) {
	case json.Number:
		s = t.String()
	case string:
		s = strings.TrimSpace(t)
	default:
		return decimal.Decimal{}, false
	}
	if s == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// Description requires a trimmed description of at least 3 characters.
func Description(p Payload) []string {
	s, errs := stringField(p, "description")
	if errs != nil {
		return errs
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return []string{msg("description", "is not allowed to be empty")}
	}
	if utf8.RuneCountInString(s) < descriptionMinLen {
		return []string{msg("description", "length must be at least %d characters long", descriptionMinLen)}
	}
	return nil
}
