// Package validate checks and coerces inbound payloads. Every rule of a schema
// runs, so callers receive the complete list of field errors at once.
package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Errors is the ordered list of field-level messages from a failed validation.
type Errors []string

func (e Errors) Error() string {
	return "validation failed: " + strings.Join(e, "; ")
}

// Payload is a decoded JSON object as received from the client.
type Payload map[string]any

// Decode reads a JSON object from r. Numbers are kept as json.Number so that
// amounts are not rounded through float64.
func Decode(r io.Reader) (Payload, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var p Payload
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return Payload{}, nil
		}
		return nil, Errors{`"value" must be of type object`}
	}
	if p == nil {
		p = Payload{}
	}
	return p, nil
}

// Rule checks one field of a payload and returns its messages, if any.
type Rule func(p Payload) []string

func run(p Payload, rules ...Rule) Errors {
	var errs Errors
	for _, r := range rules {
		errs = append(errs, r(p)...)
	}
	return errs
}

func msg(field, format string, args ...any) string {
	return fmt.Sprintf("%q ", field) + fmt.Sprintf(format, args...)
}

// stringField fetches a required string field.
func stringField(p Payload, field string) (string, []string) {
	v, ok := p[field]
	if !ok || v == nil {
		return "", []string{msg(field, "is required")}
	}
	s, ok := v.(string)
	if !ok {
		return "", []string{msg(field, "must be a string")}
	}
	return s, nil
}
