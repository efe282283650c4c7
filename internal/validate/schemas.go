package validate

import (
	"strings"

	"github.com/shopspring/decimal"

	"mywallet/internal/models"
)

// SignupRequest is a validated sign-up payload.
type SignupRequest struct {
	Name     string
	Email    string
	Password string
}

// LoginRequest is a validated sign-in payload.
type LoginRequest struct {
	Email    string
	Password string
}

// EntryRequest is a validated entry creation payload.
type EntryRequest struct {
	Kind        models.Kind
	Amount      decimal.Decimal
	Description string
}

// EntryUpdateRequest is a validated entry update payload.
type EntryUpdateRequest struct {
	Amount      decimal.Decimal
	Description string
}

// Signup validates a sign-up payload.
func Signup(p Payload) (SignupRequest, error) {
	if errs := run(p, Name, Email, Password, RepeatPassword); len(errs) > 0 {
		return SignupRequest{}, errs
	}
	return SignupRequest{
		Name:     strings.TrimSpace(p["name"].(string)),
		Email:    p["email"].(string),
		Password: p["password"].(string),
	}, nil
}

// Login validates a sign-in payload.
func Login(p Payload) (LoginRequest, error) {
	if errs := run(p, Email, Password); len(errs) > 0 {
		return LoginRequest{}, errs
	}
	return LoginRequest{
		Email:    p["email"].(string),
		Password: p["password"].(string),
	}, nil
}

// Entry validates an entry creation payload.
func Entry(p Payload) (EntryRequest, error) {
	if errs := run(p, Kind, Amount, Description); len(errs) > 0 {
		return EntryRequest{}, errs
	}
	kind, _ := models.ParseKind(p["type"].(string))
	amount, _ := toDecimal(p["value"])
	return EntryRequest{
		Kind:        kind,
		Amount:      amount,
		Description: strings.TrimSpace(p["description"].(string)),
	}, nil
}

// EntryUpdate validates an entry update payload. Kind and owner fields are
// not part of the schema and are ignored if present.
func EntryUpdate(p Payload) (EntryUpdateRequest, error) {
	if errs := run(p, Amount, Description); len(errs) > 0 {
		return EntryUpdateRequest{}, errs
	}
	amount, _ := toDecimal(p["value"])
	return EntryUpdateRequest{
		Amount:      amount,
		Description: strings.TrimSpace(p["description"].(string)),
	}, nil
}
