package buyer

import (
	"strings"

	pkgerrors "github.com/sortezap/sortezap-backend/pkg/errors"
)

// Profile is the buyer identity attached to a checkout attempt.
type Profile struct {
	FullName    string `json:"name"`
	Email       string `json:"email"`
	PhoneDigits string `json:"phone"`
	TaxID       string `json:"document"`
}

// Normalize strips formatting from phone and CPF; display formatting belongs
// to the storefront, the gateway wants digits.
func (p Profile) Normalize() Profile {
	p.FullName = strings.TrimSpace(p.FullName)
	p.Email = strings.TrimSpace(p.Email)
	p.PhoneDigits = digitsOnly(p.PhoneDigits)
	p.TaxID = digitsOnly(p.TaxID)
	return p
}

// FieldErrors keys a message per offending field so clients can clear them
// individually as the user corrects input.
type FieldErrors map[string]string

// Validate checks the submit gate: every field present, email plausible.
func (p Profile) Validate() FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(p.FullName) == "" {
		errs["name"] = "name is required"
	}
	email := strings.TrimSpace(p.Email)
	if email == "" {
		errs["email"] = "email is required"
	} else if !strings.Contains(email, "@") {
		errs["email"] = "email is invalid"
	}
	if digitsOnly(p.PhoneDigits) == "" {
		errs["phone"] = "phone is required"
	}
	if digitsOnly(p.TaxID) == "" {
		errs["document"] = "CPF is required"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// AsError converts field errors into the shared validation error shape.
func (f FieldErrors) AsError() error {
	if len(f) == 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "buyer data incomplete").WithDetails(map[string]string(f))
}

func digitsOnly(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
