package buyer

import (
	"testing"

	pkgerrors "github.com/sortezap/sortezap-backend/pkg/errors"
)

func TestNormalizeStripsFormatting(t *testing.T) {
	p := Profile{
		FullName:    "  Maria Silva  ",
		Email:       " maria@example.com ",
		PhoneDigits: "(11) 99999-9999",
		TaxID:       "123.456.789-00",
	}.Normalize()

	if p.FullName != "Maria Silva" {
		t.Fatalf("unexpected name %q", p.FullName)
	}
	if p.PhoneDigits != "11999999999" {
		t.Fatalf("unexpected phone %q", p.PhoneDigits)
	}
	if p.TaxID != "12345678900" {
		t.Fatalf("unexpected document %q", p.TaxID)
	}
}

func TestValidateKeysErrorsPerField(t *testing.T) {
	errs := Profile{}.Validate()
	for _, field := range []string{"name", "email", "phone", "document"} {
		if errs[field] == "" {
			t.Fatalf("expected error keyed on %q, got %v", field, errs)
		}
	}

	errs = Profile{FullName: "Maria", Email: "not-an-email", PhoneDigits: "11999999999", TaxID: "12345678900"}.Validate()
	if len(errs) != 1 || errs["email"] == "" {
		t.Fatalf("expected only the email error, got %v", errs)
	}

	if errs := (Profile{FullName: "Maria", Email: "m@x.com", PhoneDigits: "11999999999", TaxID: "12345678900"}).Validate(); errs != nil {
		t.Fatalf("valid profile should return nil, got %v", errs)
	}
}

func TestFieldErrorsAsError(t *testing.T) {
	if err := (FieldErrors{}).AsError(); err != nil {
		t.Fatalf("empty field errors should be nil, got %v", err)
	}

	err := (FieldErrors{"email": "email is required"}).AsError()
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
