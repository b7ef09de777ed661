package forms

import (
	"errors"
	"testing"

	"github.com/Kerhoff/RepBoT/internal/models"
)

func TestValidateProduct(t *testing.T) {
	err := Validate(models.ProductInput{Name: "Soap", Description: "Lavender", Price: -1, Stock: 3})

	var fe Errors
	if !errors.As(err, &fe) {
		t.Fatalf("expected field errors, got %v", err)
	}
	if len(fe) != 1 || fe[0].Field != "price" || fe[0].Message != "must be 0 or more" {
		t.Errorf("unexpected errors %+v", fe)
	}
}

func TestValidateRegisterData(t *testing.T) {
	data := models.RegisterData{
		RepresentativeInput: models.RepresentativeInput{
			FullName: "Ana Ruiz",
			Country:  "CO",
			Email:    "not-an-email",
		},
		Password: "abc",
	}
	err := Validate(data)

	var fe Errors
	if !errors.As(err, &fe) {
		t.Fatalf("expected field errors, got %v", err)
	}
	got := map[string]string{}
	for _, e := range fe {
		got[e.Field] = e.Message
	}
	if got["email"] != "must be a valid email" {
		t.Errorf("email: got %q", got["email"])
	}
	if got["password"] != "must be at least 6 characters" {
		t.Errorf("password: got %q", got["password"])
	}
}

func TestValidateAcceptsValidChild(t *testing.T) {
	in := models.ChildInput{FullName: "Ana", BirthDate: models.MustDate("2015-03-02"), Country: "CO"}
	if err := Validate(in); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateCredentialsUsesFieldNames(t *testing.T) {
	err := Validate(models.Credentials{})
	if err == nil || err.Error() != "username: is required; password: is required" {
		t.Errorf("unexpected error %v", err)
	}
}
