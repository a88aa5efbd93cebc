// Package lead validates counselling requests submitted from course pages.
package lead

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// DefaultCountryCode is assumed when the form omits a dialling code.
const DefaultCountryCode = "+91"

// Country describes the accepted phone number length for a dialling code.
type Country struct {
	Code      string `json:"code"`
	Name      string `json:"country"`
	MinLength int    `json:"minLength"`
	MaxLength int    `json:"maxLength"`
}

// Countries lists the dialling codes offered by the form.
var Countries = []Country{
	{Code: "+91", Name: "India", MinLength: 10, MaxLength: 10},
	{Code: "+1", Name: "USA", MinLength: 10, MaxLength: 10},
	{Code: "+44", Name: "UK", MinLength: 10, MaxLength: 10},
	{Code: "+971", Name: "UAE", MinLength: 9, MaxLength: 9},
	{Code: "+61", Name: "Australia", MinLength: 9, MaxLength: 9},
	{Code: "+65", Name: "Singapore", MinLength: 8, MaxLength: 8},
	{Code: "+49", Name: "Germany", MinLength: 10, MaxLength: 11},
}

var (
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	digitsPattern = regexp.MustCompile(`^\d+$`)
)

// Validation errors.
var (
	ErrRequired       = errors.New("please fill all required fields")
	ErrUnknownCountry = errors.New("unsupported country code")
	ErrContactDigits  = errors.New("phone number must contain digits only")
	ErrInvalidEmail   = errors.New("invalid email address")
)

// Form is the submitted payload.
type Form struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Course      string `json:"course"`
	CountryCode string `json:"countryCode"`
	Contact     string `json:"contact"`
	Page        string `json:"page"`
}

// LookupCountry returns the country for a dialling code.
func LookupCountry(code string) (Country, bool) {
	for _, c := range Countries {
		if c.Code == code {
			return c, true
		}
	}
	return Country{}, false
}

// Normalize trims whitespace and fills the default country code.
func (f *Form) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Course = strings.TrimSpace(f.Course)
	f.CountryCode = strings.TrimSpace(f.CountryCode)
	f.Contact = strings.TrimSpace(f.Contact)
	f.Page = strings.TrimSpace(f.Page)
	if f.CountryCode == "" {
		f.CountryCode = DefaultCountryCode
	}
}

// Validate checks required fields, phone length for the country and the
// email shape. The form is expected to be normalized.
func (f *Form) Validate() error {
	if f.Name == "" || f.Email == "" || f.Contact == "" {
		return ErrRequired
	}
	country, ok := LookupCountry(f.CountryCode)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCountry, f.CountryCode)
	}
	if !digitsPattern.MatchString(f.Contact) {
		return ErrContactDigits
	}
	if n := len(f.Contact); n < country.MinLength || n > country.MaxLength {
		return fmt.Errorf("phone number for %s must be between %d and %d digits", country.Name, country.MinLength, country.MaxLength)
	}
	if !emailPattern.MatchString(f.Email) {
		return ErrInvalidEmail
	}
	return nil
}
