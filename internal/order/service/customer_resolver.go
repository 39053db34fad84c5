package service

import (
	"strings"

	"vitashop/internal/domain"
	apperrors "vitashop/internal/errors"
)

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ResolveDocument returns the first candidate that is a CPF (11 digits) or
// CNPJ (14 digits) once punctuation is stripped. The explicit value wins
// over the one on file.
func ResolveDocument(explicit string, onFile *string) (string, bool) {
	for _, candidate := range []string{explicit, deref(onFile)} {
		digits := digitsOnly(candidate)
		if len(digits) == 11 || len(digits) == 14 {
			return digits, true
		}
	}
	return "", false
}

// ResolvePhone returns the first candidate with 10 to 13 digits, falling back
// to placeholder. The gateway requires a phone but a missing one is not the
// buyer's problem.
func ResolvePhone(explicit string, onFile *string, placeholder string) string {
	for _, candidate := range []string{explicit, deref(onFile)} {
		digits := digitsOnly(candidate)
		if len(digits) >= 10 && len(digits) <= 13 {
			return digits
		}
	}
	return placeholder
}

// ResolveCustomer builds the gateway customer for user. Email and document
// are mandatory.
func ResolveCustomer(user domain.User, card domain.CardData, country, placeholderPhone string) (domain.Customer, error) {
	email := strings.TrimSpace(deref(user.Email))
	if email == "" {
		return domain.Customer{}, apperrors.NewCustomerEmailMissingError(user.ID)
	}

	document, ok := ResolveDocument(card.Document, user.Document)
	if !ok {
		return domain.Customer{}, apperrors.NewCustomerDocumentMissingError(user.ID)
	}

	name := user.FullName()
	if name == "" {
		name = card.HolderName
	}

	customerType := card.CustomerType
	if customerType != domain.CustomerTypeIndividual && customerType != domain.CustomerTypeCorporation {
		customerType = domain.CustomerTypeIndividual
		if len(document) == 14 {
			customerType = domain.CustomerTypeCorporation
		}
	}

	return domain.Customer{
		Name:     name,
		Email:    email,
		Country:  country,
		Type:     customerType,
		Document: document,
		Phone:    ResolvePhone(card.Phone, user.Phone, placeholderPhone),
	}, nil
}
