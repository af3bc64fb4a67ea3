package service

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/storefront/catalog-api/internal/core/domain"
	"github.com/storefront/catalog-api/internal/core/ports"
)

const (
	minUsernameLen = 3
	maxUsernameLen = 64
	minPasswordLen = 8
	// bcrypt ignores input past 72 bytes.
	maxPasswordLen = 72
)

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)
	currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

	validate = validator.New()
)

// validateRegistration checks the registration fields and resolves the
// requested role, defaulting to CUSTOMER.
func validateRegistration(in ports.RegisterInput) (domain.Role, error) {
	var msgs []string

	switch n := len(in.Username); {
	case n == 0:
		msgs = append(msgs, "username is required")
	case n < minUsernameLen || n > maxUsernameLen:
		msgs = append(msgs, fmt.Sprintf("username must be %d-%d characters", minUsernameLen, maxUsernameLen))
	case !usernamePattern.MatchString(in.Username):
		msgs = append(msgs, "username may only contain letters, digits, '.', '_' and '-'")
	}

	switch n := len(in.Password); {
	case n == 0:
		msgs = append(msgs, "password is required")
	case n < minPasswordLen:
		msgs = append(msgs, fmt.Sprintf("password must be at least %d characters", minPasswordLen))
	case n > maxPasswordLen:
		msgs = append(msgs, fmt.Sprintf("password must be at most %d bytes", maxPasswordLen))
	}

	if in.Email != "" {
		if err := validate.Var(in.Email, "email"); err != nil {
			msgs = append(msgs, "email must be a valid email")
		}
	}

	role := domain.RoleCustomer
	if in.Role != "" {
		r, err := domain.ParseRole(in.Role)
		if err != nil {
			msgs = append(msgs, err.Error())
		}
		role = r
	}

	if len(msgs) > 0 {
		return "", domain.NewValidationError(msgs...)
	}
	return role, nil
}

func validateProduct(in ports.ProductInput) error {
	var msgs []string
	if in.SKU == "" {
		msgs = append(msgs, "sku is required")
	} else if len(in.SKU) > 64 {
		msgs = append(msgs, "sku must be at most 64 characters")
	}
	if in.Name == "" {
		msgs = append(msgs, "name is required")
	} else if len(in.Name) > 200 {
		msgs = append(msgs, "name must be at most 200 characters")
	}
	if in.Price < 0 {
		msgs = append(msgs, "price must not be negative")
	}
	if in.Stock < 0 {
		msgs = append(msgs, "stock must not be negative")
	}
	if !currencyPattern.MatchString(in.Currency) {
		msgs = append(msgs, "currency must be a 3-letter ISO code")
	}
	if len(msgs) > 0 {
		return domain.NewValidationError(msgs...)
	}
	return nil
}
