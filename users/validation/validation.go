package validation

import (
	"strings"

	userErrors "github.com/linkboard/api/users/errors"
	"github.com/linkboard/api/users/models"
)

// ValidateCreateUserRequest checks registration input and reports every failing field
func ValidateCreateUserRequest(req *models.CreateUserRequest) error {
	if req == nil {
		return &userErrors.ValidationError{Fields: []userErrors.FieldError{{Field: "request", Message: "request is required"}}}
	}

	var fields []userErrors.FieldError
	if !strings.Contains(req.Email, "@") {
		fields = append(fields, userErrors.FieldError{Field: "email", Message: "invalid email"})
	}
	if len(req.Username) <= 2 {
		fields = append(fields, userErrors.FieldError{Field: "username", Message: "length must be greater than 2"})
	}
	if strings.Contains(req.Username, "@") {
		fields = append(fields, userErrors.FieldError{Field: "username", Message: "cannot include an @"})
	}
	if len(req.PasswordHash) <= 2 {
		fields = append(fields, userErrors.FieldError{Field: "password", Message: "length must be greater than 2"})
	}

	if len(fields) > 0 {
		return &userErrors.ValidationError{Fields: fields}
	}
	return nil
}
