package services

import (
	"net/http"
	"unicode"

	"github.com/badziek/logitrans-app/internal/utils"
)

const passwordMinLen = 6

// ValidatePassword enforces the account password policy: at least six
// characters and at least one uppercase letter. The returned error
// names the violated rule.
func ValidatePassword(password string) error {
	if len(password) < passwordMinLen {
		return utils.NewAppError(http.StatusBadRequest, "VALIDATION_ERROR", "password must be at least 6 characters")
	}
	for _, r := range password {
		if unicode.IsUpper(r) {
			return nil
		}
	}
	return utils.NewAppError(http.StatusBadRequest, "VALIDATION_ERROR", "password must contain at least one uppercase letter")
}
