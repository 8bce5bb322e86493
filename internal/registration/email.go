package registration

import (
	"strings"

	"github.com/asaskevich/govalidator"

	dErrors "giveaway/pkg/domainerrors"
)

// NormalizeEmail validates syntax and returns the canonical lower-cased
// form used as the identity key for duplicate detection. Format-only: no
// DNS or deliverability checks.
func NormalizeEmail(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if !govalidator.IsEmail(trimmed) {
		return "", dErrors.New(dErrors.CodeInvalidEmail, "invalid email format")
	}
	return strings.ToLower(trimmed), nil
}
