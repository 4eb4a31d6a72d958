package library

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"questlog/internal/services"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks a game against the field constraints.
func Validate(game *Game) error {
	if game == nil {
		return services.Wrap(services.ErrValidation, "library", "validate", "game is nil", nil)
	}
	return validationError("game", validate.Struct(game))
}

func validationError(subject string, err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		parts := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			parts = append(parts, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
		}
		return services.Wrap(services.ErrValidation, "library", "validate", subject+": "+strings.Join(parts, "; "), nil)
	}
	return services.Wrap(services.ErrValidation, "library", "validate", subject, err)
}
