package service

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/Freeeeeet/gym_bot/internal/model"
)

// Ограничения на ввод
const (
	GymNameMinLength = 2
	GymNameMaxLength = 100

	GymContactMaxLength = 200

	RequestMessageMaxLength = 500
	ChatMessageMaxLength    = 2000

	RoutineNameMinLength        = 2
	RoutineNameMaxLength        = 100
	RoutineDescriptionMaxLength = 3000
)

func checkLength(field, value string, min, max int) error {
	n := utf8.RuneCountInString(value)
	if n < min || n > max {
		return fmt.Errorf("%w: %s must be %d-%d characters", model.ErrInvalidInput, field, min, max)
	}
	return nil
}

func isForbidden(err error) bool {
	return errors.Is(err, model.ErrForbidden)
}
