package validator

import (
	"log"
	"regexp"

	"github.com/go-playground/validator/v10"

	"rental_backend/internal/models"
)

var (
	slugRe  = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	phoneRe = regexp.MustCompile(`^\+?[0-9 ()-]{7,20}$`)
)

// registerCustomRules регистрирует кастомные правила валидации
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// без правил приложение запускать нельзя
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-user-role", validateUserRole)
	mustRegister("is-user-status", validateUserStatus)
	mustRegister("is-post-status", validatePostStatus)
	mustRegister("is-post-sort", validatePostSort)
	mustRegister("is-slug", validateSlug)
	mustRegister("is-phone", validatePhone)
}

// Пустые значения пропускаем: для этого есть 'required'

func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || models.UserRole(value).IsValid()
}

func validateUserStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || models.UserStatus(value).IsValid()
}

func validatePostStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || models.PostStatus(value).IsValid()
}

func validatePostSort(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "", "newest", "price_asc", "price_desc", "area_desc":
		return true
	}
	return false
}

func validateSlug(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || slugRe.MatchString(value)
}

func validatePhone(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || phoneRe.MatchString(value)
}
