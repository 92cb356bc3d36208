// Package validation проверяет структуру запросов протокола синхронизации
// до любой логики слияния. Правила описаны тегами validate в pkg/api.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/iudanet/famsync/pkg/api"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError ошибка одного поля
type FieldError struct {
	Field   string // путь поля в JSON, например localProfile.id
	Tag     string // нарушенное правило
	Message string
}

func (e FieldError) Error() string {
	return e.Message
}

// Errors список ошибок валидации. Запрос с ошибками не обрабатывается целиком.
type Errors []FieldError

func (e Errors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	return "validation failed: " + strings.Join(e.Messages(), "; ")
}

// Messages возвращает сообщения для ответа клиенту
func (e Errors) Messages() []string {
	out := make([]string, 0, len(e))
	for _, fe := range e {
		out = append(out, fe.Message)
	}
	return out
}

// IsValidationError проверяет, что err содержит ошибки валидации
func IsValidationError(err error) bool {
	var verrs Errors
	return errors.As(err, &verrs)
}

// Validator возвращает общий экземпляр валидатора
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// в сообщениях используются имена полей из JSON
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})

		mustRegister("userid", func(fl validator.FieldLevel) bool {
			return ValidateUserID(fl.Field().String()) == nil
		})
		mustRegister("rawjson", func(fl validator.FieldLevel) bool {
			if raw, ok := fl.Field().Interface().(json.RawMessage); ok {
				return json.Valid(raw)
			}
			return false
		})
	})
	return validate
}

func mustRegister(tag string, fn validator.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// Struct проверяет структуру по тегам. Возвращает nil или Errors.
func Struct(s any) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return Errors{{Field: "request", Tag: "invalid", Message: err.Error()}}
	}

	out := make(Errors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := fieldPath(fe.Namespace())
		out = append(out, FieldError{
			Field:   field,
			Tag:     fe.Tag(),
			Message: translate(fe, field),
		})
	}
	return out
}

// SyncRequest проверяет запрос синхронизации.
// Стратегия здесь не проверяется: неизвестная стратегия - отдельная ошибка протокола.
func SyncRequest(req *api.SyncRequest) error {
	if req == nil {
		return Errors{{Field: "request", Tag: "required", Message: "request body is required"}}
	}
	if err := Struct(req); err != nil {
		return err
	}
	if req.RemoteProfile != nil && req.RemoteProfile.ID != req.LocalProfile.ID {
		return Errors{{
			Field:   "remoteProfile.id",
			Tag:     "eqfield",
			Message: "remoteProfile.id must match localProfile.id",
		}}
	}
	return nil
}

// BatchRequest проверяет оболочку пакета; элементы проверяются при обработке
func BatchRequest(req *api.BatchSyncRequest, maxItems int) error {
	if req == nil {
		return Errors{{Field: "request", Tag: "required", Message: "request body is required"}}
	}
	if err := Struct(req); err != nil {
		return err
	}
	if maxItems > 0 && len(req.Profiles) > maxItems {
		return Errors{{
			Field:   "profiles",
			Tag:     "max",
			Message: fmt.Sprintf("profiles must contain at most %d items", maxItems),
		}}
	}
	return nil
}

// OperationStatus проверяет запрос обновления статуса операции
func OperationStatus(req *api.OperationStatusRequest) error {
	if req == nil {
		return Errors{{Field: "request", Tag: "required", Message: "request body is required"}}
	}
	return Struct(req)
}

// UserID проверяет идентификатор пользователя из query-параметра
func UserID(userID string) error {
	if err := ValidateUserID(userID); err != nil {
		return Errors{{Field: "userId", Tag: "userid", Message: err.Error()}}
	}
	return nil
}

// fieldPath отбрасывает имя корневой структуры: SyncRequest.localProfile.id -> localProfile.id
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

var messageTemplates = map[string]string{
	"required": "%s is required",
	"userid":   "%s must be 1-128 characters of letters, digits or _ . @ : -",
	"rawjson":  "%s must be valid JSON",
}

var messageWithParam = map[string]string{
	"oneof": "%s must be one of: %s",
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
}

func translate(fe validator.FieldError, field string) string {
	if template, ok := messageTemplates[fe.Tag()]; ok {
		return fmt.Sprintf(template, field)
	}
	if template, ok := messageWithParam[fe.Tag()]; ok {
		return fmt.Sprintf(template, field, fe.Param())
	}

	switch fe.Tag() {
	case "min", "max":
		bound := "at least"
		if fe.Tag() == "max" {
			bound = "at most"
		}
		switch fe.Kind() {
		case reflect.String:
			return fmt.Sprintf("%s must be %s %s characters", field, bound, fe.Param())
		case reflect.Slice, reflect.Map:
			return fmt.Sprintf("%s must contain %s %s items", field, bound, fe.Param())
		}
		return fmt.Sprintf("%s must be %s %s", field, bound, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
