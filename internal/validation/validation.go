// internal/validation/validation.go
package validation

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"formadmin.fr/internal/periods"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("period", validatePeriod)

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"form", "yaml"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
}

// ListParams - параметры строки запроса страницы списка.
type ListParams struct {
	Query    string `form:"q" validate:"max=100"`
	Category string `form:"ville" validate:"max=100"`
	Page     int    `form:"page" validate:"gte=0,lte=100000"`
}

// ChartParams - параметры /api/dashboard/chart.
type ChartParams struct {
	Panel  string `form:"panel" validate:"required,oneof=analytics negotiation"`
	Tab    string `form:"tab" validate:"required,max=50"`
	Period string `form:"period" validate:"required,period"`
}

// ParseListParams читает q, ville и page. Некорректные значения заменяются
// значениями по умолчанию, ошибки возвращаются для логирования.
func ParseListParams(values url.Values) (ListParams, url.Values) {
	p := ListParams{
		Query:    strings.TrimSpace(values.Get("q")),
		Category: strings.TrimSpace(values.Get("ville")),
	}
	errs := url.Values{}
	if raw := values.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			errs.Add("page", "Номер страницы должен быть числом.")
		} else {
			p.Page = n
		}
	}
	if verr := ValidateStruct(p); verr != nil {
		for field, msgs := range verr {
			for _, m := range msgs {
				errs.Add(field, m)
			}
			switch field {
			case "q":
				p.Query = ""
			case "ville":
				p.Category = ""
			case "page":
				p.Page = 0
			}
		}
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if len(errs) == 0 {
		return p, nil
	}
	return p, errs
}

func ValidateStruct(data interface{}) url.Values {
	err := validate.Struct(data)
	if err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

// StructError - то же, что ValidateStruct, но в виде одной ошибки (для конфигурации).
func StructError(data interface{}) error {
	errs := ValidateStruct(data)
	if errs == nil {
		return nil
	}
	parts := make([]string, 0, len(errs))
	for field, msgs := range errs {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(msgs, " ")))
	}
	return fmt.Errorf("некорректная конфигурация: %s", strings.Join(parts, "; "))
}

func formatValidationErrors(err error) url.Values {
	errorsMap := url.Values{}
	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, fieldErr := range validationErrs {
			errorsMap.Add(fieldErr.Field(), getErrorMessage(fieldErr))
		}
	} else {
		errorsMap.Add("general", "Ошибка валидации: "+err.Error())
	}
	return errorsMap
}

func getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "Это поле обязательно для заполнения."
	case "url":
		return "Введите корректный URL."
	case "max":
		return fmt.Sprintf("Максимальное значение или длина: %s.", err.Param())
	case "min", "gte":
		return fmt.Sprintf("Минимальное значение: %s.", err.Param())
	case "gt":
		return fmt.Sprintf("Значение должно быть больше %s.", err.Param())
	case "lte":
		return fmt.Sprintf("Максимальное значение: %s.", err.Param())
	case "oneof":
		return fmt.Sprintf("Выберите одно из допустимых значений: %s.", err.Param())
	case "period":
		return "Неизвестный период."
	default:
		return fmt.Sprintf("Некорректное значение для поля %s (тег: %s).", err.Field(), err.Tag())
	}
}

// Период можно передать подписью ("mois dernier") или ключом ("moisdernier").
func validatePeriod(fl validator.FieldLevel) bool {
	_, ok := periods.Resolve(fl.Field().String())
	return ok
}
