package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"ledger-service-go/internal/ledger"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// requestError is a rejected request body. detail is a JSON object keyed by
// field name.
type requestError struct {
	detail string
}

func (e *requestError) Error() string { return "invalid request: " + e.detail }
func (e *requestError) Unwrap() error { return ledger.ErrValidationFailed }

type fieldError struct {
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	if err := v.RegisterValidation("dmin", decimalMin); err != nil {
		panic(err)
	}
	return v
}

// decimalValue hands decimal fields to the validator as their exact string
// form, so bounds are compared without float rounding.
func decimalValue(field reflect.Value) any {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.String()
	}
	return nil
}

// decimalMin implements dmin=N: the field must be a decimal >= N.
func decimalMin(fl validator.FieldLevel) bool {
	bound, err := decimal.NewFromString(fl.Param())
	if err != nil {
		return false
	}
	value, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return value.GreaterThanOrEqual(bound)
}

// decode reads a JSON body into dst and applies its validate tags.
func (s *LedgerService) decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return newRequestError(map[string]fieldError{
			"body": {Message: fmt.Sprintf("malformed JSON: %v", err)},
		})
	}

	err := s.validate.Struct(dst)
	if err == nil {
		return nil
	}

	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) {
		return fmt.Errorf("failed to validate request: %w", err)
	}

	fields := make(map[string]fieldError, len(invalid))
	for _, fe := range invalid {
		message := fmt.Sprintf("failed on the '%s' rule", fe.Tag())
		if fe.Param() != "" {
			message = fmt.Sprintf("failed on the '%s=%s' rule", fe.Tag(), fe.Param())
		}
		fields[fe.Field()] = fieldError{Message: message, Value: fe.Value()}
	}
	return newRequestError(fields)
}

func newRequestError(fields map[string]fieldError) error {
	detail, err := json.Marshal(fields)
	if err != nil {
		return &requestError{detail: fmt.Sprintf("%v", fields)}
	}
	return &requestError{detail: string(detail)}
}
