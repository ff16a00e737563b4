package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	FailedField string
	Tag         string
	Value       string
}

var validate = validator.New()

// Barcodes are digits, letters and dashes only (max length checked separately).
var barcodePattern = regexp.MustCompile(`^[0-9A-Za-z-]+$`)

func init() {
	// Register custom validation for UUID
	validate.RegisterValidation("uuid_required", func(fl validator.FieldLevel) bool {
		if id, ok := fl.Field().Interface().(uuid.UUID); ok {
			return id != uuid.Nil
		}
		return false
	})

	validate.RegisterValidation("barcode", func(fl validator.FieldLevel) bool {
		return barcodePattern.MatchString(fl.Field().String())
	})

	// Decimal bounds: validator cannot compare decimal.Decimal directly, so
	// dedicated tags parse the min/max from the tag parameter.
	validate.RegisterValidation("dgte", decimalCompare(func(d, bound decimal.Decimal) bool {
		return d.GreaterThanOrEqual(bound)
	}))
	validate.RegisterValidation("dlte", decimalCompare(func(d, bound decimal.Decimal) bool {
		return d.LessThanOrEqual(bound)
	}))
}

func decimalCompare(ok func(d, bound decimal.Decimal) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		bound, err := decimal.NewFromString(fl.Param())
		if err != nil {
			return false
		}
		switch v := fl.Field().Interface().(type) {
		case decimal.Decimal:
			return ok(v, bound)
		default:
			return false
		}
	}
}

func ValidateStruct(data interface{}) []*ErrorResponse {
	var errors []*ErrorResponse
	err := validate.Struct(data)
	if err != nil {
		for _, err := range err.(validator.ValidationErrors) {
			var element ErrorResponse
			element.FailedField = err.StructNamespace()
			element.Tag = err.Tag()
			element.Value = err.Param()
			errors = append(errors, &element)
		}
	}
	return errors
}
