package middleware

import (
	"reflect"
	"strings"
	"time"

	"mcdee-marketplace/internal/domain/booking"
	"mcdee-marketplace/internal/domain/user"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators installs the custom binding rules on gin's validator and
// makes error fields report their json names.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	rules := map[string]validator.Func{
		"date":            validateDate,
		"booking_status":  validateBookingStatus,
		"vendor_category": validateVendorCategory,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

func validateDate(fl validator.FieldLevel) bool {
	_, err := time.Parse(booking.DateLayout, fl.Field().String())
	return err == nil
}

func validateBookingStatus(fl validator.FieldLevel) bool {
	return booking.Status(fl.Field().String()).IsValid()
}

func validateVendorCategory(fl validator.FieldLevel) bool {
	_, err := user.NewVendorCategory(fl.Field().String())
	return err == nil
}
