// Package validation configures the go-playground validator used by gin's
// form binding and turns its errors into per-field messages.
//
// Call Register once at startup, before any request is bound:
//
//	if err := validation.Register(); err != nil { ... }
//	if err := c.ShouldBind(&form); err != nil {
//	    c.JSON(http.StatusBadRequest, gin.H{"errors": validation.FieldErrors(err)})
//	}
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// NonFieldErrors is the key used for errors not tied to a single field.
const NonFieldErrors = "__all__"

var (
	registerOnce sync.Once
	registerErr  error
)

// Register installs custom rules on gin's validator engine. Safe to call more
// than once.
func Register() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("gin validator engine is not go-playground/validator")
			return
		}
		registerErr = Configure(v)
	})
	return registerErr
}

// Configure reports fields by their form name and adds the notblank rule.
func Configure(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v.RegisterValidation("notblank", validators.NotBlank)
}

// FieldErrors maps a binding error to field name -> message.
func FieldErrors(err error) map[string]string {
	out := make(map[string]string)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out[NonFieldErrors] = "Invalid form data."
		return out
	}
	for _, fe := range verrs {
		name := fe.Field()
		if _, seen := out[name]; seen {
			continue
		}
		out[name] = translateError(fe)
	}
	return out
}

var errorMessageTemplates = map[string]string{
	"required":         "This field is required.",
	"required_without": "This field is required.",
	"notblank":         "This field is required.",
	"email":            "Enter a valid email address.",
	"eqfield":          "The two password fields didn't match.",
}

func translateError(fe validator.FieldError) string {
	if msg, ok := errorMessageTemplates[fe.Tag()]; ok {
		return msg
	}

	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "max":
		if isString {
			return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	case "min":
		if isString {
			return fmt.Sprintf("Ensure this value has at least %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "gt":
		return fmt.Sprintf("Ensure this value is greater than %s.", fe.Param())
	}
	return "Enter a valid value."
}
