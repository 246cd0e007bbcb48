package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/lucasrodor/projeto-financeiro/internal/calendar"
)

// maxBodyBytes bounds a JSON request body
const maxBodyBytes = 64 << 10

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// erros com o nome do campo JSON (data_base, quantidade_acoes...)
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeBody decodes and validates a JSON body. Failures are returned as
// *calendar.ValidationError so they classify as validation errors.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return calendar.Invalid("body", "invalid JSON: %v", err)
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return calendar.Invalid(fe.Field(), "failed %q (%s)", fe.Tag(), fe.Param())
		}
		return calendar.Invalid("body", "%v", err)
	}
	return nil
}
