package validation

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/urbe-dev/urbe-backend/pkg/response"
)

// Init configures the global validator used by Gin's binding.
// - Uses JSON tag names in errors.
// - Registers alias tags for common validations.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		// Password rule inherited from the first release: at least 8
		// alphanumeric characters, no specials.
		v.RegisterAlias("pwd", "min=8,alphanum")
		v.RegisterAlias("dateonly", "datetime=2006-01-02")
	}
}

// ToErrors converts binding failures into the Errors array shape, picking the
// per-route message for each failed field. Unknown fields and malformed JSON
// collapse into a single generic item.
func ToErrors(err error, messages map[string]string) []response.Item {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]response.Item, 0, len(verrs))
		for _, fe := range verrs {
			field := fe.Field()
			msg, ok := messages[field]
			if !ok {
				msg = "Invalid value"
			}
			out = append(out, response.Item{Msg: msg, Param: field})
		}
		return out
	}

	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) {
		return []response.Item{{Msg: "invalid json"}}
	}

	return []response.Item{{Msg: "invalid payload"}}
}
