package request

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/halvard/cms/internal/sync"
)

var validate = validator.New()

func init() {
	validate.RegisterValidation("domainname", func(fl validator.FieldLevel) bool {
		return sync.ValidDomainName(fl.Field().String())
	})
}

// Decode parses the JSON body into v and runs struct validation on it.
func Decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	return nil
}

// RequireParam returns the value of a URL parameter or an error naming it.
func RequireParam(name, value string) (string, error) {
	if value == "" {
		return "", fmt.Errorf("missing required parameter %s", name)
	}
	return value, nil
}
