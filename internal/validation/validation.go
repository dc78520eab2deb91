// Package validation binds JSON request bodies and runs declarative
// struct validation, reporting failures as a 400 with a field-error map.
package validation

import (
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
)

// New returns the validator used for all request DTOs.
func New() *validatorv10.Validate {
	return validatorv10.New()
}

// BindAndValidate binds the JSON body into out and validates it. On failure
// it writes the 400 response itself and returns a non-nil error so the
// handler can short-circuit.
func BindAndValidate(c *gin.Context, out any, v *validatorv10.Validate) error {
	if err := c.ShouldBindJSON(out); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid_request_body",
			"msg":   err.Error(),
		})
		return err
	}

	if err := v.Struct(out); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "validation_failed",
			"fields": errorsToMap(err),
		})
		return err
	}
	return nil
}

// errorsToMap flattens validator errors into a field -> message map.
func errorsToMap(err error) map[string]string {
	out := make(map[string]string)
	ve, ok := err.(validatorv10.ValidationErrors)
	if !ok {
		out["error"] = err.Error()
		return out
	}
	for _, fe := range ve {
		out[fe.StructNamespace()] = fe.Error()
	}
	return out
}
