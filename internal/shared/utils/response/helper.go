package response

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errors interface{}) {
	c.JSON(code, StandardApiResponse{
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     errors,
	})
}

// Success writes a success envelope with the given payload
func Success(c *gin.Context, code int, message string, data interface{}) {
	RespondJSON(c, "success", code, message, data, nil)
}

// Error writes an error envelope
func Error(c *gin.Context, code int, message string, errors interface{}) {
	RespondJSON(c, "error", code, message, nil, errors)
}

// BindingErrors flattens binding failures into per-field messages so
// clients see which field failed which rule instead of the raw struct path
func BindingErrors(err error) interface{} {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			fields[field] = "is required"
		case "oneof":
			fields[field] = fmt.Sprintf("must be one of: %s", fe.Param())
		case "min":
			fields[field] = fmt.Sprintf("must be at least %s", fe.Param())
		case "max":
			fields[field] = fmt.Sprintf("must be at most %s", fe.Param())
		case "uuid":
			fields[field] = "must be a valid UUID"
		default:
			fields[field] = fmt.Sprintf("failed %s validation", fe.Tag())
		}
	}
	return fields
}
