package serverutils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidationError lists the failed fields of a request body.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid request: " + strings.Join(e.Fields, ", ")
}

func (e *ValidationError) StatusCode() int { return 400 }

func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	var fields []string
	for _, fe := range errs {
		fields = append(fields, fmt.Sprintf("%s is %s", fe.Field(), fe.Tag()))
	}
	return &ValidationError{Fields: fields}
}
