package validator

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError 单个字段的校验错误
type FieldError struct {
	Namespace string `json:"namespace"`
	Field     string `json:"field"`
	Tag       string `json:"tag"`
	Value     any    `json:"value"`
	Message   string `json:"message"`
}

// ValidationErrors 翻译后的校验错误，Unwrap 返回原始的 validator.ValidationErrors
type ValidationErrors struct {
	Fields []FieldError
	cause  validator.ValidationErrors
}

// Error 以 "; " 连接所有字段消息
func (ve *ValidationErrors) Error() string {
	msgs := make([]string, 0, len(ve.Fields))
	for _, f := range ve.Fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, "; ")
}

func (ve *ValidationErrors) Unwrap() error {
	return ve.cause
}

// Field 返回指定字段的错误
func (ve *ValidationErrors) Field(name string) (FieldError, bool) {
	for _, f := range ve.Fields {
		if f.Field == name {
			return f, true
		}
	}
	return FieldError{}, false
}

// IsValidationError 检查是否为校验错误
func IsValidationError(err error) bool {
	var ve *ValidationErrors
	return errors.As(err, &ve)
}

// HasFieldError 检查是否存在指定字段的错误
func HasFieldError(err error, field string) bool {
	var ve *ValidationErrors
	if !errors.As(err, &ve) {
		return false
	}
	_, ok := ve.Field(field)
	return ok
}
