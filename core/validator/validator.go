// Package validator wraps go-playground/validator with translated messages.
// It validates loaded configuration and, when enabled, decoded API responses.
package validator

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
)

// Validator 校验器，并发安全
type Validator struct {
	validate *validator.Validate
	trans    ut.Translator
	lang     string
	tagNames []string
}

// Option 校验器选项
type Option func(*Validator)

// WithLanguage 设置错误消息语言，支持 en 与 zh，默认 en
func WithLanguage(lang string) Option {
	return func(v *Validator) {
		v.lang = lang
	}
}

// WithFieldNameTags 错误消息中的字段名依次取自这些结构体标签，
// 例如 "mapstructure" 使配置错误显示 base_url 而不是 BaseURL
func WithFieldNameTags(tags ...string) Option {
	return func(v *Validator) {
		v.tagNames = tags
	}
}

// New 创建新的校验器实例
func New(opts ...Option) *Validator {
	v := &Validator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		lang:     "en",
	}
	for _, opt := range opts {
		opt(v)
	}

	if len(v.tagNames) > 0 {
		v.validate.RegisterTagNameFunc(v.fieldName)
	}

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale, zh.New())

	var err error
	switch v.lang {
	case "zh":
		v.trans, _ = uni.GetTranslator("zh")
		err = zh_translations.RegisterDefaultTranslations(v.validate, v.trans)
	default:
		v.lang = "en"
		v.trans, _ = uni.GetTranslator("en")
		err = en_translations.RegisterDefaultTranslations(v.validate, v.trans)
	}
	if err != nil {
		// 未注册翻译时退回到原始错误信息
		v.trans = nil
	}
	return v
}

func (v *Validator) fieldName(f reflect.StructField) string {
	for _, tag := range v.tagNames {
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// Language 返回错误消息语言
func (v *Validator) Language() string {
	return v.lang
}

// Struct 校验结构体
func (v *Validator) Struct(s any) error {
	return v.StructCtx(context.Background(), s)
}

// StructCtx 带上下文校验结构体
func (v *Validator) StructCtx(ctx context.Context, s any) error {
	if s == nil {
		return errors.New("validation target cannot be nil")
	}
	return v.translate(v.validate.StructCtx(ctx, s))
}

// Engine 获取底层的 validator 实例，用于注册自定义规则
func (v *Validator) Engine() *validator.Validate {
	return v.validate
}

func (v *Validator) translate(err error) error {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}

	out := &ValidationErrors{cause: ves}
	for _, fe := range ves {
		msg := fe.Error()
		if v.trans != nil {
			msg = fe.Translate(v.trans)
		}
		out.Fields = append(out.Fields, FieldError{
			Namespace: fe.Namespace(),
			Field:     fe.Field(),
			Tag:       fe.Tag(),
			Value:     fe.Value(),
			Message:   msg,
		})
	}
	return out
}
