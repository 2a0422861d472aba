package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/sj140497/SJ-InfloTechTest/internal/domain"
)

// today 返回当前日期 (UTC)，测试中可以替换
var today = func() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterValidators 在 gin 的校验引擎上注册自定义规则 (notfuture, notblank)。
// 可以重复调用。
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("dto: gin validator engine is not go-playground/validator")
			return
		}
		if err := v.RegisterValidation("notfuture", NotFuture); err != nil {
			registerErr = fmt.Errorf("dto: register notfuture: %w", err)
			return
		}
		if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
			registerErr = fmt.Errorf("dto: register notblank: %w", err)
		}
	})
	return registerErr
}

// NotFuture 校验 yyyy-MM-dd 字符串或 time.Time 不晚于今天。
// 无法解析的字符串交给 datetime 规则报告。
func NotFuture(fl validator.FieldLevel) bool {
	field := fl.Field()
	var d time.Time
	switch field.Kind() {
	case reflect.String:
		parsed, err := time.Parse(domain.DateLayout, strings.TrimSpace(field.String()))
		if err != nil {
			return true
		}
		d = parsed
	case reflect.Struct:
		t, ok := field.Interface().(time.Time)
		if !ok {
			return false
		}
		d = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	default:
		return false
	}
	return !d.After(today())
}

var fieldLabels = map[string]string{
	"Forename":    "First name",
	"Surname":     "Last name",
	"Email":       "Email",
	"DateOfBirth": "Date of birth",
}

// ValidationMessages 把绑定错误转换成面向用户的消息列表。
// 非校验错误 (例如 JSON 格式错误) 返回单条通用消息。
func ValidationMessages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{"Invalid request body"}
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return msgs
}

// FieldErrors 按字段 (表单字段名) 归类校验消息，供页面在输入框旁显示
func FieldErrors(err error) map[string]string {
	out := map[string]string{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return out
	}
	for _, fe := range verrs {
		key := fe.StructField()
		if _, exists := out[key]; !exists {
			out[key] = fieldMessage(fe)
		}
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	label, ok := fieldLabels[fe.StructField()]
	if !ok {
		label = fe.Field()
	}
	switch fe.Tag() {
	case "required", "notblank":
		return label + " is required"
	case "max":
		if fe.StructField() == "Email" {
			return "Email cannot be longer than " + fe.Param() + " characters"
		}
		return label + " must be between 1 and " + fe.Param() + " characters"
	case "email":
		return "Email must be valid"
	case "datetime":
		return label + " must be a date in the format yyyy-MM-dd"
	case "notfuture":
		return label + " cannot be in the future"
	default:
		return label + " is invalid"
	}
}
