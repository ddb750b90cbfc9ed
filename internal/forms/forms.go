// Package forms описывает HTML-формы приложения и их проверку.
// Поля декодируются из данных POST-запроса и проверяются по тегам `validate`.
package forms

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/form/v4"
	"github.com/go-playground/validator/v10"

	"github.com/maynagashev/estate/internal/listing"
)

// DateLayout - формат поля даты в формах (значение input type="date").
const DateLayout = "2006-01-02"

// Errors содержит сообщения об ошибках по именам полей формы.
type Errors map[string]string

// Get возвращает сообщение об ошибке для поля или пустую строку.
func (e Errors) Get(field string) string {
	return e[field]
}

// Has сообщает, есть ли ошибка для поля.
func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

var (
	decoder  = newDecoder()
	validate = newValidator()
)

func newDecoder() *form.Decoder {
	d := form.NewDecoder()
	d.RegisterCustomTypeFunc(func(vals []string) (interface{}, error) {
		if len(vals) == 0 || vals[0] == "" {
			return time.Time{}, nil
		}
		return time.Parse(DateLayout, vals[0])
	}, time.Time{})
	return d
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Ошибки адресуются по имени поля в HTML-форме
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("links", func(fl validator.FieldLevel) bool {
		return len(listing.SplitLinks(fl.Field().String())) > 0
	}); err != nil {
		panic(fmt.Sprintf("forms: регистрация правила links: %v", err))
	}
	return v
}

// Parse декодирует данные формы из запроса в dst и проверяет их.
// Возвращает nil, если форма заполнена корректно.
func Parse(r *http.Request, dst any) Errors {
	if err := r.ParseForm(); err != nil {
		log.Printf("[Forms] Ошибка разбора формы: %v", err)
		return Errors{"": "Не удалось прочитать данные формы"}
	}

	errs := Errors{}
	if err := decoder.Decode(dst, r.PostForm); err != nil {
		var decodeErrs form.DecodeErrors
		if !errors.As(err, &decodeErrs) {
			log.Printf("[Forms] Ошибка декодирования формы: %v", err)
			return Errors{"": "Не удалось прочитать данные формы"}
		}
		for field := range decodeErrs {
			errs[field] = "Некорректное значение"
		}
	}

	if err := validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			log.Printf("[Forms] Ошибка проверки формы: %v", err)
			return Errors{"": "Не удалось проверить данные формы"}
		}
		for _, fe := range fieldErrs {
			// Ошибка декодирования точнее ошибки проверки нулевого значения
			if _, ok := errs[fe.Field()]; !ok {
				errs[fe.Field()] = message(fe)
			}
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// message переводит ошибку проверки в сообщение для пользователя.
func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Обязательное поле"
	case "email":
		return "Некорректный адрес электронной почты"
	case "max":
		return fmt.Sprintf("Не более %s символов", fe.Param())
	case "min":
		return fmt.Sprintf("Не менее %s символов", fe.Param())
	case "gte":
		return "Значение не может быть отрицательным"
	case "links":
		return "Укажите хотя бы одну ссылку на изображение"
	default:
		return "Некорректное значение"
	}
}
