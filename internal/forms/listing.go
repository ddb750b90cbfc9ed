package forms

import (
	"strconv"
	"time"
)

// ListingForm - форма добавления и редактирования объекта.
// ImageLink содержит одну или несколько ссылок, разделенных пробелами.
type ListingForm struct {
	Name      string `form:"name" validate:"required,max=200"`
	About     string `form:"about" validate:"required"`
	Tags      string `form:"tags" validate:"max=1000"`
	Price     *int64 `form:"price" validate:"required,gte=0"`
	Address   string `form:"address" validate:"required,max=300"`
	ImageLink string `form:"image_link" validate:"links"`
}

// PriceValue возвращает цену для подстановки в поле формы.
func (f *ListingForm) PriceValue() string {
	if f.Price == nil {
		return ""
	}
	return strconv.FormatInt(*f.Price, 10)
}

// SignForm - форма записи на осмотр.
type SignForm struct {
	Name       string    `form:"name" validate:"required,max=100"`
	Surname    string    `form:"surname" validate:"required,max=100"`
	Patronymic string    `form:"patronymic" validate:"required,max=100"`
	Phone      string    `form:"phone" validate:"required,max=30"`
	Date       time.Time `form:"date" validate:"required"`
}

// DateValue возвращает дату в формате поля input type="date".
func (f *SignForm) DateValue() string {
	if f.Date.IsZero() {
		return ""
	}
	return f.Date.Format(DateLayout)
}
