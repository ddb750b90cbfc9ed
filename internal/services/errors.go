package services

import "errors"

// Кастомные ошибки сервисов.
var (
	ErrNotFound           = errors.New("не найдено")
	ErrInvalidCredentials = errors.New("неправильный логин или пароль")
	ErrUserExists         = errors.New("такой пользователь уже есть")
	ErrPasswordMismatch   = errors.New("пароли не совпадают")
)
