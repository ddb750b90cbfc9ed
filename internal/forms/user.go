package forms

// RegisterForm - форма регистрации нового пользователя.
type RegisterForm struct {
	Email         string `form:"email" validate:"required,email,max=255"`
	Password      string `form:"password" validate:"required,min=6,max=72"` // bcrypt учитывает только 72 байта
	PasswordAgain string `form:"password_again" validate:"required"`
	Name          string `form:"name" validate:"required,max=100"`
	Surname       string `form:"surname" validate:"required,max=100"`
}

// LoginForm - форма входа.
type LoginForm struct {
	Email      string `form:"email" validate:"required,email"`
	Password   string `form:"password" validate:"required"`
	RememberMe bool   `form:"remember_me"`
}
