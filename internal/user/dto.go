package user

// RegisterForm carries the raw registration input so it can be echoed back.
type RegisterForm struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

type LoginForm struct {
	Username string
	Password string
}
