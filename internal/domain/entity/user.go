package entity

type RegistrationData struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginData struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Credentials returns the login pair for an account created with d.
func (d RegistrationData) Credentials() LoginData {
	return LoginData{Email: d.Email, Password: d.Password}
}
