package dto

// Data Transfer Objects for authentication requests and responses

// RegisterForm: form payload for user registration
type RegisterForm struct {
	Username  string `form:"username" json:"username" binding:"required,notblank,max=150"`
	Email     string `form:"email" json:"email" binding:"omitempty,email"`
	Password1 string `form:"password1" json:"password1" binding:"required,min=8"`
	Password2 string `form:"password2" json:"password2" binding:"required,eqfield=Password1"`
}

// LoginForm: form payload for user login. password1 is accepted as an alias
// so the registration form's field name works too.
type LoginForm struct {
	Username  string `form:"username" json:"username" binding:"required,notblank"`
	Password  string `form:"password" json:"password" binding:"required_without=Password1"`
	Password1 string `form:"password1" json:"password1"`
}

// Secret returns the submitted password, whichever field carried it.
func (f LoginForm) Secret() string {
	if f.Password != "" {
		return f.Password
	}
	return f.Password1
}

// AuthResponse: response payload after successful authentication
type AuthResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	UserID       string `json:"user_id"`
	Username     string `json:"username"`
	ExpiresIn    int64  `json:"expires_in"` // seconds
}

// RefreshTokenRequest: payload for refreshing access token
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RefreshResponse: response payload after refreshing access token
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// RegisterResponse: response payload after successful registration
type RegisterResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Message  string `json:"message"`
}
