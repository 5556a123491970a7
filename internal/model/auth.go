package model

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest is the body of POST /auth/register: user fields plus the
// plaintext password, which is hashed before storage.
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Age      *int   `json:"age"`
	Status   *int   `json:"status"`
	Password string `json:"password"`
}

// LoginResponse carries the issued tokens and basic user identity.
type LoginResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	UserID       int64  `json:"userId"`
	Username     string `json:"username"`
	ExpireTime   int64  `json:"expireTime"`
}
