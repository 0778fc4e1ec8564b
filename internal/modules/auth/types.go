package auth

import "time"

type RegisterDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string        `json:"token"`
	User  *userResponse `json:"user"`
}

type userResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Level    int    `json:"level"`
}

type sessionResponse struct {
	ID        string    `json:"id"`
	IP        string    `json:"ip"`
	UA        string    `json:"ua"`
	Current   bool      `json:"current"`
	Created   time.Time `json:"created"`
	ExpiresAt time.Time `json:"expires_at"`
}
