package models

import "time"

// User is a back-office operator account. PasswordHash never leaves the service layer.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"is_admin"`
	CreadoEn     time.Time `json:"creado_en"`
}

type UserInput struct {
	Username Field[string] `json:"username"`
	Password Field[string] `json:"password"`
	IsAdmin  Field[bool]   `json:"is_admin"`
}

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult is the body returned on a successful login.
type LoginResult struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}
