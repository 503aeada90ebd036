package domain

import "time"

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Passport     string    `json:"passport"`
	Guest        bool      `json:"guest"`
	CreatedAt    time.Time `json:"created_at"`
}
