package models

import "visaflow/internal/authz"

// Agent is an external referrer of clients.
type Agent struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// TeamMember is an internal user of the back-office.
type TeamMember struct {
	ID           int        `json:"id"`
	Name         string     `json:"name"`
	Role         authz.Role `json:"role"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"` // never serialized
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}
