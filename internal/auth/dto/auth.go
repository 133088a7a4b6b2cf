package dto

import "execassist-backend/internal/auth/domain"

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
	TeamID   string `json:"team_id"`
}

type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	User        *domain.User `json:"user"`
}
