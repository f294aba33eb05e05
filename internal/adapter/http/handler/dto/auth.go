package dto

import (
	"github.com/Temutjin2k/forum-api/internal/domain/models"
	"github.com/Temutjin2k/forum-api/pkg/validator"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	Token string `json:"token"`
	Type  string `json:"type"`
}

func NewTokenResponse(t *models.IssuedToken) TokenResponse {
	return TokenResponse{Token: t.Token, Type: t.Type}
}

func ValidateLogin(v *validator.Validator, req *LoginRequest) {
	v.Check(req.Email != "", "email", "must be provided")
	v.Check(len(req.Email) <= 500, "email", "must not be more than 500 bytes long")
	v.Check(req.Password != "", "password", "must be provided")
	v.Check(len(req.Password) <= 72, "password", "must not be more than 72 bytes long")
}
