package auth

import (
	"context"

	"github.com/Temutjin2k/forum-api/internal/domain/models"
)

type UserRepo interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type TokenProvider interface {
	IssueToken(user *models.User) (*models.IssuedToken, error)
}
