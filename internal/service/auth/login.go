package auth

import (
	"context"
	"errors"

	"github.com/Temutjin2k/forum-api/internal/domain/models"
	"github.com/Temutjin2k/forum-api/internal/domain/types"
	"github.com/Temutjin2k/forum-api/pkg/logger"
	wrap "github.com/Temutjin2k/forum-api/pkg/logger/wrapper"
	"golang.org/x/crypto/bcrypt"
)

// dummyHash keeps the response time of unknown emails close to a real bcrypt comparison.
var dummyHash = []byte("$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z3Ooc/1Pd2ACEd4uXxe7A2CS")

type LoginService struct {
	userRepo UserRepo
	tokens   TokenProvider
	log      logger.Logger
}

func NewLoginService(userRepo UserRepo, tokens TokenProvider, log logger.Logger) *LoginService {
	return &LoginService{
		userRepo: userRepo,
		tokens:   tokens,
		log:      log,
	}
}

// Login verifies the password and issues a token for the account.
func (s *LoginService) Login(ctx context.Context, email, password string) (*models.IssuedToken, error) {
	ctx = wrap.WithAction(ctx, types.ActionLogin)

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, types.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, wrap.Error(ctx, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.GetPassword()), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.IssueToken(user)
	if err != nil {
		s.log.Error(ctx, "failed to issue token", err)
		return nil, wrap.Error(ctx, ErrTokenGenerateFail)
	}

	s.log.Debug(wrap.WithUserID(ctx, user.Subject()), "user logged in")

	return token, nil
}
