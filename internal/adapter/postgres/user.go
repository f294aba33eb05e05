package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Temutjin2k/forum-api/internal/domain/models"
	"github.com/Temutjin2k/forum-api/internal/domain/types"
	"github.com/jackc/pgx/v5"
)

type UserRepo struct {
	db Querier
}

func NewUserRepo(db Querier) *UserRepo {
	return &UserRepo{
		db: db,
	}
}

const selectUser = `
	SELECT u.id, u.name, u.email, u.password_hash, u.created_at,
	       COALESCE(array_agg(p.profile) FILTER (WHERE p.profile IS NOT NULL), '{}')
	FROM users u
	LEFT JOIN user_profiles p ON p.user_id = u.id
`

// FindByID loads the principal a token subject refers to.
func (r *UserRepo) FindByID(ctx context.Context, id int64) (u *models.User, err error) {
	const op = "UserRepo.FindByID"
	defer observe("find_user_by_id", time.Now(), &err)

	u, err = r.scanOne(ctx, selectUser+` WHERE u.id = $1 GROUP BY u.id;`, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// FindByEmail loads the account used by the login flow.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (u *models.User, err error) {
	const op = "UserRepo.FindByEmail"
	defer observe("find_user_by_email", time.Now(), &err)

	if email == "" {
		return nil, types.ErrUserNotFound
	}

	u, err = r.scanOne(ctx, selectUser+` WHERE u.email = $1 GROUP BY u.id;`, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

func (r *UserRepo) scanOne(ctx context.Context, q string, arg any) (*models.User, error) {
	var (
		u        models.User
		password string
	)
	err := TxorDB(ctx, r.db).QueryRow(ctx, q, arg).Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&password,
		&u.CreatedAt,
		&u.Profiles,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrUserNotFound
		}
		return nil, err
	}

	u.SetPassword(password)
	return &u, nil
}
