package handler

import (
	"context"
	"net/http"

	"github.com/Temutjin2k/forum-api/internal/adapter/http/handler/dto"
	"github.com/Temutjin2k/forum-api/internal/domain/models"
	"github.com/Temutjin2k/forum-api/internal/domain/types"
	"github.com/Temutjin2k/forum-api/pkg/logger"
	wrap "github.com/Temutjin2k/forum-api/pkg/logger/wrapper"
	"github.com/Temutjin2k/forum-api/pkg/metrics"
	"github.com/Temutjin2k/forum-api/pkg/validator"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.IssuedToken, error)
}

type Auth struct {
	auth AuthService
	l    logger.Logger
}

func NewAuth(service AuthService, l logger.Logger) *Auth {
	return &Auth{
		auth: service,
		l:    l,
	}
}

// Login godoc
// @Summary      Login
// @Description  Verifies email and password and returns a signed bearer token
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      dto.LoginRequest  true  "Credentials"
// @Success      200      {object}  dto.TokenResponse
// @Failure      400      {object}  map[string]string
// @Failure      422      {object}  map[string]string
// @Router       /auth [post]
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), types.ActionLogin)

	req := &dto.LoginRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	dto.ValidateLogin(v, req)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	token, err := h.auth.Login(ctx, req.Email, req.Password)
	metrics.RecordLogin(err)
	if err != nil {
		if GetCode(err) == http.StatusInternalServerError {
			h.l.Error(wrap.ErrorCtx(ctx, err), "failed to login user", err)
		} else {
			h.l.Debug(ctx, "login rejected", "reason", err.Error())
		}
		serviceErrorResponse(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, dto.NewTokenResponse(token), nil); err != nil {
		h.l.Error(ctx, "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}
