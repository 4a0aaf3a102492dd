package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/spectra-labs/spectra-api/internal/api/metrics"
	"github.com/spectra-labs/spectra-api/internal/core/domain"
	"github.com/spectra-labs/spectra-api/internal/core/ports"
)

// ActivityDispatcher is the interface the handler uses to enqueue activity
// events.
type ActivityDispatcher interface {
	Enqueue(event ports.ActivityInput)
}

// AuthHandler exposes the auth state machine over HTTP and mints the bearer
// tokens gating the feature endpoints.
type AuthHandler struct {
	auth       ports.AuthService
	dispatcher ActivityDispatcher
	jwtSecret  string
	tokenTTL   time.Duration
}

func NewAuthHandler(auth ports.AuthService, dispatcher ActivityDispatcher, jwtSecret string, tokenTTL time.Duration) *AuthHandler {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthHandler{auth: auth, dispatcher: dispatcher, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

// SignUp creates a new account and signs it in.
//
// @Summary      Create an account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signUpRequest  true  "Account credentials"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/signup [post]
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req signUpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	user, err := h.auth.SignUp(c.Request().Context(), req.Email, req.Password)
	h.record(domain.ActivitySignUp, req.Email, err)
	if err != nil {
		return err
	}

	token, err := h.mintToken(user.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, authResponse{Token: token, User: user})
}

// SignIn verifies credentials and signs the account in.
//
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signInRequest  true  "Account credentials"
// @Success      200   {object}  authResponse
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /auth/signin [post]
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req signInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	user, err := h.auth.SignIn(c.Request().Context(), req.Email, req.Password)
	h.record(domain.ActivitySignIn, req.Email, err)
	if err != nil {
		return err
	}

	token, err := h.mintToken(user.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authResponse{Token: token, User: user})
}

// SignOut clears the session. Calling it while signed out is a no-op
// success.
//
// @Summary      Sign out
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /auth/signout [post]
func (h *AuthHandler) SignOut(c echo.Context) error {
	h.auth.SignOut(c.Request().Context())
	h.record(domain.ActivitySignOut, "", nil)
	return c.JSON(http.StatusOK, messageResponse{Message: "signed out"})
}

// RequestReset issues a one-time reset code for an existing account and
// returns it in plaintext for the client to display.
//
// @Summary      Request a password-reset code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      resetRequestRequest  true  "Account email"
// @Success      200   {object}  resetCodeResponse
// @Failure      404   {object}  map[string]string
// @Router       /auth/reset/request [post]
func (h *AuthHandler) RequestReset(c echo.Context) error {
	var req resetRequestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	code, err := h.auth.RequestPasswordReset(c.Request().Context(), req.Email)
	h.record(domain.ActivityResetRequest, req.Email, err)
	if err != nil {
		return err
	}

	metrics.ResetCodesIssuedTotal.Inc()
	return c.JSON(http.StatusOK, resetCodeResponse{Code: code})
}

// VerifyReset consumes a reset code, sets the new password, and signs the
// account in.
//
// @Summary      Verify a password-reset code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      resetVerifyRequest  true  "Email, code, and new password"
// @Success      200   {object}  authResponse
// @Failure      404   {object}  map[string]string
// @Failure      410   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /auth/reset/verify [post]
func (h *AuthHandler) VerifyReset(c echo.Context) error {
	var req resetVerifyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	user, err := h.auth.VerifyPasswordReset(c.Request().Context(), req.Email, req.Code, req.NewPassword)
	h.record(domain.ActivityResetComplete, req.Email, err)
	if err != nil {
		return err
	}

	token, err := h.mintToken(user.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authResponse{Token: token, User: user})
}

// Session returns the observable auth state.
//
// @Summary      Current session state
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  sessionResponse
// @Router       /v1/auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	if _, err := ctxEmail(c); err != nil {
		return err
	}

	state := h.auth.State()
	return c.JSON(http.StatusOK, sessionResponse{
		User:            state.User,
		IsAuthenticated: state.IsAuthenticated,
		Loading:         state.Loading,
		LastError:       state.LastError,
	})
}

// Refresh re-resolves the durable session pointer.
//
// @Summary      Refresh the session
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  refreshResponse
// @Router       /v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	if _, err := ctxEmail(c); err != nil {
		return err
	}

	active := h.auth.RefreshSession(c.Request().Context())
	result := "none"
	if active {
		result = "active"
	}
	metrics.SessionResolutionsTotal.WithLabelValues(result).Inc()

	return c.JSON(http.StatusOK, refreshResponse{Active: active})
}

// record enqueues an activity event and bumps the operation counters.
func (h *AuthHandler) record(action domain.ActivityAction, email string, err error) {
	result := "ok"
	in := ports.ActivityInput{
		Email:     domain.NormalizeEmail(email),
		Action:    action,
		Succeeded: err == nil,
		Timestamp: time.Now().UTC(),
	}
	if err != nil {
		result = "error"
		in.Reason = err.Error()
		metrics.AuthFailuresTotal.WithLabelValues(failureKind(err)).Inc()
	}
	metrics.AuthOperationsTotal.WithLabelValues(string(action), result).Inc()
	h.dispatcher.Enqueue(in)
}

func failureKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrDuplicateAccount):
		return "duplicate_account"
	case errors.Is(err, domain.ErrAccountNotFound):
		return "account_not_found"
	case errors.Is(err, domain.ErrInvalidCredential):
		return "invalid_credential"
	case errors.Is(err, domain.ErrResetNotFound):
		return "reset_not_found"
	case errors.Is(err, domain.ErrResetExpired):
		return "reset_expired"
	case errors.Is(err, domain.ErrInvalidCode):
		return "invalid_code"
	default:
		return "internal"
	}
}

func (h *AuthHandler) mintToken(email string) (string, error) {
	claims := jwt.MapClaims{
		"email": email,
		"exp":   time.Now().Add(h.tokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(h.jwtSecret))
}
