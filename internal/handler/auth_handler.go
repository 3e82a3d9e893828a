package handler

import (
	stderrors "errors"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"tastebite/internal/auth"
	"tastebite/internal/errors"
	"tastebite/internal/service"
)

// AuthHandler handles the credential lifecycle endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// SendRegisterOTPRequest starts a registration.
type SendRegisterOTPRequest struct {
	Email   string `json:"email" validate:"required,email"`
	Address string `json:"address" validate:"required"`
}

// RegisterRequest completes a registration with the emailed code.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	OTP      string `json:"otp" validate:"required"`
	Address  string `json:"address" validate:"required"`
}

// LoginRequest logs in with a password and an optional second-factor code.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	OTP      string `json:"otp,omitempty"`
}

// SendOTPRequest requests a code for an email-keyed purpose.
type SendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest replaces the password with a verified reset code.
type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	OTP         string `json:"otp" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// DeleteAccountRequest confirms account deletion with the emailed code.
type DeleteAccountRequest struct {
	OTP string `json:"otp" validate:"required"`
}

// UpdateAddressRequest replaces the delivery address.
type UpdateAddressRequest struct {
	Address string `json:"address" validate:"required"`
}

// AuthResponse carries a session token and the user profile.
type AuthResponse struct {
	Token string      `json:"token"`
	User  interface{} `json:"user,omitempty"`
}

// SendRegisterOTP godoc
// @Summary Start registration by sending a verification code
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SendRegisterOTPRequest true "Email and address"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Router /auth/send-otp-register [post]
func (h *AuthHandler) SendRegisterOTP(c echo.Context) error {
	var req SendRegisterOTPRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.authService.BeginRegistration(c.Request().Context(), req.Email, req.Address); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "OTP sent to email"})
}

// Register godoc
// @Summary Complete registration with the emailed code
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	token, user, err := h.authService.CompleteRegistration(
		c.Request().Context(), req.Email, req.OTP, req.Name, req.Password, req.Address)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, AuthResponse{Token: token, User: user})
}

// Login godoc
// @Summary Login with password and optional OTP second factor
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password, req.OTP)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, AuthResponse{Token: token, User: user})
}

// SendLoginOTP godoc
// @Summary Send a login second-factor code
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SendOTPRequest true "Email"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Router /auth/send-otp-login [post]
func (h *AuthHandler) SendLoginOTP(c echo.Context) error {
	var req SendOTPRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.authService.SendLoginCode(c.Request().Context(), req.Email); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Login OTP sent to email"})
}

// SendResetOTP godoc
// @Summary Send a password reset code
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SendOTPRequest true "Email"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Router /auth/send-reset-otp [post]
func (h *AuthHandler) SendResetOTP(c echo.Context) error {
	var req SendOTPRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.authService.SendResetCode(c.Request().Context(), req.Email); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Reset OTP sent to email"})
}

// ResetPassword godoc
// @Summary Reset the password with a verified code
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ResetPasswordRequest true "Reset data"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Router /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.authService.ResetPassword(c.Request().Context(), req.Email, req.OTP, req.NewPassword); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Password reset successful"})
}

// Me godoc
// @Summary Get the authenticated user's profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	user, err := h.authService.Profile(c.Request().Context(), userID)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"user": user})
}

// UpdateAddress godoc
// @Summary Update the delivery address
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateAddressRequest true "New address"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/update-address [put]
func (h *AuthHandler) UpdateAddress(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req UpdateAddressRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.authService.UpdateAddress(c.Request().Context(), userID, req.Address)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"user":    user,
		"message": "Address updated successfully",
	})
}

// SendDeleteOTP godoc
// @Summary Send an account deletion code
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 401 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Router /auth/send-delete-otp [post]
func (h *AuthHandler) SendDeleteOTP(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	if err := h.authService.SendDeleteCode(c.Request().Context(), userID); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Delete OTP sent to email"})
}

// DeleteAccount godoc
// @Summary Permanently delete the account with a verified code
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body DeleteAccountRequest true "Deletion code"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/delete-account [delete]
func (h *AuthHandler) DeleteAccount(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req DeleteAccountRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.authService.DeleteAccount(c.Request().Context(), userID, req.OTP); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Account deleted successfully"})
}

// bindAndValidate decodes and validates a request body.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// domainError maps a service error onto an echo HTTP error.
func domainError(err error) error {
	switch {
	case stderrors.Is(err, service.ErrInvalidEmail),
		stderrors.Is(err, service.ErrPasswordTooShort),
		stderrors.Is(err, service.ErrAddressRequired):
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_FAILED",
		})
	default:
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
}

// currentUserID extracts the authenticated user from the verified token.
func currentUserID(c echo.Context) (uuid.UUID, error) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	claims, ok := token.Claims.(*auth.Claims)
	if !ok || claims.UserID == uuid.Nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	return claims.UserID, nil
}
