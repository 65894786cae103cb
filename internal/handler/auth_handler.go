package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "socialnet/internal/errors"
	"socialnet/internal/logger"
	"socialnet/internal/metrics"
	"socialnet/internal/service"
)

const (
	signupMessage     = "User created successfully 🎉! Please verify your account."
	activationMessage = "Account activated successfully 🎉"
)

// AuthHandler handles signup and account activation endpoints.
type AuthHandler struct {
	signupService     service.SignupService
	activationService service.ActivationService
	validator         *service.SignupValidator
}

// NewAuthHandler creates a new auth handler. validator resolves bodies that
// fail to decode.
func NewAuthHandler(
	signupService service.SignupService,
	activationService service.ActivationService,
	validator *service.SignupValidator,
) *AuthHandler {
	return &AuthHandler{
		signupService:     signupService,
		activationService: activationService,
		validator:         validator,
	}
}

// ActivateRequest carries an emailed activation token.
type ActivateRequest struct {
	Token string `json:"token" param:"token" validate:"required"`
}

// SignupResponse is returned after a successful registration.
type SignupResponse struct {
	Message  string `json:"message"`
	ID       string `json:"id"`
	Username string `json:"username"`
	ImageURL string `json:"imageUrl"`
	Token    string `json:"token"`
	Verified bool   `json:"verified"`
}

// MessageResponse is a bare confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// Signup godoc
// @Summary Register a new user
// @Description Creates an unverified account, emails an activation link and returns a 7-day session token.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.SignupRequest true "Signup data"
// @Success 201 {object} SignupResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req service.SignupRequest
	if err := c.Bind(&req); err != nil {
		metrics.RecordSignup(metrics.OutcomeInvalidInput)
		if verr := h.validator.DecodeFailure(req, err); verr != nil {
			return fail(c, verr)
		}
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body").SetInternal(err)
	}

	res, err := h.signupService.Register(c.Request().Context(), req)
	if err != nil {
		metrics.RecordSignup(signupOutcome(err))
		return fail(c, err)
	}
	metrics.RecordSignup(metrics.OutcomeSuccess)

	return c.JSON(http.StatusCreated, SignupResponse{
		Message:  signupMessage,
		ID:       res.User.ID.String(),
		Username: res.User.Username,
		ImageURL: res.User.Picture,
		Token:    res.Token,
		Verified: res.User.Verified,
	})
}

// Activate godoc
// @Summary Activate an account
// @Description Marks the account named by an activation token as verified. Works once per account.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ActivateRequest true "Activation token"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /activate [post]
func (h *AuthHandler) Activate(c echo.Context) error {
	var req ActivateRequest
	if err := c.Bind(&req); err != nil {
		metrics.RecordActivation(metrics.OutcomeInvalidToken)
		return fail(c, apperrors.ErrInvalidToken)
	}
	return h.activate(c, req)
}

// ActivateLink godoc
// @Summary Activate an account from the emailed link
// @Tags auth
// @Produce json
// @Param token path string true "Activation token"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /activate/{token} [get]
func (h *AuthHandler) ActivateLink(c echo.Context) error {
	return h.activate(c, ActivateRequest{Token: c.Param("token")})
}

func (h *AuthHandler) activate(c echo.Context, req ActivateRequest) error {
	if err := c.Validate(&req); err != nil {
		metrics.RecordActivation(metrics.OutcomeInvalidToken)
		return fail(c, apperrors.ErrInvalidToken)
	}

	if err := h.activationService.Activate(c.Request().Context(), req.Token); err != nil {
		metrics.RecordActivation(activationOutcome(err))
		return fail(c, err)
	}
	metrics.RecordActivation(metrics.OutcomeSuccess)

	return c.JSON(http.StatusOK, MessageResponse{Message: activationMessage})
}

// fail maps err to an HTTP error. Internal faults are logged here and reach the
// client only as the generic message.
func fail(c echo.Context, err error) error {
	httpErr := apperrors.MapErrorToHTTP(err)
	if httpErr.StatusCode >= http.StatusInternalServerError {
		ctx := c.Request().Context()
		logger.Log(ctx).Error(ctx, "request failed",
			zap.String("path", c.Path()), zap.Error(err))
	}
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.Message).SetInternal(err)
}

func signupOutcome(err error) string {
	var verr *apperrors.ValidationError
	switch {
	case errors.As(err, &verr):
		return metrics.OutcomeInvalidInput
	case errors.Is(err, apperrors.ErrDuplicateEmail):
		return metrics.OutcomeDuplicateEmail
	default:
		return metrics.OutcomeInternalFailure
	}
}

func activationOutcome(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrTokenExpired):
		return metrics.OutcomeTokenExpired
	case errors.Is(err, apperrors.ErrAccountAlreadyActivated):
		return metrics.OutcomeAlreadyActive
	case errors.Is(err, apperrors.ErrInvalidToken):
		return metrics.OutcomeInvalidToken
	default:
		return metrics.OutcomeInternalFailure
	}
}
