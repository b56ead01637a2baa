package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/LewisCM14/allotment-sub001/internal/apperrors"
	"github.com/LewisCM14/allotment-sub001/internal/application"
	"github.com/LewisCM14/allotment-sub001/internal/domain/entity"
	"github.com/LewisCM14/allotment-sub001/pkg/response"
	"github.com/LewisCM14/allotment-sub001/pkg/validation"
)

type UserHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,pwd"`
	FirstName   string `json:"first_name" binding:"required,max=100"`
	CountryCode string `json:"country_code" binding:"required,country"`
}

type updateProfileRequest struct {
	FirstName   string `json:"first_name" binding:"omitempty,max=100"`
	CountryCode string `json:"country_code" binding:"omitempty,country"`
}

type resetInitRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type resetConfirmRequest struct {
	NewPassword string `json:"new_password" binding:"required,pwd"`
}

func userBody(u *entity.User) gin.H {
	return gin.H{
		"id":                u.ID,
		"email":             u.Email,
		"first_name":        u.FirstName,
		"country_code":      u.CountryCode,
		"is_email_verified": u.IsEmailVerified,
		"created_at":        u.CreatedAt,
		"updated_at":        u.UpdatedAt,
	}
}

// Register POST /api/registration
// Creates the account with default preferences, issues a login token pair
// and enqueues a verification email. Responds 201 with user + tokens.
func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, pair, err := h.Svc.Register(c.Request.Context(), c.GetString("request_id"), application.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		CountryCode: req.CountryCode,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{
		"user":          userBody(u),
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"token_type":    "bearer",
	}, "registration successful", nil)
}

// RequestVerification POST /api/email-verifications (auth required)
// Idempotent: an already-verified account gets a success response and no
// email.
func (h *UserHandler) RequestVerification(c *gin.Context) {
	already, err := h.Svc.RequestVerification(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"already_verified": already}, "verification email requested", nil)
}

// VerifyEmail POST /api/email-verifications/:token
// The optional from_reset query flag continues an interrupted password
// reset by sending the reset email once verification lands.
func (h *UserHandler) VerifyEmail(c *gin.Context) {
	fromReset := c.Query("from_reset") == "true"
	u, err := h.Svc.VerifyEmail(c.Request.Context(), c.GetString("request_id"), c.Param("token"), fromReset)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"verified": u.IsEmailVerified}, "email verified", nil)
}

// VerificationStatus GET /api/email-verifications/status (auth required)
func (h *UserHandler) VerificationStatus(c *gin.Context) {
	verified, err := h.Svc.VerificationStatus(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"is_email_verified": verified}, "verification status", nil)
}

// ResetInit POST /api/password-resets {email}
// Always success-shaped: an unknown email gets the same response as a
// known one so the endpoint cannot be used to enumerate accounts.
func (h *UserHandler) ResetInit(c *gin.Context) {
	var req resetInitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "if the email is registered, a reset link has been sent", nil)
}

// ResetConfirm POST /api/password-resets/:token {new_password}
func (h *UserHandler) ResetConfirm(c *gin.Context) {
	var req resetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	err := h.Svc.ResetPassword(c.Request.Context(), c.GetString("request_id"), c.Param("token"), req.NewPassword)
	if err != nil {
		if status := apperrors.Status(err); status == http.StatusUnauthorized {
			response.Error(c, status, "invalid or expired token", nil)
			return
		}
		response.FromError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "password updated", nil)
}

// GetProfile GET /api/users/profile (auth required)
func (h *UserHandler) GetProfile(c *gin.Context) {
	u, err := h.Svc.Profile(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, userBody(u), "profile", nil)
}

// UpdateProfile PUT /api/users/profile (auth required)
// Empty fields are left unchanged.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.UpdateProfile(c.Request.Context(), c.GetString("request_id"), c.GetString("userID"), application.UpdateProfileInput{
		FirstName:   req.FirstName,
		CountryCode: req.CountryCode,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, userBody(u), "profile updated", nil)
}
