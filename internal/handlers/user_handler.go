package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Al-amen/stock-prediction-portal-backend/internal/models"
	"github.com/Al-amen/stock-prediction-portal-backend/internal/services"
)

type UserHandler struct {
	userService  services.UserService
	resetService services.PasswordResetService
}

func NewUserHandler(userService services.UserService, resetService services.PasswordResetService) *UserHandler {
	return &UserHandler{userService: userService, resetService: resetService}
}

// @Summary      Register
// @Description  Creates an inactive account and emails a verification link
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        register  body      models.RegisterRequest  true  "Registration data"
// @Success      201       {object}  map[string]string
// @Failure      400       {object}  map[string]string
// @Failure      409       {object}  map[string]string
// @Router       /user/register/ [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Password != req.Password1 {
		c.JSON(http.StatusBadRequest, gin.H{"password": "Passwords do not match"})
		return
	}

	_, err := h.userService.Register(req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailTaken):
			c.JSON(http.StatusConflict, gin.H{"message": "User already exists with this email", "icon": "warning"})
		case errors.Is(err, services.ErrEmailRequired):
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error(), "icon": "error"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Registration failed", "icon": "error"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful. Check your email to verify your account.",
		"icon":    "success",
	})
}

// @Summary      Verify email
// @Description  Consumes a verification token and activates the account
// @Tags         Users
// @Produce      json
// @Param        token  query     string  true  "Verification token"
// @Success      200    {object}  map[string]string
// @Failure      400    {object}  map[string]string
// @Router       /user/verify-email/ [get]
func (h *UserHandler) VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Token missing", "icon": "error"})
		return
	}

	outcome, err := h.userService.VerifyEmail(token)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrExpiredToken):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Token is invalid or expired", "icon": "error"})
		case errors.Is(err, services.ErrInvalidToken):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid verification token", "icon": "warning"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Verification failed", "icon": "error"})
		}
		return
	}

	if outcome == services.AlreadyVerified {
		c.JSON(http.StatusOK, gin.H{"message": "Account already verified", "icon": "info"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Email verified successfully", "icon": "success"})
}

// @Summary      Resend verification email
// @Tags         Users
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /user/resend-verify-email/ [post]
func (h *UserHandler) ResendVerification(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.userService.ResendVerification(req.Email); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "No inactive account found with that email.", "icon": "warning"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to resend verification email", "icon": "error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Verification email resent.", "icon": "info"})
}

// @Summary      Request a password reset
// @Description  Always reports success; account existence is never disclosed
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        request  body      models.PasswordResetRequest  true  "Email"
// @Success      200      {object}  map[string]string
// @Router       /user/password-reset/ [post]
func (h *UserHandler) PasswordResetRequest(c *gin.Context) {
	var req models.PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.resetService.RequestReset(req.Email); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "If the email exists, a reset link will be sent.", "icon": "info"})
}

// @Summary      Confirm a password reset
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        uidb64   path      string                              true  "Encoded user id"
// @Param        token    path      string                              true  "Reset token"
// @Param        request  body      models.PasswordResetConfirmRequest  true  "New password"
// @Success      200      {object}  map[string]string
// @Failure      400      {object}  map[string]string
// @Router       /user/reset-password-confirm/{uidb64}/{token}/ [post]
func (h *UserHandler) PasswordResetConfirm(c *gin.Context) {
	var req models.PasswordResetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	_, err := h.resetService.ConfirmReset(c.Param("uidb64"), c.Param("token"), req.NewPassword, req.ConfirmPassword)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrExpiredToken), errors.Is(err, services.ErrInvalidToken):
			c.JSON(http.StatusBadRequest, gin.H{"token": "Invalid or expired token"})
		case errors.Is(err, services.ErrPasswordMismatch):
			c.JSON(http.StatusBadRequest, gin.H{"password": "Passwords do not match"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password has been reset successfully.", "icon": "success"})
}

// @Summary      Change password
// @Description  Authenticated password change; the new password must differ from the old one
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        request  body      models.ChangePasswordRequest  true  "Passwords"
// @Success      200      {object}  map[string]string
// @Failure      400      {object}  map[string]string
// @Failure      401      {object}  map[string]string
// @Security     BearerAuth
// @Router       /user/password-change/ [put]
func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.userService.ChangePassword(userID, req.OldPassword, req.NewPassword, req.NewPassword2)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrWrongPassword):
			c.JSON(http.StatusBadRequest, gin.H{"old_password": "Old password is incorrect"})
		case errors.Is(err, services.ErrPasswordMismatch):
			c.JSON(http.StatusBadRequest, gin.H{"new_password": "New passwords do not match"})
		case errors.Is(err, services.ErrSamePassword):
			c.JSON(http.StatusBadRequest, gin.H{"new_password": "New password cannot be the same as old password"})
		case errors.Is(err, services.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change password"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully", "icon": "info"})
}
