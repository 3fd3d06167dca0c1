package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/prasowlabs/moi-kanakku/internal/hash"
	"github.com/prasowlabs/moi-kanakku/internal/jobs"
	"github.com/prasowlabs/moi-kanakku/internal/middleware/auth"
	"github.com/prasowlabs/moi-kanakku/internal/models"
	"github.com/prasowlabs/moi-kanakku/internal/mykafka"
	"github.com/prasowlabs/moi-kanakku/internal/respond"
	"github.com/prasowlabs/moi-kanakku/internal/token"
)

type AuthHandler struct {
	DB         *gorm.DB
	Tokens     *token.Service
	Producer   *mykafka.Producer
	Jobs       *jobs.Client
	AdminEmail string
}

// Login authenticates a user and issues the single session token,
// invalidating whatever token a previous login left behind.
func (h *AuthHandler) Login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, err.Error())
	}

	var user models.User
	if err := h.DB.Where("um_email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respond.Fail(c, http.StatusNotFound, "Invalid Email ID!")
		}
		return respond.Error(c, err)
	}
	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		return respond.Fail(c, http.StatusNotFound, "The password is incorrect.")
	}

	ctx := c.Request().Context()
	if err := h.Tokens.Invalidate(ctx, user.ID); err != nil {
		return respond.Error(c, err)
	}
	jwtToken, err := h.Tokens.Issue(ctx, user.ID)
	if err != nil {
		return respond.Error(c, err)
	}

	now := time.Now()
	if err := h.DB.Model(&models.User{}).Where("um_id = ?", user.ID).
		Update("um_last_login", now).Error; err != nil {
		return respond.Error(c, err)
	}

	h.publish(c, map[string]interface{}{
		"type":   "user_logged_in",
		"userId": user.ID,
		"email":  user.Email,
	}, user.ID)

	return respond.Success(c, http.StatusOK, map[string]interface{}{
		"id":         user.ID,
		"name":       user.FullName,
		"mobile":     user.Mobile,
		"email":      user.Email,
		"last_login": user.LastLogin,
		"token":      jwtToken,
	})
}

// EmployeeLogin issues a session token for an active employee. Inactive
// employees cannot authenticate for permission purposes.
func (h *AuthHandler) EmployeeLogin(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, err.Error())
	}

	var employee models.Employee
	if err := h.DB.Where("em_email = ?", req.Email).First(&employee).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respond.Fail(c, http.StatusNotFound, "Invalid Email ID!")
		}
		return respond.Error(c, err)
	}
	if employee.Status != models.StatusActive {
		return respond.Fail(c, http.StatusForbidden, "பணியாளர் கிடைக்கவில்லை அல்லது செயலில் இல்லை.")
	}
	if !hash.CheckPassword(employee.PasswordHash, req.Password) {
		return respond.Fail(c, http.StatusNotFound, "The password is incorrect.")
	}

	ctx := c.Request().Context()
	if err := h.Tokens.Invalidate(ctx, employee.ID); err != nil {
		return respond.Error(c, err)
	}
	jwtToken, err := h.Tokens.Issue(ctx, employee.ID)
	if err != nil {
		return respond.Error(c, err)
	}

	return respond.Success(c, http.StatusOK, map[string]interface{}{
		"id":     employee.ID,
		"name":   employee.FullName,
		"mobile": employee.Mobile,
		"email":  employee.Email,
		"token":  jwtToken,
	})
}

// Register creates a user and queues the welcome and admin-notification
// mails.
func (h *AuthHandler) Register(c echo.Context) error {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Mobile   string `json:"mobile"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, err.Error())
	}

	var existing models.User
	if err := h.DB.Where("um_email = ?", req.Email).First(&existing).Error; err == nil {
		return respond.Fail(c, http.StatusNotFound, "This email is already registered!")
	}
	if err := h.DB.Where("um_mobile = ?", req.Mobile).First(&existing).Error; err == nil {
		return respond.Fail(c, http.StatusNotFound, "This mobile is already registered!")
	}

	passwordHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return respond.Error(c, err)
	}

	now := time.Now()
	user := models.User{
		FullName:          req.Name,
		Email:             req.Email,
		Mobile:            req.Mobile,
		PasswordHash:      passwordHash,
		Status:            models.StatusActive,
		PasswordChangedAt: &now,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		return respond.Error(c, err)
	}

	ctx := c.Request().Context()
	if err := h.Jobs.EnqueueMail(ctx, jobs.SendMailPayload{
		To:      user.Email,
		Subject: "Welcome to Moi Kanakku!",
		Body:    welcomeMail(user.FullName),
	}); err != nil {
		c.Logger().Errorf("enqueue welcome mail: %v", err)
	}
	if h.AdminEmail != "" {
		if err := h.Jobs.EnqueueMail(ctx, jobs.SendMailPayload{
			To:      h.AdminEmail,
			Subject: "New user registered successfully",
			Body:    adminRegistrationMail(user.FullName, user.Email, user.Mobile),
		}); err != nil {
			c.Logger().Errorf("enqueue admin mail: %v", err)
		}
	}

	h.publish(c, map[string]interface{}{
		"type":   "user_registered",
		"userId": user.ID,
		"email":  user.Email,
	}, user.ID)

	return respond.Message(c, http.StatusOK, "User registered successfully.")
}

// Logout drops the stored session token.
func (h *AuthHandler) Logout(c echo.Context) error {
	principalID, ok := auth.PrincipalID(c)
	if !ok {
		return respond.Fail(c, http.StatusUnauthorized, "Access denied. Please login to continue.")
	}
	if err := h.Tokens.Invalidate(c.Request().Context(), principalID); err != nil {
		return respond.Error(c, err)
	}
	return respond.Message(c, http.StatusOK, "Logged out successfully.")
}

func (h *AuthHandler) publish(c echo.Context, event map[string]interface{}, key int64) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, mykafka.TopicMoiEvents, fmt.Sprint(key), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func welcomeMail(name string) string {
	return fmt.Sprintf(`<div style="font-family:'Segoe UI',Arial,sans-serif;max-width:620px;margin:0 auto;padding:30px">
<h2 style="color:#2f3490">Welcome to <span style="color:#4346d2">Moi Kanakku!</span></h2>
<p>Hi <strong>%s</strong>,</p>
<p>We're excited to have you join our community! Moi Kanakku is built to keep your
event, relation and gift records in one place.</p>
<ul>
<li>Create & maintain special events, relations, and gift records (cash or kind).</li>
<li>Manage guests attending your events with detailed gift tracking.</li>
<li>View and filter records easily by function or relation.</li>
</ul>
<p>Best regards,<br><strong>Moi Kanakku Team</strong></p>
<small>If you did not sign up for Moi Kanakku, please ignore this email.</small>
</div>`, name)
}

func adminRegistrationMail(name, email, mobile string) string {
	return fmt.Sprintf(`<div style="font-family:'Segoe UI',Arial,sans-serif;max-width:620px;margin:0 auto;padding:30px">
<h2>New User Registered Successfully</h2>
<table cellpadding="6">
<tr><td><strong>Name</strong></td><td>%s</td></tr>
<tr><td><strong>Email</strong></td><td>%s</td></tr>
<tr><td><strong>Mobile</strong></td><td>%s</td></tr>
<tr><td><strong>Time</strong></td><td>%s</td></tr>
</table>
<p>Please verify the user details in the admin panel for confirmation.</p>
</div>`, name, email, mobile, time.Now().Format("02-Jan-2006 15:04:05"))
}
