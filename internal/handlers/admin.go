package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/prasowlabs/moi-kanakku/internal/hash"
	"github.com/prasowlabs/moi-kanakku/internal/models"
	"github.com/prasowlabs/moi-kanakku/internal/respond"
	"github.com/prasowlabs/moi-kanakku/internal/token"
)

// AdminHandler serves the oversight panel: cross-tenant reads over
// every user's data plus feedback replies.
type AdminHandler struct {
	DB     *gorm.DB
	Tokens *token.Service
}

func (h *AdminHandler) Login(c echo.Context) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, err.Error())
	}

	var admin models.AdminAccount
	if err := h.DB.Where("username = ? AND active = ?", req.Username, models.StatusActive).
		First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respond.Fail(c, http.StatusNotFound, "Invalid credentials.")
		}
		return respond.Error(c, err)
	}
	if !hash.CheckPassword(admin.Password, req.Password) {
		return respond.Fail(c, http.StatusNotFound, "Invalid credentials.")
	}

	ctx := c.Request().Context()
	if err := h.Tokens.Invalidate(ctx, admin.ID); err != nil {
		return respond.Error(c, err)
	}
	jwtToken, err := h.Tokens.Issue(ctx, admin.ID)
	if err != nil {
		return respond.Error(c, err)
	}

	return respond.Success(c, http.StatusOK, map[string]interface{}{
		"id":       admin.ID,
		"username": admin.Username,
		"token":    jwtToken,
	})
}

func (h *AdminHandler) Users(c echo.Context) error {
	var users []models.User
	if err := h.DB.Order("um_id DESC").Find(&users).Error; err != nil {
		return respond.Error(c, err)
	}
	return respond.SuccessList(c, http.StatusOK, len(users), users)
}

func (h *AdminHandler) UserByID(c echo.Context) error {
	var user models.User
	if err := h.DB.First(&user, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respond.Fail(c, http.StatusNotFound, msgUserNotFound)
		}
		return respond.Error(c, err)
	}
	return respond.Success(c, http.StatusOK, user)
}

func (h *AdminHandler) MoiRecords(c echo.Context) error {
	var records []models.MoiRecord
	if err := h.DB.Where("mr_active = ?", models.StatusActive).
		Order("mr_id DESC").Find(&records).Error; err != nil {
		return respond.Error(c, err)
	}
	return respond.SuccessList(c, http.StatusOK, len(records), records)
}

func (h *AdminHandler) MoiRecordsByUser(c echo.Context) error {
	var records []models.MoiRecord
	if err := h.DB.Where("mr_um_id = ? AND mr_active = ?", c.Param("userId"), models.StatusActive).
		Order("mr_id DESC").Find(&records).Error; err != nil {
		return respond.Error(c, err)
	}
	return respond.SuccessList(c, http.StatusOK, len(records), records)
}

func (h *AdminHandler) Functions(c echo.Context) error {
	var functions []models.Function
	if err := h.DB.Where("f_active = ?", models.StatusActive).
		Order("f_id DESC").Find(&functions).Error; err != nil {
		return respond.Error(c, err)
	}
	return respond.SuccessList(c, http.StatusOK, len(functions), functions)
}

func (h *AdminHandler) FunctionsByUser(c echo.Context) error {
	var functions []models.Function
	if err := h.DB.Where("f_um_id = ? AND f_active = ?", c.Param("userId"), models.StatusActive).
		Order("f_id DESC").Find(&functions).Error; err != nil {
		return respond.Error(c, err)
	}
	return respond.SuccessList(c, http.StatusOK, len(functions), functions)
}

func (h *AdminHandler) MoiOutRecords(c echo.Context) error {
	var records []models.MoiOutRecord
	if err := h.DB.Where("mom_status = ?", models.StatusActive).
		Order("mom_id DESC").Find(&records).Error; err != nil {
		return respond.Error(c, err)
	}
	return respond.SuccessList(c, http.StatusOK, len(records), records)
}

func (h *AdminHandler) MoiOutRecordsByUser(c echo.Context) error {
	var records []models.MoiOutRecord
	if err := h.DB.Where("mom_user_id = ? AND mom_status = ?", c.Param("userId"), models.StatusActive).
		Order("mom_id DESC").Find(&records).Error; err != nil {
		return respond.Error(c, err)
	}
	return respond.SuccessList(c, http.StatusOK, len(records), records)
}

type feedbackRow struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"userId"`
	UserName    string     `json:"userName"`
	Feedbacks   string     `json:"feedbacks"`
	Reply       *string    `json:"reply"`
	CreatedTime *time.Time `json:"createdTime"`
}

// Feedbacks joins user names so the panel shows who wrote what.
func (h *AdminHandler) Feedbacks(c echo.Context) error {
	var rows []feedbackRow
	err := h.DB.Model(&models.Feedback{}).
		Select(`gp_moi_feedbacks.id AS id,
			gp_moi_feedbacks.user_id AS user_id,
			gp_moi_user_master.um_full_name AS user_name,
			gp_moi_feedbacks.feedbacks AS feedbacks,
			gp_moi_feedbacks.reply AS reply,
			gp_moi_feedbacks.created_time AS created_time`).
		Joins("LEFT JOIN gp_moi_user_master ON gp_moi_user_master.um_id = gp_moi_feedbacks.user_id").
		Order("gp_moi_feedbacks.id DESC").
		Scan(&rows).Error
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.SuccessList(c, http.StatusOK, len(rows), rows)
}

func (h *AdminHandler) ReplyFeedback(c echo.Context) error {
	var req struct {
		FeedbackID int64  `json:"feedbackId"`
		Reply      string `json:"reply"`
	}
	if err := c.Bind(&req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, err.Error())
	}
	if req.Reply == "" {
		return respond.Fail(c, http.StatusBadRequest, "Reply is required.")
	}

	var feedback models.Feedback
	if err := h.DB.First(&feedback, req.FeedbackID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respond.Fail(c, http.StatusNotFound, "Feedback not found.")
		}
		return respond.Error(c, err)
	}
	if err := h.DB.Model(&feedback).Update("reply", req.Reply).Error; err != nil {
		return respond.Error(c, err)
	}
	return respond.Message(c, http.StatusOK, "Reply saved successfully.")
}
