package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/prasowlabs/moi-kanakku/internal/jobs"
	"github.com/prasowlabs/moi-kanakku/internal/respond"
)

type EmailHandler struct {
	Jobs *jobs.Client
}

// Send queues a mail for the worker; delivery is asynchronous.
func (h *EmailHandler) Send(c echo.Context) error {
	var req struct {
		To      string `json:"to"`
		Subject string `json:"subject"`
		Body    string `json:"body"`
	}
	if err := c.Bind(&req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, err.Error())
	}
	if req.To == "" || req.Subject == "" {
		return respond.Fail(c, http.StatusBadRequest, "Recipient and subject are required.")
	}

	if err := h.Jobs.EnqueueMail(c.Request().Context(), jobs.SendMailPayload{
		To:      req.To,
		Subject: req.Subject,
		Body:    req.Body,
	}); err != nil {
		return respond.Error(c, err)
	}
	return respond.Message(c, http.StatusOK, "Email queued successfully.")
}
