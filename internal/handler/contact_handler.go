package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"tastebite/internal/errors"
	"tastebite/internal/service"
)

// ContactHandler handles the contact form endpoint.
type ContactHandler struct {
	contactService service.ContactService
}

// NewContactHandler creates a new contact handler.
func NewContactHandler(contactService service.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// ContactRequest is a contact form submission.
type ContactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// Send godoc
// @Summary Send a contact form confirmation email
// @Tags contact
// @Accept json
// @Produce json
// @Param request body ContactRequest true "Contact form"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /send [post]
func (h *ContactHandler) Send(c echo.Context) error {
	var req ContactRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.contactService.SendContactMessage(c.Request().Context(), req.Name, req.Email, req.Subject, req.Message); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
			Error: "error sending email",
			Code:  "MAIL_SEND_FAILED",
		})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Email sent successfully"})
}
