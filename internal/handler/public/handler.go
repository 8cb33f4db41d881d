package public

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/agendaflow/agenda-api/internal/handler"
	"github.com/agendaflow/agenda-api/internal/model"
	"github.com/agendaflow/agenda-api/internal/service/booking"
)

// Handler serves the unauthenticated booking pages. Everything here is keyed
// by the practitioner's public slug; no identity, no token.
type Handler struct {
	service *booking.Service
}

func NewHandler(service *booking.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	page := r.Group("/:slug")
	{
		page.GET("", h.GetPage)
		page.GET("/availability", h.GetAvailability)
		page.POST("/appointments", h.BookAppointment)
	}
}

func (h *Handler) GetPage(c *gin.Context) {
	profile, err := h.service.ResolveProfile(c.Request.Context(), c.Param("slug"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(profile.Public()))
}

func (h *Handler) GetAvailability(c *gin.Context) {
	day, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid or missing date, expected YYYY-MM-DD"))
		return
	}

	duration := 0
	if v := c.Query("duration_minutes"); v != "" {
		duration, err = strconv.Atoi(v)
		if err != nil || duration <= 0 {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid duration_minutes"))
			return
		}
	}

	slots, err := h.service.Availability(c.Request.Context(), c.Param("slug"), day, duration)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(slots))
}

func (h *Handler) BookAppointment(c *gin.Context) {
	var req model.PublicBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	appt, err := h.service.Book(c.Request.Context(), c.Param("slug"), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(appt))
}
