package profile

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agendaflow/agenda-api/internal/handler"
	"github.com/agendaflow/agenda-api/internal/middleware"
	"github.com/agendaflow/agenda-api/internal/model"
	"github.com/agendaflow/agenda-api/internal/service/profile"
)

type Handler struct {
	service *profile.Service
}

func NewHandler(service *profile.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	profiles := r.Group("/profile")
	{
		profiles.GET("", h.GetProfile)
		profiles.PATCH("", h.UpdateProfile)
	}
}

func (h *Handler) GetProfile(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	p, err := h.service.Get(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(p))
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	p, err := h.service.Update(c.Request.Context(), userID, &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(p))
}
