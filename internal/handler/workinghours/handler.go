package workinghours

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agendaflow/agenda-api/internal/handler"
	"github.com/agendaflow/agenda-api/internal/middleware"
	"github.com/agendaflow/agenda-api/internal/model"
	"github.com/agendaflow/agenda-api/internal/service/workinghours"
)

type Handler struct {
	service *workinghours.Service
}

func NewHandler(service *workinghours.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	hours := r.Group("/working-hours")
	{
		hours.GET("", h.GetWorkingHours)
		hours.PUT("", h.UpdateWorkingHours)
	}
}

func (h *Handler) GetWorkingHours(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	hours, err := h.service.Get(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(hours))
}

func (h *Handler) UpdateWorkingHours(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var req model.UpdateWorkingHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	hours, err := h.service.Update(c.Request.Context(), userID, &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(hours))
}
