package prescription

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/smartclinic/booking-api/internal/handler"
	"github.com/smartclinic/booking-api/internal/middleware"
	"github.com/smartclinic/booking-api/internal/model"
	"github.com/smartclinic/booking-api/internal/service/prescription"
)

type Handler struct {
	service *prescription.Service
	auth    *middleware.AuthMiddleware
}

func NewHandler(service *prescription.Service, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{service: service, auth: auth}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/prescriptions", h.auth.RequireRole(model.RoleDoctor))
	g.POST("", h.Create)
	g.GET("/:appointmentId", h.GetByAppointment)
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreatePrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	created, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(created))
}

func (h *Handler) GetByAppointment(c *gin.Context) {
	appointmentID, err := uuid.Parse(c.Param("appointmentId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	prescriptions, err := h.service.GetByAppointment(c.Request.Context(), appointmentID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"prescriptions": prescriptions,
		"count":         len(prescriptions),
	}))
}
