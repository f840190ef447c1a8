package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smartclinic/booking-api/internal/handler"
	"github.com/smartclinic/booking-api/internal/model"
	"github.com/smartclinic/booking-api/internal/service/auth"
)

type Handler struct {
	service *auth.Service
}

func NewHandler(service *auth.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/auth")
	g.POST("/admin/login", h.login(model.RoleAdmin))
	g.POST("/doctor/login", h.login(model.RoleDoctor))
	g.POST("/patient/login", h.login(model.RolePatient))
}

func (h *Handler) login(role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req model.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
			return
		}

		tokens, err := h.service.Login(c.Request.Context(), role, req.Identifier, req.Password)
		if err != nil {
			handler.RespondError(c, err)
			return
		}

		c.JSON(http.StatusOK, handler.NewSuccessResponse(tokens))
	}
}
