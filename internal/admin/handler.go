package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleksandrSotnikov/WaveWebSite/internal/api"
	"github.com/AleksandrSotnikov/WaveWebSite/internal/auth"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Register godoc
// @Summary      Register admin
// @Description  Creates an admin account. Passwords need 8+ characters with letters and digits.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body admin.RegisterRequest true "Account data"
// @Success      201 {object} api.DataResponse{data=admin.AdminUser}
// @Failure      400 {object} api.ErrorResponse "VALIDATION_ERROR or INVALID_PASSWORD"
// @Failure      409 {object} api.ErrorResponse "USERNAME_EXISTS"
// @Router       /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if !api.BindJSON(c, &req) {
		return
	}

	u, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, http.StatusCreated, u)
}

// Login godoc
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body admin.LoginRequest true "Credentials"
// @Success      200 {object} api.DataResponse{data=admin.LoginResponse}
// @Failure      401 {object} api.ErrorResponse "INVALID_CREDENTIALS"
// @Failure      403 {object} api.ErrorResponse "ACCOUNT_INACTIVE"
// @Router       /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if !api.BindJSON(c, &req) {
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, http.StatusOK, resp)
}

// Refresh godoc
// @Summary      Refresh access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body admin.RefreshRequest true "Refresh token"
// @Success      200 {object} api.DataResponse{data=admin.RefreshResponse}
// @Failure      401 {object} api.ErrorResponse
// @Router       /auth/refresh [post]
func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if !api.BindJSON(c, &req) {
		return
	}

	resp, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, http.StatusOK, resp)
}

// Me godoc
// @Summary      Current admin
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} api.DataResponse{data=admin.AdminUser}
// @Failure      401 {object} api.ErrorResponse
// @Router       /auth/me [get]
func (h *Handler) Me(c *gin.Context) {
	id, ok := auth.GetAdminID(c)
	if !ok {
		api.Fail(c, api.NewError(api.CodeUnauthorized, "Not authenticated"))
		return
	}

	u, err := h.service.Me(c.Request.Context(), id)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, http.StatusOK, u)
}

// Logout godoc
// @Summary      Logout
// @Description  Tokens are stateless; clients drop them.
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} api.MessageResponse
// @Router       /auth/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	api.Message(c, "Logout successful")
}
