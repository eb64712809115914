package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"artlink/internal/domain"
	"artlink/internal/service"
)

// EmployerHandler 处理雇主资料相关请求。
type EmployerHandler struct {
	employers *service.EmployerService
}

func NewEmployerHandler(employers *service.EmployerService) *EmployerHandler {
	return &EmployerHandler{employers: employers}
}

func (h *EmployerHandler) Register(c *gin.Context) {
	var req registerEmployerRequest
	if !bindJSON(c, &req) {
		return
	}
	id, err := h.employers.Register(c.Request.Context(), req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, createdResponse{ID: id})
}

func (h *EmployerHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	employer, err := h.employers.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if employer == nil {
		NotFound(c, "employer not found")
		return
	}
	c.JSON(http.StatusOK, newEmployerResponse(*employer))
}

func (h *EmployerHandler) GetAll(c *gin.Context) {
	list, err := h.employers.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapList(list, newEmployerResponse))
}

func (h *EmployerHandler) Update(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if !requireOwnership(c, caller, id) {
		return
	}
	var req updateEmployerRequest
	if !bindJSON(c, &req) {
		return
	}

	err := h.employers.Update(c.Request.Context(), domain.Employer{
		ID:          id,
		CompanyName: req.CompanyName,
		Email:       req.Email,
		CpFirstName: req.CpFirstName,
		CpLastName:  req.CpLastName,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *EmployerHandler) Delete(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if !requireOwnership(c, caller, id) {
		return
	}
	if err := h.employers.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
