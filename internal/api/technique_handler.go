package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"artlink/internal/domain"
	"artlink/internal/service"
)

// TechniqueHandler 技法目录；写操作只对管理员开放（由路由层的 RequireRoles 保证）。
type TechniqueHandler struct {
	techniques *service.TechniqueService
}

func NewTechniqueHandler(techniques *service.TechniqueService) *TechniqueHandler {
	return &TechniqueHandler{techniques: techniques}
}

func (h *TechniqueHandler) Create(c *gin.Context) {
	var req techniqueRequest
	if !bindJSON(c, &req) {
		return
	}
	id, err := h.techniques.Add(c.Request.Context(), domain.Technique{Name: req.Name, Description: req.Description})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, createdResponse{ID: id})
}

func (h *TechniqueHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	technique, err := h.techniques.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if technique == nil {
		NotFound(c, "technique not found")
		return
	}
	c.JSON(http.StatusOK, newTechniqueResponse(*technique))
}

func (h *TechniqueHandler) GetAll(c *gin.Context) {
	list, err := h.techniques.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapList(list, newTechniqueResponse))
}

func (h *TechniqueHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req techniqueRequest
	if !bindJSON(c, &req) {
		return
	}
	err := h.techniques.Update(c.Request.Context(), domain.Technique{ID: id, Name: req.Name, Description: req.Description})
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Delete 级联删除引用该技法的作品集及其作品。
func (h *TechniqueHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.techniques.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
