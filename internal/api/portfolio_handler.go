package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"artlink/internal/service"
)

// PortfolioHandler 处理作品集请求。写操作要求调用者是作品集所属艺术家或管理员。
type PortfolioHandler struct {
	portfolios *service.PortfolioService
}

func NewPortfolioHandler(portfolios *service.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{portfolios: portfolios}
}

func (h *PortfolioHandler) Create(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	var req portfolioRequest
	if !bindJSON(c, &req) {
		return
	}
	if !requireOwnership(c, caller, req.ArtistID) {
		return
	}
	id, err := h.portfolios.Add(c.Request.Context(), req.toDomain(uuid.Nil))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, createdResponse{ID: id})
}

func (h *PortfolioHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	portfolio, err := h.portfolios.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if portfolio == nil {
		NotFound(c, "portfolio not found")
		return
	}
	c.JSON(http.StatusOK, newPortfolioResponse(*portfolio))
}

func (h *PortfolioHandler) GetAllByArtistID(c *gin.Context) {
	artistID, ok := parseIDParam(c, "artistId")
	if !ok {
		return
	}
	list, err := h.portfolios.GetAllByArtistID(c.Request.Context(), artistID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapList(list, newPortfolioResponse))
}

func (h *PortfolioHandler) GetAllByTechniqueID(c *gin.Context) {
	techniqueID, ok := parseIDParam(c, "techniqueId")
	if !ok {
		return
	}
	list, err := h.portfolios.GetAllByTechniqueID(c.Request.Context(), techniqueID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapList(list, newPortfolioResponse))
}

// Update 同时校验原所属艺术家与请求中的新艺术家。
func (h *PortfolioHandler) Update(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req portfolioRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	current, err := h.portfolios.GetByID(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if current == nil {
		NotFound(c, "portfolio not found")
		return
	}
	if !requireOwnership(c, caller, current.ArtistID) || !requireOwnership(c, caller, req.ArtistID) {
		return
	}

	if err := h.portfolios.Update(ctx, req.toDomain(id)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PortfolioHandler) Delete(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	current, err := h.portfolios.GetByID(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if current == nil {
		NotFound(c, "portfolio not found")
		return
	}
	if !requireOwnership(c, caller, current.ArtistID) {
		return
	}

	if err := h.portfolios.Delete(ctx, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
