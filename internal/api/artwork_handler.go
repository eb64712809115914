package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"artlink/internal/service"
)

// ArtworkHandler 处理作品请求。作品的归属通过所在作品集的艺术家判断。
type ArtworkHandler struct {
	artworks   *service.ArtworkService
	portfolios *service.PortfolioService
}

func NewArtworkHandler(artworks *service.ArtworkService, portfolios *service.PortfolioService) *ArtworkHandler {
	return &ArtworkHandler{artworks: artworks, portfolios: portfolios}
}

// portfolioOwner 返回作品集所属艺术家；作品集不存在时 found 为 false。
func (h *ArtworkHandler) portfolioOwner(ctx context.Context, portfolioID uuid.UUID) (uuid.UUID, bool, error) {
	p, err := h.portfolios.GetByID(ctx, portfolioID)
	if err != nil || p == nil {
		return uuid.Nil, false, err
	}
	return p.ArtistID, true, nil
}

func (h *ArtworkHandler) Create(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	var req artworkRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	owner, found, err := h.portfolioOwner(ctx, req.PortfolioID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !found {
		BadRequest(c, "portfolio does not exist")
		return
	}
	if !requireOwnership(c, caller, owner) {
		return
	}

	id, err := h.artworks.Add(ctx, req.toDomain(uuid.Nil))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, createdResponse{ID: id})
}

func (h *ArtworkHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	artwork, err := h.artworks.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if artwork == nil {
		NotFound(c, "artwork not found")
		return
	}
	c.JSON(http.StatusOK, newArtworkResponse(*artwork))
}

func (h *ArtworkHandler) GetAllByPortfolioID(c *gin.Context) {
	portfolioID, ok := parseIDParam(c, "portfolioId")
	if !ok {
		return
	}
	list, err := h.artworks.GetAllByPortfolioID(c.Request.Context(), portfolioID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapList(list, newArtworkResponse))
}

// Update 需要同时拥有原作品集与目标作品集。
func (h *ArtworkHandler) Update(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req artworkRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	current, err := h.artworks.GetByID(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if current == nil {
		NotFound(c, "artwork not found")
		return
	}

	currentOwner, _, err := h.portfolioOwner(ctx, current.PortfolioID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !requireOwnership(c, caller, currentOwner) {
		return
	}
	if req.PortfolioID != current.PortfolioID {
		targetOwner, found, err := h.portfolioOwner(ctx, req.PortfolioID)
		if err != nil {
			respondError(c, err)
			return
		}
		if !found {
			BadRequest(c, "portfolio does not exist")
			return
		}
		if !requireOwnership(c, caller, targetOwner) {
			return
		}
	}

	if err := h.artworks.Update(ctx, req.toDomain(id)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ArtworkHandler) Delete(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	current, err := h.artworks.GetByID(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if current == nil {
		NotFound(c, "artwork not found")
		return
	}
	owner, _, err := h.portfolioOwner(ctx, current.PortfolioID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !requireOwnership(c, caller, owner) {
		return
	}

	if err := h.artworks.Delete(ctx, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
