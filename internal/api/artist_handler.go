package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"artlink/internal/domain"
	"artlink/internal/service"
)

// ArtistHandler 处理艺术家资料相关请求。
type ArtistHandler struct {
	artists *service.ArtistService
}

func NewArtistHandler(artists *service.ArtistService) *ArtistHandler {
	return &ArtistHandler{artists: artists}
}

// Register 创建艺术家账号，返回新 ID。
func (h *ArtistHandler) Register(c *gin.Context) {
	var req registerArtistRequest
	if !bindJSON(c, &req) {
		return
	}
	id, err := h.artists.Register(c.Request.Context(), req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, createdResponse{ID: id})
}

func (h *ArtistHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	artist, err := h.artists.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if artist == nil {
		NotFound(c, "artist not found")
		return
	}
	c.JSON(http.StatusOK, newArtistResponse(*artist))
}

func (h *ArtistHandler) GetAll(c *gin.Context) {
	list, err := h.artists.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapList(list, newArtistResponse))
}

// Update 覆盖资料；密码不在此接口修改。
func (h *ArtistHandler) Update(c *gin.Context) {
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
	var req updateArtistRequest
	if !bindJSON(c, &req) {
		return
	}

	err := h.artists.Update(c.Request.Context(), domain.Artist{
		ID:                 id,
		Email:              req.Email,
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		Bio:                req.Bio,
		Experience:         req.Experience,
		ProfilePicturePath: req.ProfilePicturePath,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ArtistHandler) Delete(c *gin.Context) {
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
	if err := h.artists.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
