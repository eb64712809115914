package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"artlink/internal/service"
)

// SearchHandler 提供按关键字的模糊搜索。prompt 参数必须存在，空字符串匹配全部。
type SearchHandler struct {
	search *service.SearchService
}

func NewSearchHandler(search *service.SearchService) *SearchHandler {
	return &SearchHandler{search: search}
}

func promptParam(c *gin.Context) (string, bool) {
	prompt, ok := c.GetQuery("prompt")
	if !ok {
		BadRequest(c, "prompt is required")
		return "", false
	}
	return prompt, true
}

func (h *SearchHandler) Artists(c *gin.Context) {
	prompt, ok := promptParam(c)
	if !ok {
		return
	}
	list, err := h.search.Artists(c.Request.Context(), prompt)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapList(list, newArtistResponse))
}

func (h *SearchHandler) Employers(c *gin.Context) {
	prompt, ok := promptParam(c)
	if !ok {
		return
	}
	list, err := h.search.Employers(c.Request.Context(), prompt)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapList(list, newEmployerResponse))
}

func (h *SearchHandler) Artworks(c *gin.Context) {
	prompt, ok := promptParam(c)
	if !ok {
		return
	}
	list, err := h.search.Artworks(c.Request.Context(), prompt)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapList(list, newArtworkResponse))
}
