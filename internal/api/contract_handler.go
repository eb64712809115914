package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"artlink/internal/access"
	"artlink/internal/domain"
	"artlink/internal/metrics"
	"artlink/internal/service"
)

// ContractHandler 处理合同请求。只有合同双方与管理员可以读取或修改合同。
type ContractHandler struct {
	contracts *service.ContractService
}

func NewContractHandler(contracts *service.ContractService) *ContractHandler {
	return &ContractHandler{contracts: contracts}
}

func isContractParty(caller access.Caller, c domain.Contract) bool {
	switch caller.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleArtist:
		return caller.ID == c.ArtistID
	case domain.RoleEmployer:
		return caller.ID == c.EmployerID
	default:
		return false
	}
}

// Create 由雇主发起，新合同的状态必须是 Draft。
func (h *ContractHandler) Create(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	var req contractRequest
	if !bindJSON(c, &req) {
		return
	}
	if !requireOwnership(c, caller, req.EmployerID) {
		return
	}
	id, err := h.contracts.Create(c.Request.Context(), caller, req.toDomain(uuid.Nil))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, createdResponse{ID: id})
}

func (h *ContractHandler) GetByID(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	contract, err := h.contracts.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if contract == nil {
		NotFound(c, "contract not found")
		return
	}
	if !isContractParty(caller, *contract) {
		Forbidden(c, "forbidden")
		return
	}
	c.JSON(http.StatusOK, newContractResponse(*contract))
}

func (h *ContractHandler) GetAllByArtistID(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	artistID, ok := parseIDParam(c, "artistId")
	if !ok {
		return
	}
	if !caller.IsAdmin() && !(caller.Role == domain.RoleArtist && caller.ID == artistID) {
		Forbidden(c, "forbidden")
		return
	}
	list, err := h.contracts.GetAllByArtistID(c.Request.Context(), artistID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapList(list, newContractResponse))
}

func (h *ContractHandler) GetAllByEmployerID(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	employerID, ok := parseIDParam(c, "employerId")
	if !ok {
		return
	}
	if !caller.IsAdmin() && !(caller.Role == domain.RoleEmployer && caller.ID == employerID) {
		Forbidden(c, "forbidden")
		return
	}
	list, err := h.contracts.GetAllByEmployerID(c.Request.Context(), employerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapList(list, newContractResponse))
}

// Update 覆盖合同字段；状态变化由 service 按状态图与参与方校验。
func (h *ContractHandler) Update(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req contractRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Status == nil {
		BadRequest(c, "status is required")
		return
	}

	ctx := c.Request.Context()
	current, err := h.contracts.GetByID(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if current == nil {
		NotFound(c, "contract not found")
		return
	}
	if !isContractParty(caller, *current) {
		Forbidden(c, "forbidden")
		return
	}

	if err := h.contracts.Update(ctx, caller, req.toDomain(id)); err != nil {
		respondError(c, err)
		return
	}
	if *req.Status != current.Status {
		metrics.ObserveContractTransition(current.Status.String(), req.Status.String())
	}
	c.Status(http.StatusNoContent)
}

func (h *ContractHandler) Delete(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	current, err := h.contracts.GetByID(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if current == nil {
		NotFound(c, "contract not found")
		return
	}
	if !isContractParty(caller, *current) {
		Forbidden(c, "forbidden")
		return
	}

	if err := h.contracts.Delete(ctx, caller, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
