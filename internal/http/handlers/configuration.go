package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/methodgraph-backend/internal/http/response"
	"github.com/yungbote/methodgraph-backend/internal/platform/dbctx"
	"github.com/yungbote/methodgraph-backend/internal/services"
)

type ConfigurationHandler struct {
	configuration services.ConfigurationService
}

func NewConfigurationHandler(configuration services.ConfigurationService) *ConfigurationHandler {
	return &ConfigurationHandler{configuration: configuration}
}

// GET /api/items/:id/configuration/groups
func (h *ConfigurationHandler) ListGroups(c *gin.Context) {
	itemID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	groups, err := h.configuration.ListGroups(dbctx.Context{Ctx: c.Request.Context()}, itemID)
	if err != nil {
		response.RespondErr(c, "list_groups_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"groups": groups})
}

// POST /api/items/:id/configuration/groups
func (h *ConfigurationHandler) CreateGroup(c *gin.Context) {
	itemID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if !bindJSON(c, &req) {
		return
	}
	g, err := h.configuration.CreateGroup(c.Request.Context(), itemID, req.Name)
	if err != nil {
		response.RespondErr(c, "create_group_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"group": g})
}

// DELETE /api/configuration/groups/:id
func (h *ConfigurationHandler) DeleteGroup(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.configuration.DeleteGroup(c.Request.Context(), id); err != nil {
		response.RespondErr(c, "delete_group_failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/items/:id/configuration/parameters
func (h *ConfigurationHandler) ListParameters(c *gin.Context) {
	itemID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	params, err := h.configuration.ListParameters(dbctx.Context{Ctx: c.Request.Context()}, itemID)
	if err != nil {
		response.RespondErr(c, "list_parameters_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"parameters": params})
}

// POST /api/items/:id/configuration/parameters
func (h *ConfigurationHandler) CreateParameter(c *gin.Context) {
	itemID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req services.CreateParameterRequest
	if !bindJSON(c, &req) {
		return
	}
	req.ItemID = itemID
	p, err := h.configuration.CreateParameter(c.Request.Context(), req)
	if err != nil {
		response.RespondErr(c, "create_parameter_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"parameter": p})
}

// DELETE /api/configuration/parameters/:id
func (h *ConfigurationHandler) DeleteParameter(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.configuration.DeleteParameter(c.Request.Context(), id); err != nil {
		response.RespondErr(c, "delete_parameter_failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/items/:id/configuration/rules
func (h *ConfigurationHandler) ListRules(c *gin.Context) {
	itemID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	rules, err := h.configuration.ListRules(dbctx.Context{Ctx: c.Request.Context()}, itemID)
	if err != nil {
		response.RespondErr(c, "list_rules_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"rules": rules})
}

// PUT /api/items/:id/configuration/rules
func (h *ConfigurationHandler) UpsertRule(c *gin.Context) {
	itemID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Field string `json:"field"`
		Code  string `json:"code"`
	}
	if !bindJSON(c, &req) {
		return
	}
	rule, err := h.configuration.UpsertRule(c.Request.Context(), itemID, req.Field, req.Code)
	if err != nil {
		response.RespondErr(c, "upsert_rule_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"rule": rule})
}

// DELETE /api/items/:id/configuration/rules?field=...
func (h *ConfigurationHandler) DeleteRule(c *gin.Context) {
	itemID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	field := strings.TrimSpace(c.Query("field"))
	if field == "" {
		response.RespondError(c, http.StatusBadRequest, "missing_field", nil)
		return
	}
	if err := h.configuration.DeleteRule(c.Request.Context(), itemID, field); err != nil {
		response.RespondErr(c, "delete_rule_failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /api/items/:id/configuration/resolve
func (h *ConfigurationHandler) Resolve(c *gin.Context) {
	itemID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req services.ResolveRequest
	if !bindJSON(c, &req) {
		return
	}
	req.ItemID = itemID
	fields, err := h.configuration.Resolve(c.Request.Context(), req)
	if err != nil {
		response.RespondErr(c, "resolve_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"fields": fields})
}
