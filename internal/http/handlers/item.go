package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/methodgraph-backend/internal/http/response"
	"github.com/yungbote/methodgraph-backend/internal/platform/dbctx"
	"github.com/yungbote/methodgraph-backend/internal/services"
)

type ItemHandler struct {
	items services.ItemService
}

func NewItemHandler(items services.ItemService) *ItemHandler {
	return &ItemHandler{items: items}
}

// POST /api/items
func (h *ItemHandler) CreateItem(c *gin.Context) {
	var req services.CreateItemRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.items.Create(c.Request.Context(), req)
	if err != nil {
		response.RespondErr(c, "create_item_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"item": item})
}

// GET /api/items/:id
func (h *ItemHandler) GetItem(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	item, err := h.items.Get(dbctx.Context{Ctx: c.Request.Context()}, id)
	if err != nil {
		response.RespondErr(c, "get_item_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"item": item})
}

// GET /api/items?readable_id=...
func (h *ItemHandler) ListRevisions(c *gin.Context) {
	readableID := c.Query("readable_id")
	if readableID == "" {
		response.RespondError(c, http.StatusBadRequest, "missing_readable_id", nil)
		return
	}
	items, err := h.items.ListRevisions(dbctx.Context{Ctx: c.Request.Context()}, readableID)
	if err != nil {
		response.RespondErr(c, "list_revisions_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"items": items})
}

// POST /api/items/:id/default-revision
func (h *ItemHandler) SetDefaultRevision(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	item, err := h.items.SetDefaultRevision(c.Request.Context(), id)
	if err != nil {
		response.RespondErr(c, "set_default_revision_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"item": item})
}
