package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/methodgraph-backend/internal/http/response"
	"github.com/yungbote/methodgraph-backend/internal/platform/dbctx"
	"github.com/yungbote/methodgraph-backend/internal/platform/logger"
	"github.com/yungbote/methodgraph-backend/internal/services"
)

type MethodHandler struct {
	log         *logger.Logger
	graphs      services.MethodGraphService
	trees       services.MethodTreeService
	makeMethods services.MakeMethodService
}

type MethodHandlerDeps struct {
	Log         *logger.Logger
	Graphs      services.MethodGraphService
	Trees       services.MethodTreeService
	MakeMethods services.MakeMethodService
}

func NewMethodHandlerWithDeps(deps MethodHandlerDeps) *MethodHandler {
	log := deps.Log
	if log != nil {
		log = log.With("handler", "MethodHandler")
	}
	return &MethodHandler{
		log:         log,
		graphs:      deps.Graphs,
		trees:       deps.Trees,
		makeMethods: deps.MakeMethods,
	}
}

// POST /api/methods/get-method
func (h *MethodHandler) GetMethod(c *gin.Context) {
	var req services.GetMethodRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.graphs.GetMethod(c.Request.Context(), req)
	if err != nil {
		response.RespondErr(c, "get_method_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"result": res})
}

// GET /api/make-methods/:id/tree
func (h *MethodHandler) GetTree(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	tree, err := h.trees.GetTree(dbctx.Context{Ctx: c.Request.Context()}, id)
	if err != nil {
		response.RespondErr(c, "get_tree_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"tree": tree})
}

// GET /api/items/:id/make-methods
func (h *MethodHandler) ListVersions(c *gin.Context) {
	itemID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	versions, err := h.makeMethods.ListVersions(dbctx.Context{Ctx: c.Request.Context()}, itemID)
	if err != nil {
		response.RespondErr(c, "list_versions_failed", err)
		return
	}
	response.RespondOK(c, versions)
}

// POST /api/items/:id/make-methods
func (h *MethodHandler) EnsureForItem(c *gin.Context) {
	itemID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	res, err := h.makeMethods.EnsureForItem(c.Request.Context(), itemID)
	if err != nil {
		response.RespondErr(c, "ensure_make_method_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"make_method": res.MakeMethod, "created": res.Created})
}

// POST /api/make-methods/:id/versions
func (h *MethodHandler) CreateVersion(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req services.CreateVersionRequest
	if !bindJSON(c, &req) {
		return
	}
	req.CopyFromID = id
	res, err := h.makeMethods.CreateVersion(c.Request.Context(), req)
	if err != nil {
		response.RespondErr(c, "create_version_failed", err)
		return
	}
	response.RespondCreated(c, res)
}

// POST /api/make-methods/:id/activate
func (h *MethodHandler) Activate(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	res, err := h.makeMethods.Activate(c.Request.Context(), id)
	if err != nil {
		response.RespondErr(c, "activate_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"make_method": res.MakeMethod, "deactivated": res.Deactivated})
}
