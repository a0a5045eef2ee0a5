package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/methodgraph-backend/internal/http/response"
	"github.com/yungbote/methodgraph-backend/internal/platform/dbctx"
	"github.com/yungbote/methodgraph-backend/internal/services"
)

type QuoteHandler struct {
	quotes services.QuoteService
}

func NewQuoteHandler(quotes services.QuoteService) *QuoteHandler {
	return &QuoteHandler{quotes: quotes}
}

// POST /api/quotes
func (h *QuoteHandler) CreateQuote(c *gin.Context) {
	var req struct {
		QuoteReadableID string `json:"quote_readable_id"`
	}
	if !bindJSON(c, &req) {
		return
	}
	q, err := h.quotes.Create(c.Request.Context(), req.QuoteReadableID)
	if err != nil {
		response.RespondErr(c, "create_quote_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"quote": q})
}

// POST /api/quotes/:id/lines
func (h *QuoteHandler) AddLine(c *gin.Context) {
	quoteID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req services.AddQuoteLineRequest
	if !bindJSON(c, &req) {
		return
	}
	req.QuoteID = quoteID
	line, err := h.quotes.AddLine(c.Request.Context(), req)
	if err != nil {
		response.RespondErr(c, "add_quote_line_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"line": line})
}

// GET /api/quote-lines/:id
func (h *QuoteHandler) GetLine(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	dbc := dbctx.Context{Ctx: c.Request.Context()}
	line, err := h.quotes.GetLine(dbc, id)
	if err != nil {
		response.RespondErr(c, "get_quote_line_failed", err)
		return
	}
	root, err := h.quotes.RootMakeMethod(dbc, id)
	if err != nil {
		response.RespondErr(c, "get_quote_line_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"line": line, "make_method": root})
}
