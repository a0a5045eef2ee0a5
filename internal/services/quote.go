package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/methodgraph-backend/internal/data/repos"
	domainagg "github.com/yungbote/methodgraph-backend/internal/domain/aggregates"
	types "github.com/yungbote/methodgraph-backend/internal/domain/manufacturing"
	"github.com/yungbote/methodgraph-backend/internal/platform/dbctx"
	"github.com/yungbote/methodgraph-backend/internal/platform/logger"
)

// QuoteService keeps just enough of quotes to address quote lines as method
// owners.
type QuoteService interface {
	Create(ctx context.Context, readableID string) (*types.Quote, error)
	AddLine(ctx context.Context, in AddQuoteLineRequest) (*types.QuoteLine, error)
	GetLine(dbc dbctx.Context, id uuid.UUID) (*types.QuoteLine, error)
	// RootMakeMethod returns the line's root method container, nil before a
	// method was copied onto the line.
	RootMakeMethod(dbc dbctx.Context, lineID uuid.UUID) (*types.QuoteMakeMethod, error)
}

type AddQuoteLineRequest struct {
	QuoteID     uuid.UUID        `json:"quote_id"`
	ItemID      uuid.UUID        `json:"item_id"`
	Description string           `json:"description"`
	MethodType  types.MethodType `json:"method_type,omitempty"`
}

type quoteService struct {
	log    *logger.Logger
	items  repos.ItemRepo
	quotes repos.QuoteRepo
	qmms   repos.QuoteMakeMethodRepo
}

func NewQuoteService(baseLog *logger.Logger, items repos.ItemRepo, quotes repos.QuoteRepo, qmms repos.QuoteMakeMethodRepo) QuoteService {
	return &quoteService{log: baseLog.With("service", "QuoteService"), items: items, quotes: quotes, qmms: qmms}
}

func (s *quoteService) Create(ctx context.Context, readableID string) (*types.Quote, error) {
	readableID = strings.TrimSpace(readableID)
	if readableID == "" {
		return nil, domainagg.NewError(domainagg.CodeValidation, "Sales.Quote.Create", "quote_readable_id is required", nil)
	}
	q := &types.Quote{QuoteReadableID: readableID, Status: "Draft"}
	if err := s.quotes.Create(dbctx.Context{Ctx: ctx}, q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *quoteService) AddLine(ctx context.Context, in AddQuoteLineRequest) (*types.QuoteLine, error) {
	const op = "Sales.Quote.AddLine"
	if in.QuoteID == uuid.Nil || in.ItemID == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "quote_id and item_id are required", nil)
	}
	dbc := dbctx.Context{Ctx: ctx}
	item, err := s.items.GetByID(dbc, in.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("item not found: %s", in.ItemID), nil)
	}
	mt := in.MethodType
	if mt == "" {
		mt = item.DefaultMethodType
	}
	if !mt.Valid() {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, fmt.Sprintf("unknown method type %q", mt), nil)
	}
	line := &types.QuoteLine{
		QuoteID:     in.QuoteID,
		ItemID:      item.ID,
		Description: strings.TrimSpace(in.Description),
		MethodType:  mt,
	}
	if line.Description == "" {
		line.Description = item.Name
	}
	if err := s.quotes.CreateLine(dbc, line); err != nil {
		return nil, err
	}
	return line, nil
}

func (s *quoteService) GetLine(dbc dbctx.Context, id uuid.UUID) (*types.QuoteLine, error) {
	line, err := s.quotes.GetLine(dbc, id)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, domainagg.NewError(domainagg.CodeNotFound, "Sales.Quote.GetLine", fmt.Sprintf("quote line not found: %s", id), nil)
	}
	return line, nil
}

func (s *quoteService) RootMakeMethod(dbc dbctx.Context, lineID uuid.UUID) (*types.QuoteMakeMethod, error) {
	if _, err := s.GetLine(dbc, lineID); err != nil {
		return nil, err
	}
	return s.qmms.GetRootByLine(dbc, lineID)
}
