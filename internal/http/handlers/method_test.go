package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainagg "github.com/yungbote/methodgraph-backend/internal/domain/aggregates"
	types "github.com/yungbote/methodgraph-backend/internal/domain/manufacturing"
	"github.com/yungbote/methodgraph-backend/internal/http/response"
	"github.com/yungbote/methodgraph-backend/internal/platform/dbctx"
	"github.com/yungbote/methodgraph-backend/internal/services"
)

type fakeMakeMethods struct {
	createErr   error
	activateErr error
	lastCreate  services.CreateVersionRequest
}

func (f *fakeMakeMethods) EnsureForItem(context.Context, uuid.UUID) (domainagg.EnsureMakeMethodResult, error) {
	return domainagg.EnsureMakeMethodResult{}, nil
}

func (f *fakeMakeMethods) ListVersions(dbctx.Context, uuid.UUID) (services.ItemVersions, error) {
	return services.ItemVersions{}, nil
}

func (f *fakeMakeMethods) CreateVersion(_ context.Context, in services.CreateVersionRequest) (services.CreateVersionResult, error) {
	f.lastCreate = in
	if f.createErr != nil {
		return services.CreateVersionResult{}, f.createErr
	}
	return services.CreateVersionResult{
		MakeMethod: &types.MakeMethod{ID: uuid.New(), Version: in.Version, Status: types.MakeMethodDraft},
	}, nil
}

func (f *fakeMakeMethods) Activate(_ context.Context, id uuid.UUID) (domainagg.ActivateMakeMethodResult, error) {
	if f.activateErr != nil {
		return domainagg.ActivateMakeMethodResult{}, f.activateErr
	}
	return domainagg.ActivateMakeMethodResult{MakeMethod: &types.MakeMethod{ID: id, Status: types.MakeMethodActive}}, nil
}

func methodRouter(mm services.MakeMethodService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewMethodHandlerWithDeps(MethodHandlerDeps{MakeMethods: mm})
	r := gin.New()
	r.POST("/make-methods/:id/versions", h.CreateVersion)
	r.POST("/make-methods/:id/activate", h.Activate)
	return r
}

func serve(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateVersionUsesPathID(t *testing.T) {
	fake := &fakeMakeMethods{}
	r := methodRouter(fake)
	id := uuid.New()

	w := serve(r, http.MethodPost, "/make-methods/"+id.String()+"/versions", `{"version":3,"copy_from_id":"`+uuid.NewString()+`"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if fake.lastCreate.CopyFromID != id || fake.lastCreate.Version != 3 {
		t.Fatalf("request forwarded as %+v", fake.lastCreate)
	}
}

func TestMethodHandlerErrorMapping(t *testing.T) {
	const activateOp = "Manufacturing.MakeMethod.Activate"
	cases := []struct {
		name          string
		fake          *fakeMakeMethods
		path          string
		body          string
		wantStatus    int
		wantCode      string
		wantCompleted []string
		wantFailed    string
	}{
		{
			name: "graph copy failed after insert",
			fake: &fakeMakeMethods{createErr: domainagg.NewPartialFailure("Manufacturing.MakeMethod.CreateVersionWithGraph",
				[]string{"create_version"}, "copy_graph", errors.New("cycle"))},
			path:          "/versions",
			body:          `{"version":2}`,
			wantStatus:    http.StatusMultiStatus,
			wantCode:      string(domainagg.CodePartialFailure),
			wantCompleted: []string{"create_version"},
			wantFailed:    "copy_graph",
		},
		{
			name: "activation half applied",
			fake: &fakeMakeMethods{activateErr: domainagg.NewPartialFailure(activateOp,
				[]string{"deactivate_siblings"}, "activate_target", errors.New("connection reset"))},
			path:          "/activate",
			wantStatus:    http.StatusMultiStatus,
			wantCode:      string(domainagg.CodePartialFailure),
			wantCompleted: []string{"deactivate_siblings"},
			wantFailed:    "activate_target",
		},
		{
			name:       "unknown make method",
			fake:       &fakeMakeMethods{activateErr: domainagg.NewError(domainagg.CodeNotFound, activateOp, "make method not found", nil)},
			path:       "/activate",
			wantStatus: http.StatusNotFound,
			wantCode:   string(domainagg.CodeNotFound),
		},
		{
			name:       "uncoded failure",
			fake:       &fakeMakeMethods{activateErr: errors.New("boom")},
			path:       "/activate",
			wantStatus: http.StatusInternalServerError,
			wantCode:   "activate_failed",
		},
		{
			name:       "malformed body",
			fake:       &fakeMakeMethods{},
			path:       "/versions",
			body:       `{"version":`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "invalid_request",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := methodRouter(tc.fake)
			w := serve(r, http.MethodPost, "/make-methods/"+uuid.NewString()+tc.path, tc.body)
			if w.Code != tc.wantStatus {
				t.Fatalf("status=%d want %d body=%s", w.Code, tc.wantStatus, w.Body.String())
			}
			var env response.ErrorEnvelope
			if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if env.Error.Code != tc.wantCode || env.Error.Failed != tc.wantFailed {
				t.Fatalf("error=%+v", env.Error)
			}
			if strings.Join(env.Error.Completed, ",") != strings.Join(tc.wantCompleted, ",") {
				t.Fatalf("completed=%v want %v", env.Error.Completed, tc.wantCompleted)
			}
		})
	}
}
