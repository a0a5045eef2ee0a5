package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainagg "github.com/yungbote/methodgraph-backend/internal/domain/aggregates"
	"github.com/yungbote/methodgraph-backend/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	// Completed and Failed describe how far a multi-step write got.
	Completed []string `json:"completed,omitempty"`
	Failed    string   `json:"failed,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondErr maps err to a status through its aggregate code. Errors without
// a code are reported as fallback with a 500.
func RespondErr(c *gin.Context, fallback string, err error) {
	ae := apierr.From(err)
	if ae == nil {
		RespondError(c, http.StatusInternalServerError, fallback, nil)
		return
	}
	code := ae.Code
	if code == "" {
		code = fallback
	}
	body := APIError{Message: ae.Error(), Code: code}
	if pf, ok := domainagg.AsPartialFailure(err); ok {
		body.Completed = pf.Completed
		body.Failed = pf.Failed
	}
	_ = c.Error(err)
	c.JSON(ae.Status, ErrorEnvelope{Error: body})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
