package inbound

import (
	"bytes"
	"context"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	glog "github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-nuvemshop/core"
)

const (
	QueryCode    = "code"
	QueryStoreID = "store_id"
)

type CallbackService interface {
	CompleteCallback(ctx context.Context, req core.CallbackRequest) (core.CallbackResult, error)
}

var successPage = template.Must(template.New("callback_success").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Store connected</title>
</head>
<body>
<h2>App connected successfully</h2>
<p>Store: {{.StoreID}}</p>
<p>The access token was stored.</p>
</body>
</html>
`))

type successView struct {
	StoreID string
}

// CallbackHandler completes the authorization-code flow for one redirect.
type CallbackHandler struct {
	service CallbackService
	logger  glog.Logger
}

func NewCallbackHandler(service CallbackService, logger glog.Logger) *CallbackHandler {
	if logger == nil {
		logger = glog.Nop()
	}
	return &CallbackHandler{service: service, logger: logger}
}

func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h == nil || h.service == nil {
		h.writeError(w, r, internalError(nil, "inbound: callback service is required", nil))
		return
	}

	query := r.URL.Query()
	result, err := h.service.CompleteCallback(ctx, core.CallbackRequest{
		Code:    query.Get(QueryCode),
		StoreID: query.Get(QueryStoreID),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var body bytes.Buffer
	if err := successPage.Execute(&body, successView{StoreID: result.StoreID.String()}); err != nil {
		h.writeError(w, r, internalError(err, "inbound: render callback page", map[string]any{
			"store_id": result.StoreID.String(),
		}))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body.Bytes())
}

func (h *CallbackHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := core.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger := glog.Nop()
		if h != nil && h.logger != nil {
			logger = h.logger
		}
		logger.Error("oauth callback failed",
			"request_id", middleware.GetReqID(r.Context()),
			"status", status,
			"text_code", core.TextCode(err),
			"error", err.Error(),
		)
	}
	writeText(w, status, core.PublicMessage(err))
}

func writeText(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(message))
}
