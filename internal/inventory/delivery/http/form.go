package http

import (
	_ "embed"
	"net/http"
)

//go:embed form.html
var formPage []byte

// Form handles GET /form: the interactive checker page. The page posts to
// /api/check and /api/demand/predict, so it exercises exactly the same rule
// engine as the batch endpoints.
func (h *MonitorHandler) Form(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(formPage)
}
