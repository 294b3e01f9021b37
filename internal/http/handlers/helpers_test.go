package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/geocoder89/pawhub/internal/auth"
	"github.com/geocoder89/pawhub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

// Make sure Gin does not spam the console during the test
func init() {
	gin.SetMode(gin.TestMode)
}

// small helper which returns a gin engine mounting one handler per test,
// optionally behind a stand-in for the authentication gate
func setupRouter(method, path string, caller *auth.Identity, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	chain := []gin.HandlerFunc{}
	if caller != nil {
		id := *caller
		chain = append(chain, func(c *gin.Context) {
			c.Set(middlewares.CtxIdentity, id)
			c.Next()
		})
	}
	chain = append(chain, h)

	r.Handle(method, path, chain...)

	return r
}

func doRequest(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func mustReadJSON[T any](t *testing.T, w *httptest.ResponseRecorder, out *T) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to unmarshal json: %v, body=%s", err, w.Body.String())
	}
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var e errorBody
	mustReadJSON(t, w, &e)
	return e.Error.Code
}

func alice() *auth.Identity {
	return &auth.Identity{Email: "alice@example.com", Name: "Alice"}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
