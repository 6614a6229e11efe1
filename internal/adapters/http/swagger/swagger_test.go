package swagger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func get(mux *http.ServeMux, method, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, http.NoBody)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestSwaggerHandler(t *testing.T) {
	convey.Convey("Given the docs routes", t, func() {
		ctx := context.Background()
		mux := http.NewServeMux()
		Register(ctx, mux)

		convey.Convey("Then /openapi.yaml serves the embedded document", func() {
			w := get(mux, http.MethodGet, "/openapi.yaml", nil)
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Header().Get("Content-Type"), convey.ShouldEqual, "application/yaml; charset=utf-8")
			convey.So(w.Body.String(), convey.ShouldContainSubstring, "openapi: 3.0.3")
			convey.So(w.Body.String(), convey.ShouldContainSubstring, "/values/{category}/{field}")

			convey.Convey("And a matching ETag revalidates without a body", func() {
				again := get(mux, http.MethodGet, "/openapi.yaml", http.Header{"If-None-Match": {w.Header().Get("ETag")}})
				convey.So(again.Code, convey.ShouldEqual, http.StatusNotModified)
				convey.So(again.Body.Len(), convey.ShouldEqual, 0)
			})
		})

		convey.Convey("Then /openapi.json serves the same document as JSON", func() {
			w := get(mux, http.MethodGet, "/openapi.json", nil)
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			var doc struct {
				OpenAPI string                    `json:"openapi"`
				Paths   map[string]map[string]any `json:"paths"`
			}
			convey.So(json.Unmarshal(w.Body.Bytes(), &doc), convey.ShouldBeNil)
			convey.So(doc.OpenAPI, convey.ShouldEqual, "3.0.3")
			convey.So(doc.Paths, convey.ShouldContainKey, "/fire")
			convey.So(doc.Paths["/fire"], convey.ShouldContainKey, "post")
		})

		convey.Convey("Then /api-docs serves the ReDoc page", func() {
			w := get(mux, http.MethodGet, "/api-docs", nil)
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Header().Get("Content-Type"), convey.ShouldEqual, "text/html; charset=utf-8")
			convey.So(w.Body.String(), convey.ShouldContainSubstring, "Cockpit API Docs")
			convey.So(w.Body.String(), convey.ShouldContainSubstring, redocURL)
		})

		convey.Convey("Then other methods are refused", func() {
			w := get(mux, http.MethodPost, "/openapi.yaml", nil)
			convey.So(w.Code, convey.ShouldEqual, http.StatusMethodNotAllowed)
			convey.So(w.Header().Get("Allow"), convey.ShouldEqual, "GET, HEAD")
		})
	})

	convey.Convey("Given a nil mux", t, func() {
		convey.So(func() { Register(context.Background(), nil) }, convey.ShouldPanic)
	})
}
