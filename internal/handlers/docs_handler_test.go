package handlers

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

const testOpenAPI = `openapi: 3.0.3
info:
  title: PFM API
  version: "1.0"
paths:
  /health:
    get:
      summary: Health check
`

type DocsHandlerSuite struct {
	suite.Suite
	dir string
	e   *echo.Echo
}

func TestDocsHandlerSuite(t *testing.T) {
	suite.Run(t, new(DocsHandlerSuite))
}

func (s *DocsHandlerSuite) SetupTest() {
	s.dir = s.T().TempDir()
	s.e = echo.New()
}

func (s *DocsHandlerSuite) write(name, content string) {
	s.Require().NoError(os.WriteFile(filepath.Join(s.dir, name), []byte(content), 0o600))
}

func (s *DocsHandlerSuite) get(handler echo.HandlerFunc, target string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.Require().NoError(handler(s.e.NewContext(req, rec)))
	return rec
}

func (s *DocsHandlerSuite) TestServeUI() {
	s.write("index.html", `<html><body><script id="api-reference" data-url="/docs/openapi.json"></script></body></html>`)
	h := NewDocsHandler(s.dir)

	rec := s.get(h.ServeUI, "/docs", nil)

	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Header().Get("Content-Type"), "text/html")
	s.Contains(rec.Body.String(), "/docs/openapi.json")
	s.NotEmpty(rec.Header().Get("ETag"))
}

func (s *DocsHandlerSuite) TestServeUI_NotModified() {
	s.write("index.html", "<html></html>")
	h := NewDocsHandler(s.dir)

	rec := s.get(h.ServeUI, "/docs", map[string]string{"If-None-Match": h.pageETag})

	s.Equal(http.StatusNotModified, rec.Code)
}

func (s *DocsHandlerSuite) TestServeUI_Missing() {
	h := NewDocsHandler(s.dir)

	req := httptest.NewRequest(http.MethodGet, "/docs", nil)
	err := h.ServeUI(s.e.NewContext(req, httptest.NewRecorder()))

	s.Equal(echo.ErrNotFound, err)
}

func (s *DocsHandlerSuite) TestServeOpenAPI_ConvertsYAML() {
	s.write("openapi.yaml", testOpenAPI)
	h := NewDocsHandler(s.dir)

	rec := s.get(h.ServeOpenAPI, "/docs/openapi.json", nil)

	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Header().Get("Content-Type"), "application/json")
	s.Contains(rec.Body.String(), `"openapi":"3.0.3"`)
	s.Contains(rec.Body.String(), `"summary":"Health check"`)
	s.Equal("*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func (s *DocsHandlerSuite) TestServeOpenAPI_InvalidDocument() {
	s.write("openapi.yaml", "info:\n  title: no version\n")
	h := NewDocsHandler(s.dir)

	req := httptest.NewRequest(http.MethodGet, "/docs/openapi.json", nil)
	err := h.ServeOpenAPI(s.e.NewContext(req, httptest.NewRecorder()))

	s.Equal(echo.ErrNotFound, err)
}
