package handlers

import (
	"crypto/md5"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"
	"gopkg.in/yaml.v3"
)

// DocsHandler serves the API reference page and its OpenAPI document
type DocsHandler struct {
	page     []byte
	pageETag string
	openAPI  map[string]interface{}
}

// NewDocsHandler loads index.html and openapi.yaml from dir. Missing files
// leave the matching endpoint answering 404.
func NewDocsHandler(dir string) *DocsHandler {
	h := &DocsHandler{}

	if page, err := os.ReadFile(filepath.Join(dir, "index.html")); err == nil {
		h.page = page
		h.pageETag = etagFor(page)
	}

	if raw, err := os.ReadFile(filepath.Join(dir, "openapi.yaml")); err == nil {
		doc, err := parseOpenAPI(raw)
		if err == nil {
			h.openAPI = doc
		}
	}

	return h
}

// parseOpenAPI decodes a YAML OpenAPI document into a JSON-encodable map
func parseOpenAPI(raw []byte) (map[string]interface{}, error) {
	var doc map[string]interface{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse openapi document: %w", err)
	}
	if doc["openapi"] == nil {
		return nil, fmt.Errorf("parse openapi document: missing openapi version")
	}
	return doc, nil
}

// ServeUI serves the API reference page
// @Summary API Documentation UI
// @Tags Documentation
// @Produce html
// @Success 200 {string} string "HTML page"
// @Router /docs [get]
func (h *DocsHandler) ServeUI(c echo.Context) error {
	if len(h.page) == 0 {
		return echo.ErrNotFound
	}

	c.Response().Header().Set("Cache-Control", "no-cache")
	c.Response().Header().Set("ETag", h.pageETag)
	if c.Request().Header.Get("If-None-Match") == h.pageETag {
		return c.NoContent(http.StatusNotModified)
	}

	return c.HTMLBlob(http.StatusOK, h.page)
}

// ServeOpenAPI serves the OpenAPI document as JSON for the reference page
func (h *DocsHandler) ServeOpenAPI(c echo.Context) error {
	if h.openAPI == nil {
		return echo.ErrNotFound
	}

	c.Response().Header().Set("Access-Control-Allow-Origin", "*")
	c.Response().Header().Set("Cache-Control", "public, max-age=300")
	return c.JSON(http.StatusOK, h.openAPI)
}

func etagFor(data []byte) string {
	return fmt.Sprintf("\"%x\"", md5.Sum(data))
}
