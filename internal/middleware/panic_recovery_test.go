package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"pfm-api/internal/errors"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

type PanicRecoveryTestSuite struct {
	suite.Suite
	e      *echo.Echo
	logs   *bytes.Buffer
	logger *slog.Logger
}

func TestPanicRecoveryTestSuite(t *testing.T) {
	suite.Run(t, new(PanicRecoveryTestSuite))
}

func (s *PanicRecoveryTestSuite) SetupTest() {
	s.e = echo.New()
	s.logs = &bytes.Buffer{}
	s.logger = slog.New(slog.NewJSONHandler(s.logs, nil))
}

func (s *PanicRecoveryTestSuite) run(traceID string, next echo.HandlerFunc) (*httptest.ResponseRecorder, error) {
	rec := httptest.NewRecorder()
	c := s.e.NewContext(httptest.NewRequest(http.MethodPost, "/api/v1/transactions/import", nil), rec)
	if traceID != "" {
		c.Set(TraceIDContextKey, traceID)
	}

	var err error
	s.NotPanics(func() {
		err = PanicRecovery(s.logger)(next)(c)
	})
	return rec, err
}

func (s *PanicRecoveryTestSuite) decode(rec *httptest.ResponseRecorder) errors.ErrorResponse {
	var resp errors.ErrorResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func (s *PanicRecoveryTestSuite) TestRecoversWithTraceID() {
	rec, err := s.run("trace-123", func(c echo.Context) error {
		var rows map[string]string
		rows["boom"] = "nil map"
		return nil
	})

	s.NoError(err)
	s.Equal(http.StatusInternalServerError, rec.Code)
	resp := s.decode(rec)
	s.Equal(string(errors.SystemInternalError), resp.Error.Code)
	s.Equal("trace-123", resp.Error.TraceID)

	s.Contains(s.logs.String(), `"trace_id":"trace-123"`)
	s.Contains(s.logs.String(), `"path":"/api/v1/transactions/import"`)
	s.Contains(s.logs.String(), "stack_trace")
}

func (s *PanicRecoveryTestSuite) TestUnknownTraceID() {
	rec, _ := s.run("", func(c echo.Context) error { panic("no trace") })

	s.Equal("unknown", s.decode(rec).Error.TraceID)
}

func (s *PanicRecoveryTestSuite) TestPanicValues() {
	for name, value := range map[string]interface{}{
		"string": "boom",
		"error":  fmt.Errorf("database unavailable"),
		"nil":    nil,
	} {
		s.Run(name, func() {
			rec, err := s.run("t", func(c echo.Context) error { panic(value) })
			s.NoError(err)
			s.Equal(http.StatusInternalServerError, rec.Code)
		})
	}
}

func (s *PanicRecoveryTestSuite) TestCommittedResponseIsLeftAlone() {
	rec, err := s.run("t", func(c echo.Context) error {
		_ = c.String(http.StatusAccepted, "partial")
		panic("after write")
	})

	s.NoError(err)
	s.Equal(http.StatusAccepted, rec.Code)
	s.Equal("partial", rec.Body.String())
}

func (s *PanicRecoveryTestSuite) TestPassesThrough() {
	rec, err := s.run("t", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	s.NoError(err)
	s.Equal(http.StatusNoContent, rec.Code)
	s.Empty(s.logs.String())
}
