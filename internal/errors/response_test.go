package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ResponseTestSuite struct {
	suite.Suite
}

func TestResponseTestSuite(t *testing.T) {
	suite.Run(t, new(ResponseTestSuite))
}

func (s *ResponseTestSuite) TestNewErrorResponse_Defaults() {
	resp := NewErrorResponse(CategoryNotFound, "trace-1")

	s.Equal("CATEGORY_001", resp.Error.Code)
	s.Equal("Category not found", resp.Error.Message)
	s.Equal("trace-1", resp.Error.TraceID)
	s.Empty(resp.Error.Details)
}

func (s *ResponseTestSuite) TestNewErrorResponse_Options() {
	resp := NewErrorResponse(RuleInvalidPattern, "t",
		WithDetails("pattern: nested repetition"),
		WithMessage("Pattern rejected"),
		WithDetails("pattern: too long"),
	)

	s.Equal("Pattern rejected", resp.Error.Message)
	s.Equal([]string{"pattern: too long"}, resp.Error.Details)
}

func (s *ResponseTestSuite) TestNewValidationError_SortedDetails() {
	resp := NewValidationError(map[string]string{
		"month":       "must be a month in YYYY-MM format",
		"account_id":  "is required",
		"description": "must be at most 500",
	}, "t")

	s.Equal(string(ValidationGeneral), resp.Error.Code)
	s.Equal([]string{
		"account_id: is required",
		"description: must be at most 500",
		"month: must be a month in YYYY-MM format",
	}, resp.Error.Details)
}

func (s *ResponseTestSuite) TestWrapSystemError_HidesCause() {
	cause := fmt.Errorf("pq: relation \"transactions\" does not exist")

	resp, returned := WrapSystemError(cause, "t")

	s.Equal(cause, returned)
	s.Equal(string(SystemInternalError), resp.Error.Code)
	body, err := json.Marshal(resp)
	s.Require().NoError(err)
	s.NotContains(string(body), "relation")
}

func (s *ResponseTestSuite) TestGetHTTPStatus() {
	testCases := []struct {
		code   ErrorCode
		status int
	}{
		{ValidationInvalidMonth, http.StatusBadRequest},
		{WorkspaceUnknownAction, http.StatusBadRequest},
		{AuthExpiredToken, http.StatusUnauthorized},
		{AuthAccountLocked, http.StatusForbidden},
		{TransactionNotFound, http.StatusNotFound},
		{RuleDuplicate, http.StatusConflict},
		{TransactionImportFailed, http.StatusUnprocessableEntity},
		{SystemRateLimitExceeded, http.StatusTooManyRequests},
		{QuoteFeedUnavailable, http.StatusServiceUnavailable},
		{SystemDatabaseError, http.StatusInternalServerError},
		{"UNKNOWN_999", http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		s.Run(string(tc.code), func() {
			s.Equal(tc.status, GetHTTPStatus(tc.code))
			s.Equal(tc.status, NewErrorResponse(tc.code, "t").GetHTTPStatus())
		})
	}
}

func (s *ResponseTestSuite) TestEveryCodeHasOneStatus() {
	seen := make(map[ErrorCode]int)
	for status, codes := range httpStatuses {
		for _, code := range codes {
			prev, dup := seen[code]
			s.False(dup, "%s mapped to %d and %d", code, prev, status)
			s.True(IsValidErrorCode(code), "%s is not registered", code)
			seen[code] = status
		}
	}
}

func (s *ResponseTestSuite) TestJSONShape() {
	body, err := json.Marshal(NewErrorResponse(AuthMissingToken, "abc", WithDetails("cookie missing")))
	s.Require().NoError(err)

	s.JSONEq(`{"error":{"code":"AUTH_002","message":"Authorization token is required","details":["cookie missing"],"trace_id":"abc"}}`, string(body))
}
