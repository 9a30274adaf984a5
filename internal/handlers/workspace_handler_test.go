package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pfm-api/internal/dto"
	"pfm-api/internal/services/service_mocks"
	"pfm-api/internal/workspace"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

type WorkspaceHandlerSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	service *service_mocks.MockWorkspaceServiceInterface
	handler *WorkspaceHandler
	e       *echo.Echo
	userID  uuid.UUID
}

func TestWorkspaceHandlerSuite(t *testing.T) {
	suite.Run(t, new(WorkspaceHandlerSuite))
}

func (s *WorkspaceHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.service = service_mocks.NewMockWorkspaceServiceInterface(s.ctrl)
	s.handler = NewWorkspaceHandler(s.service)
	s.e = echo.New()
	s.userID = uuid.New()
}

func (s *WorkspaceHandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *WorkspaceHandlerSuite) rawContext(method, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, "/workspace", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := s.e.NewContext(req, rec)
	c.Set("user_id", s.userID)
	return c, rec
}

func (s *WorkspaceHandlerSuite) TestGetWorkspace() {
	s.service.EXPECT().Get(s.userID).Return(&dto.WorkspaceResponse{State: workspace.DefaultState()}, nil)

	c, rec := s.rawContext(http.MethodGet, "")

	s.NoError(s.handler.GetWorkspace(c))
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"balances"`)
}

func (s *WorkspaceHandlerSuite) TestDispatchAction_PassesRawBody() {
	body := `{"type":"set_holding","payload":{"symbol":"VTI","shares":"10"}}`
	s.service.EXPECT().
		Dispatch(gomock.Any(), s.userID, []byte(body)).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, _ []byte) (*dto.WorkspaceResponse, error) {
			return &dto.WorkspaceResponse{State: workspace.DefaultState(), Version: 2, UpdatedAt: time.Now()}, nil
		})

	c, rec := s.rawContext(http.MethodPost, body)

	s.NoError(s.handler.DispatchAction(c))
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"version":2`)
}

func (s *WorkspaceHandlerSuite) TestDispatchAction_Errors() {
	s.Run("unknown action", func() {
		s.service.EXPECT().Dispatch(gomock.Any(), s.userID, gomock.Any()).Return(nil, workspace.ErrUnknownAction)

		c, rec := s.rawContext(http.MethodPost, `{"type":"explode"}`)

		s.NoError(s.handler.DispatchAction(c))
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Contains(rec.Body.String(), "WORKSPACE_001")
	})

	s.Run("negative amount", func() {
		s.service.EXPECT().Dispatch(gomock.Any(), s.userID, gomock.Any()).Return(nil, workspace.ErrNegativeAmount)

		c, rec := s.rawContext(http.MethodPost, `{"type":"set_budget_amount","payload":{"category":"Food","amount":"-1"}}`)

		s.NoError(s.handler.DispatchAction(c))
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Contains(rec.Body.String(), "WORKSPACE_002")
	})

	s.Run("empty body", func() {
		c, rec := s.rawContext(http.MethodPost, "")

		s.NoError(s.handler.DispatchAction(c))
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Contains(rec.Body.String(), "body is empty")
	})
}

func (s *WorkspaceHandlerSuite) TestExportWorkspace() {
	s.service.EXPECT().Export(s.userID).Return([]byte(`{"balances":{}}`), nil)

	c, rec := s.rawContext(http.MethodGet, "")

	s.NoError(s.handler.ExportWorkspace(c))
	s.Equal(http.StatusOK, rec.Code)
	s.Equal(`{"balances":{}}`, rec.Body.String())
	s.Contains(rec.Header().Get(echo.HeaderContentDisposition), "workspace.json")
}

func (s *WorkspaceHandlerSuite) TestImportWorkspace() {
	s.service.EXPECT().Import(gomock.Any(), s.userID, []byte(`{"holdings":{"VTI":"3"}}`)).
		Return(&dto.WorkspaceResponse{State: workspace.DefaultState(), Version: 1}, nil)

	c, rec := s.rawContext(http.MethodPost, `{"holdings":{"VTI":"3"}}`)

	s.NoError(s.handler.ImportWorkspace(c))
	s.Equal(http.StatusOK, rec.Code)
}

func (s *WorkspaceHandlerSuite) TestResetWorkspace() {
	s.service.EXPECT().Reset(gomock.Any(), s.userID).Return(nil)

	c, rec := s.rawContext(http.MethodDelete, "")

	s.NoError(s.handler.ResetWorkspace(c))
	s.Equal(http.StatusOK, rec.Code)
}
