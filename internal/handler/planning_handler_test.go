package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/opticampus/lab-scheduler/internal/dto"
	appErrors "github.com/opticampus/lab-scheduler/pkg/errors"
)

type planningServiceMock struct {
	generateResp *dto.GeneratePlanResponse
	createResp   *dto.PlanningRunView
	listResp     []dto.PlanningRunSummaryView
	getResp      *dto.PlanningRunView
	commitResp   *dto.PlanningRunView
	err          error

	capturedTermID string
	capturedID     string
	deleteCalled   bool
}

func (m *planningServiceMock) Generate(ctx context.Context, termID string) (*dto.GeneratePlanResponse, error) {
	m.capturedTermID = termID
	if m.err != nil {
		return nil, m.err
	}
	return m.generateResp, nil
}

func (m *planningServiceMock) Create(ctx context.Context, termID string) (*dto.PlanningRunView, error) {
	m.capturedTermID = termID
	if m.err != nil {
		return nil, m.err
	}
	return m.createResp, nil
}

func (m *planningServiceMock) List(ctx context.Context, termID string) ([]dto.PlanningRunSummaryView, error) {
	m.capturedTermID = termID
	if m.err != nil {
		return nil, m.err
	}
	return m.listResp, nil
}

func (m *planningServiceMock) Get(ctx context.Context, id string) (*dto.PlanningRunView, error) {
	m.capturedID = id
	if m.err != nil {
		return nil, m.err
	}
	return m.getResp, nil
}

func (m *planningServiceMock) Commit(ctx context.Context, id string) (*dto.PlanningRunView, error) {
	m.capturedID = id
	if m.err != nil {
		return nil, m.err
	}
	return m.commitResp, nil
}

func (m *planningServiceMock) Delete(ctx context.Context, id string) error {
	m.capturedID = id
	m.deleteCalled = true
	return m.err
}

func TestPlanningHandlerGenerateSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &planningServiceMock{generateResp: &dto.GeneratePlanResponse{TermID: "term-1", ConflictCount: 2, AdvisoryCount: 1}}
	handler := &PlanningHandler{plans: mockSvc}

	body := []byte(`{"termId":"term-1"}`)
	req, _ := http.NewRequest(http.MethodPost, "/plans/generate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.Generate(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "term-1", mockSvc.capturedTermID)
}

func TestPlanningHandlerGenerateInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := &PlanningHandler{plans: &planningServiceMock{}}

	req, _ := http.NewRequest(http.MethodPost, "/plans/generate", bytes.NewReader([]byte(`{"termId":`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.Generate(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlanningHandlerCreateSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &planningServiceMock{createResp: &dto.PlanningRunView{ID: "run-1", TermID: "term-1"}}
	handler := &PlanningHandler{plans: mockSvc}

	body := []byte(`{"termId":"term-1"}`)
	req, _ := http.NewRequest(http.MethodPost, "/plans", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "term-1", mockSvc.capturedTermID)
}

func TestPlanningHandlerListRequiresTermID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := &PlanningHandler{plans: &planningServiceMock{}}

	req, _ := http.NewRequest(http.MethodGet, "/plans", nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.List(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlanningHandlerListSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &planningServiceMock{listResp: []dto.PlanningRunSummaryView{{ID: "run-1", TermID: "term-1"}}}
	handler := &PlanningHandler{plans: mockSvc}

	req, _ := http.NewRequest(http.MethodGet, "/plans?termId=term-1", nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "term-1", mockSvc.capturedTermID)
}

func TestPlanningHandlerGetNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &planningServiceMock{err: appErrors.ErrPlanNotFound}
	handler := &PlanningHandler{plans: mockSvc}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}
	req, _ := http.NewRequest(http.MethodGet, "/plans/missing", nil)
	c.Request = req

	handler.Get(c)

	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "missing", mockSvc.capturedID)
}

func TestPlanningHandlerCommitSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &planningServiceMock{commitResp: &dto.PlanningRunView{ID: "run-1", TermID: "term-1"}}
	handler := &PlanningHandler{plans: mockSvc}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "run-1"}}
	req, _ := http.NewRequest(http.MethodPost, "/plans/run-1/commit", nil)
	c.Request = req

	handler.Commit(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "run-1", mockSvc.capturedID)
}

func TestPlanningHandlerDeleteSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &planningServiceMock{}
	handler := &PlanningHandler{plans: mockSvc}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "run-1"}}
	req, _ := http.NewRequest(http.MethodDelete, "/plans/run-1", nil)
	c.Request = req

	handler.Delete(c)

	require.Equal(t, http.StatusNoContent, w.Code)
	require.True(t, mockSvc.deleteCalled)
}

func TestPlanningHandlerDeleteConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &planningServiceMock{err: appErrors.ErrPlanAlreadyFinal}
	handler := &PlanningHandler{plans: mockSvc}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "run-1"}}
	req, _ := http.NewRequest(http.MethodDelete, "/plans/run-1", nil)
	c.Request = req

	handler.Delete(c)

	require.Equal(t, appErrors.ErrPlanAlreadyFinal.Status, w.Code)
}
