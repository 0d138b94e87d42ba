package workitems

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"gitlab.com/meshopt-cloud.net/internal/adapter/logging"
	"gitlab.com/meshopt-cloud.net/internal/core/services/submission"
	"gitlab.com/meshopt-cloud.net/internal/domain"
	"gitlab.com/meshopt-cloud.net/internal/static/errs"
)

type fakeSubmission struct {
	lastRequest *submission.SubmitRequest
	result      *submission.SubmitResult
	err         error
}

func (f *fakeSubmission) Submit(ctx context.Context, req *submission.SubmitRequest) (*submission.SubmitResult, error) {
	f.lastRequest = req
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeNotification struct {
	lastEvent *domain.CompletionEvent
	err       error
}

func (f *fakeNotification) HandleCompletion(ctx context.Context, event *domain.CompletionEvent) error {
	f.lastEvent = event
	return f.err
}

func (f *fakeNotification) GetResult(ctx context.Context, jobID uuid.UUID) (*domain.CompletionResult, error) {
	return nil, nil
}

func newTestRouter(submissions *fakeSubmission, notifications *fakeNotification) *mux.Router {
	handler := NewWorkItemHandler(submissions, notifications, logging.NewZapLogger())
	router := mux.NewRouter()
	handler.RegisterRoutes(router)
	return router
}

func multipartSubmission(t *testing.T, data string, withFile bool) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("data", data))
	if withFile {
		part, err := writer.CreateFormFile("inputFile", "model.max")
		require.NoError(t, err)
		_, err = io.WriteString(part, "model bytes")
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func TestCreateWorkItemAcceptsSubmission(t *testing.T) {
	jobID := uuid.New()
	submissions := &fakeSubmission{
		result: &submission.SubmitResult{JobID: jobID, WorkItemID: "wi-1"},
	}
	router := newTestRouter(submissions, &fakeNotification{})

	body, contentType := multipartSubmission(t, `{"percent":"10,20","KeepNormals":true,"CollapseStack":false,"activityName":"ProOptimizer"}`, true)
	req := httptest.NewRequest(http.MethodPost, "/api/automation/workitems", body)
	req.Header.Set("Content-Type", contentType)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusAccepted, recorder.Code)

	var result submission.SubmitResult
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &result))
	require.Equal(t, jobID, result.JobID)
	require.Equal(t, "wi-1", result.WorkItemID)

	require.NotNil(t, submissions.lastRequest)
	require.Equal(t, "model.max", submissions.lastRequest.FileName)
	require.Equal(t, "ProOptimizer", submissions.lastRequest.ActivityName)
	require.Equal(t, "10,20", submissions.lastRequest.Percent)
	require.True(t, submissions.lastRequest.KeepNormals)
}

func TestCreateWorkItemMapsValidationErrors(t *testing.T) {
	submissions := &fakeSubmission{err: errs.ErrNoInputFile}
	router := newTestRouter(submissions, &fakeNotification{})

	body, contentType := multipartSubmission(t, `{"activityName":"ProOptimizer"}`, false)
	req := httptest.NewRequest(http.MethodPost, "/api/automation/workitems", body)
	req.Header.Set("Content-Type", contentType)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusBadRequest, recorder.Code)
	require.Nil(t, submissions.lastRequest.File)
}

func TestCreateWorkItemMapsUpstreamErrors(t *testing.T) {
	submissions := &fakeSubmission{err: errors.New("automation service returned status 500")}
	router := newTestRouter(submissions, &fakeNotification{})

	body, contentType := multipartSubmission(t, `{"activityName":"ProOptimizer"}`, true)
	req := httptest.NewRequest(http.MethodPost, "/api/automation/workitems", body)
	req.Header.Set("Content-Type", contentType)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusBadGateway, recorder.Code)
}

func TestCallbackRespondsEmptySuccess(t *testing.T) {
	notifications := &fakeNotification{}
	router := newTestRouter(&fakeSubmission{}, notifications)

	jobID := uuid.New()
	target := "/api/automation/callback?id=" + jobID.String() + "&outputFileName=out.zip&token=tok"
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(`{"reportUrl":"https://report.example.com"}`))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	require.Empty(t, recorder.Body.String())

	require.NotNil(t, notifications.lastEvent)
	require.Equal(t, jobID, notifications.lastEvent.JobID)
	require.Equal(t, "out.zip", notifications.lastEvent.OutputObjectKey)
	require.Equal(t, "https://report.example.com", notifications.lastEvent.ReportURL)
	require.Equal(t, "tok", notifications.lastEvent.Token)
}

func TestCallbackSwallowsProcessingFailure(t *testing.T) {
	notifications := &fakeNotification{err: errors.New("report fetch failed")}
	router := newTestRouter(&fakeSubmission{}, notifications)

	target := "/api/automation/callback?id=" + uuid.NewString() + "&outputFileName=out.zip&token=tok"
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(`{"reportUrl":"https://report.example.com"}`))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	require.Empty(t, recorder.Body.String())
}

func TestCallbackToleratesMalformedRequest(t *testing.T) {
	notifications := &fakeNotification{}
	router := newTestRouter(&fakeSubmission{}, notifications)

	req := httptest.NewRequest(http.MethodPost, "/api/automation/callback?id=not-a-uuid", strings.NewReader("not json"))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	require.Empty(t, recorder.Body.String())
	require.Nil(t, notifications.lastEvent)
}
