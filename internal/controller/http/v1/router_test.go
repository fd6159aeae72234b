package httpv1

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Egor213/LogBoard/internal/domain"
	servicemocks "github.com/Egor213/LogBoard/internal/mocks/service"
	"github.com/Egor213/LogBoard/internal/repo/repotypes"
	"github.com/Egor213/LogBoard/internal/service"
	errorsUtils "github.com/Egor213/LogBoard/pkg/errors"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

type serviceMocks struct {
	log       *servicemocks.MockLog
	analytics *servicemocks.MockAnalytics
	export    *servicemocks.MockExport
	metadata  *servicemocks.MockMetadata
}

func newTestServer(t *testing.T, ping error) (*echo.Echo, serviceMocks) {
	ctrl := gomock.NewController(t)
	m := serviceMocks{
		log:       servicemocks.NewMockLog(ctrl),
		analytics: servicemocks.NewMockAnalytics(ctrl),
		export:    servicemocks.NewMockExport(ctrl),
		metadata:  servicemocks.NewMockMetadata(ctrl),
	}

	e := echo.New()
	SetupMiddleware(e, MiddlewareConfig{CORSOrigins: []string{"*"}})
	ConfigureRouter(e, &service.Services{
		Log:       m.log,
		Analytics: m.analytics,
		Export:    m.export,
		Metadata:  m.metadata,
	}, NewHealthChecker(pingFunc(func(context.Context) error { return ping })), AppInfo{
		Name:        "logboard",
		Version:     "test",
		MetricsPath: "/metrics",
	})
	return e, m
}

func doRequest(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()

	var resp struct {
		Error struct {
			Message string         `json:"message"`
			Code    int            `json:"code"`
			Details map[string]any `json:"details"`
		} `json:"error"`
		Success   bool   `json:"success"`
		RequestID string `json:"request_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return errorResponse{
		Error:     errorBody{Message: resp.Error.Message, Code: resp.Error.Code, Details: resp.Error.Details},
		Success:   resp.Success,
		RequestID: resp.RequestID,
	}
}

func TestLogRoutes_Create(t *testing.T) {
	testCases := []struct {
		name         string
		body         string
		mockBehavior func(m serviceMocks)
		wantStatus   int
		wantCode     int
	}{
		{
			name: "created",
			body: `{"message":"Test log message","severity":"INFO","source":"test-service"}`,
			mockBehavior: func(m serviceMocks) {
				m.log.EXPECT().Create(gomock.Any(), service.CreateLogInput{
					Message:  "Test log message",
					Severity: domain.SeverityInfo,
					Source:   "test-service",
				}).Return(domain.LogEntry{ID: 1, Message: "Test log message", Severity: domain.SeverityInfo, Source: "test-service"}, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:         "unknown severity is rejected before the service",
			body:         `{"message":"m","severity":"TRACE","source":"s"}`,
			mockBehavior: func(m serviceMocks) {},
			wantStatus:   http.StatusUnprocessableEntity,
			wantCode:     CodeValidation,
		},
		{
			name:         "malformed timestamp",
			body:         `{"message":"m","severity":"INFO","source":"s","timestamp":"yesterday"}`,
			mockBehavior: func(m serviceMocks) {},
			wantStatus:   http.StatusUnprocessableEntity,
			wantCode:     CodeValidation,
		},
		{
			name: "business rule failure",
			body: `{"message":"   ","severity":"INFO","source":"s"}`,
			mockBehavior: func(m serviceMocks) {
				m.log.EXPECT().Create(gomock.Any(), gomock.Any()).Return(domain.LogEntry{}, &service.ValidationError{
					Message:    "invalid log entry",
					Violations: []service.FieldViolation{{Field: "message", Reason: "must not be empty or whitespace"}},
				})
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   CodeValidation,
		},
		{
			name: "store failure",
			body: `{"message":"m","severity":"INFO","source":"s"}`,
			mockBehavior: func(m serviceMocks) {
				m.log.EXPECT().Create(gomock.Any(), gomock.Any()).Return(domain.LogEntry{}, &service.StoreError{
					Operation: "create log",
					Category:  errorsUtils.CategoryConnectionRefused,
					Err:       errors.New("dial tcp: connection refused"),
				})
			},
			wantStatus: http.StatusInternalServerError,
			wantCode:   CodeStore,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			e, m := newTestServer(t, nil)
			tc.mockBehavior(m)

			rec := doRequest(e, http.MethodPost, "/api/v1/logs", tc.body)

			require.Equal(t, tc.wantStatus, rec.Code, rec.Body.String())
			if tc.wantCode != 0 {
				resp := decodeError(t, rec)
				assert.Equal(t, tc.wantCode, resp.Error.Code)
				assert.False(t, resp.Success)
				assert.NotEmpty(t, resp.RequestID)
				assert.Equal(t, rec.Header().Get(echo.HeaderXRequestID), resp.RequestID)
			}
		})
	}
}

func TestLogRoutes_List(t *testing.T) {
	e, m := newTestServer(t, nil)

	m.log.EXPECT().List(gomock.Any(), service.ListLogsInput{
		Filter:    repotypes.LogFilter{Severity: domain.SeverityError, Source: "api", Search: "timeout"},
		SortBy:    "severity",
		SortOrder: "asc",
		Page:      lo.ToPtr(3),
		PageSize:  lo.ToPtr(2),
	}).Return(domain.LogPage{Logs: []domain.LogEntry{{ID: 1}}, Total: 5, Page: 3, PageSize: 2, TotalPages: 3}, nil)

	rec := doRequest(e, http.MethodGet, "/api/v1/logs?severity=ERROR&source=api&search=timeout&sort_by=severity&sort_order=asc&page=3&page_size=2", "")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var page domain.LogPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Len(t, page.Logs, 1)
	assert.Equal(t, 3, page.TotalPages)
}

func TestLogRoutes_List_BadParams(t *testing.T) {
	e, _ := newTestServer(t, nil)

	for _, target := range []string{
		"/api/v1/logs?page=abc",
		"/api/v1/logs?severity=LOUD",
		"/api/v1/logs?start_date=not-a-date",
	} {
		rec := doRequest(e, http.MethodGet, target, "")
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, target)
	}
}

func TestLogRoutes_GetUpdateDelete(t *testing.T) {
	e, m := newTestServer(t, nil)

	msg := "changed"
	gomock.InOrder(
		m.log.EXPECT().Get(gomock.Any(), int64(4)).Return(domain.LogEntry{ID: 4}, nil),
		m.log.EXPECT().Update(gomock.Any(), int64(4), domain.LogUpdate{Message: &msg}).Return(domain.LogEntry{ID: 4, Message: msg}, nil),
		m.log.EXPECT().Delete(gomock.Any(), int64(4)).Return(nil),
		m.log.EXPECT().Delete(gomock.Any(), int64(4)).Return(errorsUtils.WrapPathErr(fmt.Errorf("%w: id 4", service.ErrLogNotFound))),
	)

	rec := doRequest(e, http.MethodGet, "/api/v1/logs/4", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(e, http.MethodPatch, "/api/v1/logs/4", `{"message":"changed","id":99}`)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doRequest(e, http.MethodDelete, "/api/v1/logs/4", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Log 4 deleted successfully"}`, rec.Body.String())

	rec = doRequest(e, http.MethodDelete, "/api/v1/logs/4", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, CodeNotFound, resp.Error.Code)
	assert.Equal(t, map[string]any{"resource_id": "4"}, resp.Error.Details)
}

func TestLogRoutes_BadID(t *testing.T) {
	e, _ := newTestServer(t, nil)

	rec := doRequest(e, http.MethodGet, "/api/v1/logs/abc", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAnalyticsRoutes(t *testing.T) {
	e, m := newTestServer(t, nil)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m.analytics.EXPECT().Aggregate(gomock.Any(), repotypes.LogFilter{StartDate: &start}).
		Return(domain.Aggregation{TotalLogs: 2, DateRangeStart: &start}, nil)
	m.analytics.EXPECT().ChartSeries(gomock.Any(), repotypes.LogFilter{Source: "api"}, "hour").
		Return(domain.ChartSeries{GroupBy: domain.BucketHour, Data: []domain.ChartPoint{}}, nil)
	m.metadata.EXPECT().Snapshot(gomock.Any()).
		Return(domain.Metadata{TotalLogs: 2, SeverityLevels: domain.Severities}, nil)

	rec := doRequest(e, http.MethodGet, "/api/v1/logs/aggregation?start_date=2024-01-01T00:00:00Z", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"total_logs":2`)

	rec = doRequest(e, http.MethodGet, "/api/v1/logs/chart-data?source=api&group_by=hour", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"group_by":"hour"`)

	rec = doRequest(e, http.MethodGet, "/api/v1/logs/metadata", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"severity_levels":["DEBUG","INFO","WARNING","ERROR","CRITICAL"]`)
}

func TestExportRoutes_CSV(t *testing.T) {
	testCases := []struct {
		name         string
		mockBehavior func(m serviceMocks)
		wantStatus   int
		wantCSV      bool
	}{
		{
			name: "streamed",
			mockBehavior: func(m serviceMocks) {
				m.export.EXPECT().ExportCSV(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ repotypes.LogFilter, w io.Writer) error {
						_, err := io.WriteString(w, "id,timestamp,severity,source,message,created_at\n")
						return err
					})
			},
			wantStatus: http.StatusOK,
			wantCSV:    true,
		},
		{
			name: "failure before output is reported as json",
			mockBehavior: func(m serviceMocks) {
				m.export.EXPECT().ExportCSV(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(&service.StoreError{Operation: "csv export", Category: errorsUtils.CategoryConnectionTimeout, Err: context.DeadlineExceeded})
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			e, m := newTestServer(t, nil)
			tc.mockBehavior(m)

			rec := doRequest(e, http.MethodGet, "/api/v1/logs/export/csv", "")

			require.Equal(t, tc.wantStatus, rec.Code)
			if tc.wantCSV {
				assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get(echo.HeaderContentType))
				assert.Equal(t, "attachment; filename=logs_export.csv", rec.Header().Get(echo.HeaderContentDisposition))
				assert.True(t, strings.HasPrefix(rec.Body.String(), "id,timestamp"))
				return
			}
			assert.Equal(t, CodeStore, decodeError(t, rec).Error.Code)
		})
	}
}

func TestExportRoutes_CSV_FailureAfterOutputAbortsResponse(t *testing.T) {
	e, m := newTestServer(t, nil)
	m.export.EXPECT().ExportCSV(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ repotypes.LogFilter, w io.Writer) error {
			_, _ = io.WriteString(w, "id,timestamp,severity,source,message,created_at\n1,2024-01-01T00:00:00Z,INFO,api,ok,")
			return errors.New("read: connection reset by peer")
		})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/logs/export/csv", nil)
	rec := httptest.NewRecorder()

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		e.ServeHTTP(rec, req)
	})
	assert.True(t, strings.HasPrefix(rec.Body.String(), "id,timestamp"))
	assert.NotContains(t, rec.Body.String(), `"success":false`)
}

func TestExportRoutes_XLSX_Empty(t *testing.T) {
	e, m := newTestServer(t, nil)
	m.export.EXPECT().ExportXLSX(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	rec := doRequest(e, http.MethodGet, "/api/v1/logs/export/xlsx", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, mimeXLSX, rec.Header().Get(echo.HeaderContentType))
}

func TestInfoAndHealth(t *testing.T) {
	e, _ := newTestServer(t, nil)

	rec := doRequest(e, http.MethodGet, "/api/v1/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"name":"logboard","version":"test","health":"/api/v1/health","metrics":"/metrics"}`, rec.Body.String())

	rec = doRequest(e, http.MethodGet, "/api/v1/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	down, _ := newTestServer(t, errors.New("connection refused"))
	rec = doRequest(down, http.MethodGet, "/api/v1/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	e, _ := newTestServer(t, nil)

	rec := doRequest(e, http.MethodGet, "/api/v1/nope", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, CodeInternal, decodeError(t, rec).Error.Code)
}

func TestRequestMetrics_RecordWrittenStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	logMock := servicemocks.NewMockLog(ctrl)
	reg := prometheus.NewRegistry()

	e := echo.New()
	SetupMiddleware(e, MiddlewareConfig{Subsystem: "api", CORSOrigins: []string{"*"}, Registerer: reg})
	ConfigureRouter(e, &service.Services{Log: logMock}, NewHealthChecker(pingFunc(func(context.Context) error { return nil })), AppInfo{})

	logMock.EXPECT().List(gomock.Any(), gomock.Any()).Return(domain.LogPage{}, &service.ValidationError{
		Message:    "invalid query parameters",
		Violations: []service.FieldViolation{{Field: "page", Value: 0, Reason: "must be at least 1"}},
	})
	logMock.EXPECT().Get(gomock.Any(), int64(7)).Return(domain.LogEntry{}, fmt.Errorf("%w: id 7", service.ErrLogNotFound))

	require.Equal(t, http.StatusUnprocessableEntity, doRequest(e, http.MethodGet, "/api/v1/logs?page=0", "").Code)
	require.Equal(t, http.StatusNotFound, doRequest(e, http.MethodGet, "/api/v1/logs/7", "").Code)

	families, err := reg.Gather()
	require.NoError(t, err)

	codes := map[string]string{}
	for _, mf := range families {
		if mf.GetName() != "api_requests_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			labels := lo.SliceToMap(metric.GetLabel(), func(l *dto.LabelPair) (string, string) {
				return l.GetName(), l.GetValue()
			})
			codes[labels["url"]] = labels["code"]
		}
	}

	assert.Equal(t, map[string]string{
		"/api/v1/logs":     "422",
		"/api/v1/logs/:id": "404",
	}, codes)
}

func TestFailedRequest_LoggedOnce(t *testing.T) {
	hook := logtest.NewGlobal()
	defer hook.Reset()

	e, m := newTestServer(t, nil)
	m.log.EXPECT().Get(gomock.Any(), int64(9)).Return(domain.LogEntry{}, &service.StoreError{
		Operation: "get log",
		Category:  errorsUtils.CategoryConnectionRefused,
		Err:       errors.New("dial tcp: connection refused"),
	})

	rec := doRequest(e, http.MethodGet, "/api/v1/logs?page=abc", "")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, log.WarnLevel, hook.LastEntry().Level)

	hook.Reset()
	rec = doRequest(e, http.MethodGet, "/api/v1/logs/9", "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, log.ErrorLevel, hook.LastEntry().Level)

	hook.Reset()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.Response().WriteHeader(http.StatusOK)
	ErrorHandler(errors.New("late failure"), c)
	assert.Empty(t, hook.AllEntries())
}
