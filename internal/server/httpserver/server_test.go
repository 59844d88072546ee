package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/collabsync/internal/common"
	"github.com/dmitrijs2005/collabsync/internal/logging"
	"github.com/dmitrijs2005/collabsync/internal/server/models"
	"github.com/dmitrijs2005/collabsync/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	importRes services.ImportResult
	importErr error

	gotQuery services.ListQuery
	page     services.Page[models.Collaborator]
	listErr  error

	byID    map[string]models.Collaborator
	getErr  error
	deleted []string
	delErr  error

	panicOnList bool
}

func (f *fakeService) ImportAll(context.Context) (services.ImportResult, error) {
	return f.importRes, f.importErr
}

func (f *fakeService) List(_ context.Context, q services.ListQuery) (services.Page[models.Collaborator], error) {
	if f.panicOnList {
		panic("boom")
	}
	f.gotQuery = q
	return f.page, f.listErr
}

func (f *fakeService) GetByID(_ context.Context, id string) (*models.Collaborator, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	c, ok := f.byID[id]
	if !ok {
		return nil, common.NewError(common.ErrorNotFound, "Collaborator not found", nil)
	}
	return &c, nil
}

func (f *fakeService) DeleteByID(_ context.Context, id string) error {
	if f.delErr != nil {
		return f.delErr
	}
	if _, ok := f.byID[id]; !ok {
		return common.NewError(common.ErrorNotFound, "Collaborator not found", nil)
	}
	f.deleted = append(f.deleted, id)
	return nil
}

var created = time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC)

func newTestServer(svc Service) *HTTPServer {
	return NewHTTPServer("127.0.0.1:0", logging.Nop(), svc, time.Second)
}

func do(t *testing.T, s *HTTPServer, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(&fakeService{}), http.MethodGet, "/collaborators/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","message":"API is running"}`, rec.Body.String())
}

func TestImport(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		s := newTestServer(&fakeService{importRes: services.ImportResult{Imported: 8, Ignored: 2}})
		rec := do(t, s, http.MethodPost, "/collaborators/import")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"imported":8,"ignored":2}`, rec.Body.String())
	})

	t.Run("upstream failure", func(t *testing.T) {
		s := newTestServer(&fakeService{importErr: common.NewError(
			common.ErrorUpstreamUnavailable, "failed to fetch users from external API", errors.New("dial tcp: refused"),
		)})
		rec := do(t, s, http.MethodPost, "/collaborators/import")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":"failed to fetch users from external API"}`, rec.Body.String())
	})

	t.Run("wrong method", func(t *testing.T) {
		rec := do(t, newTestServer(&fakeService{}), http.MethodGet, "/collaborators/import")
		assert.NotEqual(t, http.StatusOK, rec.Code)
	})
}

func TestList(t *testing.T) {
	svc := &fakeService{page: services.Page[models.Collaborator]{
		Data: []models.Collaborator{
			{ID: "c1", Name: "Leanne", Email: "l@x.io", City: "Gwenborough", CreatedAt: created},
		},
		Pagination: services.Pagination{Page: 2, Limit: 1, Total: 3, TotalPages: 3},
	}}
	rec := do(t, newTestServer(svc), http.MethodGet, "/collaborators?page=2&limit=1&search=Le&sort=name&order=asc")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, services.ListQuery{Page: "2", Limit: "1", Search: "Le", Sort: "name", Order: "asc"}, svc.gotQuery)
	assert.JSONEq(t, `{
		"data": [{
			"id": "c1", "name": "Leanne", "email": "l@x.io",
			"city": "Gwenborough", "company": null,
			"createdAt": "2024-03-04T05:06:07Z"
		}],
		"pagination": {"page": 2, "limit": 1, "total": 3, "totalPages": 3}
	}`, rec.Body.String())
}

func TestList_EmptyDataIsArray(t *testing.T) {
	svc := &fakeService{page: services.Page[models.Collaborator]{
		Data:       []models.Collaborator{},
		Pagination: services.Pagination{Page: 1, Limit: 10},
	}}
	rec := do(t, newTestServer(svc), http.MethodGet, "/collaborators")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":[],"pagination":{"page":1,"limit":10,"total":0,"totalPages":0}}`, rec.Body.String())
}

func TestList_InvalidQuery(t *testing.T) {
	svc := &fakeService{listErr: common.NewError(common.ErrorInvalidQuery, "limit must be between 1 and 100", nil)}
	rec := do(t, newTestServer(svc), http.MethodGet, "/collaborators?limit=500")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"limit must be between 1 and 100"}`, rec.Body.String())
}

func TestGet(t *testing.T) {
	svc := &fakeService{byID: map[string]models.Collaborator{
		"c1": {ID: "c1", Name: "Leanne", Email: "l@x.io", Company: "Acme", CreatedAt: created},
	}}
	s := newTestServer(svc)

	rec := do(t, s, http.MethodGet, "/collaborators/c1")
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "c1", body["id"])
	assert.Equal(t, "Acme", body["company"])
	assert.Nil(t, body["city"])
	assert.Equal(t, "2024-03-04T05:06:07Z", body["createdAt"])

	rec = do(t, s, http.MethodGet, "/collaborators/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Collaborator not found"}`, rec.Body.String())
}

func TestDelete(t *testing.T) {
	svc := &fakeService{byID: map[string]models.Collaborator{"c1": {ID: "c1"}}}
	s := newTestServer(svc)

	rec := do(t, s, http.MethodDelete, "/collaborators/c1")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, []string{"c1"}, svc.deleted)

	rec = do(t, s, http.MethodDelete, "/collaborators/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Collaborator not found"}`, rec.Body.String())
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "store unavailable",
			err:        common.NewError(common.ErrorStoreUnavailable, "db error", errors.New("connection refused")),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"db error"}`,
		},
		{
			name:       "unclassified",
			err:        errors.New("something odd"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"Internal Server Error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, newTestServer(&fakeService{getErr: tt.err}), http.MethodGet, "/collaborators/c1")
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestUnknownRoute(t *testing.T) {
	rec := do(t, newTestServer(&fakeService{}), http.MethodGet, "/nope")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Not Found"}`, rec.Body.String())
}

func TestPanicIsInternalError(t *testing.T) {
	rec := do(t, newTestServer(&fakeService{panicOnList: true}), http.MethodGet, "/collaborators")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, rec.Body.String())
}

func TestRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(&buf, nil)))
	s := NewHTTPServer("127.0.0.1:0", logger, &fakeService{}, time.Second)

	req := httptest.NewRequest(http.MethodGet, "/collaborators/health", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "req-123", rec.Header().Get(RequestIDHeader))
	assert.Contains(t, buf.String(), `"request_id":"req-123"`)
	assert.Contains(t, buf.String(), `"status":200`)

	rec = do(t, s, http.MethodGet, "/collaborators/health")
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

func TestRun_StopsOnCancel(t *testing.T) {
	s := newTestServer(&fakeService{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRun_ListenError(t *testing.T) {
	s := NewHTTPServer("256.0.0.1:bad", logging.Nop(), &fakeService{}, time.Second)

	err := s.Run(context.Background())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "listen"), err.Error())
}
