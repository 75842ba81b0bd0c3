package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cuongbtq/jobboard-be/internal/api/auth"
	"github.com/cuongbtq/jobboard-be/internal/api/domain"
	"github.com/cuongbtq/jobboard-be/internal/api/events"
	"github.com/cuongbtq/jobboard-be/internal/api/handler"
	"github.com/cuongbtq/jobboard-be/internal/api/service"
	"github.com/cuongbtq/jobboard-be/internal/api/storage"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type testServer struct {
	engine *gin.Engine
	store  *storage.MemoryStore
}

func newTestServer(t *testing.T, authEnabled bool) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := storage.NewMemoryStore()

	deps := &handler.Dependencies{
		Logger:      logger,
		ServiceName: "job-api-test",
		Store:       store,
		Jobs:        service.NewJobService(store, events.NopPublisher{}, logger),
		AuthEnabled: authEnabled,
	}
	if authEnabled {
		keys := auth.NewKeyStore("test", []byte(testSecret))
		tokens := auth.NewTokenService(keys, auth.TokenConfig{Issuer: "test", TTL: time.Hour}, nil)
		deps.Users = service.NewUserService(store, tokens, bcrypt.MinCost, logger)
	}

	return &testServer{engine: SetupRouter(deps), store: store}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			b, err := json.Marshal(body)
			require.NoError(t, err)
			raw = string(b)
		}
		reader = bytes.NewBufferString(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *testServer) jobCount(t *testing.T) int {
	t.Helper()
	jobs, err := s.store.ListJobs(context.Background(), storage.JobFilter{})
	require.NoError(t, err)
	return len(jobs)
}

func (s *testServer) signup(t *testing.T, email string) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/users/signup", signupBody(email), "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Email string `json:"email"`
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func signupBody(email string) map[string]string {
	return map[string]string{
		"name":              "Ada Lovelace",
		"email":             email,
		"password":          "s3cret-pass",
		"phone_number":      "555-0101",
		"gender":            "female",
		"date_of_birth":     "1990-12-10",
		"membership_status": "active",
	}
}

func jobBody(title string) map[string]interface{} {
	return map[string]interface{}{
		"title":       title,
		"type":        "Full-Time",
		"description": "Develop and maintain web applications.",
		"company": map[string]string{
			"name":         "Tech Corp",
			"contactEmail": "hr@techcorp.com",
			"contactPhone": "123456789",
		},
	}
}

func decodeJob(t *testing.T, w *httptest.ResponseRecorder) domain.Job {
	t.Helper()
	var job domain.Job
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &job))
	return job
}

func decodeJobs(t *testing.T, w *httptest.ResponseRecorder) []domain.Job {
	t.Helper()
	var jobs []domain.Job
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &jobs))
	return jobs
}

func TestJobRoutes_CRUD(t *testing.T) {
	for _, authEnabled := range []bool{false, true} {
		name := "open"
		if authEnabled {
			name = "auth"
		}

		t.Run(name, func(t *testing.T) {
			s := newTestServer(t, authEnabled)
			token := ""
			if authEnabled {
				token = s.signup(t, "ada@example.com")
			}

			// create then fetch
			w := s.do(t, http.MethodPost, "/api/jobs", jobBody("Software Engineer"), token)
			require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
			created := decodeJob(t, w)
			assert.True(t, primitive.IsValidObjectID(created.ID))

			w = s.do(t, http.MethodGet, "/api/jobs/"+created.ID, nil, token)
			require.Equal(t, http.StatusOK, w.Code)
			got := decodeJob(t, w)
			assert.Equal(t, "Software Engineer", got.Title)
			assert.Equal(t, "Full-Time", got.Type)
			assert.Equal(t, "Tech Corp", got.Company.Name)
			assert.Equal(t, "hr@techcorp.com", got.Company.ContactEmail)
			assert.Equal(t, "123456789", got.Company.ContactPhone)

			// partial update leaves other fields alone
			w = s.do(t, http.MethodPut, "/api/jobs/"+created.ID, map[string]interface{}{
				"description": "Updated description",
				"company":     map[string]string{"contactPhone": "987654321"},
			}, token)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			updated := decodeJob(t, w)
			assert.Equal(t, "Updated description", updated.Description)
			assert.Equal(t, "Software Engineer", updated.Title)
			assert.Equal(t, "Tech Corp", updated.Company.Name)
			assert.Equal(t, "987654321", updated.Company.ContactPhone)

			// delete then 404
			w = s.do(t, http.MethodDelete, "/api/jobs/"+created.ID, nil, token)
			require.Equal(t, http.StatusNoContent, w.Code)
			assert.Empty(t, w.Body.String())

			w = s.do(t, http.MethodGet, "/api/jobs/"+created.ID, nil, token)
			assert.Equal(t, http.StatusNotFound, w.Code)

			w = s.do(t, http.MethodDelete, "/api/jobs/"+created.ID, nil, token)
			assert.Equal(t, http.StatusNotFound, w.Code)
		})
	}
}

func TestJobRoutes_ListGrowsWithCreate(t *testing.T) {
	s := newTestServer(t, false)

	for _, title := range []string{"Software Engineer", "Data Analyst"} {
		w := s.do(t, http.MethodPost, "/api/jobs", jobBody(title), "")
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := s.do(t, http.MethodGet, "/api/jobs", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeJobs(t, w), 2)

	w = s.do(t, http.MethodPost, "/api/jobs", jobBody("Product Manager"), "")
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(t, http.MethodGet, "/api/jobs", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	jobs := decodeJobs(t, w)
	require.Len(t, jobs, 3)

	titles := make([]string, len(jobs))
	for i, j := range jobs {
		titles[i] = j.Title
	}
	assert.Contains(t, titles, "Product Manager")
}

func TestJobRoutes_ListEmpty(t *testing.T) {
	s := newTestServer(t, false)

	w := s.do(t, http.MethodGet, "/api/jobs", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestJobRoutes_ListPaging(t *testing.T) {
	s := newTestServer(t, false)

	for _, title := range []string{"one", "two", "three"} {
		w := s.do(t, http.MethodPost, "/api/jobs", jobBody(title), "")
		require.Equal(t, http.StatusCreated, w.Code)
		time.Sleep(time.Millisecond)
	}

	w := s.do(t, http.MethodGet, "/api/jobs?page_size=2", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeJobs(t, w), 2)
	next := w.Header().Get(handler.NextCursorHeader)
	require.NotEmpty(t, next)

	w = s.do(t, http.MethodGet, "/api/jobs?page_size=2&cursor="+next, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	jobs := decodeJobs(t, w)
	require.Len(t, jobs, 1)
	assert.Equal(t, "three", jobs[0].Title)
	assert.Empty(t, w.Header().Get(handler.NextCursorHeader))

	tests := []struct {
		name  string
		query string
	}{
		{name: "bad cursor", query: "?cursor=!!!"},
		{name: "negative page size", query: "?page_size=-1"},
		{name: "page size too large", query: "?page_size=1000"},
		{name: "page size not a number", query: "?page_size=ten"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodGet, "/api/jobs"+tt.query, nil, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestJobRoutes_Validation(t *testing.T) {
	s := newTestServer(t, false)

	w := s.do(t, http.MethodPost, "/api/jobs", jobBody("Software Engineer"), "")
	require.Equal(t, http.StatusCreated, w.Code)
	id := decodeJob(t, w).ID

	tests := []struct {
		name       string
		method     string
		path       string
		body       interface{}
		wantFields []string
	}{
		{
			name:   "create missing fields",
			method: http.MethodPost,
			path:   "/api/jobs",
			body:   map[string]interface{}{"title": "Only a title"},
			wantFields: []string{
				"type", "description", "company.name", "company.contactEmail", "company.contactPhone",
			},
		},
		{
			name:       "create bad type",
			method:     http.MethodPost,
			path:       "/api/jobs",
			body:       func() map[string]interface{} { b := jobBody("x"); b["type"] = "Contract"; return b }(),
			wantFields: []string{"type"},
		},
		{
			name:   "create malformed json",
			method: http.MethodPost,
			path:   "/api/jobs",
			body:   `{"title":`,
		},
		{
			name:       "update blank title",
			method:     http.MethodPut,
			path:       "/api/jobs/" + id,
			body:       map[string]interface{}{"title": "   "},
			wantFields: []string{"title"},
		},
		{
			name:       "update blank company name",
			method:     http.MethodPut,
			path:       "/api/jobs/" + id,
			body:       map[string]interface{}{"company": map[string]string{"name": ""}},
			wantFields: []string{"company.name"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := s.jobCount(t)

			w := s.do(t, tt.method, tt.path, tt.body, "")
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

			var resp struct {
				Error  string            `json:"error"`
				Fields map[string]string `json:"fields"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
			for _, f := range tt.wantFields {
				assert.Contains(t, resp.Fields, f)
			}
			assert.Equal(t, before, s.jobCount(t))
		})
	}

	w = s.do(t, http.MethodGet, "/api/jobs/"+id, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Software Engineer", decodeJob(t, w).Title)
}

func TestJobRoutes_MalformedID(t *testing.T) {
	s := newTestServer(t, false)

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			var body interface{}
			if method == http.MethodPut {
				body = map[string]string{"title": "x"}
			}
			w := s.do(t, method, "/api/jobs/not-a-valid-id", body, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, `{"error":"invalid id"}`, w.Body.String())
		})
	}
}

func TestJobRoutes_UnknownID(t *testing.T) {
	s := newTestServer(t, false)
	id := primitive.NewObjectID().Hex()

	w := s.do(t, http.MethodGet, "/api/jobs/"+id, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPut, "/api/jobs/"+id, map[string]string{"title": "x"}, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuth_RejectsWithoutValidToken(t *testing.T) {
	s := newTestServer(t, true)
	token := s.signup(t, "ada@example.com")

	w := s.do(t, http.MethodPost, "/api/jobs", jobBody("Seed"), token)
	require.Equal(t, http.StatusCreated, w.Code)
	id := decodeJob(t, w).ID

	requests := []struct {
		method string
		path   string
		body   interface{}
	}{
		{http.MethodGet, "/api/jobs", nil},
		{http.MethodPost, "/api/jobs", jobBody("Blocked")},
		{http.MethodGet, "/api/jobs/" + id, nil},
		{http.MethodPut, "/api/jobs/" + id, map[string]string{"title": "Blocked"}},
		{http.MethodDelete, "/api/jobs/" + id, nil},
	}

	user, err := s.store.GetUserByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	forger := auth.NewTokenService(
		auth.NewKeyStore("test", []byte("ffffffffffffffffffffffffffffffff")),
		auth.TokenConfig{Issuer: "test", TTL: time.Hour},
		nil,
	)
	forged, err := forger.Issue(user.ID)
	require.NoError(t, err)

	tokens := map[string]string{
		"missing":       "",
		"garbage":       "not-a-token",
		"bad signature": forged,
	}

	for tokenName, tok := range tokens {
		for _, r := range requests {
			t.Run(tokenName+" "+r.method+" "+r.path, func(t *testing.T) {
				w := s.do(t, r.method, r.path, r.body, tok)
				assert.Equal(t, http.StatusUnauthorized, w.Code)
				assert.JSONEq(t, `{"error":"unauthorized"}`, w.Body.String())
				assert.Equal(t, 1, s.jobCount(t))
			})
		}
	}

	w = s.do(t, http.MethodGet, "/api/jobs/"+id, nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Seed", decodeJob(t, w).Title)
}

func TestAuth_SchemeIsCaseInsensitive(t *testing.T) {
	s := newTestServer(t, true)
	token := s.signup(t, "ada@example.com")

	for _, scheme := range []string{"Bearer", "bearer", "BEARER"} {
		req := httptest.NewRequest(http.MethodGet, "/api/jobs", nil)
		req.Header.Set("Authorization", scheme+" "+token)
		w := httptest.NewRecorder()
		s.engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, scheme)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/jobs", nil)
	req.Header.Set("Authorization", "Basic "+token)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_DeletedUserIsRejected(t *testing.T) {
	s := newTestServer(t, true)
	token := s.signup(t, "ada@example.com")

	user, err := s.store.GetUserByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	require.NoError(t, s.store.DeleteUser(context.Background(), user.ID))

	w := s.do(t, http.MethodGet, "/api/jobs", nil, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

type unreachableUserStore struct {
	*storage.MemoryStore
}

func (unreachableUserStore) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	return nil, errors.New("connection refused")
}

func TestAuth_StoreFailureIsInternalError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := unreachableUserStore{storage.NewMemoryStore()}

	keys := auth.NewKeyStore("test", []byte(testSecret))
	tokens := auth.NewTokenService(keys, auth.TokenConfig{Issuer: "test", TTL: time.Hour}, nil)
	users := service.NewUserService(store, tokens, bcrypt.MinCost, logger)
	s := &testServer{
		engine: SetupRouter(&handler.Dependencies{
			Logger:      logger,
			ServiceName: "job-api-test",
			Store:       store,
			Jobs:        service.NewJobService(store, events.NopPublisher{}, logger),
			Users:       users,
			AuthEnabled: true,
		}),
		store: store.MemoryStore,
	}

	token := s.signup(t, "ada@example.com")

	w := s.do(t, http.MethodGet, "/api/jobs", nil, token)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/jobs", jobBody("Go Developer"), token)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 0, s.jobCount(t))

	w = s.do(t, http.MethodGet, "/api/jobs", nil, "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUserRoutes(t *testing.T) {
	s := newTestServer(t, true)

	w := s.do(t, http.MethodPost, "/api/users/signup", signupBody("Ada@Example.com"), "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var signup map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &signup))
	assert.Equal(t, "ada@example.com", signup["email"])
	assert.NotEmpty(t, signup["token"])
	assert.NotContains(t, w.Body.String(), "s3cret-pass")

	w = s.do(t, http.MethodPost, "/api/users/signup", signupBody("ada@example.com"), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"email already in use"}`, w.Body.String())

	incomplete := signupBody("grace@example.com")
	delete(incomplete, "date_of_birth")
	w = s.do(t, http.MethodPost, "/api/users/signup", incomplete, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/users/login", map[string]string{"email": "ada@example.com", "password": "s3cret-pass"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	var login map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	assert.NotEmpty(t, login["token"])

	w = s.do(t, http.MethodGet, "/api/jobs", nil, login["token"])
	assert.Equal(t, http.StatusOK, w.Code)

	for _, body := range []map[string]string{
		{"email": "ada@example.com", "password": "wrong"},
		{"email": "nobody@example.com", "password": "s3cret-pass"},
	} {
		w = s.do(t, http.MethodPost, "/api/users/login", body, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"incorrect email or password"}`, w.Body.String())
	}

	w = s.do(t, http.MethodPost, "/api/users/login", map[string]string{"email": "ada@example.com"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserRoutes_AbsentInOpenVariant(t *testing.T) {
	s := newTestServer(t, false)

	w := s.do(t, http.MethodPost, "/api/users/signup", signupBody("ada@example.com"), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

type failingStore struct {
	*storage.MemoryStore
}

func (failingStore) Ping(ctx context.Context) error { return errors.New("connection refused") }

func TestHealth(t *testing.T) {
	s := newTestServer(t, false)

	w := s.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy","service":"job-api-test"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := failingStore{storage.NewMemoryStore()}
	engine := SetupRouter(&handler.Dependencies{
		Logger:      logger,
		ServiceName: "job-api-test",
		Store:       store,
		Jobs:        service.NewJobService(store, events.NopPublisher{}, logger),
	})

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRequestIDIsEchoed(t *testing.T) {
	s := newTestServer(t, false)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"  Bearer   abc  ", "abc", true},
		{"Bearer", "", false},
		{"Bearer ", "", false},
		{"Token abc", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := bearerToken(tt.header)
		assert.Equal(t, tt.ok, ok, tt.header)
		assert.Equal(t, tt.want, got, tt.header)
	}
}
