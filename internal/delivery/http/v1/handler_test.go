package v1

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adanyl0v/task-manager/internal/services"
	"github.com/adanyl0v/task-manager/internal/storage/memory"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time {
	return c.now
}

type testServer struct {
	router *gin.Engine
	clock  *testClock
	store  *memory.Store
}

func newTestServer(t *testing.T, requireAccessToken bool) *testServer {
	t.Helper()

	logger := zerolog.Nop()
	store := memory.New()
	clock := &testClock{now: time.Now()}
	passwords := services.NewPasswordHasher(&argon2id.Params{
		Memory:      1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	})

	sessions := services.NewSessionService(
		logger,
		store,
		passwords,
		"task-manager-test",
		[]byte("test-signing-key"),
		15*time.Minute,
		240*time.Hour,
		64,
		services.WithClock(clock.Now),
	)
	svc := &services.Services{
		Sessions: sessions,
		Auth:     services.NewAuthService(logger, store, sessions, passwords),
		Lists:    services.NewListService(logger, store),
		Tasks:    services.NewTaskService(logger, store),
	}

	router := gin.New()
	RegisterRoutes(router, New(logger, svc), requireAccessToken)
	return &testServer{
		router: router,
		clock:  clock,
		store:  store,
	}
}

func (s *testServer) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

type signedUp struct {
	ID           string
	RefreshToken string
	AccessToken  string
}

func (s *testServer) signup(t *testing.T, email, password string) signedUp {
	t.Helper()

	rr := s.do(t, http.MethodPost, "/users", map[string]string{
		"email":    email,
		"password": password,
	}, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var user userResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &user))
	return signedUp{
		ID:           user.ID,
		RefreshToken: rr.Header().Get(refreshTokenHeader),
		AccessToken:  rr.Header().Get(accessTokenHeader),
	}
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body["Error"]
}

func TestSignupThenRefreshAccessToken(t *testing.T) {
	s := newTestServer(t, false)

	rr := s.do(t, http.MethodPost, "/users", map[string]string{
		"email":    "a@b.com",
		"password": "secret1",
	}, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), "secret1")
	assert.NotContains(t, rr.Body.String(), "password")

	var user userResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &user))
	assert.Equal(t, "a@b.com", user.Email)
	assert.NotEmpty(t, user.ID)

	refreshToken := rr.Header().Get(refreshTokenHeader)
	accessToken := rr.Header().Get(accessTokenHeader)
	assert.Len(t, refreshToken, 128)
	require.NotEmpty(t, accessToken)

	rr = s.do(t, http.MethodGet, "/users/me/access-token", nil, map[string]string{
		refreshTokenHeader: refreshToken,
		userIDHeader:       user.ID,
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	newAccessToken := rr.Header().Get(accessTokenHeader)
	assert.NotEmpty(t, newAccessToken)
	assert.NotEqual(t, accessToken, newAccessToken)

	var body accessTokenResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, newAccessToken, body.AccessToken)
}

func TestSignup_Duplicate(t *testing.T) {
	s := newTestServer(t, false)
	s.signup(t, "a@b.com", "secret1")

	rr := s.do(t, http.MethodPost, "/users", map[string]string{
		"email":    "a@b.com",
		"password": "secret2",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, services.ErrUserAlreadyExists.Error(), decodeError(t, rr))
}

func TestSignup_InvalidBody(t *testing.T) {
	s := newTestServer(t, false)

	rr := s.do(t, http.MethodPost, "/users", map[string]string{
		"email":    "not-an-email",
		"password": "secret1",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, msgInvalidRequestBody, decodeError(t, rr))
}

func TestLogin(t *testing.T) {
	s := newTestServer(t, false)
	registered := s.signup(t, "a@b.com", "secret1")

	rr := s.do(t, http.MethodPost, "/users/login", map[string]string{
		"email":    "a@b.com",
		"password": "secret1",
	}, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get(accessTokenHeader))
	assert.NotEqual(t, registered.RefreshToken, rr.Header().Get(refreshTokenHeader))

	// Both sessions stay usable.
	for _, token := range []string{registered.RefreshToken, rr.Header().Get(refreshTokenHeader)} {
		rr = s.do(t, http.MethodGet, "/users/me/access-token", nil, map[string]string{
			refreshTokenHeader: token,
			userIDHeader:       registered.ID,
		})
		assert.Equal(t, http.StatusOK, rr.Code)
	}
}

func TestLogin_WrongPasswordLooksLikeUnknownEmail(t *testing.T) {
	s := newTestServer(t, false)
	s.signup(t, "a@b.com", "secret1")

	wrongPassword := s.do(t, http.MethodPost, "/users/login", map[string]string{
		"email":    "a@b.com",
		"password": "wrong-password",
	}, nil)
	unknownEmail := s.do(t, http.MethodPost, "/users/login", map[string]string{
		"email":    "nobody@b.com",
		"password": "wrong-password",
	}, nil)

	assert.Equal(t, http.StatusBadRequest, wrongPassword.Code)
	assert.Equal(t, http.StatusBadRequest, unknownEmail.Code)
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
	assert.Empty(t, wrongPassword.Header().Get(accessTokenHeader))
}

func TestVerifySession(t *testing.T) {
	s := newTestServer(t, false)
	user := s.signup(t, "a@b.com", "secret1")
	other := s.signup(t, "c@d.com", "secret1")

	tests := []struct {
		name    string
		headers map[string]string
		message string
	}{
		{
			name:    "missing headers",
			headers: nil,
			message: msgMissingSessionHeaders,
		},
		{
			name:    "missing user id",
			headers: map[string]string{refreshTokenHeader: user.RefreshToken},
			message: msgMissingSessionHeaders,
		},
		{
			name: "unknown token",
			headers: map[string]string{
				refreshTokenHeader: "deadbeef",
				userIDHeader:       user.ID,
			},
			message: msgSessionUserNotFound,
		},
		{
			name: "token of another user",
			headers: map[string]string{
				refreshTokenHeader: other.RefreshToken,
				userIDHeader:       user.ID,
			},
			message: msgSessionUserNotFound,
		},
		{
			name: "unknown user",
			headers: map[string]string{
				refreshTokenHeader: user.RefreshToken,
				userIDHeader:       "missing",
			},
			message: msgSessionUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := s.do(t, http.MethodGet, "/users/me/access-token", nil, tt.headers)
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.Equal(t, tt.message, decodeError(t, rr))
			assert.Empty(t, rr.Header().Get(accessTokenHeader))
		})
	}
}

func TestVerifySession_Expired(t *testing.T) {
	s := newTestServer(t, false)
	user := s.signup(t, "a@b.com", "secret1")
	headers := map[string]string{
		refreshTokenHeader: user.RefreshToken,
		userIDHeader:       user.ID,
	}

	s.clock.now = s.clock.now.Add(240*time.Hour - time.Second)
	rr := s.do(t, http.MethodGet, "/users/me/access-token", nil, headers)
	assert.Equal(t, http.StatusOK, rr.Code)

	s.clock.now = s.clock.now.Add(time.Second)
	rr = s.do(t, http.MethodGet, "/users/me/access-token", nil, headers)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, msgSessionExpired, decodeError(t, rr))
}

func TestListsAndTasks(t *testing.T) {
	s := newTestServer(t, false)

	rr := s.do(t, http.MethodPost, "/lists", map[string]string{"title": "Groceries"}, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var list listResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	assert.Equal(t, "Groceries", list.Title)

	rr = s.do(t, http.MethodPatch, "/lists/"+list.ID, map[string]string{"title": "Shopping"}, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Body.String())

	rr = s.do(t, http.MethodGet, "/lists", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var lists []listResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &lists))
	require.Len(t, lists, 1)
	assert.Equal(t, "Shopping", lists[0].Title)

	tasksPath := "/lists/" + list.ID + "/tasks"
	rr = s.do(t, http.MethodPost, tasksPath, map[string]string{"title": "Milk"}, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var task taskResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &task))
	assert.Equal(t, list.ID, task.ListID)
	assert.False(t, task.Completed)

	rr = s.do(t, http.MethodPatch, tasksPath+"/"+task.ID, map[string]bool{"completed": true}, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"Updated successfully."}`, rr.Body.String())

	rr = s.do(t, http.MethodGet, tasksPath+"/"+task.ID, nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &task))
	assert.True(t, task.Completed)
	assert.Equal(t, "Milk", task.Title)

	rr = s.do(t, http.MethodGet, tasksPath, nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var tasks []taskResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &tasks))
	assert.Len(t, tasks, 1)

	rr = s.do(t, http.MethodDelete, tasksPath+"/"+task.ID, nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), task.ID)

	rr = s.do(t, http.MethodGet, tasksPath+"/"+task.ID, nil, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "null", rr.Body.String())

	rr = s.do(t, http.MethodDelete, "/lists/"+list.ID, nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), list.ID)
}

func TestDeleteList_Missing(t *testing.T) {
	s := newTestServer(t, false)

	rr := s.do(t, http.MethodDelete, "/lists/does-not-exist", nil, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "null", rr.Body.String())
}

func TestDeleteList_RemovesTasks(t *testing.T) {
	s := newTestServer(t, false)

	rr := s.do(t, http.MethodPost, "/lists", map[string]string{"title": "Work"}, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var list listResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))

	tasksPath := "/lists/" + list.ID + "/tasks"
	rr = s.do(t, http.MethodPost, tasksPath, map[string]string{"title": "Report"}, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = s.do(t, http.MethodDelete, "/lists/"+list.ID, nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = s.do(t, http.MethodGet, tasksPath, nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestCreate_Validation(t *testing.T) {
	s := newTestServer(t, false)

	rr := s.do(t, http.MethodPost, "/lists", map[string]string{"title": "  "}, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.NotEmpty(t, decodeError(t, rr))

	rr = s.do(t, http.MethodPost, "/lists/missing/tasks", map[string]string{"title": "Orphan"}, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUpdate_Missing(t *testing.T) {
	s := newTestServer(t, false)

	rr := s.do(t, http.MethodPatch, "/lists/missing", map[string]string{"title": "x"}, nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = s.do(t, http.MethodPatch, "/lists/missing/tasks/missing", nil, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"Updated successfully."}`, rr.Body.String())
}

func TestAuthenticate(t *testing.T) {
	s := newTestServer(t, true)
	owner := s.signup(t, "a@b.com", "secret1")
	intruder := s.signup(t, "c@d.com", "secret1")

	rr := s.do(t, http.MethodGet, "/lists", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, msgMissingAccessToken, decodeError(t, rr))

	rr = s.do(t, http.MethodGet, "/lists", nil, map[string]string{accessTokenHeader: "garbage"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, msgInvalidAccessToken, decodeError(t, rr))

	rr = s.do(t, http.MethodPost, "/lists", map[string]string{"title": "Mine"}, map[string]string{
		"Authorization": "Bearer " + owner.AccessToken,
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var list listResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	assert.Equal(t, owner.ID, list.UserID)

	intruderHeaders := map[string]string{accessTokenHeader: intruder.AccessToken}
	rr = s.do(t, http.MethodGet, "/lists", nil, intruderHeaders)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())

	rr = s.do(t, http.MethodGet, "/lists/"+list.ID+"/tasks", nil, intruderHeaders)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = s.do(t, http.MethodDelete, "/lists/"+list.ID, nil, intruderHeaders)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "null", rr.Body.String())

	rr = s.do(t, http.MethodGet, "/lists/"+list.ID+"/tasks", nil, map[string]string{
		accessTokenHeader: owner.AccessToken,
	})
	assert.Equal(t, http.StatusOK, rr.Code)

	s.clock.now = s.clock.now.Add(16 * time.Minute)
	rr = s.do(t, http.MethodGet, "/lists", nil, map[string]string{accessTokenHeader: owner.AccessToken})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
