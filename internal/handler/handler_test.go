package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"blogapi/internal/config"
	apperrors "blogapi/internal/errors"
	"blogapi/internal/handler"
	"blogapi/internal/model"
	"blogapi/internal/repository"
	"blogapi/internal/router"
	"blogapi/internal/service"
	"blogapi/internal/storage"
	"blogapi/internal/upload"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}

type MockAuthService struct{ mock.Mock }

func (m *MockAuthService) Register(ctx context.Context, in service.RegisterInput) (*model.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*model.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

type MockBlogService struct{ mock.Mock }

func (m *MockBlogService) ListBlogs(ctx context.Context, filter repository.BlogFilter) ([]model.Blog, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]model.Blog), args.Error(1)
}

func (m *MockBlogService) GetBlog(ctx context.Context, id string) (*model.Blog, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Blog), args.Error(1)
}

func (m *MockBlogService) CreateBlog(ctx context.Context, in service.BlogInput) (*model.Blog, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Blog), args.Error(1)
}

func (m *MockBlogService) UpdateBlog(ctx context.Context, id string, in service.BlogInput) (*model.Blog, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Blog), args.Error(1)
}

func (m *MockBlogService) DeleteBlog(ctx context.Context, id, authorName string) error {
	return m.Called(ctx, id, authorName).Error(0)
}

type MockUserService struct{ mock.Mock }

func (m *MockUserService) GetUser(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) UpdateUser(ctx context.Context, id string, in service.UpdateUserInput) (*model.User, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) DeleteUser(ctx context.Context, id, claimedID string) error {
	return m.Called(ctx, id, claimedID).Error(0)
}

type testServer struct {
	e     *echo.Echo
	dir   string
	auth  *MockAuthService
	blogs *MockBlogService
	users *MockUserService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	dir := t.TempDir()
	files, err := storage.NewLocal(dir)
	require.NoError(t, err)
	gate := upload.NewGate(files)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	s := &testServer{
		e:     echo.New(),
		dir:   dir,
		auth:  new(MockAuthService),
		blogs: new(MockBlogService),
		users: new(MockUserService),
	}
	router.Register(s.e, &config.Config{UploadDir: dir}, logger,
		handler.NewAuthHandler(s.auth, gate),
		handler.NewBlogHandler(s.blogs, gate),
		handler.NewUserHandler(s.users, gate),
	)
	t.Cleanup(func() {
		s.auth.AssertExpectations(t)
		s.blogs.AssertExpectations(t)
		s.users.AssertExpectations(t)
	})
	return s
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

// stored lists the image files kept under the upload root.
func (s *testServer) stored(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(s.dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names
}

func multipartRequest(t *testing.T, method, target string, fields map[string]string, field string, image []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if image != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename="pic.png"`, field))
		h.Set("Content-Type", "image/png")
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, target, &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func png(size int) []byte {
	b := make([]byte, size)
	copy(b, pngMagic)
	return b
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Code
}

func blogFields() map[string]string {
	return map[string]string{
		"title":       "Hello World",
		"description": "first post",
		"content":     "body",
		"authorName":  "alice",
		"categories":  "go,web",
	}
}

func TestRegister(t *testing.T) {
	t.Run("response never carries the password", func(t *testing.T) {
		s := newTestServer(t)
		s.auth.On("Register", mock.Anything, service.RegisterInput{
			Username: "alice", Email: "alice@example.com", Password: "secret",
		}).Return(&model.User{ID: uuid.New(), Username: "alice", Email: "alice@example.com", Password: "$2a$10$hash"}, nil)

		rec := s.do(multipartRequest(t, http.MethodPost, "/api/auth/register", map[string]string{
			"username": "alice", "email": "alice@example.com", "password": "secret",
		}, "", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), "password")
		assert.NotContains(t, rec.Body.String(), "$2a$10$hash")
		assert.Contains(t, rec.Body.String(), `"username":"alice"`)
	})

	t.Run("avatar is stored before the service runs", func(t *testing.T) {
		s := newTestServer(t)
		s.auth.On("Register", mock.Anything, mock.MatchedBy(func(in service.RegisterInput) bool {
			return strings.HasPrefix(in.Image, "alice-") && strings.HasSuffix(in.Image, "pic.png")
		})).Return(&model.User{ID: uuid.New(), Username: "alice"}, nil)

		rec := s.do(multipartRequest(t, http.MethodPost, "/api/auth/register", map[string]string{
			"username": "alice", "email": "alice@example.com", "password": "secret",
		}, "userImage", png(1024)))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, s.stored(t), 1)
	})

	t.Run("missing field is rejected without storing", func(t *testing.T) {
		s := newTestServer(t)

		rec := s.do(multipartRequest(t, http.MethodPost, "/api/auth/register", map[string]string{
			"username": "alice", "email": "alice@example.com",
		}, "userImage", png(1024)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "VALIDATION_ERROR", errorCode(t, rec))
		assert.Empty(t, s.stored(t))
	})

	t.Run("duplicate email", func(t *testing.T) {
		s := newTestServer(t)
		s.auth.On("Register", mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("create user: %w", apperrors.ErrConflict))

		rec := s.do(multipartRequest(t, http.MethodPost, "/api/auth/register", map[string]string{
			"username": "alice", "email": "alice@example.com", "password": "secret",
		}, "", nil))

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "CONFLICT", errorCode(t, rec))
	})
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setup      func(*MockAuthService)
		wantStatus int
		wantCode   string
	}{
		{
			name: "success",
			body: `{"email":"alice@example.com","password":"secret"}`,
			setup: func(m *MockAuthService) {
				m.On("Login", mock.Anything, "alice@example.com", "secret").
					Return(&model.User{ID: uuid.New(), Username: "alice", Password: "$2a$10$hash"}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "malformed body",
			body:       `{"email":`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_REQUEST",
		},
		{
			name:       "malformed email",
			body:       `{"email":"alice","password":"secret"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_ERROR",
		},
		{
			name:       "missing password",
			body:       `{"email":"alice@example.com"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_ERROR",
		},
		{
			name: "wrong password",
			body: `{"email":"alice@example.com","password":"nope"}`,
			setup: func(m *MockAuthService) {
				m.On("Login", mock.Anything, "alice@example.com", "nope").Return(nil, apperrors.ErrInvalidCredentials)
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_CREDENTIALS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			if tt.setup != nil {
				tt.setup(s.auth)
			}

			rec := s.do(jsonRequest(http.MethodPost, "/api/auth/login", tt.body))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, errorCode(t, rec))
			} else {
				assert.NotContains(t, rec.Body.String(), "password")
			}
		})
	}
}

func TestListBlogs(t *testing.T) {
	s := newTestServer(t)
	s.blogs.On("ListBlogs", mock.Anything, repository.BlogFilter{AuthorName: "alice", Category: "go"}).
		Return([]model.Blog{{Title: "Hello World", AuthorName: "alice"}}, nil)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/api/blog?user=alice&categories=go", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var blogs []model.Blog
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &blogs))
	assert.Len(t, blogs, 1)
}

func TestListBlogsEmpty(t *testing.T) {
	s := newTestServer(t)
	s.blogs.On("ListBlogs", mock.Anything, repository.BlogFilter{}).Return([]model.Blog{}, nil)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/api/blog", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestGetBlogNotFound(t *testing.T) {
	s := newTestServer(t)
	s.blogs.On("GetBlog", mock.Anything, "missing").Return(nil, apperrors.ErrNotFound)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/api/blog/missing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(t, rec))
}

func TestCreateBlog(t *testing.T) {
	t.Run("form fields reach the service", func(t *testing.T) {
		s := newTestServer(t)
		s.blogs.On("CreateBlog", mock.Anything, mock.MatchedBy(func(in service.BlogInput) bool {
			return in.Title == "Hello World" &&
				in.AuthorName == "alice" &&
				assert.ObjectsAreEqual([]string{"go", "web"}, in.Categories) &&
				strings.HasPrefix(in.Image, "hello-world-")
		})).Return(&model.Blog{ID: uuid.New(), Title: "Hello World"}, nil)

		rec := s.do(multipartRequest(t, http.MethodPost, "/api/blog/new", blogFields(), "blogImage", png(2048)))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, s.stored(t), 1)
	})

	t.Run("image is required", func(t *testing.T) {
		s := newTestServer(t)

		rec := s.do(multipartRequest(t, http.MethodPost, "/api/blog/new", blogFields(), "", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "MISSING_FILE", errorCode(t, rec))
	})

	t.Run("oversized image leaves nothing behind", func(t *testing.T) {
		s := newTestServer(t)

		rec := s.do(multipartRequest(t, http.MethodPost, "/api/blog/new", blogFields(), "blogImage", png(6<<20)))

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
		assert.Equal(t, "PAYLOAD_TOO_LARGE", errorCode(t, rec))
		assert.Empty(t, s.stored(t))
		s.blogs.AssertNotCalled(t, "CreateBlog", mock.Anything, mock.Anything)
	})
}

func TestUpdateBlog(t *testing.T) {
	t.Run("image is optional", func(t *testing.T) {
		s := newTestServer(t)
		s.blogs.On("UpdateBlog", mock.Anything, "b1", mock.MatchedBy(func(in service.BlogInput) bool {
			return in.Image == "" && in.Title == "Hello World"
		})).Return(&model.Blog{Title: "Hello World"}, nil)

		rec := s.do(multipartRequest(t, http.MethodPut, "/api/blog/edit/b1", blogFields(), "", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("non-author is denied", func(t *testing.T) {
		s := newTestServer(t)
		fields := blogFields()
		fields["authorName"] = "bob"
		s.blogs.On("UpdateBlog", mock.Anything, "b1", mock.Anything).Return(nil, apperrors.ErrForbidden)

		rec := s.do(multipartRequest(t, http.MethodPut, "/api/blog/edit/b1", fields, "", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "ACCESS_DENIED", errorCode(t, rec))
	})
}

func TestDeleteBlog(t *testing.T) {
	t.Run("author name is required", func(t *testing.T) {
		s := newTestServer(t)

		rec := s.do(jsonRequest(http.MethodDelete, "/api/blog/delete/b1", `{}`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "VALIDATION_ERROR", errorCode(t, rec))
	})

	t.Run("success", func(t *testing.T) {
		s := newTestServer(t)
		s.blogs.On("DeleteBlog", mock.Anything, "b1", "alice").Return(nil)

		rec := s.do(jsonRequest(http.MethodDelete, "/api/blog/delete/b1", `{"authorName":"alice"}`))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"message":"deleted successfully"}`, rec.Body.String())
	})
}

func TestUpdateUser(t *testing.T) {
	s := newTestServer(t)
	id := uuid.NewString()
	s.users.On("UpdateUser", mock.Anything, id, mock.MatchedBy(func(in service.UpdateUserInput) bool {
		return in.ClaimedID == id && in.Username == "alice2" && strings.HasPrefix(in.Image, "alice2-")
	})).Return(&model.User{Username: "alice2"}, nil)

	rec := s.do(multipartRequest(t, http.MethodPut, "/api/user/updateuser/"+id, map[string]string{
		"id": id, "username": "alice2",
	}, "userImage", png(512)))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdateUserRequiresClaimedID(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(multipartRequest(t, http.MethodPut, "/api/user/updateuser/u1", map[string]string{
		"username": "alice2",
	}, "userImage", png(512)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, s.stored(t))
}

func TestDeleteUser(t *testing.T) {
	s := newTestServer(t)
	s.users.On("DeleteUser", mock.Anything, "u1", "u2").Return(apperrors.ErrForbidden)

	rec := s.do(jsonRequest(http.MethodDelete, "/api/user/deleteuser/u1", `{"id":"u2","userImage":"x.png"}`))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetUser(t *testing.T) {
	s := newTestServer(t)
	s.users.On("GetUser", mock.Anything, "u1").
		Return(&model.User{Username: "alice", Password: "$2a$10$hash", Image: "alice.png"}, nil)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/api/user/getuser/u1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"userImage":"alice.png"`)
	assert.NotContains(t, rec.Body.String(), "hash")
}

func TestUploadsServed(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, os.WriteFile(filepath.Join(s.dir, "cover.png"), png(64), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(s.dir, ".staging", "upload-1"), png(64), 0o644))

	rec := s.do(httptest.NewRequest(http.MethodGet, "/uploads/cover.png", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(httptest.NewRequest(http.MethodGet, "/uploads/.staging/upload-1", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
