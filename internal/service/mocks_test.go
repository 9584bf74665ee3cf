package service

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"blogapi/internal/model"
	"blogapi/internal/reconcile"
	"blogapi/internal/repository"
	"blogapi/internal/storage"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// MockBlogRepository is a mock implementation of BlogRepository.
type MockBlogRepository struct {
	mock.Mock
}

func (m *MockBlogRepository) Create(ctx context.Context, blog *model.Blog) error {
	args := m.Called(ctx, blog)
	return args.Error(0)
}

func (m *MockBlogRepository) Update(ctx context.Context, blog *model.Blog) error {
	args := m.Called(ctx, blog)
	return args.Error(0)
}

func (m *MockBlogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBlogRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Blog, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Blog), args.Error(1)
}

func (m *MockBlogRepository) List(ctx context.Context, filter repository.BlogFilter) ([]model.Blog, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Blog), args.Error(1)
}

func (m *MockBlogRepository) RenameAuthor(ctx context.Context, from, to string) error {
	args := m.Called(ctx, from, to)
	return args.Error(0)
}

func (m *MockBlogRepository) DeleteByAuthor(ctx context.Context, authorName string) ([]model.Blog, error) {
	args := m.Called(ctx, authorName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Blog), args.Error(1)
}

// fakeStore hands out the mocks and runs transactions inline.
type fakeStore struct {
	users *MockUserRepository
	blogs *MockBlogRepository
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: new(MockUserRepository), blogs: new(MockBlogRepository)}
}

func (s *fakeStore) Users() repository.UserRepository { return s.users }
func (s *fakeStore) Blogs() repository.BlogRepository { return s.blogs }

func (s *fakeStore) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx repository.Store) error) error {
	return fn(ctx, s)
}

func (s *fakeStore) assertExpectations(t *testing.T) {
	s.users.AssertExpectations(t)
	s.blogs.AssertExpectations(t)
}

// testFiles is an upload directory plus the coordinator that cleans it.
type testFiles struct {
	t     *testing.T
	local *storage.Local
	coord *reconcile.Coordinator
}

func newTestFiles(t *testing.T) *testFiles {
	t.Helper()
	local, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})
	return &testFiles{t: t, local: local, coord: reconcile.New(local, log)}
}

// put stores a file called name and returns name.
func (f *testFiles) put(name string) string {
	f.t.Helper()
	_, err := f.local.Save(context.Background(), name, bytes.NewReader([]byte("img")), 1024)
	require.NoError(f.t, err)
	return name
}

func (f *testFiles) exists(name string) bool {
	f.t.Helper()
	_, err := os.Stat(filepath.Join(f.local.Root(), name))
	return err == nil
}
