package service

import (
	"context"

	"blogapi/internal/auth"
	"blogapi/internal/cache"
	"blogapi/internal/model"
	"blogapi/internal/reconcile"
	"blogapi/internal/repository"
)

// BlogInput carries validated blog fields. Image is the stored file accepted
// for this request; on update it may be empty to keep the current image.
type BlogInput struct {
	Title       string
	Description string
	Content     string
	AuthorName  string
	Categories  []string
	Image       string
}

// BlogService handles blog operations.
type BlogService interface {
	ListBlogs(ctx context.Context, filter repository.BlogFilter) ([]model.Blog, error)
	GetBlog(ctx context.Context, id string) (*model.Blog, error)
	CreateBlog(ctx context.Context, in BlogInput) (*model.Blog, error)
	UpdateBlog(ctx context.Context, id string, in BlogInput) (*model.Blog, error)
	DeleteBlog(ctx context.Context, id, authorName string) error
}

type blogService struct {
	store repository.Store
	files *reconcile.Coordinator
	cache *cache.Client
}

// NewBlogService creates a new blog service.
func NewBlogService(store repository.Store, files *reconcile.Coordinator, cache *cache.Client) BlogService {
	return &blogService{
		store: store,
		files: files,
		cache: cache,
	}
}

func (s *blogService) ListBlogs(ctx context.Context, filter repository.BlogFilter) ([]model.Blog, error) {
	return s.store.Blogs().List(ctx, filter)
}

// GetBlog retrieves a blog by ID with caching.
func (s *blogService) GetBlog(ctx context.Context, id string) (*model.Blog, error) {
	bid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var cached model.Blog
	if cache.GetJSON(ctx, s.cache, cache.BlogKey(bid), &cached) {
		return &cached, nil
	}

	blog, err := s.store.Blogs().FindByID(ctx, bid)
	if err != nil {
		return nil, err
	}
	cache.SetJSON(ctx, s.cache, cache.BlogKey(bid), blog, recordCacheTTL)
	return blog, nil
}

// CreateBlog stores a new blog. A duplicate title surfaces as ErrConflict and
// removes the uploaded image.
func (s *blogService) CreateBlog(ctx context.Context, in BlogInput) (*model.Blog, error) {
	blog := &model.Blog{
		Title:       in.Title,
		Description: in.Description,
		Content:     in.Content,
		Image:       in.Image,
		AuthorName:  in.AuthorName,
		Categories:  in.Categories,
	}
	err := s.files.Create(ctx, in.Image, func(ctx context.Context) error {
		return s.store.Blogs().Create(ctx, blog)
	})
	if err != nil {
		return nil, err
	}
	return blog, nil
}

// UpdateBlog edits a blog on behalf of in.AuthorName, who must be its author.
// The blog is left untouched and the new upload removed on any rejection.
func (s *blogService) UpdateBlog(ctx context.Context, id string, in BlogInput) (*model.Blog, error) {
	bid, err := parseID(id)
	if err != nil {
		s.files.Discard(ctx, in.Image, "invalid id")
		return nil, err
	}
	blog, err := s.store.Blogs().FindByID(ctx, bid)
	if err != nil {
		s.files.Discard(ctx, in.Image, "blog lookup failed")
		return nil, err
	}
	if err := auth.Authorize(in.AuthorName, blog.AuthorName); err != nil {
		s.files.Discard(ctx, in.Image, "not the author")
		return nil, err
	}

	previous := blog.Image
	blog.Title = in.Title
	blog.Description = in.Description
	blog.Content = in.Content
	blog.Categories = in.Categories
	if in.Image != "" {
		blog.Image = in.Image
	}

	err = s.files.Replace(ctx, in.Image, previous, func(ctx context.Context) error {
		return s.store.Blogs().Update(ctx, blog)
	})
	if err != nil {
		return nil, err
	}
	s.cache.Delete(ctx, cache.BlogKey(bid))
	return blog, nil
}

// DeleteBlog removes a blog written by authorName and then its image.
func (s *blogService) DeleteBlog(ctx context.Context, id, authorName string) error {
	bid, err := parseID(id)
	if err != nil {
		return err
	}
	blog, err := s.store.Blogs().FindByID(ctx, bid)
	if err != nil {
		return err
	}
	if err := auth.Authorize(authorName, blog.AuthorName); err != nil {
		return err
	}

	err = s.files.Release(ctx, func(ctx context.Context) ([]string, error) {
		if err := s.store.Blogs().Delete(ctx, bid); err != nil {
			return nil, err
		}
		return []string{blog.Image}, nil
	})
	if err != nil {
		return err
	}
	s.cache.Delete(ctx, cache.BlogKey(bid))
	return nil
}
