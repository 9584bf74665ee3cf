package repository

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"blogapi/internal/model"
)

// BlogFilter narrows List. AuthorName takes precedence over Category; an
// empty filter matches every blog.
type BlogFilter struct {
	AuthorName string
	Category   string
}

// BlogRepository defines blog persistence operations.
type BlogRepository interface {
	Create(ctx context.Context, blog *model.Blog) error
	Update(ctx context.Context, blog *model.Blog) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Blog, error)
	List(ctx context.Context, filter BlogFilter) ([]model.Blog, error)
	// RenameAuthor rewrites AuthorName on every blog written by from.
	RenameAuthor(ctx context.Context, from, to string) error
	// DeleteByAuthor removes every blog written by authorName and returns them.
	DeleteByAuthor(ctx context.Context, authorName string) ([]model.Blog, error)
}

type blogRepository struct {
	db *gorm.DB
}

// NewBlogRepository creates a new blog repository.
func NewBlogRepository(db *gorm.DB) BlogRepository {
	return &blogRepository{db: db}
}

// Create creates a new blog.
func (r *blogRepository) Create(ctx context.Context, blog *model.Blog) error {
	return translate("create blog", r.db.WithContext(ctx).Create(blog).Error)
}

// Update writes every field of an existing blog. A blog deleted in the
// meantime is reported as NotFound, never recreated.
func (r *blogRepository) Update(ctx context.Context, blog *model.Blog) error {
	return expectRows("update blog", r.db.WithContext(ctx).Model(blog).Select("*").Updates(blog))
}

// Delete removes a blog by ID.
func (r *blogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return expectRows("delete blog", r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Blog{}))
}

// FindByID finds a blog by ID.
func (r *blogRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Blog, error) {
	var blog model.Blog
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&blog).Error; err != nil {
		return nil, translate("find blog", err)
	}
	return &blog, nil
}

// List returns blogs matching filter, newest first.
func (r *blogRepository) List(ctx context.Context, filter BlogFilter) ([]model.Blog, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC")
	switch {
	case filter.AuthorName != "":
		q = q.Where("author_name = ?", filter.AuthorName)
	case filter.Category != "":
		needle, err := json.Marshal(filter.Category)
		if err != nil {
			return nil, translate("list blogs", err)
		}
		q = q.Where("JSON_CONTAINS(categories, ?)", string(needle))
	}

	blogs := []model.Blog{}
	if err := q.Find(&blogs).Error; err != nil {
		return nil, translate("list blogs", err)
	}
	return blogs, nil
}

// RenameAuthor updates the denormalized author name.
func (r *blogRepository) RenameAuthor(ctx context.Context, from, to string) error {
	return translate("rename author", r.db.WithContext(ctx).Model(&model.Blog{}).
		Where("author_name = ?", from).
		Update("author_name", to).Error)
}

// DeleteByAuthor deletes an author's blogs. Callers wanting the read and the
// delete to be atomic run it inside Store.WithTransaction.
func (r *blogRepository) DeleteByAuthor(ctx context.Context, authorName string) ([]model.Blog, error) {
	var blogs []model.Blog
	if err := r.db.WithContext(ctx).Where("author_name = ?", authorName).Find(&blogs).Error; err != nil {
		return nil, translate("find author blogs", err)
	}
	if len(blogs) == 0 {
		return blogs, nil
	}
	if err := r.db.WithContext(ctx).Where("author_name = ?", authorName).Delete(&model.Blog{}).Error; err != nil {
		return nil, translate("delete author blogs", err)
	}
	return blogs, nil
}
