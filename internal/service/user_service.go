package service

import (
	"context"

	"blogapi/internal/auth"
	"blogapi/internal/cache"
	"blogapi/internal/model"
	"blogapi/internal/reconcile"
	"blogapi/internal/repository"
)

// UpdateUserInput carries a profile update. Empty fields are left unchanged.
// ClaimedID is the id the caller asserts to be; Image is the stored file
// accepted for this request.
type UpdateUserInput struct {
	ClaimedID string
	Username  string
	Email     string
	Password  string
	Image     string
}

// UserService exposes self-service user operations.
type UserService interface {
	GetUser(ctx context.Context, id string) (*model.User, error)
	UpdateUser(ctx context.Context, id string, in UpdateUserInput) (*model.User, error)
	DeleteUser(ctx context.Context, id, claimedID string) error
}

type userService struct {
	store repository.Store
	files *reconcile.Coordinator
	cache *cache.Client
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(store repository.Store, files *reconcile.Coordinator, cache *cache.Client) UserService {
	return &userService{store: store, files: files, cache: cache}
}

func (s *userService) GetUser(ctx context.Context, id string) (*model.User, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var cached model.User
	if cache.GetJSON(ctx, s.cache, cache.UserKey(uid), &cached) {
		return &cached, nil
	}

	user, err := s.store.Users().FindByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	cache.SetJSON(ctx, s.cache, cache.UserKey(uid), user, recordCacheTTL)
	return user, nil
}

// UpdateUser applies in to the user identified by id. A username change is
// carried over to the author name of the user's blogs in the same
// transaction. A replaced avatar is removed once the update has committed.
func (s *userService) UpdateUser(ctx context.Context, id string, in UpdateUserInput) (*model.User, error) {
	if err := auth.Authorize(in.ClaimedID, id); err != nil {
		s.files.Discard(ctx, in.Image, "not the account owner")
		return nil, err
	}
	if in.Email != "" {
		if err := checkEmail(in.Email); err != nil {
			s.files.Discard(ctx, in.Image, "invalid email")
			return nil, err
		}
	}
	uid, err := parseID(id)
	if err != nil {
		s.files.Discard(ctx, in.Image, "invalid id")
		return nil, err
	}
	user, err := s.store.Users().FindByID(ctx, uid)
	if err != nil {
		s.files.Discard(ctx, in.Image, "user lookup failed")
		return nil, err
	}

	oldName, previous := user.Username, user.Image
	if in.Username != "" {
		user.Username = in.Username
	}
	if in.Email != "" {
		user.Email = in.Email
	}
	if in.Password != "" {
		hashed, err := auth.HashPassword(in.Password)
		if err != nil {
			s.files.Discard(ctx, in.Image, "password hashing failed")
			return nil, err
		}
		user.Password = hashed
	}
	if in.Image != "" {
		user.Image = in.Image
	}

	var renamed []model.Blog
	err = s.files.Replace(ctx, in.Image, previous, func(ctx context.Context) error {
		return s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
			if err := tx.Users().Update(ctx, user); err != nil {
				return err
			}
			if user.Username == oldName {
				return nil
			}
			blogs, err := tx.Blogs().List(ctx, repository.BlogFilter{AuthorName: oldName})
			if err != nil {
				return err
			}
			renamed = blogs
			return tx.Blogs().RenameAuthor(ctx, oldName, user.Username)
		})
	})
	if err != nil {
		return nil, err
	}

	keys := []string{cache.UserKey(uid)}
	for _, b := range renamed {
		keys = append(keys, cache.BlogKey(b.ID))
	}
	s.cache.Delete(ctx, keys...)
	return user, nil
}

// DeleteUser removes the user together with every blog they wrote, then
// their avatar and the blogs' images.
func (s *userService) DeleteUser(ctx context.Context, id, claimedID string) error {
	if err := auth.Authorize(claimedID, id); err != nil {
		return err
	}
	uid, err := parseID(id)
	if err != nil {
		return err
	}
	user, err := s.store.Users().FindByID(ctx, uid)
	if err != nil {
		return err
	}

	var deleted []model.Blog
	err = s.files.Release(ctx, func(ctx context.Context) ([]string, error) {
		err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
			blogs, err := tx.Blogs().DeleteByAuthor(ctx, user.Username)
			if err != nil {
				return err
			}
			deleted = blogs
			return tx.Users().Delete(ctx, uid)
		})
		if err != nil {
			return nil, err
		}
		names := []string{user.Image}
		for _, b := range deleted {
			names = append(names, b.Image)
		}
		return names, nil
	})
	if err != nil {
		return err
	}

	keys := []string{cache.UserKey(uid)}
	for _, b := range deleted {
		keys = append(keys, cache.BlogKey(b.ID))
	}
	s.cache.Delete(ctx, keys...)
	return nil
}
