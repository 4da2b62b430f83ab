package service

import (
	"context"

	"quill/internal/models"
	"quill/internal/observability"
	"quill/internal/repository"
	"quill/internal/search"
	"quill/internal/validation"
)

type UserService struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	indexer     search.Indexer
}

func NewUserService(userRepo repository.UserRepository, profileRepo repository.ProfileRepository, indexer search.Indexer) *UserService {
	return &UserService{userRepo: userRepo, profileRepo: profileRepo, indexer: indexer}
}

// Register creates user together with an empty profile. A non-empty password
// is hashed first.
func (s *UserService) Register(ctx context.Context, user *models.User, password string) (err error) {
	op, ctx := observability.StartOperation(ctx, "user", "register")
	defer func() { op.End(err) }()

	user.ApplyDefaults()
	if err = validation.Struct(user); err != nil {
		return err
	}
	if password != "" {
		if err = user.SetPassword(password); err != nil {
			return models.NewInternalError(err)
		}
	}
	profile := user.Profile
	if profile == nil {
		profile = &models.Profile{}
	}
	if err = validation.Struct(profile); err != nil {
		return err
	}
	return s.userRepo.Create(ctx, user, profile)
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.userRepo.GetByEmail(ctx, email)
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.userRepo.GetByUsername(ctx, username)
}

func (s *UserService) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}

// Update saves user and re-saves its profile in the same transaction, so
// both save-time defaults run again. A user without a profile gets one.
func (s *UserService) Update(ctx context.Context, user *models.User) (err error) {
	op, ctx := observability.StartOperation(ctx, "user", "update")
	defer func() { op.End(err) }()

	user.ApplyDefaults()
	if err = validation.Struct(user); err != nil {
		return err
	}

	profile := user.Profile
	if profile == nil {
		profile, err = s.profileRepo.GetByUserID(ctx, user.ID)
		switch {
		case models.ErrorCode(err) == models.CodeNotFound:
			profile = &models.Profile{}
		case err != nil:
			return err
		}
	}
	return s.userRepo.Update(ctx, user, profile)
}

// SetPassword replaces the stored hash of the user's password.
func (s *UserService) SetPassword(ctx context.Context, id uint, raw string) (err error) {
	op, ctx := observability.StartOperation(ctx, "user", "set_password")
	defer func() { op.End(err) }()

	if raw == "" {
		return models.NewValidationError("Password is required")
	}
	var u models.User
	if err = u.SetPassword(raw); err != nil {
		return models.NewInternalError(err)
	}
	return s.userRepo.UpdatePassword(ctx, id, u.Password)
}

// CheckPassword looks the user up by email and reports whether raw matches.
// Unknown emails and inactive users never match.
func (s *UserService) CheckPassword(ctx context.Context, email, raw string) (bool, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if models.ErrorCode(err) == models.CodeNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return user.IsActive && user.CheckPassword(raw), nil
}

// Delete removes the user and everything it owns.
func (s *UserService) Delete(ctx context.Context, id uint) (err error) {
	op, ctx := observability.StartOperation(ctx, "user", "delete")
	defer func() { op.End(err) }()

	purged, err := s.userRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	for _, postID := range purged {
		search.Remove(ctx, s.indexer, postID)
	}
	return nil
}
