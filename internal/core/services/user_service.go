package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tallybeam/tallybeam/internal/apperrors"
	"github.com/tallybeam/tallybeam/internal/core/domain"
	portsrepo "github.com/tallybeam/tallybeam/internal/core/ports/repositories"
	portssvc "github.com/tallybeam/tallybeam/internal/core/ports/services"
	"github.com/tallybeam/tallybeam/internal/dto"
)

type userService struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
}

// NewUserService creates the user sync and preferences service.
func NewUserService(userRepo portsrepo.UserRepositoryFacade, opts ...Option) portssvc.UserSvcFacade {
	return &userService{
		BaseService: applyOptions(opts).base(),
		userRepo:    userRepo,
	}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

// SyncUser finds or creates the user for profile.Subject and refreshes the
// profile fields. Empty claims never overwrite stored values.
func (s *userService) SyncUser(ctx context.Context, profile domain.IdentityProfile) (*domain.User, error) {
	if profile.Subject == "" {
		return nil, fmt.Errorf("%w: identity subject is required", apperrors.ErrValidation)
	}

	now := s.Now()
	first, last := profileNames(profile)

	user, err := s.userRepo.FindUserByID(ctx, profile.Subject)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to find user in repository", slog.String("user_id", profile.Subject))
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if user == nil {
		newUser := domain.User{
			UserID:      profile.Subject,
			Email:       profile.Email,
			FirstName:   first,
			LastName:    last,
			ImageURL:    profile.Picture,
			IsActive:    true,
			LastLoginAt: &now,
			Preferences: domain.DefaultUserPreferences(),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.userRepo.SaveUser(ctx, newUser); err != nil {
			s.LogError(ctx, err, "Failed to save user in repository", slog.String("user_id", profile.Subject))
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		s.LogInfo(ctx, "Created user from identity claims", slog.String("user_id", newUser.UserID))
		return &newUser, nil
	}

	user.Email = valueOr(profile.Email, user.Email)
	user.FirstName = valueOr(first, user.FirstName)
	user.LastName = valueOr(last, user.LastName)
	user.ImageURL = valueOr(profile.Picture, user.ImageURL)
	user.LastLoginAt = &now
	user.UpdatedAt = now
	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		s.LogError(ctx, err, "Failed to update user in repository", slog.String("user_id", user.UserID))
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	s.LogDebug(ctx, "Refreshed user from identity claims", slog.String("user_id", user.UserID))
	return user, nil
}

// profileNames prefers the given/family claims and falls back to splitting the display name.
func profileNames(p domain.IdentityProfile) (string, string) {
	first, last := p.GivenName, p.FamilyName
	parts := strings.Fields(p.Name)
	if first == "" && len(parts) > 0 {
		first = parts[0]
	}
	if last == "" && len(parts) > 1 {
		last = strings.Join(parts[1:], " ")
	}
	return first, last
}

func (s *userService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		s.LogError(ctx, err, "Failed to find user in repository", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !user.IsActive {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

func (s *userService) UpdatePreferences(ctx context.Context, userID string, req dto.UpdatePreferencesRequest) (*domain.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.DefaultCurrency != nil {
		user.Preferences.DefaultCurrency = *req.DefaultCurrency
	}
	if req.DefaultPaymentMethod != nil {
		user.Preferences.DefaultPaymentMethod = *req.DefaultPaymentMethod
	}
	if req.EmailNotifications != nil {
		user.Preferences.EmailNotifications = *req.EmailNotifications
	}
	user.UpdatedAt = s.Now()

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		s.LogError(ctx, err, "Failed to update user preferences", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to update preferences: %w", err)
	}
	s.LogInfo(ctx, "User preferences updated", slog.String("user_id", userID))
	return user, nil
}
