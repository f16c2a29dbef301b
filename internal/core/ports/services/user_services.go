package services

import (
	"context"

	"github.com/tallybeam/tallybeam/internal/core/domain"
	"github.com/tallybeam/tallybeam/internal/dto"
)

// UserSvcFacade keeps the local user record in step with the identity provider.
type UserSvcFacade interface {
	// SyncUser creates or refreshes the user described by verified identity claims.
	SyncUser(ctx context.Context, profile domain.IdentityProfile) (*domain.User, error)
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	UpdatePreferences(ctx context.Context, userID string, req dto.UpdatePreferencesRequest) (*domain.User, error)
}
