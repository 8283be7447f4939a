package workflow

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/gatedlife/community-server/internal/models"
	"github.com/gatedlife/community-server/internal/storage"
)

// Resolver answers "which apartment is this user acting in, and as
// what role". Every apartment-scoped workflow goes through it.
type Resolver struct {
	store storage.Store
	log   zerolog.Logger
}

// NewResolver creates an apartment context resolver
func NewResolver(store storage.Store, log zerolog.Logger) *Resolver {
	return &Resolver{store: store, log: log}
}

// ListApartments lists the user's approved apartment access
func (r *Resolver) ListApartments(ctx context.Context, userID int64) ([]*models.ApartmentAccess, error) {
	return r.store.ListApartmentAccess(ctx, userID)
}

// CurrentApartment resolves the user's current apartment context,
// lazily initializing it to the earliest approved ownership when no
// pointer exists yet. A stale pointer, left behind when approval was
// revoked, is re-initialized the same way.
func (r *Resolver) CurrentApartment(ctx context.Context, userID int64) (*models.ApartmentContext, *models.ApartmentOwnership, error) {
	apCtx, err := r.store.GetApartmentContext(ctx, userID)
	if err == nil {
		ownership, oerr := r.store.GetApprovedOwnership(ctx, userID, apCtx.CurrentApartmentID)
		if oerr == nil {
			return apCtx, ownership, nil
		}
		if !errors.Is(oerr, storage.ErrNotFound) {
			return nil, nil, oerr
		}
		r.log.Info().Int64("user_id", userID).Int64("apartment_id", apCtx.CurrentApartmentID).
			Msg("Apartment context points to revoked access, reinitializing")
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, nil, err
	}

	return r.initContext(ctx, userID)
}

func (r *Resolver) initContext(ctx context.Context, userID int64) (*models.ApartmentContext, *models.ApartmentOwnership, error) {
	ownership, err := r.store.FirstApprovedOwnership(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, NotFound("no approved apartment access")
		}
		return nil, nil, err
	}

	if err := r.store.SaveApartmentContext(ctx, userID, ownership.ApartmentID); err != nil {
		return nil, nil, err
	}

	apCtx, err := r.store.GetApartmentContext(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	return apCtx, ownership, nil
}

// SwitchApartment points the user's context at another apartment they
// hold approved access to.
func (r *Resolver) SwitchApartment(ctx context.Context, userID, apartmentID int64) (*models.ApartmentContext, error) {
	if _, err := r.store.GetApprovedOwnership(ctx, userID, apartmentID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, Forbidden("no approved access to apartment")
		}
		return nil, err
	}

	if err := r.store.SaveApartmentContext(ctx, userID, apartmentID); err != nil {
		return nil, err
	}

	return r.store.GetApartmentContext(ctx, userID)
}

// RoleIn returns the user's approved role in an apartment, or a
// Forbidden error when they hold none.
func (r *Resolver) RoleIn(ctx context.Context, userID, apartmentID int64) (models.OwnershipType, error) {
	ownership, err := r.store.GetApprovedOwnership(ctx, userID, apartmentID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", Forbidden("no approved access to apartment")
		}
		return "", err
	}
	return ownership.OwnershipType, nil
}
