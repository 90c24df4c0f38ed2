package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"wallet_dashboard/internal/app/port"
	"wallet_dashboard/internal/domain/entity"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

// MaxFavoriteLabelLength bounds the optional favorite label.
const MaxFavoriteLabelLength = 100

type addFavoriteInput struct {
	UserID  string `validate:"required,max=128"`
	Address string `validate:"required,eth_addr"`
	Label   string `validate:"max=100"`
}

// FavoritesServiceImpl implements port.FavoritesService.
type FavoritesServiceImpl struct {
	store  port.FavoritesStore
	logger port.Logger
}

// NewFavoritesService creates a new instance of FavoritesServiceImpl.
func NewFavoritesService(store port.FavoritesStore, l port.Logger) *FavoritesServiceImpl {
	return &FavoritesServiceImpl{
		store:  store,
		logger: l.With("component", "FavoritesService"),
	}
}

// Add saves address for userID. Duplicates per (user, address) fail with entity.ErrAlreadyExists.
func (s *FavoritesServiceImpl) Add(ctx context.Context, userID, address, label string) (entity.FavoriteWallet, error) {
	in := addFavoriteInput{
		UserID:  strings.TrimSpace(userID),
		Address: strings.TrimSpace(address),
		Label:   strings.TrimSpace(label),
	}
	if in.UserID == "" {
		return entity.FavoriteWallet{}, entity.ErrUnauthorized
	}
	if err := validate.Struct(&in); err != nil {
		return entity.FavoriteWallet{}, fmt.Errorf("%w: %s", entity.ErrInvalidInput, describeValidation(err))
	}
	normalized, err := entity.NormalizeAddress(in.Address)
	if err != nil {
		return entity.FavoriteWallet{}, err
	}

	fav := entity.FavoriteWallet{
		ID:      uuid.NewString(),
		UserID:  in.UserID,
		Address: normalized,
	}
	if in.Label != "" {
		fav.Label = &in.Label
	}

	saved, err := s.store.Add(ctx, fav)
	if err != nil {
		if !errors.Is(err, entity.ErrAlreadyExists) {
			s.logger.Error("Failed to add favorite", "user_id", in.UserID, "address", normalized, "error", err)
		}
		return entity.FavoriteWallet{}, err
	}
	s.logger.Info("Favorite added", "user_id", in.UserID, "address", normalized)
	return saved, nil
}

// Remove deletes the favorite if present. Removing an absent favorite is not an error.
func (s *FavoritesServiceImpl) Remove(ctx context.Context, userID, address string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return entity.ErrUnauthorized
	}
	address = strings.ToLower(strings.TrimSpace(address))
	if address == "" {
		return fmt.Errorf("%w: wallet address is required", entity.ErrInvalidInput)
	}
	if err := s.store.Remove(ctx, userID, address); err != nil {
		s.logger.Error("Failed to remove favorite", "user_id", userID, "address", address, "error", err)
		return err
	}
	return nil
}

// List returns the user's favorites, newest first.
func (s *FavoritesServiceImpl) List(ctx context.Context, userID string) ([]entity.FavoriteWallet, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, entity.ErrUnauthorized
	}
	favs, err := s.store.List(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to list favorites", "user_id", userID, "error", err)
		return nil, err
	}
	return favs, nil
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	switch {
	case fe.Field() == "Address" && fe.Tag() == "required":
		return "wallet address is required"
	case fe.Field() == "Address":
		return "invalid Ethereum address format"
	case fe.Field() == "Label":
		return fmt.Sprintf("label must be at most %d characters", MaxFavoriteLabelLength)
	default:
		return fmt.Sprintf("%s failed %s validation", strings.ToLower(fe.Field()), fe.Tag())
	}
}
