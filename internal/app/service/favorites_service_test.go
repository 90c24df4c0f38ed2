package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"wallet_dashboard/internal/domain/entity"
	"wallet_dashboard/internal/pkg/logger"

	"github.com/google/uuid"
)

func TestFavoritesService_Add(t *testing.T) {
	store := &fakeFavoritesStore{}
	svc := NewFavoritesService(store, logger.Nop())

	fav, err := svc.Add(context.Background(), "user-1", "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", "  treasury ")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if fav.Address != "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48" {
		t.Errorf("Address = %s, want lowercase", fav.Address)
	}
	if fav.Label == nil || *fav.Label != "treasury" {
		t.Errorf("Label = %v, want treasury", fav.Label)
	}
	if _, err := uuid.Parse(fav.ID); err != nil {
		t.Errorf("ID %q is not a UUID: %v", fav.ID, err)
	}
	if fav.CreatedAt.IsZero() {
		t.Errorf("CreatedAt not set by the store")
	}

	noLabel, err := svc.Add(context.Background(), "user-1", walletW, "")
	if err != nil {
		t.Fatalf("Add() without label error = %v", err)
	}
	if noLabel.Label != nil {
		t.Errorf("empty label should be stored as nil")
	}
}

func TestFavoritesService_AddDuplicate(t *testing.T) {
	svc := NewFavoritesService(&fakeFavoritesStore{}, logger.Nop())
	if _, err := svc.Add(context.Background(), "user-1", tokenA, ""); err != nil {
		t.Fatalf("first Add() error = %v", err)
	}
	_, err := svc.Add(context.Background(), "user-1", "0x"+strings.ToUpper(tokenA[2:]), "again")
	if !errors.Is(err, entity.ErrAlreadyExists) {
		t.Fatalf("duplicate Add() error = %v, want ErrAlreadyExists", err)
	}
	if _, err := svc.Add(context.Background(), "user-2", tokenA, ""); err != nil {
		t.Errorf("same address for another user should succeed, got %v", err)
	}
}

func TestFavoritesService_AddValidation(t *testing.T) {
	testCases := []struct {
		name    string
		userID  string
		address string
		label   string
		wantErr error
		wantMsg string
	}{
		{name: "no user", userID: " ", address: walletW, wantErr: entity.ErrUnauthorized},
		{name: "no address", userID: "u", address: "", wantErr: entity.ErrInvalidInput, wantMsg: "wallet address is required"},
		{name: "bad address", userID: "u", address: "0x1234", wantErr: entity.ErrInvalidInput, wantMsg: "invalid Ethereum address format"},
		{name: "long label", userID: "u", address: walletW, label: strings.Repeat("x", MaxFavoriteLabelLength+1), wantErr: entity.ErrInvalidInput, wantMsg: "label"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store := &fakeFavoritesStore{}
			_, err := NewFavoritesService(store, logger.Nop()).Add(context.Background(), tc.userID, tc.address, tc.label)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Add() error = %v, want %v", err, tc.wantErr)
			}
			if tc.wantMsg != "" && !strings.Contains(err.Error(), tc.wantMsg) {
				t.Errorf("error %q does not mention %q", err, tc.wantMsg)
			}
			if len(store.items) != 0 {
				t.Errorf("invalid request reached the store")
			}
		})
	}
}

func TestFavoritesService_ListAndRemove(t *testing.T) {
	svc := NewFavoritesService(&fakeFavoritesStore{}, logger.Nop())
	ctx := context.Background()
	for _, addr := range []string{walletW, walletX, tokenA} {
		if _, err := svc.Add(ctx, "user-1", addr, ""); err != nil {
			t.Fatalf("Add(%s) error = %v", addr, err)
		}
	}

	got, err := svc.List(ctx, "user-1")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 3 || got[0].Address != tokenA || got[2].Address != walletW {
		t.Errorf("List() not newest first: %+v", got)
	}

	if err := svc.Remove(ctx, "user-1", strings.ToUpper(walletX)); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if err := svc.Remove(ctx, "user-1", walletX); err != nil {
		t.Fatalf("second Remove() should be a no-op, got %v", err)
	}
	got, _ = svc.List(ctx, "user-1")
	if len(got) != 2 {
		t.Errorf("List() after remove = %d items, want 2", len(got))
	}

	if err := svc.Remove(ctx, "user-1", ""); !errors.Is(err, entity.ErrInvalidInput) {
		t.Errorf("Remove() without address error = %v", err)
	}
	if _, err := svc.List(ctx, ""); !errors.Is(err, entity.ErrUnauthorized) {
		t.Errorf("List() without user error = %v", err)
	}
}
