package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/suteetoe/marketplace/internal/auth"
	"github.com/suteetoe/marketplace/internal/model"
)

// AddressInput is the address form. Every field is required.
type AddressInput struct {
	AddressLine string
	Barangay    string
	City        string
	Province    string
	Phone       string
}

func (in *AddressInput) normalize() error {
	fields := []struct {
		name  string
		value *string
	}{
		{"Address line", &in.AddressLine},
		{"Barangay", &in.Barangay},
		{"City", &in.City},
		{"Province", &in.Province},
		{"Phone", &in.Phone},
	}
	for _, f := range fields {
		*f.value = strings.TrimSpace(*f.value)
		if *f.value == "" {
			return invalid(f.name + " is required")
		}
	}
	return nil
}

func (s *Service) ListAddresses(ctx context.Context, id auth.Identity) ([]model.Address, error) {
	if !id.IsAuthenticated() {
		return nil, ErrForbidden
	}
	return s.repo.Addresses().ListByUser(ctx, id.UserID)
}

func (s *Service) CreateAddress(ctx context.Context, id auth.Identity, in AddressInput) (*model.Address, error) {
	if !id.IsAuthenticated() {
		return nil, ErrForbidden
	}
	if err := in.normalize(); err != nil {
		return nil, err
	}
	address := &model.Address{
		UserID:      id.UserID,
		AddressLine: in.AddressLine,
		Barangay:    in.Barangay,
		City:        in.City,
		Province:    in.Province,
		Phone:       in.Phone,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.repo.Addresses().Create(ctx, address); err != nil {
		return nil, fmt.Errorf("failed to create address: %w", err)
	}
	return address, nil
}

// GetAddress loads one of the caller's addresses
func (s *Service) GetAddress(ctx context.Context, id auth.Identity, addressID uint) (*model.Address, error) {
	if !id.IsAuthenticated() {
		return nil, ErrForbidden
	}
	address, err := s.repo.Addresses().GetByID(ctx, addressID)
	if err != nil {
		return nil, err
	}
	if address.UserID != id.UserID {
		return nil, ErrForbidden
	}
	return address, nil
}

func (s *Service) UpdateAddress(ctx context.Context, id auth.Identity, addressID uint, in AddressInput) (*model.Address, error) {
	address, err := s.GetAddress(ctx, id, addressID)
	if err != nil {
		return nil, err
	}
	if err := in.normalize(); err != nil {
		return nil, err
	}
	address.AddressLine = in.AddressLine
	address.Barangay = in.Barangay
	address.City = in.City
	address.Province = in.Province
	address.Phone = in.Phone
	if err := s.repo.Addresses().Update(ctx, address); err != nil {
		return nil, fmt.Errorf("failed to update address: %w", err)
	}
	return address, nil
}

func (s *Service) DeleteAddress(ctx context.Context, id auth.Identity, addressID uint) error {
	address, err := s.GetAddress(ctx, id, addressID)
	if err != nil {
		return err
	}
	return s.repo.Addresses().Delete(ctx, address.ID)
}
