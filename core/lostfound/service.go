package lostfound

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("item not found")

type Repository interface {
	CreateItem(ctx context.Context, it Item) (Item, error)
	// QueryAllItems returns all items, newest first.
	QueryAllItems(ctx context.Context) ([]Item, error)
	GetItemByID(ctx context.Context, id string) (Item, error)
	UpdateItem(ctx context.Context, it Item) (Item, error)
	DeleteItem(ctx context.Context, id string) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, postedBy string, ni NewItem) (Item, error) {
	now := time.Now().UTC()
	return svc.repo.CreateItem(ctx, Item{
		Type:        ni.Type,
		ItemName:    ni.ItemName,
		Description: ni.Description,
		Location:    ni.Location,
		Date:        ni.Date,
		ContactInfo: ni.ContactInfo,
		Status:      StatusOpen,
		PostedBy:    postedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (svc *Service) QueryAll(ctx context.Context) ([]Item, error) {
	return svc.repo.QueryAllItems(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Item, error) {
	return svc.repo.GetItemByID(ctx, id)
}

func (svc *Service) Update(ctx context.Context, orig Item, ui UpdateItem) (Item, error) {
	if ui.ItemName != "" {
		orig.ItemName = ui.ItemName
	}
	if ui.Description != "" {
		orig.Description = ui.Description
	}
	if ui.Location != "" {
		orig.Location = ui.Location
	}
	if !ui.Date.IsZero() {
		orig.Date = ui.Date
	}
	if ui.ContactInfo != "" {
		orig.ContactInfo = ui.ContactInfo
	}
	if ui.Status != "" {
		orig.Status = ui.Status
	}
	orig.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateItem(ctx, orig)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteItem(ctx, id)
}
