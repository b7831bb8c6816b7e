package apiclient

import (
	"context"

	"github.com/alexanderramin/testdeck/internal/domain"
	"github.com/alexanderramin/testdeck/internal/sectiontree"
	"github.com/alexanderramin/testdeck/internal/service"
)

// SectionStore lets a sectiontree.Editor load and save through the API.
type SectionStore struct {
	Client *Client
}

var _ sectiontree.Store = SectionStore{}

func (s SectionStore) ListSections(ctx context.Context, setID string) ([]domain.Section, error) {
	sections, err := s.Client.ListSections(ctx, setID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Section, len(sections))
	for i, sec := range sections {
		out[i] = *sec
	}
	return out, nil
}

func (s SectionStore) ReorderSections(ctx context.Context, setID string, orders []domain.SectionOrder) error {
	return s.Client.ReorderSections(ctx, setID, orders)
}

// RemoteSections serves service.SectionService from a remote backend.
type RemoteSections struct {
	Client *Client
}

var _ service.SectionService = RemoteSections{}

func (r RemoteSections) List(ctx context.Context, setID string) ([]*domain.Section, error) {
	return r.Client.ListSections(ctx, setID)
}

func (r RemoteSections) Tree(ctx context.Context, setID string) ([]*domain.Section, error) {
	return r.Client.SectionTree(ctx, setID)
}

// Create fills s with the stored section on success.
func (r RemoteSections) Create(ctx context.Context, s *domain.Section) error {
	created, err := r.Client.CreateSection(ctx, s.SetID, s.Name, s.ParentID)
	if err != nil {
		return err
	}
	*s = *created
	return nil
}

func (r RemoteSections) Rename(ctx context.Context, setID, id, name string) (*domain.Section, error) {
	return r.Client.RenameSection(ctx, setID, id, name)
}

func (r RemoteSections) Delete(ctx context.Context, setID, id string) (int, error) {
	return r.Client.DeleteSection(ctx, setID, id)
}

func (r RemoteSections) Reorder(ctx context.Context, setID string, orders []domain.SectionOrder) error {
	return r.Client.ReorderSections(ctx, setID, orders)
}
