package memstore

import (
	"context"
	"sync"

	"pawmarket/internal/infra"
	"pawmarket/internal/usecase/commands"

	"github.com/google/uuid"
)

// Catalog fixtures for the external collaborators (service catalog, provider
// directory, pet registry). Used by tests and local runs without upstream
// systems.

type ServiceStore struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]commands.ServiceSnapshot
}

func NewServiceStore() *ServiceStore {
	return &ServiceStore{byID: make(map[uuid.UUID]commands.ServiceSnapshot)}
}

func (s *ServiceStore) Put(svc commands.ServiceSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[svc.ID] = svc
}

func (s *ServiceStore) FindByID(_ context.Context, id uuid.UUID) (*commands.ServiceSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	svc, ok := s.byID[id]
	if !ok {
		return nil, infra.WrapRepoErr(infra.KindNotFound, "service not found", nil)
	}
	return &svc, nil
}

type ProviderStore struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]commands.ProviderSnapshot
}

func NewProviderStore() *ProviderStore {
	return &ProviderStore{byID: make(map[uuid.UUID]commands.ProviderSnapshot)}
}

func (s *ProviderStore) Put(prov commands.ProviderSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[prov.ID] = prov
}

func (s *ProviderStore) FindByID(_ context.Context, id uuid.UUID) (*commands.ProviderSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	prov, ok := s.byID[id]
	if !ok {
		return nil, infra.WrapRepoErr(infra.KindNotFound, "provider not found", nil)
	}
	return &prov, nil
}

type PetStore struct {
	mu      sync.RWMutex
	byOwner map[uuid.UUID][]commands.PetSnapshot
}

func NewPetStore() *PetStore {
	return &PetStore{byOwner: make(map[uuid.UUID][]commands.PetSnapshot)}
}

func (s *PetStore) Put(pet commands.PetSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byOwner[pet.OwnerID] = append(s.byOwner[pet.OwnerID], pet)
}

func (s *PetStore) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]commands.PetSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pets := s.byOwner[ownerID]
	out := make([]commands.PetSnapshot, len(pets))
	copy(out, pets)
	return out, nil
}
