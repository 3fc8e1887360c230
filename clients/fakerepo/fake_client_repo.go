package fakeclientrepo

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-credential-issuer/clients"
)

var _ clients.Repo = (*FakeClientRepo)(nil)

type FakeClientRepo struct {
	configs map[string]*clients.ClientAuthConfig
	lock    sync.RWMutex
}

func NewFakeClientRepo() *FakeClientRepo {
	return &FakeClientRepo{
		configs: make(map[string]*clients.ClientAuthConfig),
	}
}

func (cr *FakeClientRepo) Upsert(clientID string, config *clients.ClientAuthConfig) {
	cr.lock.Lock()
	defer cr.lock.Unlock()

	cr.configs[clientID] = config
}

func (cr *FakeClientRepo) Get(_ context.Context, clientID string) (*clients.ClientAuthConfig, error) {
	cr.lock.RLock()
	defer cr.lock.RUnlock()

	config, ok := cr.configs[clientID]
	if !ok {
		return nil, clients.ErrNotFound
	}
	return config, nil
}
