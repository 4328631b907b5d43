package fakeclientrepo

import (
	"sync"

	"github.com/google/uuid"
	"github.com/oauthgrant/go-oauth2-server/clients"
)

var _ clients.Repo = (*FakeClientRepo)(nil)

type FakeClientRepo struct {
	clients map[string]*clients.Client
	lock    sync.RWMutex
}

func NewFakeClientRepo() *FakeClientRepo {
	return &FakeClientRepo{
		clients: make(map[string]*clients.Client),
	}
}

func (r *FakeClientRepo) Upsert(clientData *clients.Client) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if clientData.ID == "" {
		clientData.ID = uuid.New().String()
	}
	copied := *clientData
	copied.RedirectURIs = append([]string(nil), clientData.RedirectURIs...)
	r.clients[copied.ID] = &copied
	return nil
}

func (r *FakeClientRepo) Get(clientID string) (*clients.Client, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	client, ok := r.clients[clientID]
	if !ok {
		return nil, clients.ErrNotFound
	}
	copied := *client
	copied.RedirectURIs = append([]string(nil), client.RedirectURIs...)
	return &copied, nil
}
