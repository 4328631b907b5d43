package faketokenrepo

import (
	"sync"
	"time"

	"github.com/oauthgrant/go-oauth2-server/token"
)

var _ token.Repo = (*FakeTokenRepo)(nil)

type FakeTokenRepo struct {
	tokens map[string]*token.AccessToken
	lock   sync.RWMutex

	stopJanitor chan struct{}
}

func NewFakeTokenRepo() *FakeTokenRepo {
	return &FakeTokenRepo{
		tokens: make(map[string]*token.AccessToken),
	}
}

// NewFakeTokenRepoWithJanitor starts a background sweep that removes expired
// tokens every interval, purely as memory management.
func NewFakeTokenRepoWithJanitor(interval time.Duration) *FakeTokenRepo {
	r := NewFakeTokenRepo()
	r.stopJanitor = make(chan struct{})
	go r.janitor(interval)
	return r
}

func (r *FakeTokenRepo) Upsert(accessToken *token.AccessToken) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	copied := *accessToken
	r.tokens[copied.Token] = &copied
	return nil
}

func (r *FakeTokenRepo) Get(tokenValue string) (*token.AccessToken, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	stored, ok := r.tokens[tokenValue]
	if !ok {
		return nil, token.ErrNotFound
	}
	copied := *stored
	return &copied, nil
}

// Close stops the janitor if one was started.
func (r *FakeTokenRepo) Close() {
	if r.stopJanitor != nil {
		close(r.stopJanitor)
	}
}

func (r *FakeTokenRepo) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.sweep(time.Now())
		case <-r.stopJanitor:
			return
		}
	}
}

func (r *FakeTokenRepo) sweep(now time.Time) {
	r.lock.Lock()
	defer r.lock.Unlock()
	for key, t := range r.tokens {
		if t.Expired(now) {
			delete(r.tokens, key)
		}
	}
}
