package fakecoderepo

import (
	"sync"
	"time"

	"github.com/oauthgrant/go-oauth2-server/authcode"
)

var _ authcode.Repo = (*FakeCodeRepo)(nil)

// FakeCodeRepo is an in-memory authcode.Repo. GetAndDelete holds the write
// lock for the whole lookup-and-remove, which is what makes redemption
// single-use under concurrent requests.
type FakeCodeRepo struct {
	codes map[string]*authcode.Code
	lock  sync.RWMutex

	stopJanitor chan struct{}
}

func NewFakeCodeRepo() *FakeCodeRepo {
	return &FakeCodeRepo{
		codes: make(map[string]*authcode.Code),
	}
}

// NewFakeCodeRepoWithJanitor starts a background sweep that removes expired
// codes every interval. The sweep is memory management only; correctness
// never depends on it because expiry is checked at redemption time.
func NewFakeCodeRepoWithJanitor(interval time.Duration) *FakeCodeRepo {
	r := NewFakeCodeRepo()
	r.stopJanitor = make(chan struct{})
	go r.janitor(interval)
	return r
}

func (r *FakeCodeRepo) Upsert(code *authcode.Code) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	copied := *code
	r.codes[copied.Code] = &copied
	return nil
}

func (r *FakeCodeRepo) Get(code string) (*authcode.Code, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	stored, ok := r.codes[code]
	if !ok {
		return nil, authcode.ErrNotFound
	}
	copied := *stored
	return &copied, nil
}

func (r *FakeCodeRepo) GetAndDelete(code string) (*authcode.Code, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	stored, ok := r.codes[code]
	if !ok {
		return nil, authcode.ErrNotFound
	}
	delete(r.codes, code)
	copied := *stored
	return &copied, nil
}

// Close stops the janitor if one was started.
func (r *FakeCodeRepo) Close() {
	if r.stopJanitor != nil {
		close(r.stopJanitor)
	}
}

func (r *FakeCodeRepo) janitor(interval time.Duration) {
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

func (r *FakeCodeRepo) sweep(now time.Time) {
	r.lock.Lock()
	defer r.lock.Unlock()
	for key, code := range r.codes {
		if code.Expired(now) {
			delete(r.codes, key)
		}
	}
}
