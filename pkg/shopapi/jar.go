package shopapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"

	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/storage"
)

// SessionStorageKey is where PersistentJar keeps the backend cookies.
const SessionStorageKey = "session"

type storedCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// PersistentJar is a cookie jar for a single backend origin that mirrors its cookies into
// durable storage, so a session survives process restarts the way a browser keeps it.
type PersistentJar struct {
	mu     sync.Mutex
	jar    *cookiejar.Jar
	origin *url.URL
	store  storage.Store
	logg   *logger.Logger
}

// NewPersistentJar restores any saved cookies for baseURL from store.
func NewPersistentJar(ctx context.Context, baseURL string, store storage.Store, logg *logger.Logger) (*PersistentJar, error) {
	origin, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	origin = &url.URL{Scheme: origin.Scheme, Host: origin.Host, Path: "/"}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	if logg == nil {
		logg = logger.Nop()
	}
	p := &PersistentJar{jar: jar, origin: origin, store: store, logg: logg}
	p.restore(ctx)
	return p, nil
}

func (p *PersistentJar) restore(ctx context.Context) {
	raw, err := p.store.Get(ctx, SessionStorageKey)
	if errors.Is(err, storage.ErrNotFound) {
		return
	}
	if err != nil {
		p.logg.Warn(p.logg.WithField(ctx, "error", err.Error()), "reading saved session cookies failed")
		return
	}
	var saved []storedCookie
	if err := json.Unmarshal(raw, &saved); err != nil {
		p.logg.Warn(p.logg.WithField(ctx, "error", err.Error()), "discarding unreadable session cookies")
		return
	}
	cookies := make([]*http.Cookie, 0, len(saved))
	for _, c := range saved {
		cookies = append(cookies, &http.Cookie{Name: c.Name, Value: c.Value, Path: "/"})
	}
	p.jar.SetCookies(p.origin, cookies)
}

// SetCookies implements http.CookieJar.
func (p *PersistentJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.jar.SetCookies(u, cookies)
	if u.Host == p.origin.Host {
		p.persist()
	}
}

// Cookies implements http.CookieJar.
func (p *PersistentJar) Cookies(u *url.URL) []*http.Cookie {
	return p.jar.Cookies(u)
}

func (p *PersistentJar) persist() {
	ctx := context.Background()
	current := p.jar.Cookies(p.origin)
	if len(current) == 0 {
		if err := p.store.Delete(ctx, SessionStorageKey); err != nil {
			p.logg.Warn(p.logg.WithField(ctx, "error", err.Error()), "clearing saved session cookies failed")
		}
		return
	}
	saved := make([]storedCookie, 0, len(current))
	for _, c := range current {
		saved = append(saved, storedCookie{Name: c.Name, Value: c.Value})
	}
	raw, err := json.Marshal(saved)
	if err != nil {
		return
	}
	if err := p.store.Set(ctx, SessionStorageKey, raw); err != nil {
		p.logg.Warn(p.logg.WithField(ctx, "error", err.Error()), "saving session cookies failed")
	}
}
