package filter

import (
	"net/url"
	"sync"
)

// Location is where the selection is mirrored so a link reproduces the view.
type Location interface {
	Query() url.Values
	Replace(query url.Values)
}

// URLLocation keeps the listing location as a URL path plus query, replacing rather than
// appending on every change.
type URLLocation struct {
	mu    sync.Mutex
	path  string
	query url.Values
}

// NewURLLocation starts from raw, which may be a full shared link, a "/?..." path or empty.
func NewURLLocation(raw string) (*URLLocation, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &URLLocation{path: "/", query: parsed.Query()}, nil
}

func (l *URLLocation) Query() url.Values {
	l.mu.Lock()
	defer l.mu.Unlock()
	return cloneValues(l.query)
}

func (l *URLLocation) Replace(query url.Values) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.query = cloneValues(query)
}

// String renders the location relative to the site root, e.g. "/?category=Tops".
func (l *URLLocation) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.query) == 0 {
		return l.path
	}
	return l.path + "?" + l.query.Encode()
}

// Link resolves the location against base, e.g. the storefront's public URL.
func (l *URLLocation) Link(base string) string {
	baseURL, err := url.Parse(base)
	if err != nil || baseURL.Host == "" {
		return l.String()
	}
	ref, err := url.Parse(l.String())
	if err != nil {
		return l.String()
	}
	return baseURL.ResolveReference(ref).String()
}

func cloneValues(values url.Values) url.Values {
	out := make(url.Values, len(values))
	for k, v := range values {
		out[k] = append([]string(nil), v...)
	}
	return out
}
