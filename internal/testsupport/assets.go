package testsupport

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"

	"contentstore/internal/assets"
)

// StoredObject is an asset captured by MemoryStore.
type StoredObject struct {
	Data []byte
	Meta assets.Metadata
}

// MemoryStore is an in-memory assets.Store that records every write.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string]StoredObject
	puts    int

	// Refuse makes Put report false without storing anything.
	Refuse bool
	// Err is returned from Put when set.
	Err error
}

// NewMemoryStore returns an empty recording store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string]StoredObject)}
}

func (s *MemoryStore) Put(_ context.Context, path string, r io.Reader, meta assets.Metadata) (bool, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.puts++
	if s.Err != nil {
		return false, s.Err
	}
	if s.Refuse {
		return false, nil
	}
	s.objects[path] = StoredObject{Data: data, Meta: meta}
	return true, nil
}

// Object returns the object stored at path.
func (s *MemoryStore) Object(path string) (StoredObject, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[path]
	return obj, ok
}

// Paths lists stored paths in sorted order.
func (s *MemoryStore) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	paths := make([]string, 0, len(s.objects))
	for p := range s.objects {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Puts counts Put calls, including refused ones.
func (s *MemoryStore) Puts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.puts
}

// OriginResponse is a canned reply served by Origin.
type OriginResponse struct {
	Status      int
	ContentType string
	Body        string
}

// Origin is an assets.HTTPDoer that answers from a fixed URL table. Unknown
// URLs get 404. Responses carry exactly the configured Content-Type so tests
// are not affected by content sniffing.
type Origin struct {
	mu        sync.Mutex
	responses map[string]OriginResponse
	requests  []*http.Request
}

// NewOrigin builds an origin serving responses keyed by absolute URL.
func NewOrigin(responses map[string]OriginResponse) *Origin {
	if responses == nil {
		responses = make(map[string]OriginResponse)
	}
	return &Origin{responses: responses}
}

func (o *Origin) Do(req *http.Request) (*http.Response, error) {
	if err := req.Context().Err(); err != nil {
		return nil, err
	}
	o.mu.Lock()
	o.requests = append(o.requests, req)
	reply, ok := o.responses[req.URL.String()]
	o.mu.Unlock()

	if !ok {
		reply = OriginResponse{Status: http.StatusNotFound}
	}
	if reply.Status == 0 {
		reply.Status = http.StatusOK
	}
	header := make(http.Header)
	if reply.ContentType != "" {
		header.Set("Content-Type", reply.ContentType)
	}
	return &http.Response{
		Status:        strconv.Itoa(reply.Status) + " " + http.StatusText(reply.Status),
		StatusCode:    reply.Status,
		Header:        header,
		Body:          io.NopCloser(bytes.NewBufferString(reply.Body)),
		ContentLength: int64(len(reply.Body)),
		Request:       req,
	}, nil
}

// Requests returns the URLs requested so far.
func (o *Origin) Requests() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	urls := make([]string, 0, len(o.requests))
	for _, req := range o.requests {
		urls = append(urls, req.URL.String())
	}
	return urls
}

// UserAgents returns the distinct User-Agent headers seen.
func (o *Origin) UserAgents() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	seen := make(map[string]struct{})
	var agents []string
	for _, req := range o.requests {
		ua := strings.TrimSpace(req.Header.Get("User-Agent"))
		if _, ok := seen[ua]; ok || ua == "" {
			continue
		}
		seen[ua] = struct{}{}
		agents = append(agents, ua)
	}
	return agents
}
