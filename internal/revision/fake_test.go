package revision

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Kerry350/ember-deploy-s3-index/internal/s3"
)

type fakeObject struct {
	body         []byte
	lastModified time.Time
	opts         s3.PutOptions
}

// fakeStorage is an in-memory bucket. Every put advances its clock by tick
// (one second by default) so upload order equals LastModified order.
type fakeStorage struct {
	mu      sync.Mutex
	objects map[string]fakeObject
	website *s3.WebsiteConfig
	now     time.Time
	tick    time.Duration

	// staticList, when set, is returned by ListObjects regardless of writes.
	staticList []s3.ObjectInfo

	listErr    error
	getErr     error
	putErr     error
	deleteErr  error
	websiteErr error

	puts        []string
	deleted     []string
	deleteCalls int
	websitePuts int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		objects: make(map[string]fakeObject),
		now:     time.Date(2015, 4, 20, 10, 0, 0, 0, time.UTC),
		tick:    time.Second,
	}
}

func (f *fakeStorage) set(key, body string, at time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = fakeObject{body: []byte(body), lastModified: at}
}

func (f *fakeStorage) writes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.puts) + f.deleteCalls + f.websitePuts
}

func (f *fakeStorage) ListObjects(_ context.Context) ([]s3.ObjectInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	if f.staticList != nil {
		return append([]s3.ObjectInfo(nil), f.staticList...), nil
	}
	out := make([]s3.ObjectInfo, 0, len(f.objects))
	for k, o := range f.objects {
		out = append(out, s3.ObjectInfo{Key: k, LastModified: o.lastModified, Size: int64(len(o.body))})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (f *fakeStorage) GetObject(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	o, ok := f.objects[key]
	if !ok {
		return nil, fmt.Errorf("get object %s: %w", key, s3.ErrNotFound)
	}
	return append([]byte(nil), o.body...), nil
}

func (f *fakeStorage) HeadObject(_ context.Context, key string) (*s3.ObjectInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.objects[key]
	if !ok {
		return nil, fmt.Errorf("head object %s: %w", key, s3.ErrNotFound)
	}
	return &s3.ObjectInfo{Key: key, LastModified: o.lastModified, Size: int64(len(o.body)), Metadata: o.opts.Metadata}, nil
}

func (f *fakeStorage) PutObject(_ context.Context, key string, body []byte, opts s3.PutOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return f.putErr
	}
	f.now = f.now.Add(f.tick)
	f.objects[key] = fakeObject{body: append([]byte(nil), body...), lastModified: f.now, opts: opts}
	f.puts = append(f.puts, key)
	return nil
}

func (f *fakeStorage) DeleteObjects(_ context.Context, keys []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for _, k := range keys {
		delete(f.objects, k)
		f.deleted = append(f.deleted, k)
	}
	return nil
}

func (f *fakeStorage) PutWebsite(_ context.Context, cfg s3.WebsiteConfig) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.websitePuts++
	if f.websiteErr != nil {
		return f.websiteErr
	}
	f.website = &cfg
	return nil
}

func (f *fakeStorage) GetWebsite(_ context.Context) (*s3.WebsiteConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.websiteErr != nil {
		return nil, f.websiteErr
	}
	if f.website == nil {
		return nil, fmt.Errorf("get bucket website: %w", s3.ErrNotFound)
	}
	cfg := *f.website
	return &cfg, nil
}

// stubTagger tags payloads with their own text.
type stubTagger struct{}

func (stubTagger) Tag(payload []byte) (string, error) {
	return string(payload), nil
}
