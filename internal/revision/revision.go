// Package revision manages the manifest of index.html revisions kept in an
// object-storage bucket: uploading content-tagged revisions, pruning the
// manifest to a bounded size, and activating a revision as the live index.
package revision

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Kerry350/ember-deploy-s3-index/internal/logging"
	"github.com/Kerry350/ember-deploy-s3-index/internal/s3"
	"github.com/Kerry350/ember-deploy-s3-index/internal/tagging"
	"github.com/Kerry350/ember-deploy-s3-index/internal/ui"
)

// AdapterName is the name the store is registered under as an index adapter.
const AdapterName = "S3"

const (
	ModeDirect   = "direct"
	ModeIndirect = "indirect"

	DefaultManifestSize = 5

	ContentType  = "text/html"
	CacheControl = "max-age=0, no-cache"
)

type Revision struct {
	Key          string
	LastModified time.Time
}

func (r Revision) ObjectKey() string {
	return s3.RevisionObjectKey(r.Key)
}

type Options struct {
	Mode         string
	HostName     string
	ManifestSize int
}

type Store struct {
	storage   Storage
	tagger    tagging.Tagger
	activator Activator
	opts      Options
	sink      ui.Sink
	log       logging.Logger
}

func New(storage Storage, tagger tagging.Tagger, opts Options, sink ui.Sink, log logging.Logger) (*Store, error) {
	if storage == nil {
		return nil, fmt.Errorf("revision store: storage is required")
	}
	if tagger == nil {
		return nil, fmt.Errorf("revision store: tagger is required")
	}
	if opts.ManifestSize == 0 {
		opts.ManifestSize = DefaultManifestSize
	}
	if opts.ManifestSize < 0 {
		return nil, fmt.Errorf("revision store: manifest size must be positive, got %d", opts.ManifestSize)
	}
	var activator Activator
	switch opts.Mode {
	case ModeDirect:
		activator = NewDirectActivator(storage, opts.HostName)
	case ModeIndirect, "":
		opts.Mode = ModeIndirect
		activator = NewIndirectActivator(storage)
	default:
		return nil, fmt.Errorf("revision store: unknown index mode %q", opts.Mode)
	}
	if sink == nil {
		sink = ui.Discard
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Store{
		storage:   storage,
		tagger:    tagger,
		activator: activator,
		opts:      opts,
		sink:      sink,
		log:       log.With("mode", opts.Mode),
	}, nil
}

// List returns the manifest, most recent first. It never writes.
func (s *Store) List(ctx context.Context) ([]Revision, error) {
	revisions, err := s.manifest(ctx)
	if err != nil {
		return nil, backendErr("list manifest", err)
	}
	return revisions, nil
}

// Keys returns the manifest keys, most recent first.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	revisions, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(revisions))
	for _, r := range revisions {
		keys = append(keys, r.Key)
	}
	return keys, nil
}

// Active returns the key the live index currently points at, or "".
func (s *Store) Active(ctx context.Context) (string, error) {
	key, err := s.activator.Active(ctx)
	if err != nil {
		return "", backendErr("resolve active revision", err)
	}
	return key, nil
}

// Upload stores payload as a new revision and prunes the manifest. The
// returned key is set whenever the revision object was written, even if
// pruning failed afterwards.
func (s *Store) Upload(ctx context.Context, payload []byte) (string, error) {
	key, err := s.tagger.Tag(payload)
	if err != nil {
		return "", fmt.Errorf("tag payload: %w", err)
	}
	log := s.log.With("key", key)

	revisions, err := s.manifest(ctx)
	if err != nil {
		return "", backendErr("list manifest", err)
	}
	if contains(revisions, key) {
		log.Info(ctx, "revision already uploaded")
		return "", alreadyExists(key)
	}

	log.Debug(ctx, "putting revision", "bytes", len(payload))
	err = s.storage.PutObject(ctx, s3.RevisionObjectKey(key), payload, s3.PutOptions{
		ContentType:  ContentType,
		CacheControl: CacheControl,
	})
	if err != nil {
		return "", backendErr("put revision "+key, err)
	}

	pruned, err := s.prune(ctx, key)
	if err != nil {
		return key, err
	}
	log.Info(ctx, "revision uploaded", "pruned", pruned)

	s.sink.WriteLine("")
	s.sink.WriteLine("Upload successful!")
	s.sink.WriteLine("")
	s.sink.WriteLine("Uploaded revision: " + key)
	if pruned > 0 {
		s.sink.WriteLine(fmt.Sprintf("Pruned %d old revision(s)", pruned))
	}
	return key, nil
}

// NormalizeKey accepts a revision key with or without the object suffix.
func NormalizeKey(key string) string {
	return strings.TrimSuffix(strings.TrimSpace(key), s3.RevisionSuffix)
}

// Activate makes key the live index using the configured mode.
func (s *Store) Activate(ctx context.Context, key string) error {
	key = NormalizeKey(key)
	log := s.log.With("key", key)

	revisions, err := s.manifest(ctx)
	if err != nil {
		return backendErr("list manifest", err)
	}
	if !contains(revisions, key) {
		return notFound(key)
	}

	log.Debug(ctx, "fetching revision")
	body, err := s.storage.GetObject(ctx, s3.RevisionObjectKey(key))
	if err != nil {
		return backendErr("fetch revision "+key, err)
	}

	if err := s.activator.Activate(ctx, key, body); err != nil {
		return backendErr("activate "+key+" ("+s.activator.Mode()+" mode)", err)
	}
	log.Info(ctx, "revision activated")

	s.sink.WriteLine("")
	s.sink.WriteLine("Activation successful!")
	s.sink.WriteLine("")
	s.sink.WriteLine("Activated revision: " + key)
	return nil
}

func (s *Store) manifest(ctx context.Context) ([]Revision, error) {
	objects, err := s.storage.ListObjects(ctx)
	if err != nil {
		return nil, err
	}
	revisions := make([]Revision, 0, len(objects))
	for _, obj := range objects {
		key, ok := s3.ParseRevisionKey(obj.Key)
		if !ok {
			continue
		}
		revisions = append(revisions, Revision{Key: key, LastModified: obj.LastModified})
	}
	sortRevisions(revisions)
	return revisions, nil
}

// sortRevisions orders newest first; equal timestamps fall back to key order
// so the ranking is stable across listings.
func sortRevisions(revisions []Revision) {
	sort.SliceStable(revisions, func(i, j int) bool {
		if !revisions[i].LastModified.Equal(revisions[j].LastModified) {
			return revisions[i].LastModified.After(revisions[j].LastModified)
		}
		return revisions[i].Key > revisions[j].Key
	})
}

func contains(revisions []Revision, key string) bool {
	for _, r := range revisions {
		if r.Key == key {
			return true
		}
	}
	return false
}
