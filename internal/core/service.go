package core

import (
	"time"

	"github.com/JonMunkholm/memberportal/internal/catalog"
	"github.com/JonMunkholm/memberportal/internal/config"
)

// Options tunes the Service. Zero values fall back to the defaults below.
type Options struct {
	DraftTTL          time.Duration
	LookupTimeout     time.Duration
	LookupMaxResults  int
	CacheTTL          time.Duration
	LogoMaxSize       int64
	LogoMaxConcurrent int
	LogoMaxWait       time.Duration
	SessionTTL        time.Duration

	// Catalog is the reference data used by validators and the catalog
	// endpoint. Defaults to catalog.Default().
	Catalog *catalog.Catalog

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

const (
	defaultDraftTTL         = 30 * 24 * time.Hour
	defaultLookupTimeout    = 3 * time.Second
	defaultLookupMaxResults = 20
	defaultCacheTTL         = 10 * time.Minute
	defaultLogoMaxSize      = 2 << 20
	defaultSessionTTL       = 8 * time.Hour
)

// OptionsFromConfig builds Options from the loaded configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		DraftTTL:          cfg.Draft.TTL,
		LookupTimeout:     cfg.Lookup.Timeout,
		LookupMaxResults:  cfg.Lookup.MaxResults,
		CacheTTL:          cfg.Cache.TTL,
		LogoMaxSize:       cfg.Upload.LogoMaxSize,
		LogoMaxConcurrent: cfg.Upload.MaxConcurrent,
		LogoMaxWait:       cfg.Upload.MaxWaitTime,
		SessionTTL:        cfg.Security.AdminSessionTTL,
	}
}

func (o Options) withDefaults() Options {
	if o.DraftTTL <= 0 {
		o.DraftTTL = defaultDraftTTL
	}
	if o.LookupTimeout <= 0 {
		o.LookupTimeout = defaultLookupTimeout
	}
	if o.LookupMaxResults <= 0 {
		o.LookupMaxResults = defaultLookupMaxResults
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = defaultCacheTTL
	}
	if o.LogoMaxSize <= 0 {
		o.LogoMaxSize = defaultLogoMaxSize
	}
	if o.SessionTTL <= 0 {
		o.SessionTTL = defaultSessionTTL
	}
	if o.Catalog == nil {
		o.Catalog = catalog.Default()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Service provides the portal's business operations.
type Service struct {
	store   Store
	cache   Cache
	opts    Options
	latest  *LatestTracker
	uploads *UploadLimiter
}

// NewService creates a Service. A nil cache disables lookup caching.
func NewService(store Store, cache Cache, opts Options) *Service {
	if cache == nil {
		cache = NoopCache{}
	}
	opts = opts.withDefaults()
	return &Service{
		store:   store,
		cache:   cache,
		opts:    opts,
		latest:  NewLatestTracker(),
		uploads: NewUploadLimiter(opts.LogoMaxConcurrent, opts.LogoMaxWait),
	}
}

// Catalog returns the reference data the service validates against.
func (s *Service) Catalog() *catalog.Catalog {
	return s.opts.Catalog
}

// Latest returns the tracker that cancels superseded lookups.
func (s *Service) Latest() *LatestTracker {
	return s.latest
}

// Uploads returns the logo upload limiter.
func (s *Service) Uploads() *UploadLimiter {
	return s.uploads
}

// Forms returns the registered form definitions.
func (s *Service) Forms() []FormDefinition {
	return All()
}

func (s *Service) now() time.Time {
	return s.opts.Now()
}
