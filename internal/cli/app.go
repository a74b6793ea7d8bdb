package cli

import (
	"bufio"
	"context"
	"os"

	"github.com/khianvictorycalderon/profilesync/internal/config"
	"github.com/khianvictorycalderon/profilesync/internal/identity"
	"github.com/khianvictorycalderon/profilesync/internal/logging"
	"github.com/khianvictorycalderon/profilesync/internal/profile"
	"github.com/khianvictorycalderon/profilesync/internal/profile/cache"
	"github.com/khianvictorycalderon/profilesync/internal/remote"
	"github.com/khianvictorycalderon/profilesync/internal/remote/memdoc"
	"github.com/khianvictorycalderon/profilesync/internal/remote/pgdoc"
	"github.com/khianvictorycalderon/profilesync/internal/remote/s3blob"
	"github.com/khianvictorycalderon/profilesync/internal/session"
	"github.com/khianvictorycalderon/profilesync/internal/subscription"
)

// App wires the profile stack behind the REPL commands. The document store is
// postgres when a DSN is configured, in-memory otherwise; the blob store and
// offline cache are optional.
type App struct {
	config  *config.Config
	log     logging.Logger
	manager *session.Manager
	orch    *profile.Orchestrator
	blob    remote.BlobStore
	reader  *bufio.Reader

	editing string
	detach  remote.CancelFunc
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logging.NewJSONLogger(os.Stderr)

	var store remote.Store
	if cfg.DocumentDSN != "" {
		pg, err := pgdoc.Open(ctx, cfg.DocumentDSN, log)
		if err != nil {
			return nil, err
		}
		store = pg
	} else {
		store = memdoc.New()
	}

	accessor := remote.NewAccessor(store, cfg.OpTimeout, log)
	registry := subscription.NewRegistry()
	provider := identity.NewRESTProvider(cfg.IdentityEndpoint, cfg.IdentityAPIKey, log)
	manager := session.NewManager(session.New(), provider, accessor, log)

	var opts []profile.Option
	if cfg.CacheDSN != "" {
		c, err := cache.Open(ctx, cfg.CacheDSN)
		if err != nil {
			return nil, err
		}
		opts = append(opts, profile.WithCache(c))
	}
	orch := profile.NewOrchestrator(accessor, registry, log, opts...)
	detach := orch.Attach(manager)

	var blob remote.BlobStore
	if cfg.BlobBucket != "" {
		b, err := s3blob.New(ctx, s3blob.Config{
			Region:    cfg.BlobRegion,
			Endpoint:  cfg.BlobEndpoint,
			AccessKey: cfg.BlobAccessKey,
			SecretKey: cfg.BlobSecretKey,
			Bucket:    cfg.BlobBucket,
		}, log)
		if err != nil {
			return nil, err
		}
		blob = b
	}

	return &App{
		config:  cfg,
		log:     log,
		manager: manager,
		orch:    orch,
		blob:    blob,
		reader:  bufio.NewReader(os.Stdin),
		detach:  detach,
	}, nil
}

func (a *App) isLoggedIn() bool {
	_, ok := a.manager.Session().Identity()
	return ok
}

func (a *App) status() string {
	if id, ok := a.manager.Session().Identity(); ok {
		if a.editing != "" {
			return id.ID + " editing " + a.editing
		}
		return id.ID
	}
	return a.manager.Session().State().String()
}

func (a *App) Run(ctx context.Context) {
	defer a.detach()
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
}
