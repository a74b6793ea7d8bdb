package profile

import (
	"context"
	"sync"

	"github.com/khianvictorycalderon/profilesync/internal/logging"
	"github.com/khianvictorycalderon/profilesync/internal/profile/cache"
	"github.com/khianvictorycalderon/profilesync/internal/remote"
	"github.com/khianvictorycalderon/profilesync/internal/session"
	"github.com/khianvictorycalderon/profilesync/internal/subscription"
)

// Orchestrator composes the session's identity with the subscription
// registry: when an identity becomes authenticated it installs one
// subscription per profile field routing deliveries into that field's
// controller; on teardown it cancels everything and resets every controller
// to Loading.
type Orchestrator struct {
	accessor *remote.Accessor
	registry *subscription.Registry
	log      logging.Logger

	mu          sync.Mutex
	controllers map[string]*FieldEditController
	cache       *cache.Cache
	identityID  string
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithCache mirrors every delivery into the offline field cache.
func WithCache(c *cache.Cache) Option {
	return func(o *Orchestrator) { o.cache = c }
}

func NewOrchestrator(accessor *remote.Accessor, registry *subscription.Registry, log logging.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		accessor:    accessor,
		registry:    registry,
		log:         log.With("module", "orchestrator"),
		controllers: make(map[string]*FieldEditController, len(Fields)),
	}
	for _, f := range Fields {
		o.controllers[f] = NewFieldEditController(f, accessor, log)
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Controller returns the edit controller for one profile field.
func (o *Orchestrator) Controller(field string) *FieldEditController {
	return o.controllers[field]
}

// Attach subscribes the orchestrator to the manager's identity changes. The
// returned CancelFunc detaches it (without tearing down live subscriptions).
func (o *Orchestrator) Attach(m *session.Manager) remote.CancelFunc {
	return m.OnIdentityChange(func(id session.Identity, authenticated bool) {
		if authenticated {
			o.activate(id.ID)
		} else {
			o.deactivate()
		}
	})
}

func (o *Orchestrator) activate(identityID string) {
	o.mu.Lock()
	o.identityID = identityID
	o.mu.Unlock()

	path := RecordPath(identityID)
	ctx := context.Background()

	for _, field := range Fields {
		ctrl := o.controllers[field]
		ctrl.Bind(path)

		key := subscription.Key{Path: path, Field: field}
		_, err := o.registry.Register(key, func() (remote.CancelFunc, error) {
			return o.accessor.Subscribe(path, field, func(v remote.Value) {
				ctrl.ApplyRemote(v)
				o.mirror(identityID, field, v)
			})
		})
		if err != nil {
			o.log.Error(ctx, "field subscription failed", "path", path, "field", field, "error", err)
		}
	}
	o.log.Info(ctx, "field subscriptions established", "path", path, "fields", len(Fields))
}

func (o *Orchestrator) deactivate() {
	o.mu.Lock()
	identityID := o.identityID
	o.identityID = ""
	o.mu.Unlock()

	o.registry.CancelAll()
	for _, ctrl := range o.controllers {
		ctrl.Reset()
	}
	if o.cache != nil && identityID != "" {
		if err := o.cache.Clear(context.Background(), identityID); err != nil {
			o.log.Warn(context.Background(), "cache clear failed", "identity", identityID, "error", err)
		}
	}
	o.log.Info(context.Background(), "field subscriptions torn down")
}

// mirror persists the delivery into the offline cache, dropping nulls.
func (o *Orchestrator) mirror(identityID, field string, v remote.Value) {
	if o.cache == nil {
		return
	}
	ctx := context.Background()
	var err error
	if v.IsNull() {
		err = o.cache.Delete(ctx, identityID, field)
	} else {
		err = o.cache.Put(ctx, identityID, field, v.Display())
	}
	if err != nil {
		o.log.Warn(ctx, "cache mirror failed", "identity", identityID, "field", field, "error", err)
	}
}

// CachedFields returns the offline mirror for one identity, or nil when no
// cache is configured.
func (o *Orchestrator) CachedFields(ctx context.Context, identityID string) (map[string]string, error) {
	if o.cache == nil {
		return nil, nil
	}
	return o.cache.Fields(ctx, identityID)
}
