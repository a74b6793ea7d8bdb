package profile

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/khianvictorycalderon/profilesync/internal/logging"
	"github.com/khianvictorycalderon/profilesync/internal/remote"
)

// FieldState is the edit lifecycle of one profile field.
type FieldState int

const (
	// StateLoading holds until the first subscription delivery arrives.
	StateLoading FieldState = iota
	// StateViewing displays the last known remote value; deliveries
	// overwrite it.
	StateViewing
	// StateEditing holds a local draft; deliveries are buffered into the
	// remote mirror but never touch the draft.
	StateEditing
	// StateSaving means a merge-write for the draft is in flight.
	StateSaving
)

func (s FieldState) String() string {
	switch s {
	case StateViewing:
		return "viewing"
	case StateEditing:
		return "editing"
	case StateSaving:
		return "saving"
	default:
		return "loading"
	}
}

// ErrInvalidTransition reports a field operation called in the wrong state.
var ErrInvalidTransition = errors.New("invalid field state transition")

// FieldEditController is the per-field state machine:
// Loading → Viewing ⇄ Editing → Saving → Viewing. One instance per field.
type FieldEditController struct {
	field string
	store *remote.Accessor
	log   logging.Logger

	mu    sync.Mutex
	path  string
	state FieldState
	value remote.Value
	draft string
}

func NewFieldEditController(field string, store *remote.Accessor, log logging.Logger) *FieldEditController {
	return &FieldEditController{
		field: field,
		store: store,
		log:   log.With("module", "profile", "field", field),
		state: StateLoading,
	}
}

func (c *FieldEditController) Field() string { return c.field }

func (c *FieldEditController) State() FieldState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Value returns the last known remote value.
func (c *FieldEditController) Value() remote.Value {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Draft returns the local draft; meaningful only while Editing or Saving.
func (c *FieldEditController) Draft() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// Bind attaches the controller to a record path and restarts it at Loading.
// The orchestrator calls this when an identity becomes authenticated.
func (c *FieldEditController) Bind(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.path = path
	c.state = StateLoading
	c.value = remote.Null()
	c.draft = ""
}

// Reset detaches the controller and returns it to Loading. Used on identity
// teardown.
func (c *FieldEditController) Reset() {
	c.Bind("")
}

// ApplyRemote routes one subscription delivery into the controller. The
// remote mirror always advances; the draft is untouched while Editing or
// Saving (local edit wins until committed or canceled).
func (c *FieldEditController) ApplyRemote(v remote.Value) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = v
	if c.state == StateLoading {
		c.state = StateViewing
	}
}

// BeginEdit moves Viewing → Editing with the draft seeded from the current
// remote value.
func (c *FieldEditController) BeginEdit() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateViewing {
		return fmt.Errorf("%w: begin edit from %s", ErrInvalidTransition, c.state)
	}
	c.state = StateEditing
	c.draft = c.value.Display()
	return nil
}

// SetDraft replaces the draft text while Editing.
func (c *FieldEditController) SetDraft(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateEditing {
		return fmt.Errorf("%w: set draft from %s", ErrInvalidTransition, c.state)
	}
	c.draft = text
	return nil
}

// CancelEdit discards the draft and shows the last known remote value.
func (c *FieldEditController) CancelEdit() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateEditing {
		return fmt.Errorf("%w: cancel edit from %s", ErrInvalidTransition, c.state)
	}
	c.state = StateViewing
	c.draft = ""
	return nil
}

// Save merge-writes the draft. On success the controller returns to Viewing
// with the local mirror updated; on failure it drops back to Editing with
// the draft intact and surfaces the error.
func (c *FieldEditController) Save(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateEditing {
		c.mu.Unlock()
		return fmt.Errorf("%w: save from %s", ErrInvalidTransition, c.state)
	}
	c.state = StateSaving
	path, draft := c.path, c.draft
	c.mu.Unlock()

	err := c.store.Write(ctx, path, remote.Record{c.field: remote.String(draft)}, true)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateSaving {
		// Reset raced the write (identity teardown); stay detached.
		return err
	}
	if err != nil {
		c.state = StateEditing
		c.log.Warn(ctx, "save failed", "path", path, "error", err)
		return err
	}
	c.state = StateViewing
	c.value = remote.String(draft)
	c.draft = ""
	return nil
}
