package usecase

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"cron-editor/internal/core"
	"cron-editor/internal/domain"
	"cron-editor/internal/logging"
)

// EditorUseCase is the primary port for editor operations.
// Each instance key owns an independent engine bound to a persisted value.
type EditorUseCase interface {
	Open(key string) (Snapshot, error)
	SetField(key string, index int, text string) (Snapshot, error)
	Focus(key string, index int) (Snapshot, error)
	Blur(key string) (Snapshot, error)
	Snapshot(key string) (Snapshot, error)
	Validate(key string) (bool, error)
	NextRuns(key string, count int) ([]time.Time, error)
	Close(key string) error
	Keys() []string
}

// Snapshot is a read-only view of one editor instance.
type Snapshot struct {
	Key       string
	Value     string
	Fields    domain.Fields
	Valid     bool
	Summary   domain.Summary
	Highlight int
}

// Render returns the summary (or the fixed error) through r.
func (s Snapshot) Render(r domain.Renderer) string {
	if !s.Valid {
		return r.RenderError(domain.InvalidExpressionMessage)
	}
	return r.RenderSummary(s.Summary, s.Highlight)
}

type instance struct {
	mu     sync.Mutex
	engine *core.Engine
}

// editorInteractor implements EditorUseCase.
// It depends only on the core, the domain and secondary ports.
type editorInteractor struct {
	repo      domain.ValueRepository
	previewer domain.SchedulePreviewer
	grammar   *domain.Grammar
	now       func() time.Time

	mu        sync.RWMutex
	instances map[string]*instance
}

// Option configures the editor use case.
type Option func(*editorInteractor)

// WithGrammar replaces the default field grammar for every new instance.
func WithGrammar(g *domain.Grammar) Option {
	return func(e *editorInteractor) { e.grammar = g }
}

// WithClock replaces time.Now for next-run previews.
func WithClock(now func() time.Time) Option {
	return func(e *editorInteractor) { e.now = now }
}

// NewEditorUseCase creates a new editor use case.
// Dependencies are injected (secondary ports). previewer may be nil.
func NewEditorUseCase(repo domain.ValueRepository, previewer domain.SchedulePreviewer, opts ...Option) (EditorUseCase, error) {
	if repo == nil {
		return nil, errors.New("repository is required")
	}
	e := &editorInteractor{
		repo:      repo,
		previewer: previewer,
		grammar:   domain.DefaultGrammar(),
		now:       time.Now,
		instances: make(map[string]*instance),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Open returns the instance for key, creating it from the persisted value.
// Repository I/O runs outside the registry lock.
func (e *editorInteractor) Open(key string) (Snapshot, error) {
	if key == "" {
		return Snapshot{}, domain.ErrEmptyKey
	}
	if inst, err := e.lookup(key); err == nil {
		return e.snapshot(key, inst), nil
	}

	value, err := e.repo.Load(key)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load %s: %w", key, err)
	}
	engine, instructions := core.NewEngine(value, core.WithGrammar(e.grammar))
	inst := &instance{engine: engine}

	// Hold the new instance until its initial value is written so that
	// concurrent editors of the same key wait for it.
	inst.mu.Lock()
	e.mu.Lock()
	if existing, ok := e.instances[key]; ok {
		e.mu.Unlock()
		inst.mu.Unlock()
		return e.snapshot(key, existing), nil
	}
	e.instances[key] = inst
	e.mu.Unlock()
	defer inst.mu.Unlock()

	logging.Debugf("opened editor %s with %q", key, engine.Serialize())
	if err := e.execute(key, instructions); err != nil {
		e.mu.Lock()
		if e.instances[key] == inst {
			delete(e.instances, key)
		}
		e.mu.Unlock()
		return Snapshot{}, err
	}
	return snapshotOf(key, inst.engine), nil
}

// SetField stores new raw text for one field and persists the serialized value.
func (e *editorInteractor) SetField(key string, index int, text string) (Snapshot, error) {
	return e.apply(key, func(engine *core.Engine) ([]core.Instruction, error) {
		return engine.SetFieldValue(index, text)
	})
}

// Focus highlights the fragment of field index.
func (e *editorInteractor) Focus(key string, index int) (Snapshot, error) {
	return e.apply(key, func(engine *core.Engine) ([]core.Instruction, error) {
		return engine.FocusField(index)
	})
}

// Blur clears the highlight.
func (e *editorInteractor) Blur(key string) (Snapshot, error) {
	return e.apply(key, func(engine *core.Engine) ([]core.Instruction, error) {
		return engine.BlurField(), nil
	})
}

// Snapshot returns the current view of an open instance.
func (e *editorInteractor) Snapshot(key string) (Snapshot, error) {
	inst, err := e.lookup(key)
	if err != nil {
		return Snapshot{}, err
	}
	return e.snapshot(key, inst), nil
}

// Validate is the form-validation predicate; it equals the aggregate flag.
func (e *editorInteractor) Validate(key string) (bool, error) {
	snap, err := e.Snapshot(key)
	if err != nil {
		return false, err
	}
	return snap.Valid, nil
}

// NextRuns previews upcoming run times of a valid expression.
func (e *editorInteractor) NextRuns(key string, count int) ([]time.Time, error) {
	snap, err := e.Snapshot(key)
	if err != nil {
		return nil, err
	}
	if !snap.Valid {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidExpression, snap.Value)
	}
	if e.previewer == nil {
		return nil, errors.New("schedule preview is not configured")
	}
	return e.previewer.Next(snap.Value, e.now(), count)
}

// Close discards the instance. The persisted value is kept.
func (e *editorInteractor) Close(key string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.instances[key]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownInstance, key)
	}
	delete(e.instances, key)
	logging.Debugf("closed editor %s", key)
	return nil
}

// Keys lists the open instance keys in sorted order.
func (e *editorInteractor) Keys() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	keys := make([]string, 0, len(e.instances))
	for k := range e.instances {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (e *editorInteractor) apply(key string, fn func(*core.Engine) ([]core.Instruction, error)) (Snapshot, error) {
	inst, err := e.lookup(key)
	if err != nil {
		return Snapshot{}, err
	}

	inst.mu.Lock()
	defer inst.mu.Unlock()
	instructions, err := fn(inst.engine)
	if err != nil {
		return Snapshot{}, err
	}
	if err := e.execute(key, instructions); err != nil {
		return Snapshot{}, err
	}
	return snapshotOf(key, inst.engine), nil
}

// execute performs the side effects among the instructions. Only value
// writes touch the outside world; the rest are carried by the snapshot.
func (e *editorInteractor) execute(key string, instructions []core.Instruction) error {
	for _, ins := range instructions {
		switch ins.Type {
		case core.InstructionWriteValue:
			if err := e.repo.Save(key, ins.Value); err != nil {
				return fmt.Errorf("save %s: %w", key, err)
			}
			logging.Tracef("editor %s value=%q", key, ins.Value)
		case core.InstructionMarkField:
			if !ins.Valid {
				logging.Tracef("editor %s field %s invalid", key, domain.Kind(ins.Index))
			}
		case core.InstructionShowError:
			logging.Debugf("editor %s: %s", key, ins.Message)
		}
	}
	return nil
}

func (e *editorInteractor) lookup(key string) (*instance, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	inst, ok := e.instances[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownInstance, key)
	}
	return inst, nil
}

func (e *editorInteractor) snapshot(key string, inst *instance) Snapshot {
	inst.mu.Lock()
	defer inst.mu.Unlock()
	return snapshotOf(key, inst.engine)
}

// snapshotOf copies the engine state. The caller holds the instance lock.
func snapshotOf(key string, engine *core.Engine) Snapshot {
	st := engine.State()
	return Snapshot{
		Key:       key,
		Value:     st.Value,
		Fields:    st.Fields,
		Valid:     st.Valid,
		Summary:   st.Summary,
		Highlight: st.Highlight,
	}
}
