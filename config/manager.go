package config

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
)

// Manager loads configuration from layered sources, binds and validates it,
// and tells subscribers when it changes.
//
// A reload that fails to load, bind or validate leaves the current
// configuration untouched. All methods are safe for concurrent use.
type Manager struct {
	sources []ConfigSource
	config  any
	binder  *Binder
	logger  *slog.Logger

	mu   sync.RWMutex
	subs []chan Event

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Options configures a Manager.
type Options struct {
	// AutoReload starts a watcher per source and reloads on change.
	AutoReload bool
	// Logger receives reload failures from watchers. Defaults to slog.Default.
	Logger *slog.Logger
}

// NewManager binds cfg, a pointer to a struct, from sources. Later sources
// override earlier ones:
//
//	var cfg config.Root
//	mgr, err := config.NewManager(&cfg, config.Options{},
//	    &source.MapSource{Label: "defaults", Data: config.Defaults()},
//	    &source.FileSource{BasePath: "configs"},
//	    &source.EnvSource{},
//	    &source.CLISource{},
//	)
//
// The initial load must succeed.
func NewManager(cfg any, opts Options, sources ...ConfigSource) (*Manager, error) {
	if v := reflect.ValueOf(cfg); v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("config: target must be a pointer to a struct, got %T", cfg)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		sources: sources,
		config:  cfg,
		binder:  NewBinder(),
		logger:  logger,
	}

	if err := m.Reload(context.Background()); err != nil {
		return nil, err
	}

	if opts.AutoReload {
		ctx, cancel := context.WithCancel(context.Background())
		m.cancel = cancel
		m.startWatchers(ctx)
	}
	return m, nil
}

// Reload merges every source, binds the result into a fresh value, validates
// it and swaps it in. Subscribers hear about it only if something changed.
func (m *Manager) Reload(ctx context.Context) error {
	merged := map[string]any{}
	for _, src := range m.sources {
		if err := ctx.Err(); err != nil {
			return err
		}
		vals, err := src.Load(ctx)
		if err != nil {
			return fmt.Errorf("failed to load config from %s: %w", src.Name(), err)
		}
		mergeMaps(merged, vals)
	}

	typ := reflect.TypeOf(m.config).Elem()
	next := reflect.New(typ)
	if err := m.binder.Bind(merged, next.Interface()); err != nil {
		return fmt.Errorf("failed to bind config: %w", err)
	}

	m.mu.Lock()
	prev := reflect.New(typ)
	prev.Elem().Set(reflect.ValueOf(m.config).Elem())
	reflect.ValueOf(m.config).Elem().Set(next.Elem())
	m.mu.Unlock()

	if keys := changedKeys(prev.Interface(), next.Interface()); len(keys) > 0 {
		m.notify(Event{
			ChangedKeys: keys,
			OldConfig:   prev.Interface(),
			NewConfig:   next.Interface(),
		})
	}
	return nil
}

// Read runs fn with the read lock held so it sees a consistent value.
func (m *Manager) Read(fn func(cfg any)) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	fn(m.config)
}

// Subscribe registers ch for change events. Sends never block: a full
// channel misses the event. The Manager never closes ch.
func (m *Manager) Subscribe(ch chan Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, ch)
}

// Close stops source watchers started by AutoReload and waits for them.
func (m *Manager) Close() {
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()
}

func (m *Manager) notify(evt Event) {
	m.mu.RLock()
	subs := append([]chan Event(nil), m.subs...)
	m.mu.RUnlock()
	for _, ch := range subs {
		select {
		case ch <- evt:
		default:
		}
	}
}

func (m *Manager) startWatchers(ctx context.Context) {
	for _, src := range m.sources {
		ch := make(chan Event, 1)
		m.wg.Add(2)
		go func() {
			defer m.wg.Done()
			if err := src.Watch(ctx, ch); err != nil && ctx.Err() == nil {
				m.logger.Warn("config watch failed", "source", src.Name(), "error", err)
			}
		}()
		go func() {
			defer m.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ch:
					if err := m.Reload(ctx); err != nil {
						m.logger.Warn("config reload failed", "source", src.Name(), "error", err)
					}
				}
			}
		}()
	}
}
