package core

import (
	"context"
	"strings"
	"sync"
)

// callLog records module calls as "id:phase" in call order.
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(id string, p Phase) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, id+":"+string(p))
}

func (l *callLog) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

// of returns the ids called for one phase, in order.
func (l *callLog) of(p Phase) []string {
	var out []string
	for _, c := range l.all() {
		if id, phase, _ := strings.Cut(c, ":"); Phase(phase) == p {
			out = append(out, id)
		}
	}
	return out
}

type fakeModule struct {
	id    string
	deps  []string
	log   *callLog
	fail  map[Phase]error
	panic map[Phase]any
	// hang blocks the phase until release is closed.
	hang    map[Phase]bool
	release chan struct{}
	// onInit runs inside Initialize, after the call is logged.
	onInit func(c Container)
}

func newFake(id string, log *callLog, deps ...string) *fakeModule {
	return &fakeModule{
		id:      id,
		deps:    deps,
		log:     log,
		fail:    map[Phase]error{},
		panic:   map[Phase]any{},
		hang:    map[Phase]bool{},
		release: make(chan struct{}),
	}
}

func (f *fakeModule) Descriptor() Descriptor {
	return Descriptor{ID: f.id, DisplayName: "fake " + f.id, Dependencies: f.deps}
}

func (f *fakeModule) call(p Phase) error {
	f.log.add(f.id, p)
	if v, ok := f.panic[p]; ok {
		panic(v)
	}
	if f.hang[p] {
		<-f.release
	}
	return f.fail[p]
}

func (f *fakeModule) Initialize(_ context.Context, c Container) error {
	err := f.call(PhaseInitialize)
	if err == nil && f.onInit != nil {
		f.onInit(c)
	}
	return err
}

func (f *fakeModule) Start(context.Context, Container) error   { return f.call(PhaseStart) }
func (f *fakeModule) Stop(context.Context, Container) error    { return f.call(PhaseStop) }
func (f *fakeModule) Dispose(context.Context, Container) error { return f.call(PhaseDispose) }

func moduleMap(mods ...*fakeModule) map[string]Module {
	out := make(map[string]Module, len(mods))
	for _, m := range mods {
		out[m.id] = m
	}
	return out
}

func planOf(mods ...*fakeModule) Plan {
	p := make(Plan, len(mods))
	for i, m := range mods {
		p[i] = m.id
	}
	return p
}
