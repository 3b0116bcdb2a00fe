package watcher

import (
	"errors"
	"sync"
)

// Group watches several files and merges their notifications.
type Group struct {
	watchers []*Watcher
	changed  chan string
	done     chan struct{}
	stopOnce sync.Once
}

// ErrNoPaths is returned by NewGroup when there is nothing to watch.
var ErrNoPaths = errors.New("no files to watch")

// NewGroup creates one Watcher per path with the same options.
func NewGroup(paths []string, opts ...Option) (*Group, error) {
	if len(paths) == 0 {
		return nil, ErrNoPaths
	}
	g := &Group{
		changed: make(chan string, len(paths)),
		done:    make(chan struct{}),
	}
	for _, p := range paths {
		w, err := NewWatcher(p, opts...)
		if err != nil {
			return nil, err
		}
		g.watchers = append(g.watchers, w)
	}
	return g, nil
}

// Start starts every watcher. On failure the ones already started are stopped.
func (g *Group) Start() error {
	for i, w := range g.watchers {
		if err := w.Start(); err != nil {
			for _, started := range g.watchers[:i] {
				started.Stop()
			}
			return err
		}
		go g.forward(w)
	}
	return nil
}

func (g *Group) forward(w *Watcher) {
	for {
		select {
		case <-g.done:
			return
		case <-w.Changed():
			select {
			case g.changed <- w.Path():
			default:
			}
		}
	}
}

// Changed receives the path of a file that changed.
func (g *Group) Changed() <-chan string {
	return g.changed
}

// Watchers returns the underlying watchers.
func (g *Group) Watchers() []*Watcher {
	return g.watchers
}

// Stop stops every watcher.
func (g *Group) Stop() {
	g.stopOnce.Do(func() {
		close(g.done)
		for _, w := range g.watchers {
			w.Stop()
		}
	})
}

// Polling reports whether any watcher fell back to polling.
func (g *Group) Polling() bool {
	for _, w := range g.watchers {
		if w.IsPolling() {
			return true
		}
	}
	return false
}
