package rules

import "sort"

// Watcher keeps a running statistic over bus notifications.
type Watcher interface {
	// Key names the watcher inside a registry.
	Key() string
	Watch(note Notification)
}

// WatcherRegistry fans notifications out to its watchers in key order, so
// watchers that publish nothing back see the same sequence on every run.
type WatcherRegistry struct {
	watchers map[string]Watcher
	keys     []string
}

// NewWatcherRegistry creates an empty registry.
func NewWatcherRegistry() *WatcherRegistry {
	return &WatcherRegistry{watchers: make(map[string]Watcher)}
}

// AddWatcher registers a watcher, replacing any watcher with the same key.
func (wr *WatcherRegistry) AddWatcher(w Watcher) {
	if w == nil {
		return
	}
	key := w.Key()
	if _, exists := wr.watchers[key]; !exists {
		wr.keys = append(wr.keys, key)
		sort.Strings(wr.keys)
	}
	wr.watchers[key] = w
}

// NotifyWatchers passes note to every watcher. It has the Listener
// signature so the registry can be subscribed to an EventBus.
func (wr *WatcherRegistry) NotifyWatchers(note Notification) {
	for _, key := range wr.keys {
		wr.watchers[key].Watch(note)
	}
}
