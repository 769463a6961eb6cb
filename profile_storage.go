package main

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// keyValueStore is the per-profile configuration store the session reads
// the streak counter from.
type keyValueStore interface {
	GetInt(profile, group, key string) (int, bool)
	SetInt(profile, group, key string, value int)
	Unset(profile, group, key string)
}

type profileStore struct {
	path  string
	data  map[string]any
	dirty bool
	mu    sync.Mutex
}

// profileStores holds one JSON file per game profile.
type profileStores struct {
	dir    string
	mu     sync.Mutex
	stores map[string]*profileStore
}

func newProfileStores(dir string) *profileStores {
	return &profileStores{dir: dir, stores: map[string]*profileStore{}}
}

func (p *profileStores) storagePath(profile string) string {
	sum := sha256.Sum256([]byte(profile))
	file := hex.EncodeToString(sum[:]) + ".json"
	return filepath.Join(p.dir, file)
}

func (p *profileStores) get(profile string) *profileStore {
	p.mu.Lock()
	defer p.mu.Unlock()
	if ps, ok := p.stores[profile]; ok {
		return ps
	}
	path := p.storagePath(profile)
	data := map[string]any{}
	if b, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(b, &data); err != nil {
			logWarn("load profile storage %s: %v", path, err)
			data = map[string]any{}
		}
	}
	ps := &profileStore{path: path, data: data}
	p.stores[profile] = ps
	return ps
}

func storeKey(group, key string) string { return group + "." + key }

func (p *profileStores) GetInt(profile, group, key string) (int, bool) {
	ps := p.get(profile)
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return intValue(ps.data[storeKey(group, key)])
}

// intValue accepts ints set this run and float64s decoded from JSON.
func intValue(v any) (int, bool) {
	switch v := v.(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

func (p *profileStores) SetInt(profile, group, key string, value int) {
	ps := p.get(profile)
	k := storeKey(group, key)
	ps.mu.Lock()
	if old, ok := intValue(ps.data[k]); !ok || old != value {
		ps.data[k] = value
		ps.dirty = true
	}
	ps.mu.Unlock()
}

func (p *profileStores) Unset(profile, group, key string) {
	ps := p.get(profile)
	k := storeKey(group, key)
	ps.mu.Lock()
	if _, ok := ps.data[k]; ok {
		delete(ps.data, k)
		ps.dirty = true
	}
	ps.mu.Unlock()
}

// Save writes every dirty profile to disk.
func (p *profileStores) Save() {
	p.mu.Lock()
	stores := make([]*profileStore, 0, len(p.stores))
	for _, ps := range p.stores {
		stores = append(stores, ps)
	}
	p.mu.Unlock()
	for _, ps := range stores {
		ps.mu.Lock()
		if !ps.dirty {
			ps.mu.Unlock()
			continue
		}
		data, err := json.MarshalIndent(ps.data, "", "  ")
		if err != nil {
			ps.mu.Unlock()
			logError("save profile storage %s: %v", ps.path, err)
			continue
		}
		ps.dirty = false
		path := ps.path
		ps.mu.Unlock()
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			logError("save profile storage %s: %v", path, err)
			continue
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			logError("save profile storage %s: %v", path, err)
		}
	}
}

// autosave saves dirty profiles every interval until done is closed.
func (p *profileStores) autosave(interval time.Duration, done <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			p.Save()
		case <-done:
			return
		}
	}
}
