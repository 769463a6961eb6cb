package main

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestProfileStorageSetGetUnset(t *testing.T) {
	dir := t.TempDir()
	p := newProfileStores(dir)

	if _, ok := p.GetInt("main", configGroup, streakKey); ok {
		t.Fatalf("expected no value")
	}
	p.SetInt("main", configGroup, streakKey, 12)
	if v, ok := p.GetInt("main", configGroup, streakKey); !ok || v != 12 {
		t.Fatalf("got %d, %v; want 12", v, ok)
	}
	if _, ok := p.GetInt("alt", configGroup, streakKey); ok {
		t.Fatalf("value leaked to another profile")
	}

	ps := p.get("main")
	if !ps.dirty {
		t.Fatalf("store not marked dirty")
	}
	p.Save()
	if ps.dirty {
		t.Fatalf("store still dirty after save")
	}

	sum := sha256.Sum256([]byte("main"))
	path := filepath.Join(dir, hex.EncodeToString(sum[:])+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read storage: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m["slayerdiscord.streak"] != float64(12) {
		t.Fatalf("stored %v", m)
	}

	reloaded := newProfileStores(dir)
	if v, ok := reloaded.GetInt("main", configGroup, streakKey); !ok || v != 12 {
		t.Fatalf("reloaded %d, %v; want 12", v, ok)
	}
	reloaded.Unset("main", configGroup, streakKey)
	if _, ok := reloaded.GetInt("main", configGroup, streakKey); ok {
		t.Fatalf("value survived unset")
	}
}

func TestProfileStorageCorruptFile(t *testing.T) {
	dir := t.TempDir()
	p := newProfileStores(dir)
	if err := os.WriteFile(p.storagePath("main"), []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, ok := p.GetInt("main", configGroup, streakKey); ok {
		t.Fatalf("read a value from a corrupt file")
	}
	p.SetInt("main", configGroup, streakKey, 3)
	if v, _ := p.GetInt("main", configGroup, streakKey); v != 3 {
		t.Fatalf("got %d; want 3", v)
	}
}

func TestProfileStorageAutosave(t *testing.T) {
	p := newProfileStores(t.TempDir())
	p.SetInt("main", configGroup, streakKey, 5)
	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		p.autosave(time.Millisecond, done)
		close(finished)
	}()
	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, err := os.Stat(p.storagePath("main")); err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("autosave never wrote the profile")
		}
		time.Sleep(5 * time.Millisecond)
	}
	close(done)
	<-finished
}
