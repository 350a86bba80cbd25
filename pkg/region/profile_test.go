package region

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestDefaultSuffixes(t *testing.T) {
	p := Default()
	if err := p.Validate(); err != nil {
		t.Fatalf("default profile invalid: %v", err)
	}
	if got := p.FullSuffix(); got != "Kochi, Kerala, 682025" {
		t.Fatalf("FullSuffix = %q", got)
	}
	if got := p.RegionSuffix(); got != "Kerala, 682025" {
		t.Fatalf("RegionSuffix = %q", got)
	}

	p.PostalCode = ""
	if got := p.FullSuffix(); got != "Kochi, Kerala" {
		t.Fatalf("FullSuffix without postal code = %q", got)
	}
}

func TestLoadFileOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	writeFile(t, path, "locality: Kozhikode\npostal_code: \"673001\"\nreference_point:\n  lat: 11.25\n  lon: 75.78\n  label: Beach\n")

	p, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if p.Locality != "Kozhikode" || p.PostalCode != "673001" || p.ReferencePoint.Label != "Beach" {
		t.Fatalf("overrides not applied: %+v", p)
	}
	if p.Region != "Kerala" || len(p.LocationKeywords) == 0 || p.SearchCenter.Zoom != 15 {
		t.Fatalf("defaults lost: %+v", p)
	}
}

func TestLoadFileReplacesPostalCorrections(t *testing.T) {
	dir := t.TempDir()

	replaced := filepath.Join(dir, "replaced.yaml")
	writeFile(t, replaced, "postal_corrections:\n  \"670001\": \"673001\"\n")
	p, err := LoadFile(replaced)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(p.PostalCorrections) != 1 || p.PostalCorrections["670001"] != "673001" {
		t.Fatalf("corrections = %v", p.PostalCorrections)
	}

	cleared := filepath.Join(dir, "cleared.yaml")
	writeFile(t, cleared, "postal_corrections: {}\n")
	if p, err = LoadFile(cleared); err != nil || len(p.PostalCorrections) != 0 {
		t.Fatalf("corrections = %v, %v", p.PostalCorrections, err)
	}

	untouched := filepath.Join(dir, "untouched.yaml")
	writeFile(t, untouched, "locality: Kochi\n")
	if p, err = LoadFile(untouched); err != nil || p.PostalCorrections["371302"] != "682025" {
		t.Fatalf("default corrections lost: %v, %v", p.PostalCorrections, err)
	}
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.yaml")
	writeFile(t, bad, "locality: [unclosed\n")
	if _, err := LoadFile(bad); err == nil {
		t.Fatal("expected parse error")
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	writeFile(t, invalid, "locality: \"\"\n")
	if _, err := LoadFile(invalid); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestWatcherReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	writeFile(t, path, "locality: Kochi\n")

	store := NewStore(Default())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- NewWatcher(path, store, zap.NewNop()).Run(ctx) }()

	// Give the watcher time to register before changing the file.
	time.Sleep(100 * time.Millisecond)
	writeFile(t, path, "locality: [broken\n")
	writeFile(t, path, "locality: Aluva\n")

	deadline := time.Now().Add(5 * time.Second)
	for store.Current().Locality != "Aluva" {
		if time.Now().After(deadline) {
			t.Fatalf("profile not reloaded, locality = %q", store.Current().Locality)
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestWatcherKeepsReferencePoint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	writeFile(t, path, "locality: Kochi\n")

	initial := Default()
	store := NewStore(initial)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- NewWatcher(path, store, zap.NewNop()).Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	writeFile(t, path, "locality: Aluva\nreference_point:\n  lat: 28.61\n  lon: 77.21\n  label: Delhi\n")

	deadline := time.Now().Add(5 * time.Second)
	for store.Current().Locality != "Aluva" {
		if time.Now().After(deadline) {
			t.Fatalf("profile not reloaded, locality = %q", store.Current().Locality)
		}
		time.Sleep(20 * time.Millisecond)
	}
	if got := store.Current().ReferencePoint; got != initial.ReferencePoint {
		t.Fatalf("reference point changed on reload: %+v", got)
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}
