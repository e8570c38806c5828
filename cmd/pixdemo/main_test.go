package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/gogpu/pixref/bitmapcache"
)

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 16), G: uint8(y * 16), B: 80, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	name := filepath.Join(t.TempDir(), "img.png")
	if err := os.WriteFile(name, buf.Bytes(), 0o600); err != nil {
		t.Fatal(err)
	}
	return name
}

func TestNewStore(t *testing.T) {
	tests := []struct {
		kind    string
		wantErr bool
	}{
		{"sharded", false},
		{"lru", false},
		{"arc", false},
		{"fifo", true},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			s, err := newStore(tt.kind, 1<<20, 16)
			if (err != nil) != tt.wantErr {
				t.Fatalf("newStore() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && s == nil {
				t.Error("newStore() returned nil store")
			}
		})
	}
}

func TestRun(t *testing.T) {
	store := bitmapcache.NewSharded(1 << 20)
	prev := bitmapcache.SetDefault(store)
	t.Cleanup(func() { bitmapcache.SetDefault(prev) })

	name := writePNG(t, 12, 8)
	got, err := run(name, 3, 4)
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}

	want := fileResult{Name: name, Format: "png", Size: "12x8", Refs: 3, Locks: 12}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(fileResult{}, "Decodes", "PHash")); diff != "" {
		t.Errorf("run() mismatch (-want +got):\n%s", diff)
	}
	if got.Decodes < 1 || got.Decodes > 3 {
		t.Errorf("Decodes = %d, want between 1 and 3", got.Decodes)
	}
	if got.PHash == "" {
		t.Error("PHash should be set")
	}
	if store.Len() != 1 {
		t.Errorf("store.Len() = %d, want 1", store.Len())
	}
}

func TestRun_MissingFile(t *testing.T) {
	if _, err := run(filepath.Join(t.TempDir(), "nope.png"), 1, 1); err == nil {
		t.Error("run() on a missing file should fail")
	}
}

func TestReport_Write(t *testing.T) {
	rep := report{
		Store: "lru",
		Files: []fileResult{{Name: "a.png", Format: "png", Size: "4x4", Refs: 2, Locks: 2000, Decodes: 1, PHash: "p:0"}},
		Stats: bitmapcache.Stats{Entries: 1, Bytes: 64, Hits: 1999, Misses: 1},
	}

	var text bytes.Buffer
	if err := rep.write(&text, "text"); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"a.png: png 4x4, 2 refs, 2,000 locks, 1 decodes", "1,999 hits"} {
		if !strings.Contains(text.String(), want) {
			t.Errorf("text report missing %q:\n%s", want, text.String())
		}
	}

	var out bytes.Buffer
	if err := rep.write(&out, "yaml"); err != nil {
		t.Fatal(err)
	}
	var back report
	if err := yaml.Unmarshal(out.Bytes(), &back); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(rep.Files, back.Files); diff != "" {
		t.Errorf("yaml report mismatch (-want +got):\n%s", diff)
	}

	if err := rep.write(&out, "xml"); err == nil {
		t.Error("unknown format should fail")
	}
}
