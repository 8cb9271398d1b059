package chart

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"strings"
	"testing"

	"github.com/tabtamer/tabtamer/server/internal/report"
)

func TestPNG_Decodes(t *testing.T) {
	entries := make([]report.Entry, 10)
	for i := range entries {
		entries[i] = report.Entry{Title: fmt.Sprintf("tab %d", i), Count: 10 - i}
	}
	data, err := New(4, 2).PNG(entries)
	if err != nil {
		t.Fatalf("PNG: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if img.Bounds().Dx() == 0 || img.Bounds().Dy() == 0 {
		t.Errorf("empty image bounds %v", img.Bounds())
	}
}

func TestPNG_Empty(t *testing.T) {
	data, err := New(4, 2).PNG(nil)
	if err != nil {
		t.Fatalf("PNG(nil): %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Fatalf("decode png: %v", err)
	}
}

func TestBase64(t *testing.T) {
	s, err := New(3, 2).Base64([]report.Entry{{Title: "Docs", Count: 1}})
	if err != nil {
		t.Fatalf("Base64: %v", err)
	}
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		t.Fatalf("decode base64: %v", err)
	}
	if !bytes.HasPrefix(raw, []byte("\x89PNG")) {
		t.Error("payload is not a PNG")
	}
}

func TestShorten(t *testing.T) {
	if got := shorten(""); got != "(untitled)" {
		t.Errorf("shorten(empty): got %q", got)
	}
	if got := shorten("short"); got != "short" {
		t.Errorf("shorten(short): got %q", got)
	}
	long := strings.Repeat("é", 100)
	got := shorten(long)
	if n := len([]rune(got)); n != maxLabelRunes {
		t.Errorf("shorten(long): got %d runes, want %d", n, maxLabelRunes)
	}
}
