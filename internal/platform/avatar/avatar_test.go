package avatar

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestEncode_PNG(t *testing.T) {
	t.Parallel()

	raw := pngBytes(t)
	uri, err := Encode(raw)
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	if !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Fatalf("unexpected data uri prefix: %q", uri[:30])
	}

	decoded, mime, err := Decode(uri)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if mime != "image/png" || !bytes.Equal(decoded, raw) {
		t.Fatalf("Decode mismatch: mime=%s len=%d", mime, len(decoded))
	}
}

func TestEncode_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  []byte
	}{
		{name: "empty", raw: nil},
		{name: "text", raw: []byte("hello, not an image")},
		{name: "truncated png", raw: []byte("\x89PNG\r\n\x1a\n")},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := Encode(tt.raw); !errors.Is(err, ErrInvalidAvatar) {
				t.Fatalf("expected ErrInvalidAvatar, got %v", err)
			}
		})
	}
}

func TestDecode_Rejects(t *testing.T) {
	t.Parallel()

	for _, uri := range []string{
		"",
		"https://example.com/a.png",
		"data:image/png,plain",
		"data:text/plain;base64,aGVsbG8=",
		"data:image/png;base64,***",
	} {
		if _, _, err := Decode(uri); !errors.Is(err, ErrInvalidAvatar) {
			t.Fatalf("Decode(%q): expected ErrInvalidAvatar, got %v", uri, err)
		}
	}
}

func TestReadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "face.png")
	raw := pngBytes(t)
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	size, err := Size(path)
	if err != nil || size != int64(len(raw)) {
		t.Fatalf("Size = %d, %v", size, err)
	}
	uri, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile returned error: %v", err)
	}
	if !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Fatalf("unexpected uri: %q", uri)
	}

	if _, err := Size(filepath.Dir(path)); !errors.Is(err, ErrInvalidAvatar) {
		t.Fatalf("expected ErrInvalidAvatar for directory, got %v", err)
	}
}
