package avatar

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"os"
	"strings"

	_ "golang.org/x/image/webp"
)

var (
	// ErrInvalidAvatar は画像として解釈できないデータの場合に返却されます。
	ErrInvalidAvatar = errors.New("avatar: unsupported image")
)

var allowedMimes = map[string]struct{}{
	"image/png":  {},
	"image/jpeg": {},
	"image/gif":  {},
	"image/webp": {},
}

// Encode は画像データを data URI に変換します。
// png, jpeg, gif, webp 以外、またはヘッダを解釈できないデータは ErrInvalidAvatar になります。
func Encode(raw []byte) (string, error) {
	if len(raw) == 0 {
		return "", ErrInvalidAvatar
	}
	mime := http.DetectContentType(raw)
	if _, ok := allowedMimes[mime]; !ok {
		return "", fmt.Errorf("%s: %w", mime, ErrInvalidAvatar)
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(raw)); err != nil {
		return "", fmt.Errorf("decode %s: %w", mime, ErrInvalidAvatar)
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(raw), nil
}

// Decode は data URI を画像データと MIME タイプに戻します。
func Decode(uri string) ([]byte, string, error) {
	raw := strings.TrimSpace(uri)
	if !strings.HasPrefix(raw, "data:") {
		return nil, "", ErrInvalidAvatar
	}
	comma := strings.Index(raw, ",")
	if comma < 0 {
		return nil, "", ErrInvalidAvatar
	}
	meta := raw[len("data:"):comma]
	mime, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return nil, "", ErrInvalidAvatar
	}
	if _, allowed := allowedMimes[mime]; !allowed {
		return nil, "", ErrInvalidAvatar
	}
	decoded, err := base64.StdEncoding.DecodeString(raw[comma+1:])
	if err != nil || len(decoded) == 0 {
		return nil, "", ErrInvalidAvatar
	}
	return decoded, mime, nil
}

// Size はファイルサイズを返します。
func Size(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	if info.IsDir() {
		return 0, fmt.Errorf("%s is a directory: %w", path, ErrInvalidAvatar)
	}
	return info.Size(), nil
}

// ReadFile はファイルを読み込んで data URI に変換します。
func ReadFile(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return Encode(raw)
}
