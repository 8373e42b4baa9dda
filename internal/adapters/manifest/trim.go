// Package manifest removes development-only keys from package.json before it is published.
package manifest

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"

	"github.com/tailscale/hujson"
	"go.trai.ch/tsbuild/internal/core/domain"
	"go.trai.ch/zerr"
)

const indent = "  "

type patchOp struct {
	Op   string `json:"op"`
	Path string `json:"path"`
}

// Trim removes every key in cut from the JSON object in data and keeps the remaining keys in their original order.
// A key is looked up at the top level first. Otherwise dots separate the names of nested objects.
// Keys that do not exist are ignored. The result is indented with two spaces and ends with a newline.
func Trim(data []byte, cut []string) ([]byte, error) {
	v, err := hujson.Parse(data)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrManifestParseFailed.Error())
	}
	if _, ok := v.Value.(*hujson.Object); !ok {
		return nil, domain.ErrManifestNotObject
	}

	var ops []patchOp
	for _, key := range cut {
		if ptr, ok := locate(&v, key); ok {
			ops = append(ops, patchOp{Op: "remove", Path: ptr})
		}
	}

	if len(ops) > 0 {
		patch, err := json.Marshal(ops)
		if err != nil {
			return nil, zerr.Wrap(err, "failed to encode manifest patch")
		}
		if err := v.Patch(patch); err != nil {
			return nil, zerr.Wrap(err, "failed to cut manifest keys")
		}
	}

	v.Minimize()
	var out bytes.Buffer
	if err := json.Indent(&out, v.Pack(), "", indent); err != nil {
		return nil, zerr.Wrap(err, domain.ErrManifestParseFailed.Error())
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// TrimFile reads the manifest at src, trims it and writes the result to dst.
func TrimFile(src, dst string, cut []string) error {
	data, err := os.ReadFile(src) //nolint:gosec // path comes from configuration
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrManifestReadFailed.Error()), "path", src)
	}

	trimmed, err := Trim(data, cut)
	if err != nil {
		return zerr.With(err, "path", src)
	}

	if err := os.WriteFile(dst, trimmed, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write trimmed manifest"), "path", dst)
	}
	return nil
}

// locate returns the JSON pointer of key in v, trying the literal name before the dotted path.
func locate(v *hujson.Value, key string) (string, bool) {
	if ptr := pointer(key); v.Find(ptr) != nil {
		return ptr, true
	}
	if !strings.Contains(key, ".") {
		return "", false
	}
	ptr := pointer(strings.Split(key, ".")...)
	return ptr, v.Find(ptr) != nil
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func pointer(names ...string) string {
	var b strings.Builder
	for _, name := range names {
		b.WriteByte('/')
		b.WriteString(pointerEscaper.Replace(name))
	}
	return b.String()
}
