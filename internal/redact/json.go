package redact

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// JSON returns a copy of raw with sensitive string fields masked.
// A field is masked when its key matches SecretKeyPatterns or its value
// starts with a known token prefix. Nested objects and arrays are walked.
// Invalid JSON is returned unchanged.
func JSON(raw []byte) []byte {
	root := gjson.ParseBytes(raw)
	if !root.IsObject() && !root.IsArray() {
		return raw
	}

	out := raw
	var walk func(prefix string, r gjson.Result)
	walk = func(prefix string, r gjson.Result) {
		idx := 0
		r.ForEach(func(k, v gjson.Result) bool {
			var key string
			if r.IsArray() {
				key = strconv.Itoa(idx)
				idx++
			} else {
				key = escapePath(k.String())
			}
			path := key
			if prefix != "" {
				path = prefix + "." + key
			}

			switch {
			case v.IsObject() || v.IsArray():
				walk(path, v)
			case v.Type == gjson.String:
				if ShouldMask(k.String()) || ContainsTokenPrefix(v.String()) {
					if updated, err := sjson.SetBytes(out, path, MaskValue(v.String())); err == nil {
						out = updated
					}
				}
			}
			return true
		})
	}
	walk("", root)
	return out
}

// escapePath escapes characters that are meaningful in gjson/sjson paths.
func escapePath(key string) string {
	r := strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`, "|", `\|`)
	return r.Replace(key)
}
