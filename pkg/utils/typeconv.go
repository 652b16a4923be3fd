package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// CellString converts a raw table cell into trimmed text. Numbers are
// rendered without a trailing ".0" so that 1001 and 1001.0 name the same code.
func CellString(val interface{}) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case []byte:
		return strings.TrimSpace(string(v))
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint32:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float32:
		return formatFloat(float64(v), 32)
	case float64:
		return formatFloat(v, 64)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.Format(time.RFC3339)
	case fmt.Stringer:
		return strings.TrimSpace(v.String())
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
}

func formatFloat(f float64, bits int) string {
	if math.IsNaN(f) {
		return ""
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, bits)
}

// NormalizeExt lowercases an extension and strips its leading dots.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimLeft(strings.TrimSpace(ext), "."))
}

// ParseExtList splits a comma separated extension list ("png, .JPG") into a
// set of normalized extensions. Empty entries are ignored.
func ParseExtList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if ext := NormalizeExt(part); ext != "" {
			out = append(out, ext)
		}
	}
	return out
}

// ExtSet builds a lookup set from extensions in any form.
func ExtSet(exts []string) map[string]bool {
	set := make(map[string]bool, len(exts))
	for _, ext := range exts {
		if n := NormalizeExt(ext); n != "" {
			set[n] = true
		}
	}
	return set
}
