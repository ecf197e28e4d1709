package runtime

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

// buildCacheKey hashes the canonical form of the arguments plus the target
// file's size and mtime. The fingerprint keeps a changed target from ever
// serving stale output; identical arguments against an unchanged target are
// byte-identical by contract.
func buildCacheKey(toolName string, args map[string]any, filePath string) (string, error) {
	target, err := filepath.Abs(filePath)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(target)
	if err != nil {
		// Nothing to fingerprint; the miss message is cheap to recompute.
		return "", err
	}

	filtered := make(map[string]any, len(args))
	for key, value := range args {
		switch key {
		case "correlation_id", "request_id":
			continue
		default:
			filtered[key] = value
		}
	}
	data, err := canonicalJSON(filtered)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)

	return fmt.Sprintf("%s:%s:%d-%d", toolName, hex.EncodeToString(sum[:]),
		info.Size(), info.ModTime().UnixNano()), nil
}

// canonicalJSON serializes a decoded-JSON value with sorted object keys so
// equal mappings hash equally.
func canonicalJSON(value any) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return []byte("null"), nil
	case string:
		return []byte(strconv.Quote(v)), nil
	case []any:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, item := range v {
			if i > 0 {
				buf.WriteByte(',')
			}
			data, err := canonicalJSON(item)
			if err != nil {
				return nil, err
			}
			buf.Write(data)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, key := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(strconv.Quote(key))
			buf.WriteByte(':')
			data, err := canonicalJSON(v[key])
			if err != nil {
				return nil, err
			}
			buf.Write(data)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	default:
		return json.Marshal(v)
	}
}
