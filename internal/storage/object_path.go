package storage

import (
	"fmt"
	"mime"
	"path"
	"strings"
	"time"
)

func sanitizePathSegment(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	builder := strings.Builder{}
	builder.Grow(len(value))
	for i := 0; i < len(value); i++ {
		ch := value[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= '0' && ch <= '9':
			builder.WriteByte(ch)
		case ch >= 'A' && ch <= 'Z':
			builder.WriteByte(ch + 32)
		case ch == '-', ch == '_':
			builder.WriteByte(ch)
		}
	}
	return builder.String()
}

func normalizeExtension(ext string) string {
	trimmed := strings.TrimSpace(ext)
	trimmed = strings.TrimPrefix(trimmed, ".")
	if trimmed == "" {
		return "bin"
	}
	return sanitizePathSegment(trimmed)
}

// buildObjectKey lays out objects as
// `{bucket}/{ownerID}/{baseName}_{timestamp}.{ext}` so every stored asset is
// traceable to its owner.
func buildObjectKey(opts SaveOptions) string {
	now := time.Now().UTC()
	bucket := sanitizePathSegment(opts.Bucket)
	if bucket == "" {
		bucket = "misc"
	}
	normalizedExt := normalizeExtension(opts.Extension)
	base := sanitizeFileBase(opts.BaseName)
	if base == "" {
		base = "asset"
	}
	owner := fmt.Sprintf("%d", opts.OwnerID)
	filename := fmt.Sprintf("%s_%d.%s", base, now.UnixNano(), normalizedExt)
	return path.Join(bucket, owner, filename)
}

func detectContentType(ext string) string {
	normalized := normalizeExtension(ext)
	typeName := mime.TypeByExtension("." + normalized)
	if typeName == "" {
		return "application/octet-stream"
	}
	return typeName
}

func joinPrefix(prefix, key string) string {
	cleanPrefix := trimPrefix(prefix)
	if cleanPrefix == "" {
		return strings.TrimLeft(key, "/")
	}
	return path.Join(cleanPrefix, strings.TrimLeft(key, "/"))
}

func trimPrefix(prefix string) string {
	return strings.Trim(strings.TrimSpace(prefix), "/")
}

func sanitizeFileBase(value string) string {
	replaced := strings.ReplaceAll(strings.TrimSpace(value), " ", "-")
	sanitized := sanitizePathSegment(replaced)
	return strings.Trim(sanitized, "-_")
}

// SanitizeToken lowercases the provided token and keeps alphanumeric, dash,
// and underscore characters only.
func SanitizeToken(value string) string {
	return sanitizePathSegment(value)
}
