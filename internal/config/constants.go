package config

const (
	// Upload
	MaxUploadBytes = 10 * 1024 * 1024

	// Reply preview
	ReplySnapshotRunes = 50

	// Per-client outbound buffer. A client that falls this far behind
	// misses events rather than blocking the hub.
	ClientSendBuffer = 256
)

// AllowedUploadTypes is the MIME allowlist for POST /upload.
var AllowedUploadTypes = map[string]bool{
	"image/jpeg":         true,
	"image/png":          true,
	"image/gif":          true,
	"image/webp":         true,
	"application/pdf":    true,
	"text/plain":         true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"audio/mpeg": true,
	"audio/wav":  true,
	"audio/ogg":  true,
	"audio/webm": true,
}
