package util

// Storage backends accepted in storage.type.
const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
	StorageB2    = "b2"
)

// Sniffed content types that decide a resource's type. MimeVideo is a prefix.
const (
	MimeVideo       = "video/"
	MimePDF         = "application/pdf"
	MimeText        = "text/plain"
	MimeOctetStream = "application/octet-stream"
)

// MaxUploadSize bounds content library uploads (200 MB, enough for a recorded class).
const MaxUploadSize = 200 << 20

// Extensions trusted when sniffing is inconclusive: containers that sniff as
// octet-stream, and source files that sniff as plain text.
var (
	AllowedVideoExtensions = []string{".mp4", ".mov", ".avi", ".mkv", ".webm"}
	AllowedCodeExtensions  = []string{".py", ".txt", ".ipynb"}
)
