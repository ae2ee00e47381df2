package constants

import "strings"

const (
	PDF  = "PDF"
	TEXT = "TXT"
)

// AllowedUploadExtensions holds the extensions accepted by the upload endpoints.
var AllowedUploadExtensions = map[string]struct{}{
	"pdf": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat maps a normalized extension to an input format, or "" if unsupported.
func MapExtToFormat(ext string) string {
	switch NormalizeExt(ext) {
	case "pdf":
		return PDF
	case "txt", "text":
		return TEXT
	default:
		return ""
	}
}

// Export formats.
const (
	ExportXLSX = "xlsx"
	ExportPDF  = "pdf"
)

const (
	MimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MimePDF  = "application/pdf"
)
