package validation

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/username/mtop/backend/src/logger"
)

// AllowedClientContentTypes lists the client-declared MIME types accepted
// for a statement CSV upload.
var AllowedClientContentTypes = map[string]bool{
	"text/csv":                 true,
	"application/csv":          true,
	"application/vnd.ms-excel": true, // older Excel exports CSV with this type
	"text/plain":               true,
}

// ValidateClientContentType checks the Content-Type header provided by the
// client.
func ValidateClientContentType(contentType string) error {
	base := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	if !AllowedClientContentTypes[base] {
		logger.L.Warn("Disallowed client-declared Content-Type", "contentType", contentType)
		return fmt.Errorf("client-declared file type %q is not allowed for statement upload", contentType)
	}
	return nil
}

// isBinaryContent checks a buffer for binary control characters; a
// statement export is always plain text.
func isBinaryContent(buf []byte) bool {
	if bytes.IndexByte(buf, 0) != -1 {
		return true
	}
	return !utf8.Valid(buf)
}

// ValidateFileContent inspects the actual file content (magic bytes plus a
// binary scan) and ensures it is a text-based CSV before parsing. The read
// pointer is reset so the parser sees the full file.
func ValidateFileContent(file io.ReadSeeker) (string, error) {
	if file == nil {
		return "", fmt.Errorf("file is nil")
	}

	buffer := make([]byte, 1024)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read file for content type checking: %w", err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to reset file read pointer: %w", err)
	}
	if n == 0 {
		return "", fmt.Errorf("file is empty")
	}

	if isBinaryContent(buffer[:n]) {
		logger.L.Warn("File rejected: binary content detected in statement upload")
		return "application/octet-stream", fmt.Errorf("file appears to be binary, not a text CSV")
	}

	detected := http.DetectContentType(buffer[:n])
	detected = strings.ToLower(strings.Split(detected, ";")[0])

	allowedDetected := map[string]bool{
		"text/plain":      true,
		"text/csv":        true,
		"application/csv": true,
	}
	if !allowedDetected[detected] {
		logger.L.Warn("File rejected: detected content type not allowed", "detectedType", detected)
		return detected, fmt.Errorf("file content does not look like a CSV statement (detected %s)", detected)
	}
	return detected, nil
}
