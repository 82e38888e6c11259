package complaint

import (
	"fmt"
	"strings"
)

// Submission is a new complaint before it is sent to the backend.
type Submission struct {
	Title       string `json:"title"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Anonymous   bool   `json:"anonymous"`
}

// FieldErrors maps a form field to its validation message.
type FieldErrors map[string]string

// Error joins the field messages into a single error string.
func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for _, field := range []string{"title", "category", "description"} {
		if msg, ok := fe[field]; ok {
			parts = append(parts, msg)
		}
	}
	return strings.Join(parts, "; ")
}

// ValidateSubmission checks the required fields of a new complaint. When it
// returns a non-nil FieldErrors, the request must not be sent.
func ValidateSubmission(s Submission) FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(s.Title) == "" {
		errs["title"] = "Title is required"
	}
	if strings.TrimSpace(s.Category) == "" {
		errs["category"] = "Category is required"
	}
	if strings.TrimSpace(s.Description) == "" {
		errs["description"] = "Description is required"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Upload size limits per file class.
const (
	maxImageSize    = 5 * 1024 * 1024
	maxDocumentSize = 10 * 1024 * 1024
	maxVideoSize    = 50 * 1024 * 1024
)

var (
	imageTypes = map[string]bool{
		"image/jpeg": true,
		"image/jpg":  true,
		"image/png":  true,
		"image/gif":  true,
		"image/webp": true,
	}
	documentTypes = map[string]bool{
		"application/pdf":    true,
		"application/msword": true,
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
		"text/plain": true,
	}
	videoTypes = map[string]bool{
		"video/mp4":  true,
		"video/avi":  true,
		"video/mov":  true,
		"video/wmv":  true,
		"video/webm": true,
	}
)

// ValidateFile checks an attachment's MIME type and size against the upload
// rules: images up to 5MB, documents up to 10MB, videos up to 50MB, nothing
// else accepted.
func ValidateFile(name, mimeType string, size int64) error {
	var maxSize int64
	switch {
	case imageTypes[mimeType]:
		maxSize = maxImageSize
	case documentTypes[mimeType]:
		maxSize = maxDocumentSize
	case videoTypes[mimeType]:
		maxSize = maxVideoSize
	default:
		return fmt.Errorf("file %q: file type not allowed. Allowed: Images, PDFs, Documents, Videos", name)
	}

	if size > maxSize {
		return fmt.Errorf("file %q: file too large. Maximum size: %dMB", name, maxSize/(1024*1024))
	}
	return nil
}

// extensionTypes maps common file extensions to the MIME types the upload
// validator understands.
var extensionTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".txt":  "text/plain",
	".mp4":  "video/mp4",
	".avi":  "video/avi",
	".mov":  "video/mov",
	".wmv":  "video/wmv",
	".webm": "video/webm",
}

// MimeTypeFor guesses the MIME type of a file from its extension.
// Unknown extensions return an empty string, which ValidateFile rejects.
func MimeTypeFor(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return ""
	}
	return extensionTypes[strings.ToLower(name[idx:])]
}

// FormatFileSize renders a byte count the way the file listing displays it.
func FormatFileSize(bytes int64) string {
	if bytes == 0 {
		return "0 Bytes"
	}
	const k = 1024
	sizes := []string{"Bytes", "KB", "MB", "GB"}
	i := 0
	v := float64(bytes)
	for v >= k && i < len(sizes)-1 {
		v /= k
		i++
	}
	return fmt.Sprintf("%.2f %s", v, sizes[i])
}
