package encoding

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"
)

const (
	// sniffLen is the number of bytes used by http.DetectContentType.
	sniffLen = 512
	// checkLen is the buffer size used for null byte checks.
	checkLen = 1024
	// nullThreshold is the null-byte percentage above which content is
	// considered binary.
	nullThreshold = 0.15
)

// Text-based MIME type prefixes recognized by IsBinary.
var knownTextMIMEPrefixes = map[string]bool{
	"text/":                  true,
	"application/json":       true,
	"application/xml":        true,
	"application/javascript": true,
	"application/yaml":       true,
	"application/toml":       true,
	"application/sql":        true,
	"image/svg+xml":          true,
}

// Text-based MIME type suffixes recognized by IsBinary.
var knownTextMIMESuffixes = map[string]bool{
	"+xml":  true,
	"+json": true,
}

// Handler detects character encodings, converts content to UTF-8, and detects
// binary files.
type Handler interface {
	// DetectAndDecode attempts to detect the encoding of the input content and
	// convert it to UTF-8. It returns the UTF-8 bytes, the detected encoding
	// name, a boolean indicating whether detection was certain, and any error
	// encountered during conversion.
	DetectAndDecode(content []byte) (utf8Content []byte, detectedEncoding string, certain bool, err error)

	// IsBinary checks whether the content is likely binary data, based on MIME
	// type sniffing of the first 512 bytes and the null-byte percentage of the
	// first 1024 bytes.
	IsBinary(content []byte) bool
}

// charsetHandler implements Handler using golang.org/x/net/html/charset.
type charsetHandler struct {
	defaultEncoding string
}

// NewCharsetHandler creates an encoding handler. defaultEncoding is used when
// detection is uncertain; empty means assume UTF-8.
func NewCharsetHandler(defaultEncoding string) Handler {
	return &charsetHandler{defaultEncoding: defaultEncoding}
}

func (h *charsetHandler) DetectAndDecode(content []byte) ([]byte, string, bool, error) {
	if len(content) == 0 {
		return content, "utf-8", true, nil
	}

	enc, name, certain := charset.DetermineEncoding(content, "")
	if !certain && h.defaultEncoding != "" {
		if defEnc, _ := charset.Lookup(h.defaultEncoding); defEnc != nil {
			enc = defEnc
			name = strings.ToLower(h.defaultEncoding)
		}
	}
	if name == "utf-8" {
		return content, name, certain, nil
	}

	decoded, err := io.ReadAll(transform.NewReader(bytes.NewReader(content), enc.NewDecoder()))
	if err != nil {
		return nil, name, certain, fmt.Errorf("decoding from %s: %w", name, err)
	}
	return decoded, name, certain, nil
}

func (h *charsetHandler) IsBinary(content []byte) bool {
	if len(content) == 0 {
		return false
	}

	sniff := content
	if len(sniff) > sniffLen {
		sniff = sniff[:sniffLen]
	}
	mimeType := http.DetectContentType(sniff)
	mimeType = strings.SplitN(mimeType, ";", 2)[0]
	for prefix := range knownTextMIMEPrefixes {
		if strings.HasPrefix(mimeType, prefix) {
			return false
		}
	}
	for suffix := range knownTextMIMESuffixes {
		if strings.HasSuffix(mimeType, suffix) {
			return false
		}
	}

	check := content
	if len(check) > checkLen {
		check = check[:checkLen]
	}
	nulls := bytes.Count(check, []byte{0})
	return float64(nulls)/float64(len(check)) > nullThreshold
}
