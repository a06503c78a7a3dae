package gallery

import (
	"encoding/base64"
	"fmt"
	"regexp"

	"github.com/starford/wunjo/internal/apperr"
)

var (
	dataURIPattern  = regexp.MustCompile(`^data:image/([a-zA-Z0-9]+);base64,(.+)$`)
	unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)
)

// decodeDataURI splits a base64 image data URI into its extension and raw
// bytes. Anything that is not a well-formed data:image/...;base64 payload
// is InvalidInput.
func decodeDataURI(uri string) (ext string, data []byte, err error) {
	m := dataURIPattern.FindStringSubmatch(uri)
	if m == nil {
		return "", nil, fmt.Errorf("%w: malformed image data URI", apperr.ErrInvalidInput)
	}
	raw, err := base64.StdEncoding.DecodeString(m[2])
	if err != nil {
		return "", nil, fmt.Errorf("%w: invalid base64 image payload", apperr.ErrInvalidInput)
	}
	return m[1], raw, nil
}

// sanitizeName strips every character outside [a-zA-Z0-9._-] from a
// client-supplied file name.
func sanitizeName(name string) string {
	return unsafeNameChars.ReplaceAllString(name, "")
}
