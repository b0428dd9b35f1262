package stylist

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// DecodeImageData decodes a browser-supplied image payload into raw bytes.
// Accepts a full data-URL ("data:image/jpeg;base64,...") or bare base64.
func DecodeImageData(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty image payload")
	}
	if idx := strings.Index(s, ","); idx >= 0 && strings.HasPrefix(s, "data:") {
		s = s[idx+1:]
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		// Some encoders omit padding.
		data, err = base64.RawStdEncoding.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("failed to decode image payload: %w", err)
		}
	}
	return data, nil
}
