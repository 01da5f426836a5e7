// Package image proxies product photos from the retailer CDN behind opaque
// IDs, so EANs do not appear in image URLs.
package image

import (
	"encoding/base64"
	"strings"

	"github.com/fekuna/omnipos-picklist-service/internal/apperr"
	"github.com/fekuna/omnipos-picklist-service/internal/model"
)

const DefaultSalt = "ica_plock_2026_"

// Codec turns an EAN into a URL-safe ID and back. It obscures, it does not
// protect: anyone knowing the salt can decode an ID.
type Codec struct {
	Salt string
}

func NewCodec(salt string) Codec {
	if salt == "" {
		salt = DefaultSalt
	}
	return Codec{Salt: salt}
}

func (c Codec) Encode(ean string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(c.Salt + ean))
}

// Decode returns the EAN behind id. Uploaded data: images have no CDN copy
// and are rejected like any other malformed ID.
func (c Codec) Decode(id string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(id, "="))
	if err != nil {
		return "", apperr.Invalid("invalid image id")
	}
	decoded := string(raw)
	if !strings.HasPrefix(decoded, c.Salt) {
		return "", apperr.Invalid("invalid image id")
	}
	ean := strings.TrimPrefix(decoded, c.Salt)
	if strings.HasPrefix(ean, "data:") {
		return "", apperr.Invalid("data images are not served through the proxy")
	}
	normalized, ok := model.NormalizeEAN(ean)
	if !ok {
		return "", apperr.Invalid("invalid image id")
	}
	return normalized, nil
}

// URL is the proxied path for a product image reference. Data URLs and
// absolute URLs are returned unchanged.
func (c Codec) URL(ref string) string {
	if strings.HasPrefix(ref, "data:") || strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	return "/api/image/" + c.Encode(ref)
}
