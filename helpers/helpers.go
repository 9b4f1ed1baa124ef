package helpers

import (
	"encoding/base64"
	"mime"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"
)

const whatsAppAddressPrefix = "whatsapp:"

func Base64Decode(content string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(content)
}

func IsLocalhostURL(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := parsed.Hostname()
	return host == "localhost" || host == "127.0.0.1" || host == "::1"
}

// WhatsAppAddress prefixes a phone number or endpoint identifier with the
// channel scheme expected by the messaging API, leaving prefixed values as is.
func WhatsAppAddress(number string) string {
	number = strings.TrimSpace(number)
	if strings.HasPrefix(number, whatsAppAddressPrefix) {
		return number
	}
	return whatsAppAddressPrefix + number
}

// MediaObjectKey returns a collision free object key for an uploaded file.
func MediaObjectKey(prefix, fileName string) string {
	return path.Join(strings.Trim(prefix, "/"), uuid.NewString(), path.Base(fileName))
}

func ContentTypeForFileName(fileName string) string {
	contentType := mime.TypeByExtension(path.Ext(fileName))
	if contentType == "" {
		return "application/octet-stream"
	}
	return contentType
}
