package application

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"wa-highlighter/core"
)

const signaturePrefix = "sha256="

// VerifyWebhook answers the subscription handshake. The challenge is echoed
// back only for a subscribe request carrying the configured verify token.
func VerifyWebhook(mode, token, challenge, verifyToken string, logger core.Logger) (string, error) {
	if mode == core.SubscribeMode && verifyToken != "" && subtle.ConstantTimeCompare([]byte(token), []byte(verifyToken)) == 1 {
		logger.Info("webhook verified successfully")
		return challenge, nil
	}
	logger.Error("webhook verification failed: mode='%s'", mode)
	return "", core.NewAuthorizationError("webhook verification failed")
}

// VerifySignature checks an X-Hub-Signature-256 header against the HMAC-SHA256
// of body keyed with appSecret.
func VerifySignature(body []byte, header, appSecret string) error {
	if !strings.HasPrefix(header, signaturePrefix) || len(header) == len(signaturePrefix) {
		return core.NewAuthorizationError("missing or malformed request signature")
	}
	received, err := hex.DecodeString(header[len(signaturePrefix):])
	if err != nil {
		return core.NewAuthorizationError("malformed request signature")
	}
	mac := hmac.New(sha256.New, []byte(appSecret))
	mac.Write(body)
	if !hmac.Equal(received, mac.Sum(nil)) {
		return core.NewAuthorizationError("invalid request signature")
	}
	return nil
}
