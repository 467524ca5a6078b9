package utils

import (
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// FeedbackLink derives the public feedback form URL for a room token.
// Printed QR codes resolve through this exact shape, so the derivation
// must stay a deterministic function of the base URL and the token.
func FeedbackLink(baseURL, token string) string {
	return strings.TrimRight(baseURL, "/") + "/room/" + token
}

// QRPNG encodes a link as a 256x256 PNG QR code.
func QRPNG(link string) ([]byte, error) {
	return qrcode.Encode(link, qrcode.Medium, 256)
}
