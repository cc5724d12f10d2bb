package utils

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"

	qrcode "github.com/skip2/go-qrcode"
)

// NewQRToken returns a random 32-char hex token for attendance QR codes.
func NewQRToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// EncodeQRPNG renders the token as a PNG image.
func EncodeQRPNG(token string) ([]byte, error) {
	return qrcode.Encode(token, qrcode.Medium, 300)
}

// QRDataURL renders the token as a data-URL PNG suitable for storing
// on the registration row and embedding in HTML email.
func QRDataURL(token string) (string, error) {
	png, err := EncodeQRPNG(token)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
