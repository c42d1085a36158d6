package inventory

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"strings"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
)

const qrSize = 256

const qrPathSegment = "/producto/"

// QRPayload is the text encoded in a product's QR code.
func QRPayload(baseURL, code string) string {
	return strings.TrimRight(baseURL, "/") + qrPathSegment + code
}

// CodeFromQR extracts the product code from scanned QR text. Text without the
// product path is treated as a bare code.
func CodeFromQR(data string) string {
	data = strings.TrimSpace(data)
	if i := strings.LastIndex(data, qrPathSegment); i >= 0 {
		data = data[i+len(qrPathSegment):]
	}
	return strings.ToUpper(strings.Trim(data, "/"))
}

// EncodeQRDataURL renders payload as a PNG QR code wrapped in a data URL.
func EncodeQRDataURL(payload string) (string, error) {
	code, err := qr.Encode(payload, qr.M, qr.Auto)
	if err != nil {
		return "", fmt.Errorf("encode qr: %w", err)
	}
	scaled, err := barcode.Scale(code, qrSize, qrSize)
	if err != nil {
		return "", fmt.Errorf("scale qr: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return "", fmt.Errorf("png qr: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
