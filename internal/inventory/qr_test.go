package inventory

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQRPayload(t *testing.T) {
	assert.Equal(t, "https://shop.test/producto/AB-1", QRPayload("https://shop.test/", "AB-1"))
	assert.Equal(t, "https://shop.test/producto/AB-1", QRPayload("https://shop.test", "AB-1"))
}

func TestCodeFromQR(t *testing.T) {
	tests := map[string]string{
		"https://shop.test/producto/ab-1":  "AB-1",
		"https://shop.test/producto/AB-1/": "AB-1",
		"  ab-1 ":                          "AB-1",
		"":                                 "",
	}
	for in, want := range tests {
		assert.Equal(t, want, CodeFromQR(in), "input %q", in)
	}
}

func TestEncodeQRDataURL(t *testing.T) {
	url, err := EncodeQRDataURL("https://shop.test/producto/AB-1")
	require.NoError(t, err)

	prefix := "data:image/png;base64,"
	require.True(t, strings.HasPrefix(url, prefix))
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, prefix))
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, qrSize, img.Bounds().Dx())
	assert.Equal(t, qrSize, img.Bounds().Dy())
}
