package security

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAESEncryptor(t *testing.T) {
	key := bytes.Repeat([]byte{7}, 32)
	enc, err := NewAESEncryptor(key)
	require.NoError(t, err)

	plain := []byte(`{"patientName":"Jane Doe"}`)
	sealed, err := enc.Encrypt(plain)
	require.NoError(t, err)
	assert.NotContains(t, string(sealed), "Jane Doe")

	again, err := enc.Encrypt(plain)
	require.NoError(t, err)
	assert.NotEqual(t, sealed, again, "nonce must differ per call")

	got, err := enc.Decrypt(sealed)
	require.NoError(t, err)
	assert.Equal(t, plain, got)

	sealed[len(sealed)-1] ^= 0xff
	_, err = enc.Decrypt(sealed)
	assert.ErrorIs(t, err, ErrDecryption)

	_, err = enc.Decrypt([]byte{1, 2})
	assert.ErrorIs(t, err, ErrDecryption)
}

func TestNewAESEncryptorFromBase64(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{"32 byte key", base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{1}, 32)), false},
		{"16 byte key", base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{1}, 16)), false},
		{"short key", base64.StdEncoding.EncodeToString([]byte("short")), true},
		{"not base64", "!!!", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAESEncryptorFromBase64(tt.key)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidKeySize)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestPlaintext(t *testing.T) {
	var enc Encryptor = Plaintext{}
	b, err := enc.Encrypt([]byte("x"))
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), b)
}
