package pagination

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeSequenceToken(t *testing.T) {
	token := EncodeSequenceToken(42, "loans")
	assert.NotEmpty(t, token, "Token should not be empty")

	seq, err := DecodeSequenceToken(token, "loans")
	assert.NoError(t, err)
	assert.Equal(t, int64(42), seq)

	// Empty scope round-trips too
	seq, err = DecodeSequenceToken(EncodeSequenceToken(0, ""), "")
	assert.NoError(t, err)
	assert.Equal(t, int64(0), seq)
}

func TestDecodeSequenceTokenError(t *testing.T) {
	_, err := DecodeSequenceToken("this is not base64!", "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "base64 decode")

	noSeparator := base64.URLEncoding.EncodeToString([]byte("17"))
	_, err = DecodeSequenceToken(noSeparator, "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "split")

	badSequence := base64.URLEncoding.EncodeToString([]byte("abc|"))
	_, err = DecodeSequenceToken(badSequence, "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "sequence parse")

	_, err = DecodeSequenceToken(EncodeSequenceToken(5, "loans"), "payments")
	assert.Error(t, err, "Token from another filter must be rejected")
}
