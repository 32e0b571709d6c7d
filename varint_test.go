package mqtt5

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVarintBoundaries(t *testing.T) {
	cases := []struct {
		value uint32
		want  []byte
	}{
		{0, []byte{0x00}},
		{127, []byte{0x7F}},
		{128, []byte{0x80, 0x01}},
		{16383, []byte{0xFF, 0x7F}},
		{16384, []byte{0x80, 0x80, 0x01}},
		{2097151, []byte{0xFF, 0xFF, 0x7F}},
		{2097152, []byte{0x80, 0x80, 0x80, 0x01}},
		{268435455, []byte{0xFF, 0xFF, 0xFF, 0x7F}},
	}

	for _, c := range cases {
		got, err := encodeVarint(c.value)
		require.NoError(t, err)
		assert.Equal(t, c.want, got, "encode(%d)", c.value)

		decoded, err := decodeVarint(bytes.NewReader(c.want))
		require.NoError(t, err)
		assert.Equal(t, c.value, decoded, "decode(% x)", c.want)
	}
}

func TestVarintEncodeRejectsOverflow(t *testing.T) {
	_, err := encodeVarint(268435456)
	assert.Error(t, err)
}

func TestVarintDecodeRejectsFifthContinuationByte(t *testing.T) {
	_, err := decodeVarint(bytes.NewReader([]byte{0x80, 0x80, 0x80, 0x80, 0x01}))
	assert.Error(t, err)
	assert.True(t, IsMalformed(err))
}
