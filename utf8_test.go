package mqtt5

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUTF8StringRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeUTF8(&buf, "A𪛔"))
	assert.Equal(t, []byte{0x00, 0x05, 0x41, 0xF0, 0xAA, 0x9B, 0x94}, buf.Bytes())

	got, err := readUTF8(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, "A𪛔", got)
}

func TestUTF8StringRejectsNull(t *testing.T) {
	_, err := readUTF8(bytes.NewReader([]byte{0x00, 0x01, 0x00}))
	assert.Error(t, err)
	assert.True(t, IsMalformed(err))
}

func TestUTF8StringRejectsSurrogate(t *testing.T) {
	_, err := readUTF8(bytes.NewReader([]byte{0x00, 0x03, 0xED, 0xA0, 0x80}))
	assert.Error(t, err)
}

func TestUTF8StringPreservesBOM(t *testing.T) {
	got, err := readUTF8(bytes.NewReader([]byte{0x00, 0x03, 0xEF, 0xBB, 0xBF}))
	require.NoError(t, err)
	assert.Equal(t, "﻿", got)
}
