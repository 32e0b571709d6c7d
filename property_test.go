package mqtt5

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropertiesRejectsDuplicateSingular(t *testing.T) {
	var buf bytes.Buffer
	// Two SessionExpiryInterval entries back to back.
	entry := func() {
		buf.WriteByte(byte(SessionExpiryInterval))
		require.NoError(t, writeUint32(&buf, 10))
	}
	entry()
	entry()

	var framed bytes.Buffer
	vb, err := encodeVarint(uint32(buf.Len()))
	require.NoError(t, err)
	framed.Write(vb)
	framed.Write(buf.Bytes())

	_, err = readProperties(bytes.NewReader(framed.Bytes()), TypeConnect)
	assert.Error(t, err)
	assert.True(t, IsProtocolError(err))
}

func TestPropertiesAllowsRepeatedUserProperty(t *testing.T) {
	var props Properties
	props.AddUserProperty("a", "1")
	props.AddUserProperty("a", "2")

	var buf bytes.Buffer
	require.NoError(t, writeProperties(&buf, props))

	decoded, err := readProperties(bytes.NewReader(buf.Bytes()), TypeConnect)
	require.NoError(t, err)
	assert.Len(t, decoded.UserProperties(), 2)
}

func TestPropertiesRejectsZeroSubscriptionIdentifier(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(byte(SubscriptionIdentifier))
	vb, _ := encodeVarint(0)
	buf.Write(vb)

	var framed bytes.Buffer
	lenBytes, _ := encodeVarint(uint32(buf.Len()))
	framed.Write(lenBytes)
	framed.Write(buf.Bytes())

	_, err := readProperties(bytes.NewReader(framed.Bytes()), TypeSubscribe)
	assert.Error(t, err)
	assert.True(t, IsProtocolError(err))
}

func TestPropertiesRejectsMaximumQoSExactlyOnce(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(byte(MaximumQoS))
	buf.WriteByte(byte(QoS2))

	var framed bytes.Buffer
	lenBytes, _ := encodeVarint(uint32(buf.Len()))
	framed.Write(lenBytes)
	framed.Write(buf.Bytes())

	_, err := readProperties(bytes.NewReader(framed.Bytes()), TypeConnack)
	assert.Error(t, err)
	assert.True(t, IsProtocolError(err))
}

func TestPropertiesRejectsForbiddenIdentifierForPacketType(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(byte(MaximumQoS)) // legal for CONNACK, not for PUBACK
	buf.WriteByte(byte(QoS1))

	var framed bytes.Buffer
	lenBytes, _ := encodeVarint(uint32(buf.Len()))
	framed.Write(lenBytes)
	framed.Write(buf.Bytes())

	_, err := readProperties(bytes.NewReader(framed.Bytes()), TypePuback)
	assert.Error(t, err)
	assert.True(t, IsProtocolError(err))
}
