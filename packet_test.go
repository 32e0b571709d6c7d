package mqtt5

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axmq/mqtt5/topic"
)

func TestPingreqRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	n, err := Encode(&buf, &PingreqPacket{})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []byte{0xC0, 0x00}, buf.Bytes())

	p, err := Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.IsType(t, &PingreqPacket{}, p)
}

func TestConnectEncodeMatchesWorkedExample(t *testing.T) {
	p := &ConnectPacket{
		CleanStart:  true,
		KeepAlive:   10,
		HasUserName: true,
		UserName:    "Willow",
		HasPassword: true,
		Password:    []byte("Jaden"),
		Will: &Will{
			QoS:     QoS1,
			Retain:  false,
			Topic:   "CloZee",
			Payload: []byte("Oregon"),
		},
		SessionExpiryInterval:     10,
		RequestProblemInformation: true,
	}

	var buf bytes.Buffer
	var body bytes.Buffer
	require.NoError(t, p.encodeBody(&body))

	want := []byte{
		0x00, 0x04, 0x4D, 0x51, 0x54, 0x54, 0x05, 0xCE, 0x00, 0x0A,
		0x05, 0x11, 0x00, 0x00, 0x00, 0x0A,
		0x00, 0x00,
		0x03, 0x03, 0x00, 0x00,
		0x00, 0x06, 0x43, 0x6C, 0x6F, 0x5A, 0x65, 0x65,
		0x00, 0x06, 0x4F, 0x72, 0x65, 0x67, 0x6F, 0x6E,
		0x00, 0x06, 0x57, 0x69, 0x6C, 0x6C, 0x6F, 0x77,
		0x00, 0x05, 0x4A, 0x61, 0x64, 0x65, 0x6E,
	}
	assert.Equal(t, 53, len(want))
	assert.Equal(t, want, body.Bytes())

	_, encErr := Encode(&buf, p)
	require.NoError(t, encErr)

	decoded, err := Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	cp, ok := decoded.(*ConnectPacket)
	require.True(t, ok)
	assert.Equal(t, "Willow", cp.UserName)
	assert.Equal(t, []byte("Jaden"), cp.Password)
	assert.Equal(t, "CloZee", cp.Will.Topic)
	assert.Equal(t, []byte("Oregon"), cp.Will.Payload)
	assert.Equal(t, uint32(10), cp.SessionExpiryInterval)
}

func TestUnsubscribeEncodeMatchesWorkedExample(t *testing.T) {
	mk := func(s string) topic.Filter {
		f, err := topic.ParseFilter(s)
		require.NoError(t, err)
		return f
	}

	p := &UnsubscribePacket{
		PacketIdentifier: 1337,
		UserProperties:   []utf8Pair{{Key: "Mogwaï", Value: "Cat"}},
		Filters: []topic.Filter{
			mk("harder"), mk("better"), mk("faster"), mk("stronger"),
		},
	}

	var body bytes.Buffer
	require.NoError(t, p.encodeBody(&body))
	assert.Equal(t, 52, body.Len())

	var buf bytes.Buffer
	_, err := Encode(&buf, p)
	require.NoError(t, err)

	decoded, err := Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	up, ok := decoded.(*UnsubscribePacket)
	require.True(t, ok)
	assert.Equal(t, uint16(1337), up.PacketIdentifier)
	require.Len(t, up.Filters, 4)
	assert.Equal(t, "harder", up.Filters[0].String())
	assert.Equal(t, "stronger", up.Filters[3].String())
}

func TestUnsubscribeRejectsEmptyFilterList(t *testing.T) {
	p := &UnsubscribePacket{PacketIdentifier: 1}
	var body bytes.Buffer
	err := p.encodeBody(&body)
	assert.Error(t, err)
	assert.True(t, IsProtocolError(err))
}

func TestDecodeUnsubscribeRejectsEmptyFilterList(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeFixedHeader(&buf, TypeUnsubscribe, 0x02, 3))
	require.NoError(t, writeUint16(&buf, 1))
	buf.WriteByte(0x00) // empty properties block

	_, err := Decode(bytes.NewReader(buf.Bytes()))
	assert.Error(t, err)
	assert.True(t, IsProtocolError(err))
}

func TestPublishQoS0RoundTrip(t *testing.T) {
	name, err := topic.ParseName("a/b")
	require.NoError(t, err)

	p := &PublishPacket{
		Topic:   name,
		QoS:     QoS0,
		Payload: []byte("hello"),
	}

	var buf bytes.Buffer
	_, err = Encode(&buf, p)
	require.NoError(t, err)

	decoded, err := Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	pub, ok := decoded.(*PublishPacket)
	require.True(t, ok)
	assert.Equal(t, "a/b", pub.Topic.String())
	assert.Equal(t, []byte("hello"), pub.Payload)
}

func TestAckShortenedForm(t *testing.T) {
	p := &PubackPacket{ackPacket{PacketIdentifier: 42, ReasonCode: ReasonSuccess}}

	var buf bytes.Buffer
	n, err := Encode(&buf, p)
	require.NoError(t, err)
	assert.Equal(t, 4, n) // fixed header (2) + packet id (2)

	decoded, err := Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	pa, ok := decoded.(*PubackPacket)
	require.True(t, ok)
	assert.Equal(t, ReasonSuccess, pa.ReasonCode)
	assert.Equal(t, uint16(42), pa.PacketIdentifier)
}

func TestFixedHeaderRejectsBadFlags(t *testing.T) {
	_, err := readFixedHeader(bytes.NewReader([]byte{byte(TypeConnect)<<4 | 0x01, 0x00}))
	assert.Error(t, err)
	assert.True(t, IsMalformed(err))
}

func TestConnectRejectsReservedFlagBit(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeUTF8(&buf, "MQTT"))
	buf.WriteByte(5)    // protocol version
	buf.WriteByte(0x01) // reserved bit set
	require.NoError(t, writeUint16(&buf, 0))
	buf.WriteByte(0x00) // empty properties
	require.NoError(t, writeUTF8(&buf, ""))

	_, err := decodeConnect(bytes.NewReader(buf.Bytes()))
	assert.Error(t, err)
	assert.True(t, IsMalformed(err))
}
