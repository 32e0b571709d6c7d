package mqtt5

import (
	"bytes"
	"io"
)

// Packet is the common interface satisfied by all fifteen MQTT 5 control
// packet types. Concrete types are pointers to the per-packet structs
// (*ConnectPacket, *PublishPacket, and so on).
type Packet interface {
	Type() PacketType
}

// bodyEncoder is implemented by every concrete packet type: it writes the
// packet's variable header and payload (everything after the fixed header)
// to a staging buffer.
type bodyEncoder interface {
	encodeBody(w *bytes.Buffer) error
}

// Encode writes p's wire form to w: the variable header and payload are
// built into a staging buffer first (so the fixed header's remaining-length
// can be computed), then the fixed header and buffered body are written to
// w in turn. Returns the total number of octets written.
func Encode(w io.Writer, p Packet) (int, error) {
	enc, ok := p.(bodyEncoder)
	if !ok {
		return 0, protocolErrorf("encode: %T does not implement a packet body", p)
	}

	var body bytes.Buffer
	if err := enc.encodeBody(&body); err != nil {
		return 0, err
	}

	if body.Len() > int(MaxVariableByteInteger) {
		return 0, malformedf("encode: remaining length %d exceeds maximum %d", body.Len(), MaxVariableByteInteger)
	}

	flags := fixedHeaderFlags(p)

	var header bytes.Buffer
	if err := writeFixedHeader(&header, p.Type(), flags, uint32(body.Len())); err != nil {
		return 0, err
	}

	n1, err := w.Write(header.Bytes())
	if err != nil {
		return n1, err
	}
	n2, err := w.Write(body.Bytes())
	return n1 + n2, err
}

func fixedHeaderFlags(p Packet) byte {
	if pub, ok := p.(*PublishPacket); ok {
		return publishFlags(pub.Dup, pub.QoS, pub.Retain)
	}
	return reservedFlags[p.Type()]
}

// Decode reads one complete packet from r: the fixed header determines the
// packet type and declared remaining length, and the matching per-packet
// decoder is handed a reader bounded to exactly that many bytes.
func Decode(r io.Reader) (Packet, error) {
	fh, err := readFixedHeader(r)
	if err != nil {
		return nil, err
	}

	br := newBoundedReader(r, int64(fh.RemainingLength))

	switch fh.Type {
	case TypeConnect:
		return decodeConnect(br)
	case TypeConnack:
		return decodeConnack(br)
	case TypePublish:
		return decodePublish(br, fh)
	case TypePuback:
		return decodePuback(br, fh.RemainingLength)
	case TypePubrec:
		return decodePubrec(br, fh.RemainingLength)
	case TypePubrel:
		return decodePubrel(br, fh.RemainingLength)
	case TypePubcomp:
		return decodePubcomp(br, fh.RemainingLength)
	case TypeSubscribe:
		return decodeSubscribe(br)
	case TypeSuback:
		return decodeSuback(br)
	case TypeUnsubscribe:
		return decodeUnsubscribe(br)
	case TypeUnsuback:
		return decodeUnsuback(br)
	case TypePingreq:
		return decodePingreq(br)
	case TypePingresp:
		return decodePingresp(br)
	case TypeDisconnect:
		return decodeDisconnect(br, fh.RemainingLength)
	case TypeAuth:
		return decodeAuth(br)
	default:
		return nil, malformedf("decode: unknown packet type %d", fh.Type)
	}
}
