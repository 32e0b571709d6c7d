package mqtt5

import "bytes"

// PingreqPacket is a keep-alive request with an empty body (MQTT 5 section 3.12).
type PingreqPacket struct{}

func (PingreqPacket) Type() PacketType { return TypePingreq }

func (PingreqPacket) encodeBody(*bytes.Buffer) error { return nil }

func decodePingreq(r *boundedReader) (*PingreqPacket, error) {
	if r.remaining() != 0 {
		return nil, malformedf("pingreq: non-empty body")
	}
	return &PingreqPacket{}, nil
}

// PingrespPacket answers a PINGREQ with an empty body (MQTT 5 section 3.13).
type PingrespPacket struct{}

func (PingrespPacket) Type() PacketType { return TypePingresp }

func (PingrespPacket) encodeBody(*bytes.Buffer) error { return nil }

func decodePingresp(r *boundedReader) (*PingrespPacket, error) {
	if r.remaining() != 0 {
		return nil, malformedf("pingresp: non-empty body")
	}
	return &PingrespPacket{}, nil
}
