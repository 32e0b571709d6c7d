package mqtt5

import (
	"bytes"
)

// ackPacket is the shape shared by PUBACK, PUBREC, PUBREL and PUBCOMP: a
// packet identifier plus an optional reason code and properties, with a
// "shortened form" available when the reason is Success and no properties
// are present (MQTT 5 sections 3.4-3.7).
type ackPacket struct {
	PacketIdentifier uint16
	ReasonCode       ReasonCode
	ReasonString     string
	UserProperties   []utf8Pair
}

func (a *ackPacket) properties() Properties {
	var props Properties
	if a.ReasonString != "" {
		props.items = append(props.items, property{ID: ReasonString, Str: a.ReasonString})
	}
	for _, up := range a.UserProperties {
		props.items = append(props.items, property{ID: UserProperty, Pair: up})
	}
	return props
}

func (a *ackPacket) shortened() bool {
	return a.ReasonCode == ReasonSuccess && a.ReasonString == "" && len(a.UserProperties) == 0
}

func (a *ackPacket) encodeBody(w *bytes.Buffer) error {
	if err := writeUint16(w, a.PacketIdentifier); err != nil {
		return err
	}
	if a.shortened() {
		return nil
	}
	if err := writeReasonCode(w, a.ReasonCode); err != nil {
		return err
	}
	return writeProperties(w, a.properties())
}

func decodeAck(r *boundedReader, pt PacketType, remainingLength uint32) (*ackPacket, error) {
	pid, err := readUint16(r)
	if err != nil {
		return nil, err
	}
	a := &ackPacket{PacketIdentifier: pid, ReasonCode: ReasonSuccess}

	if remainingLength == 2 {
		return a, nil
	}

	rc, err := readReasonCode(r, pt)
	if err != nil {
		return nil, err
	}
	a.ReasonCode = rc

	props, err := readProperties(r, pt)
	if err != nil {
		return nil, err
	}
	if v, ok := props.first(ReasonString); ok {
		a.ReasonString = v.Str
	}
	a.UserProperties = props.UserProperties()

	return a, nil
}

// PubackPacket acknowledges a QoS 1 PUBLISH.
type PubackPacket struct{ ackPacket }

func (p *PubackPacket) Type() PacketType { return TypePuback }

// PubrecPacket is the first response in a QoS 2 PUBLISH exchange.
type PubrecPacket struct{ ackPacket }

func (p *PubrecPacket) Type() PacketType { return TypePubrec }

// PubrelPacket is the second message in a QoS 2 PUBLISH exchange.
type PubrelPacket struct{ ackPacket }

func (p *PubrelPacket) Type() PacketType { return TypePubrel }

// PubcompPacket completes a QoS 2 PUBLISH exchange.
type PubcompPacket struct{ ackPacket }

func (p *PubcompPacket) Type() PacketType { return TypePubcomp }

func decodePuback(r *boundedReader, rl uint32) (*PubackPacket, error) {
	a, err := decodeAck(r, TypePuback, rl)
	if err != nil {
		return nil, err
	}
	return &PubackPacket{*a}, nil
}

func decodePubrec(r *boundedReader, rl uint32) (*PubrecPacket, error) {
	a, err := decodeAck(r, TypePubrec, rl)
	if err != nil {
		return nil, err
	}
	return &PubrecPacket{*a}, nil
}

func decodePubrel(r *boundedReader, rl uint32) (*PubrelPacket, error) {
	a, err := decodeAck(r, TypePubrel, rl)
	if err != nil {
		return nil, err
	}
	return &PubrelPacket{*a}, nil
}

func decodePubcomp(r *boundedReader, rl uint32) (*PubcompPacket, error) {
	a, err := decodeAck(r, TypePubcomp, rl)
	if err != nil {
		return nil, err
	}
	return &PubcompPacket{*a}, nil
}
