package mqtt5

import (
	"bytes"
)

// UnsubackPacket answers an UNSUBSCRIBE with one reason code per filter
// (MQTT 5 section 3.11), in request order.
type UnsubackPacket struct {
	PacketIdentifier uint16
	ReasonCodes      []ReasonCode
	ReasonString     string
	UserProperties   []utf8Pair
}

func (p *UnsubackPacket) Type() PacketType { return TypeUnsuback }

func (p *UnsubackPacket) properties() Properties {
	var props Properties
	if p.ReasonString != "" {
		props.items = append(props.items, property{ID: ReasonString, Str: p.ReasonString})
	}
	for _, up := range p.UserProperties {
		props.items = append(props.items, property{ID: UserProperty, Pair: up})
	}
	return props
}

func (p *UnsubackPacket) encodeBody(w *bytes.Buffer) error {
	if err := writeUint16(w, p.PacketIdentifier); err != nil {
		return err
	}
	if err := writeProperties(w, p.properties()); err != nil {
		return err
	}
	for _, rc := range p.ReasonCodes {
		if err := writeReasonCode(w, rc); err != nil {
			return err
		}
	}
	return nil
}

func decodeUnsuback(r *boundedReader) (*UnsubackPacket, error) {
	pid, err := readUint16(r)
	if err != nil {
		return nil, err
	}
	props, err := readProperties(r, TypeUnsuback)
	if err != nil {
		return nil, err
	}

	p := &UnsubackPacket{PacketIdentifier: pid}
	if v, ok := props.first(ReasonString); ok {
		p.ReasonString = v.Str
	}
	p.UserProperties = props.UserProperties()

	for r.remaining() > 0 {
		rc, err := readReasonCode(r, TypeUnsuback)
		if err != nil {
			return nil, err
		}
		p.ReasonCodes = append(p.ReasonCodes, rc)
	}

	return p, nil
}
