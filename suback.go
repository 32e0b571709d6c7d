package mqtt5

import (
	"bytes"
)

// SubackPacket answers a SUBSCRIBE with one reason code per subscription
// (MQTT 5 section 3.9), in the same order as the request.
type SubackPacket struct {
	PacketIdentifier uint16
	ReasonCodes      []ReasonCode
	ReasonString     string
	UserProperties   []utf8Pair
}

func (p *SubackPacket) Type() PacketType { return TypeSuback }

func (p *SubackPacket) properties() Properties {
	var props Properties
	if p.ReasonString != "" {
		props.items = append(props.items, property{ID: ReasonString, Str: p.ReasonString})
	}
	for _, up := range p.UserProperties {
		props.items = append(props.items, property{ID: UserProperty, Pair: up})
	}
	return props
}

func (p *SubackPacket) encodeBody(w *bytes.Buffer) error {
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

func decodeSuback(r *boundedReader) (*SubackPacket, error) {
	pid, err := readUint16(r)
	if err != nil {
		return nil, err
	}
	props, err := readProperties(r, TypeSuback)
	if err != nil {
		return nil, err
	}

	p := &SubackPacket{PacketIdentifier: pid}
	if v, ok := props.first(ReasonString); ok {
		p.ReasonString = v.Str
	}
	p.UserProperties = props.UserProperties()

	for r.remaining() > 0 {
		rc, err := readReasonCode(r, TypeSuback)
		if err != nil {
			return nil, err
		}
		p.ReasonCodes = append(p.ReasonCodes, rc)
	}

	return p, nil
}
