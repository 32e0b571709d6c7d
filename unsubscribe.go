package mqtt5

import (
	"bytes"

	"github.com/axmq/mqtt5/topic"
)

// UnsubscribePacket requests removal of one or more subscriptions (MQTT 5
// section 3.10).
type UnsubscribePacket struct {
	PacketIdentifier uint16
	Filters          []topic.Filter
	UserProperties   []utf8Pair
}

func (p *UnsubscribePacket) Type() PacketType { return TypeUnsubscribe }

func (p *UnsubscribePacket) properties() Properties {
	var props Properties
	for _, up := range p.UserProperties {
		props.items = append(props.items, property{ID: UserProperty, Pair: up})
	}
	return props
}

func (p *UnsubscribePacket) encodeBody(w *bytes.Buffer) error {
	if len(p.Filters) == 0 {
		return protocolErrorf("unsubscribe: filter list must not be empty")
	}
	if err := writeUint16(w, p.PacketIdentifier); err != nil {
		return err
	}
	if err := writeProperties(w, p.properties()); err != nil {
		return err
	}
	for _, f := range p.Filters {
		if err := writeUTF8(w, f.String()); err != nil {
			return err
		}
	}
	return nil
}

func decodeUnsubscribe(r *boundedReader) (*UnsubscribePacket, error) {
	pid, err := readUint16(r)
	if err != nil {
		return nil, err
	}
	props, err := readProperties(r, TypeUnsubscribe)
	if err != nil {
		return nil, err
	}

	p := &UnsubscribePacket{PacketIdentifier: pid, UserProperties: props.UserProperties()}

	for r.remaining() > 0 {
		filterStr, err := readUTF8(r)
		if err != nil {
			return nil, err
		}
		f, err := topic.ParseFilter(filterStr)
		if err != nil {
			return nil, malformed(err, "unsubscribe: topic filter")
		}
		p.Filters = append(p.Filters, f)
	}

	if len(p.Filters) == 0 {
		return nil, protocolErrorf("unsubscribe: filter list must not be empty")
	}

	return p, nil
}
