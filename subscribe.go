package mqtt5

import (
	"bytes"

	"github.com/axmq/mqtt5/topic"
)

// RetainHandling controls whether the broker sends retained messages when a
// subscription is established (MQTT 5 section 3.8.3.1).
type RetainHandling byte

const (
	RetainHandlingSendOnSubscribe      RetainHandling = 0
	RetainHandlingSendOnFirstSubscribe RetainHandling = 1
	RetainHandlingDontSend             RetainHandling = 2
)

const (
	subOptQoSMask            = 0x03
	subOptNoLocal            = 0x04
	subOptRetainAsPublished  = 0x08
	subOptRetainHandlingMask = 0x30
	subOptRetainHandlingShift = 4
	subOptReservedMask       = 0xC0
)

// Subscription is one (topic-filter, options) entry of a SUBSCRIBE packet.
type Subscription struct {
	Filter            topic.Filter
	QoS               QoS
	NoLocal           bool
	RetainAsPublished bool
	RetainHandling    RetainHandling
}

func (s Subscription) optionsByte() byte {
	b := byte(s.QoS) & subOptQoSMask
	if s.NoLocal {
		b |= subOptNoLocal
	}
	if s.RetainAsPublished {
		b |= subOptRetainAsPublished
	}
	b |= byte(s.RetainHandling) << subOptRetainHandlingShift
	return b
}

func decodeSubscriptionOptions(b byte) (QoS, bool, bool, RetainHandling, error) {
	if b&subOptReservedMask != 0 {
		return 0, false, false, 0, protocolErrorf("subscribe: reserved option bits set")
	}
	qos := QoS(b & subOptQoSMask)
	if !qos.Valid() {
		return 0, false, false, 0, malformedf("subscribe: qos bits encode invalid value 3")
	}
	rh := RetainHandling((b & subOptRetainHandlingMask) >> subOptRetainHandlingShift)
	if rh > RetainHandlingDontSend {
		return 0, false, false, 0, malformedf("subscribe: retain handling %d invalid", rh)
	}
	return qos, b&subOptNoLocal != 0, b&subOptRetainAsPublished != 0, rh, nil
}

// SubscribePacket requests one or more topic subscriptions (MQTT 5 section 3.8).
type SubscribePacket struct {
	PacketIdentifier        uint16
	Subscriptions           []Subscription
	SubscriptionIdentifier  uint32
	HasSubscriptionIdentifier bool
	UserProperties          []utf8Pair
}

func (p *SubscribePacket) Type() PacketType { return TypeSubscribe }

func (p *SubscribePacket) properties() Properties {
	var props Properties
	if p.HasSubscriptionIdentifier {
		props.items = append(props.items, property{ID: SubscriptionIdentifier, VarInt: p.SubscriptionIdentifier})
	}
	for _, up := range p.UserProperties {
		props.items = append(props.items, property{ID: UserProperty, Pair: up})
	}
	return props
}

func (p *SubscribePacket) encodeBody(w *bytes.Buffer) error {
	if len(p.Subscriptions) == 0 {
		return protocolErrorf("subscribe: subscription list must not be empty")
	}
	if err := writeUint16(w, p.PacketIdentifier); err != nil {
		return err
	}
	if err := writeProperties(w, p.properties()); err != nil {
		return err
	}
	for _, sub := range p.Subscriptions {
		if err := writeUTF8(w, sub.Filter.String()); err != nil {
			return err
		}
		if err := writeByteField(w, sub.optionsByte()); err != nil {
			return err
		}
	}
	return nil
}

func decodeSubscribe(r *boundedReader) (*SubscribePacket, error) {
	pid, err := readUint16(r)
	if err != nil {
		return nil, err
	}
	props, err := readProperties(r, TypeSubscribe)
	if err != nil {
		return nil, err
	}

	p := &SubscribePacket{PacketIdentifier: pid}
	if ids := props.SubscriptionIdentifiers(); len(ids) > 0 {
		p.SubscriptionIdentifier = ids[0]
		p.HasSubscriptionIdentifier = true
	}
	p.UserProperties = props.UserProperties()

	for r.remaining() > 0 {
		filterStr, err := readUTF8(r)
		if err != nil {
			return nil, err
		}
		f, err := topic.ParseFilter(filterStr)
		if err != nil {
			return nil, malformed(err, "subscribe: topic filter")
		}
		optByte, err := readByteField(r)
		if err != nil {
			return nil, ioError(err, "subscribe: read subscription options")
		}
		qos, noLocal, rap, rh, err := decodeSubscriptionOptions(optByte)
		if err != nil {
			return nil, err
		}
		p.Subscriptions = append(p.Subscriptions, Subscription{
			Filter:            f,
			QoS:               qos,
			NoLocal:           noLocal,
			RetainAsPublished: rap,
			RetainHandling:    rh,
		})
	}

	if len(p.Subscriptions) == 0 {
		return nil, protocolErrorf("subscribe: subscription list must not be empty")
	}

	return p, nil
}
