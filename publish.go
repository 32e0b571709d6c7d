package mqtt5

import (
	"bytes"
	"io"

	"github.com/axmq/mqtt5/topic"
)

// PublishPacket carries application data on a topic (MQTT 5 section 3.3).
// Dup, QoS and Retain ride in the fixed header rather than the variable
// header; the dispatcher reads/writes them there.
type PublishPacket struct {
	Dup    bool
	QoS    QoS
	Retain bool

	Topic            topic.Name
	PacketIdentifier uint16 // meaningful only when QoS > 0

	PayloadFormatIndicator bool
	MessageExpiryInterval  *uint32
	TopicAlias             uint16
	HasTopicAlias          bool
	ResponseTopic          *string
	CorrelationData        []byte
	UserProperties         []utf8Pair
	SubscriptionIdentifiers []uint32
	ContentType            string

	Payload []byte
}

func (p *PublishPacket) Type() PacketType { return TypePublish }

func (p *PublishPacket) properties() Properties {
	var props Properties
	if p.PayloadFormatIndicator != DefaultPayloadFormatIndicator {
		props.items = append(props.items, property{ID: PayloadFormatIndicator, Byte: boolByte(p.PayloadFormatIndicator)})
	}
	if p.MessageExpiryInterval != nil {
		props.items = append(props.items, property{ID: MessageExpiryInterval, Int32: *p.MessageExpiryInterval})
	}
	if p.HasTopicAlias {
		props.items = append(props.items, property{ID: TopicAlias, Int16: p.TopicAlias})
	}
	if p.ResponseTopic != nil {
		props.items = append(props.items, property{ID: ResponseTopic, Str: *p.ResponseTopic})
	}
	if len(p.CorrelationData) > 0 {
		props.items = append(props.items, property{ID: CorrelationData, Bin: p.CorrelationData})
	}
	for _, id := range p.SubscriptionIdentifiers {
		props.items = append(props.items, property{ID: SubscriptionIdentifier, VarInt: id})
	}
	// ContentType defaults to the empty string and is always written, the
	// same non-optional-field convention as Will.ContentType.
	props.items = append(props.items, property{ID: ContentType, Str: p.ContentType})
	for _, up := range p.UserProperties {
		props.items = append(props.items, property{ID: UserProperty, Pair: up})
	}
	return props
}

func (p *PublishPacket) encodeBody(w *bytes.Buffer) error {
	if err := writeUTF8(w, p.Topic.String()); err != nil {
		return err
	}
	if p.QoS > QoS0 {
		if err := writeUint16(w, p.PacketIdentifier); err != nil {
			return err
		}
	}
	if err := writeProperties(w, p.properties()); err != nil {
		return err
	}
	_, err := w.Write(p.Payload)
	return err
}

func decodePublish(r *boundedReader, fh FixedHeader) (*PublishPacket, error) {
	topicStr, err := readUTF8(r)
	if err != nil {
		return nil, err
	}
	topicName, err := topic.ParseName(topicStr)
	if err != nil {
		return nil, malformed(err, "publish: topic name")
	}

	p := &PublishPacket{
		Dup:    fh.Dup,
		QoS:    fh.QoS,
		Retain: fh.Retain,
		Topic:  topicName,
	}
	if fh.Dup && fh.QoS == QoS0 {
		return nil, malformedf("publish: dup flag set on qos 0 message")
	}

	if fh.QoS > QoS0 {
		pid, err := readUint16(r)
		if err != nil {
			return nil, err
		}
		if pid == 0 {
			return nil, protocolErrorf("publish: packet identifier must not be 0")
		}
		p.PacketIdentifier = pid
	}

	props, err := readProperties(r, TypePublish)
	if err != nil {
		return nil, err
	}
	if v, ok := props.first(PayloadFormatIndicator); ok {
		p.PayloadFormatIndicator = v.Byte != 0
	}
	if v, ok := props.first(MessageExpiryInterval); ok {
		val := v.Int32
		p.MessageExpiryInterval = &val
	}
	if v, ok := props.first(TopicAlias); ok {
		p.TopicAlias = v.Int16
		p.HasTopicAlias = true
	}
	if v, ok := props.first(ResponseTopic); ok {
		val := v.Str
		p.ResponseTopic = &val
	}
	if v, ok := props.first(CorrelationData); ok {
		p.CorrelationData = v.Bin
	}
	p.SubscriptionIdentifiers = props.SubscriptionIdentifiers()
	if v, ok := props.first(ContentType); ok {
		p.ContentType = v.Str
	}
	p.UserProperties = props.UserProperties()

	payload := make([]byte, r.remaining())
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, ioError(err, "publish: read payload")
	}
	p.Payload = payload

	return p, nil
}
