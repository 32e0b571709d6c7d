package mqtt5

import "bytes"

// DisconnectPacket signals connection teardown (MQTT 5 section 3.14). A
// zero-length body is legal and implies ReasonCode Normal Disconnection with
// no properties, mirroring the PUBACK-family shortened form.
type DisconnectPacket struct {
	ReasonCode            ReasonCode
	SessionExpiryInterval uint32
	HasSessionExpiryInterval bool
	ReasonString          string
	ServerReference       string
	UserProperties        []utf8Pair
}

func (p *DisconnectPacket) Type() PacketType { return TypeDisconnect }

func (p *DisconnectPacket) properties() Properties {
	var props Properties
	if p.HasSessionExpiryInterval {
		props.items = append(props.items, property{ID: SessionExpiryInterval, Int32: p.SessionExpiryInterval})
	}
	if p.ReasonString != "" {
		props.items = append(props.items, property{ID: ReasonString, Str: p.ReasonString})
	}
	if p.ServerReference != "" {
		props.items = append(props.items, property{ID: ServerReference, Str: p.ServerReference})
	}
	for _, up := range p.UserProperties {
		props.items = append(props.items, property{ID: UserProperty, Pair: up})
	}
	return props
}

func (p *DisconnectPacket) shortened() bool {
	return p.ReasonCode == ReasonNormalDisconnection && p.HasSessionExpiryInterval == false &&
		p.ReasonString == "" && p.ServerReference == "" && len(p.UserProperties) == 0
}

func (p *DisconnectPacket) encodeBody(w *bytes.Buffer) error {
	if p.shortened() {
		return nil
	}
	if err := writeReasonCode(w, p.ReasonCode); err != nil {
		return err
	}
	return writeProperties(w, p.properties())
}

func decodeDisconnect(r *boundedReader, remainingLength uint32) (*DisconnectPacket, error) {
	p := &DisconnectPacket{ReasonCode: ReasonNormalDisconnection}
	if remainingLength == 0 {
		return p, nil
	}

	rc, err := readReasonCode(r, TypeDisconnect)
	if err != nil {
		return nil, err
	}
	p.ReasonCode = rc

	props, err := readProperties(r, TypeDisconnect)
	if err != nil {
		return nil, err
	}
	if v, ok := props.first(SessionExpiryInterval); ok {
		p.SessionExpiryInterval = v.Int32
		p.HasSessionExpiryInterval = true
	}
	if v, ok := props.first(ReasonString); ok {
		p.ReasonString = v.Str
	}
	if v, ok := props.first(ServerReference); ok {
		p.ServerReference = v.Str
	}
	p.UserProperties = props.UserProperties()

	return p, nil
}
