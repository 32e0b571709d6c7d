package mqtt5

import (
	"bytes"
	"io"
)

// ConnackPacket acknowledges a CONNECT (MQTT 5 section 3.2).
type ConnackPacket struct {
	SessionPresent bool
	ReasonCode     ReasonCode

	SessionExpiryInterval         uint32
	HasSessionExpiryInterval      bool
	ReceiveMaximum                uint16
	MaximumQoS                    QoS
	RetainAvailable                bool
	MaximumPacketSize              uint32
	HasMaximumPacketSize            bool
	AssignedClientIdentifier       string
	TopicAliasMaximum              uint16
	ReasonString                    string
	UserProperties                  []utf8Pair
	WildcardSubscriptionAvailable   bool
	SubscriptionIdentifierAvailable bool
	SharedSubscriptionAvailable     bool
	ServerKeepAlive                 uint16
	HasServerKeepAlive              bool
	ResponseInformation              string
	ServerReference                  string
	Authentication                   Authentication
}

func (p *ConnackPacket) Type() PacketType { return TypeConnack }

func (p *ConnackPacket) properties() Properties {
	var props Properties
	if p.HasSessionExpiryInterval {
		props.items = append(props.items, property{ID: SessionExpiryInterval, Int32: p.SessionExpiryInterval})
	}
	if p.AssignedClientIdentifier != "" {
		props.items = append(props.items, property{ID: AssignedClientIdentifier, Str: p.AssignedClientIdentifier})
	}
	if p.HasServerKeepAlive {
		props.items = append(props.items, property{ID: ServerKeepAlive, Int16: p.ServerKeepAlive})
	}
	if p.Authentication.Method != "" {
		props.items = append(props.items, property{ID: AuthenticationMethod, Str: p.Authentication.Method})
		if len(p.Authentication.Data) > 0 {
			props.items = append(props.items, property{ID: AuthenticationData, Bin: p.Authentication.Data})
		}
	}
	if p.ResponseInformation != "" {
		props.items = append(props.items, property{ID: ResponseInformation, Str: p.ResponseInformation})
	}
	if p.ServerReference != "" {
		props.items = append(props.items, property{ID: ServerReference, Str: p.ServerReference})
	}
	if p.ReasonString != "" {
		props.items = append(props.items, property{ID: ReasonString, Str: p.ReasonString})
	}
	if p.ReceiveMaximum != 0 && p.ReceiveMaximum != DefaultReceiveMaximum {
		props.items = append(props.items, property{ID: ReceiveMaximum, Int16: p.ReceiveMaximum})
	}
	if p.TopicAliasMaximum != DefaultTopicAliasMaximum {
		props.items = append(props.items, property{ID: TopicAliasMaximum, Int16: p.TopicAliasMaximum})
	}
	if p.MaximumQoS != DefaultMaximumQoS {
		props.items = append(props.items, property{ID: MaximumQoS, Byte: byte(p.MaximumQoS)})
	}
	if p.RetainAvailable != DefaultRetainAvailable {
		props.items = append(props.items, property{ID: RetainAvailable, Byte: boolByte(p.RetainAvailable)})
	}
	for _, up := range p.UserProperties {
		props.items = append(props.items, property{ID: UserProperty, Pair: up})
	}
	if p.HasMaximumPacketSize {
		props.items = append(props.items, property{ID: MaximumPacketSize, Int32: p.MaximumPacketSize})
	}
	if p.WildcardSubscriptionAvailable != DefaultWildcardSubscriptionAvailable {
		props.items = append(props.items, property{ID: WildcardSubscriptionAvailable, Byte: boolByte(p.WildcardSubscriptionAvailable)})
	}
	if p.SubscriptionIdentifierAvailable != DefaultSubscriptionIdentifierAvailable {
		props.items = append(props.items, property{ID: SubscriptionIdentifierAvail, Byte: boolByte(p.SubscriptionIdentifierAvailable)})
	}
	if p.SharedSubscriptionAvailable != DefaultSharedSubscriptionAvailable {
		props.items = append(props.items, property{ID: SharedSubscriptionAvailable, Byte: boolByte(p.SharedSubscriptionAvailable)})
	}
	return props
}

func (p *ConnackPacket) encodeBody(w *bytes.Buffer) error {
	if err := writeBool(w, p.SessionPresent); err != nil {
		return err
	}
	if err := writeReasonCode(w, p.ReasonCode); err != nil {
		return err
	}
	return writeProperties(w, p.properties())
}

func decodeConnack(r io.Reader) (*ConnackPacket, error) {
	sessionPresent, err := readBool(r)
	if err != nil {
		return nil, err
	}
	rc, err := readReasonCode(r, TypeConnack)
	if err != nil {
		return nil, err
	}
	props, err := readProperties(r, TypeConnack)
	if err != nil {
		return nil, err
	}

	p := &ConnackPacket{
		SessionPresent: sessionPresent,
		ReasonCode:     rc,

		ReceiveMaximum:                  DefaultReceiveMaximum,
		MaximumQoS:                      DefaultMaximumQoS,
		RetainAvailable:                 DefaultRetainAvailable,
		TopicAliasMaximum:               DefaultTopicAliasMaximum,
		WildcardSubscriptionAvailable:   DefaultWildcardSubscriptionAvailable,
		SubscriptionIdentifierAvailable: DefaultSubscriptionIdentifierAvailable,
		SharedSubscriptionAvailable:     DefaultSharedSubscriptionAvailable,
	}

	if v, ok := props.first(SessionExpiryInterval); ok {
		p.SessionExpiryInterval = v.Int32
		p.HasSessionExpiryInterval = true
	}
	if v, ok := props.first(AssignedClientIdentifier); ok {
		p.AssignedClientIdentifier = v.Str
	}
	if v, ok := props.first(ServerKeepAlive); ok {
		p.ServerKeepAlive = v.Int16
		p.HasServerKeepAlive = true
	}
	if v, ok := props.first(AuthenticationMethod); ok {
		p.Authentication.Method = v.Str
	}
	if v, ok := props.first(AuthenticationData); ok {
		p.Authentication.Data = v.Bin
	}
	if v, ok := props.first(ResponseInformation); ok {
		p.ResponseInformation = v.Str
	}
	if v, ok := props.first(ServerReference); ok {
		p.ServerReference = v.Str
	}
	if v, ok := props.first(ReasonString); ok {
		p.ReasonString = v.Str
	}
	if v, ok := props.first(ReceiveMaximum); ok {
		p.ReceiveMaximum = v.Int16
	}
	if v, ok := props.first(TopicAliasMaximum); ok {
		p.TopicAliasMaximum = v.Int16
	}
	if v, ok := props.first(MaximumQoS); ok {
		p.MaximumQoS = QoS(v.Byte)
	}
	if v, ok := props.first(RetainAvailable); ok {
		p.RetainAvailable = v.Byte != 0
	}
	p.UserProperties = props.UserProperties()
	if v, ok := props.first(MaximumPacketSize); ok {
		p.MaximumPacketSize = v.Int32
		p.HasMaximumPacketSize = true
	}
	if v, ok := props.first(WildcardSubscriptionAvailable); ok {
		p.WildcardSubscriptionAvailable = v.Byte != 0
	}
	if v, ok := props.first(SubscriptionIdentifierAvail); ok {
		p.SubscriptionIdentifierAvailable = v.Byte != 0
	}
	if v, ok := props.first(SharedSubscriptionAvailable); ok {
		p.SharedSubscriptionAvailable = v.Byte != 0
	}

	return p, nil
}
