package mqtt5

import "bytes"

// AuthPacket carries extended authentication exchange data (MQTT 5 section
// 3.15). AuthenticationMethod is mandatory; a missing method is a protocol
// error.
type AuthPacket struct {
	ReasonCode     ReasonCode
	Authentication Authentication
	ReasonString   string
	UserProperties []utf8Pair
}

func (p *AuthPacket) Type() PacketType { return TypeAuth }

func (p *AuthPacket) properties() Properties {
	var props Properties
	props.items = append(props.items, property{ID: AuthenticationMethod, Str: p.Authentication.Method})
	if len(p.Authentication.Data) > 0 {
		props.items = append(props.items, property{ID: AuthenticationData, Bin: p.Authentication.Data})
	}
	if p.ReasonString != "" {
		props.items = append(props.items, property{ID: ReasonString, Str: p.ReasonString})
	}
	for _, up := range p.UserProperties {
		props.items = append(props.items, property{ID: UserProperty, Pair: up})
	}
	return props
}

func (p *AuthPacket) encodeBody(w *bytes.Buffer) error {
	if p.Authentication.Method == "" {
		return protocolErrorf("auth: authentication method is mandatory")
	}
	if err := writeReasonCode(w, p.ReasonCode); err != nil {
		return err
	}
	return writeProperties(w, p.properties())
}

func decodeAuth(r *boundedReader) (*AuthPacket, error) {
	rc, err := readReasonCode(r, TypeAuth)
	if err != nil {
		return nil, err
	}
	props, err := readProperties(r, TypeAuth)
	if err != nil {
		return nil, err
	}

	p := &AuthPacket{ReasonCode: rc}
	if v, ok := props.first(AuthenticationMethod); ok {
		p.Authentication.Method = v.Str
	}
	if p.Authentication.Method == "" {
		return nil, protocolErrorf("auth: authentication method is mandatory")
	}
	if v, ok := props.first(AuthenticationData); ok {
		p.Authentication.Data = v.Bin
	}
	if v, ok := props.first(ReasonString); ok {
		p.ReasonString = v.Str
	}
	p.UserProperties = props.UserProperties()

	return p, nil
}
