package mqtt5

import (
	"bytes"
	"io"
)

const (
	protocolName    = "MQTT"
	protocolVersion = 5

	connectFlagUserName  = 0x80
	connectFlagPassword  = 0x40
	connectFlagWillRetain = 0x20
	connectFlagWillQoSMask = 0x18
	connectFlagWillQoSShift = 3
	connectFlagWillPresent = 0x04
	connectFlagCleanStart  = 0x02
	connectFlagReserved    = 0x01
)

// ConnectPacket is the first packet a client sends (MQTT 5 section 3.1).
type ConnectPacket struct {
	CleanStart   bool
	KeepAlive    uint16
	ClientID     string
	Will         *Will
	UserName     string
	HasUserName  bool
	Password     []byte
	HasPassword  bool

	SessionExpiryInterval      uint32
	ReceiveMaximum             uint16
	MaximumPacketSize          uint32
	TopicAliasMaximum          uint16
	RequestResponseInformation bool
	RequestProblemInformation  bool
	UserProperties             []utf8Pair
	Authentication             Authentication
}

func (p *ConnectPacket) Type() PacketType { return TypeConnect }

func (p *ConnectPacket) connectFlags() byte {
	var f byte
	if p.HasUserName {
		f |= connectFlagUserName
	}
	if p.HasPassword {
		f |= connectFlagPassword
	}
	if p.Will != nil {
		f |= connectFlagWillPresent
		f |= byte(p.Will.QoS) << connectFlagWillQoSShift
		if p.Will.Retain {
			f |= connectFlagWillRetain
		}
	}
	if p.CleanStart {
		f |= connectFlagCleanStart
	}
	return f
}

func (p *ConnectPacket) properties() Properties {
	var props Properties
	if p.SessionExpiryInterval != 0 {
		props.items = append(props.items, property{ID: SessionExpiryInterval, Int32: p.SessionExpiryInterval})
	}
	if p.ReceiveMaximum != 0 && p.ReceiveMaximum != DefaultReceiveMaximum {
		props.items = append(props.items, property{ID: ReceiveMaximum, Int16: p.ReceiveMaximum})
	}
	if p.MaximumPacketSize != 0 {
		props.items = append(props.items, property{ID: MaximumPacketSize, Int32: p.MaximumPacketSize})
	}
	if p.TopicAliasMaximum != DefaultTopicAliasMaximum {
		props.items = append(props.items, property{ID: TopicAliasMaximum, Int16: p.TopicAliasMaximum})
	}
	if p.RequestResponseInformation != DefaultRequestResponseInformation {
		props.items = append(props.items, property{ID: RequestResponseInformation, Byte: boolByte(p.RequestResponseInformation)})
	}
	if p.RequestProblemInformation != DefaultRequestProblemInformation {
		props.items = append(props.items, property{ID: RequestProblemInformation, Byte: boolByte(p.RequestProblemInformation)})
	}
	for _, up := range p.UserProperties {
		props.items = append(props.items, property{ID: UserProperty, Pair: up})
	}
	if p.Authentication.Method != "" {
		props.items = append(props.items, property{ID: AuthenticationMethod, Str: p.Authentication.Method})
		if len(p.Authentication.Data) > 0 {
			props.items = append(props.items, property{ID: AuthenticationData, Bin: p.Authentication.Data})
		}
	}
	return props
}

func (p *ConnectPacket) encodeBody(w *bytes.Buffer) error {
	if p.ClientID != "" && !ValidClientID(p.ClientID) {
		return malformedf("connect: client identifier %q outside the permitted range", p.ClientID)
	}
	if err := writeUTF8(w, protocolName); err != nil {
		return err
	}
	if err := writeByteField(w, protocolVersion); err != nil {
		return err
	}
	if err := writeByteField(w, p.connectFlags()); err != nil {
		return err
	}
	if err := writeUint16(w, p.KeepAlive); err != nil {
		return err
	}
	if err := writeProperties(w, p.properties()); err != nil {
		return err
	}

	if err := writeUTF8(w, p.ClientID); err != nil {
		return err
	}

	if p.Will != nil {
		if err := writeWill(w, p.Will); err != nil {
			return err
		}
	}
	if p.HasUserName {
		if err := writeUTF8(w, p.UserName); err != nil {
			return err
		}
	}
	if p.HasPassword {
		if err := writeBinary(w, p.Password); err != nil {
			return err
		}
	}
	return nil
}

func writeWill(w *bytes.Buffer, will *Will) error {
	var props Properties
	if will.DelayInterval != DefaultWillDelayInterval {
		props.items = append(props.items, property{ID: WillDelayInterval, Int32: will.DelayInterval})
	}
	if will.PayloadFormatIndicator != DefaultPayloadFormatIndicator {
		props.items = append(props.items, property{ID: PayloadFormatIndicator, Byte: boolByte(will.PayloadFormatIndicator)})
	}
	if will.MessageExpiryInterval != nil {
		props.items = append(props.items, property{ID: MessageExpiryInterval, Int32: *will.MessageExpiryInterval})
	}
	// ContentType is a required (non-optional) Will field defaulting to the
	// empty string, unlike ResponseTopic/CorrelationData below — it is
	// always written, never elided.
	props.items = append(props.items, property{ID: ContentType, Str: will.ContentType})
	if will.ResponseTopic != nil {
		props.items = append(props.items, property{ID: ResponseTopic, Str: *will.ResponseTopic})
	}
	if len(will.CorrelationData) > 0 {
		props.items = append(props.items, property{ID: CorrelationData, Bin: will.CorrelationData})
	}
	for _, up := range will.UserProperties {
		props.items = append(props.items, property{ID: UserProperty, Pair: up})
	}

	if err := writeProperties(w, props); err != nil {
		return err
	}
	if err := writeUTF8(w, will.Topic); err != nil {
		return err
	}
	return writeBinary(w, will.Payload)
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func decodeConnect(r io.Reader) (*ConnectPacket, error) {
	name, err := readUTF8(r)
	if err != nil {
		return nil, err
	}
	if name != protocolName {
		return nil, malformedf("connect: protocol name %q, want %q", name, protocolName)
	}
	version, err := readByteField(r)
	if err != nil {
		return nil, ioError(err, "connect: read protocol version")
	}
	if version != protocolVersion {
		return nil, malformedf("connect: protocol version %d, want %d", version, protocolVersion)
	}

	flags, err := readByteField(r)
	if err != nil {
		return nil, ioError(err, "connect: read connect flags")
	}
	if flags&connectFlagReserved != 0 {
		return nil, malformedf("connect: reserved flag bit 0 is set")
	}

	p := &ConnectPacket{
		CleanStart:  flags&connectFlagCleanStart != 0,
		HasUserName: flags&connectFlagUserName != 0,
		HasPassword: flags&connectFlagPassword != 0,
	}

	keepAlive, err := readUint16(r)
	if err != nil {
		return nil, err
	}
	p.KeepAlive = keepAlive

	props, err := readProperties(r, TypeConnect)
	if err != nil {
		return nil, err
	}
	applyConnectProperties(p, props)

	clientID, err := readUTF8(r)
	if err != nil {
		return nil, err
	}
	if clientID != "" && !ValidClientID(clientID) {
		return nil, malformedf("connect: client identifier %q outside the permitted range", clientID)
	}
	p.ClientID = clientID

	if flags&connectFlagWillPresent != 0 {
		willQoS := QoS((flags & connectFlagWillQoSMask) >> connectFlagWillQoSShift)
		if !willQoS.Valid() {
			return nil, malformedf("connect: will qos %d invalid", willQoS)
		}
		will, err := readWill(r, willQoS, flags&connectFlagWillRetain != 0)
		if err != nil {
			return nil, err
		}
		p.Will = will
	} else if flags&(connectFlagWillRetain|connectFlagWillQoSMask) != 0 {
		return nil, malformedf("connect: will flags set without will-present")
	}

	if p.HasUserName {
		p.UserName, err = readUTF8(r)
		if err != nil {
			return nil, err
		}
	}
	if p.HasPassword {
		p.Password, err = readBinary(r)
		if err != nil {
			return nil, err
		}
	}

	return p, nil
}

func applyConnectProperties(p *ConnectPacket, props Properties) {
	p.ReceiveMaximum = DefaultReceiveMaximum
	p.TopicAliasMaximum = DefaultTopicAliasMaximum
	p.RequestResponseInformation = DefaultRequestResponseInformation
	p.RequestProblemInformation = DefaultRequestProblemInformation

	if v, ok := props.first(SessionExpiryInterval); ok {
		p.SessionExpiryInterval = v.Int32
	}
	if v, ok := props.first(ReceiveMaximum); ok {
		p.ReceiveMaximum = v.Int16
	}
	if v, ok := props.first(MaximumPacketSize); ok {
		p.MaximumPacketSize = v.Int32
	}
	if v, ok := props.first(TopicAliasMaximum); ok {
		p.TopicAliasMaximum = v.Int16
	}
	if v, ok := props.first(RequestResponseInformation); ok {
		p.RequestResponseInformation = v.Byte != 0
	}
	if v, ok := props.first(RequestProblemInformation); ok {
		p.RequestProblemInformation = v.Byte != 0
	}
	p.UserProperties = props.UserProperties()
	if v, ok := props.first(AuthenticationMethod); ok {
		p.Authentication.Method = v.Str
	}
	if v, ok := props.first(AuthenticationData); ok {
		p.Authentication.Data = v.Bin
	}
}

func readWill(r io.Reader, qos QoS, retain bool) (*Will, error) {
	props, err := readProperties(r, typeWillProperties)
	if err != nil {
		return nil, err
	}
	topic, err := readUTF8(r)
	if err != nil {
		return nil, err
	}
	payload, err := readBinary(r)
	if err != nil {
		return nil, err
	}

	will := &Will{QoS: qos, Retain: retain, Topic: topic, Payload: payload}
	if v, ok := props.first(WillDelayInterval); ok {
		will.DelayInterval = v.Int32
	}
	if v, ok := props.first(PayloadFormatIndicator); ok {
		will.PayloadFormatIndicator = v.Byte != 0
	}
	if v, ok := props.first(MessageExpiryInterval); ok {
		val := v.Int32
		will.MessageExpiryInterval = &val
	}
	if v, ok := props.first(ContentType); ok {
		will.ContentType = v.Str
	}
	if v, ok := props.first(ResponseTopic); ok {
		val := v.Str
		will.ResponseTopic = &val
	}
	if v, ok := props.first(CorrelationData); ok {
		will.CorrelationData = v.Bin
	}
	will.UserProperties = props.UserProperties()
	return will, nil
}
