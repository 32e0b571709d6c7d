package mqtt5

import (
	"bytes"
	"io"

	"github.com/axmq/mqtt5/internal/wirelog"
)

// PropertyID identifies one of the 27 MQTT 5 properties. Identifiers are
// Variable Byte Integers on the wire but every defined value fits in one
// byte, so readProperties decodes the identifier as a Variable Byte Integer
// and rejects any value above 0xFF.
type PropertyID byte

const (
	PayloadFormatIndicator        PropertyID = 0x01
	MessageExpiryInterval         PropertyID = 0x02
	ContentType                   PropertyID = 0x03
	ResponseTopic                 PropertyID = 0x08
	CorrelationData               PropertyID = 0x09
	SubscriptionIdentifier        PropertyID = 0x0B
	SessionExpiryInterval         PropertyID = 0x11
	AssignedClientIdentifier      PropertyID = 0x12
	ServerKeepAlive               PropertyID = 0x13
	AuthenticationMethod          PropertyID = 0x15
	AuthenticationData            PropertyID = 0x16
	RequestProblemInformation     PropertyID = 0x17
	WillDelayInterval             PropertyID = 0x18
	RequestResponseInformation    PropertyID = 0x19
	ResponseInformation           PropertyID = 0x1A
	ServerReference               PropertyID = 0x1C
	ReasonString                  PropertyID = 0x1F
	ReceiveMaximum                PropertyID = 0x21
	TopicAliasMaximum             PropertyID = 0x22
	TopicAlias                    PropertyID = 0x23
	MaximumQoS                    PropertyID = 0x24
	RetainAvailable               PropertyID = 0x25
	UserProperty                  PropertyID = 0x26
	MaximumPacketSize             PropertyID = 0x27
	WildcardSubscriptionAvailable PropertyID = 0x28
	SubscriptionIdentifierAvail   PropertyID = 0x29
	SharedSubscriptionAvailable   PropertyID = 0x2A
)

var propertyNames = map[PropertyID]string{
	PayloadFormatIndicator:        "PayloadFormatIndicator",
	MessageExpiryInterval:         "MessageExpiryInterval",
	ContentType:                   "ContentType",
	ResponseTopic:                 "ResponseTopic",
	CorrelationData:               "CorrelationData",
	SubscriptionIdentifier:        "SubscriptionIdentifier",
	SessionExpiryInterval:         "SessionExpiryInterval",
	AssignedClientIdentifier:      "AssignedClientIdentifier",
	ServerKeepAlive:               "ServerKeepAlive",
	AuthenticationMethod:          "AuthenticationMethod",
	AuthenticationData:            "AuthenticationData",
	RequestProblemInformation:     "RequestProblemInformation",
	WillDelayInterval:             "WillDelayInterval",
	RequestResponseInformation:    "RequestResponseInformation",
	ResponseInformation:          "ResponseInformation",
	ServerReference:              "ServerReference",
	ReasonString:                 "ReasonString",
	ReceiveMaximum:               "ReceiveMaximum",
	TopicAliasMaximum:            "TopicAliasMaximum",
	TopicAlias:                   "TopicAlias",
	MaximumQoS:                   "MaximumQoS",
	RetainAvailable:              "RetainAvailable",
	UserProperty:                 "UserProperty",
	MaximumPacketSize:            "MaximumPacketSize",
	WildcardSubscriptionAvailable: "WildcardSubscriptionAvailable",
	SubscriptionIdentifierAvail:  "SubscriptionIdentifierAvailable",
	SharedSubscriptionAvailable:  "SharedSubscriptionAvailable",
}

func (id PropertyID) String() string {
	if name, ok := propertyNames[id]; ok {
		return name
	}
	return "UNKNOWN"
}

// propertyType classifies a property's wire representation.
type propertyType byte

const (
	typeByte propertyType = iota
	typeTwoByteInt
	typeFourByteInt
	typeVarInt
	typeUTF8String
	typeBinaryData
	typeUTF8Pair
)

// propertySpec describes one property identifier's wire shape and whether it
// may appear more than once in a single Properties block. UserProperty and
// SubscriptionIdentifier are the only repeatable properties (MQTT 5 section
// 2.2.2.2).
type propertySpec struct {
	wire       propertyType
	repeatable bool
}

var propertySpecs = map[PropertyID]propertySpec{
	PayloadFormatIndicator:        {typeByte, false},
	MessageExpiryInterval:         {typeFourByteInt, false},
	ContentType:                   {typeUTF8String, false},
	ResponseTopic:                 {typeUTF8String, false},
	CorrelationData:               {typeBinaryData, false},
	SubscriptionIdentifier:        {typeVarInt, true},
	SessionExpiryInterval:         {typeFourByteInt, false},
	AssignedClientIdentifier:      {typeUTF8String, false},
	ServerKeepAlive:               {typeTwoByteInt, false},
	AuthenticationMethod:          {typeUTF8String, false},
	AuthenticationData:            {typeBinaryData, false},
	RequestProblemInformation:     {typeByte, false},
	WillDelayInterval:             {typeFourByteInt, false},
	RequestResponseInformation:    {typeByte, false},
	ResponseInformation:           {typeUTF8String, false},
	ServerReference:               {typeUTF8String, false},
	ReasonString:                  {typeUTF8String, false},
	ReceiveMaximum:                {typeTwoByteInt, false},
	TopicAliasMaximum:             {typeTwoByteInt, false},
	TopicAlias:                    {typeTwoByteInt, false},
	MaximumQoS:                    {typeByte, false},
	RetainAvailable:               {typeByte, false},
	UserProperty:                  {typeUTF8Pair, true},
	MaximumPacketSize:             {typeFourByteInt, false},
	WildcardSubscriptionAvailable: {typeByte, false},
	SubscriptionIdentifierAvail:   {typeByte, false},
	SharedSubscriptionAvailable:   {typeByte, false},
}

// property holds one decoded property's value. Exactly one of the typed
// fields is meaningful, selected by the spec for ID.
type property struct {
	ID      PropertyID
	Byte    byte
	Int16   uint16
	Int32   uint32
	VarInt  uint32
	Str     string
	Bin     []byte
	Pair    utf8Pair
}

// Properties is an ordered, possibly-repeating collection of decoded
// property values, as carried by every MQTT 5 packet type.
type Properties struct {
	items []property
}

// Len reports how many property entries are present.
func (p *Properties) Len() int {
	return len(p.items)
}

// add appends a property, enforcing per-identifier multiplicity.
func (p *Properties) add(v property) error {
	spec, ok := propertySpecs[v.ID]
	if !ok {
		return protocolErrorf("property: unknown identifier %#x", byte(v.ID))
	}
	if !spec.repeatable {
		for _, existing := range p.items {
			if existing.ID == v.ID {
				return protocolErrorf("property: %s included more than once", v.ID)
			}
		}
	}
	p.items = append(p.items, v)
	return nil
}

// all returns every stored property with the given identifier, in the order
// they were parsed or added.
func (p *Properties) all(id PropertyID) []property {
	var out []property
	for _, v := range p.items {
		if v.ID == id {
			out = append(out, v)
		}
	}
	return out
}

// first returns the first stored property with the given identifier.
func (p *Properties) first(id PropertyID) (property, bool) {
	for _, v := range p.items {
		if v.ID == id {
			return v, true
		}
	}
	return property{}, false
}

// UserProperties returns every UserProperty key/value pair, in wire order.
func (p *Properties) UserProperties() []utf8Pair {
	var out []utf8Pair
	for _, v := range p.items {
		if v.ID == UserProperty {
			out = append(out, v.Pair)
		}
	}
	return out
}

// AddUserProperty appends a UserProperty pair.
func (p *Properties) AddUserProperty(key, value string) {
	p.items = append(p.items, property{ID: UserProperty, Pair: utf8Pair{Key: key, Value: value}})
}

// SubscriptionIdentifiers returns every SubscriptionIdentifier value present.
func (p *Properties) SubscriptionIdentifiers() []uint32 {
	var out []uint32
	for _, v := range p.items {
		if v.ID == SubscriptionIdentifier {
			out = append(out, v.VarInt)
		}
	}
	return out
}

// allowedProperties restricts which identifiers a given packet type may
// carry (MQTT 5 section 3.x "Properties" subsections, collected here rather
// than scattered per packet file).
// typeWillProperties is a pseudo packet-type key used only to look up the
// legal property set for the Will properties block nested inside CONNECT;
// it is never a real wire packet type.
const typeWillProperties PacketType = 0xFF

var allowedProperties = map[PacketType]map[PropertyID]bool{
	typeWillProperties: setOfIDs(
		PayloadFormatIndicator, MessageExpiryInterval, ContentType,
		ResponseTopic, CorrelationData, WillDelayInterval, UserProperty,
	),
	TypeConnect: setOfIDs(
		SessionExpiryInterval, AuthenticationMethod, AuthenticationData,
		RequestProblemInformation, RequestResponseInformation, ReceiveMaximum,
		TopicAliasMaximum, UserProperty, MaximumPacketSize,
	),
	TypeConnack: setOfIDs(
		SessionExpiryInterval, AssignedClientIdentifier, ServerKeepAlive,
		AuthenticationMethod, AuthenticationData, ResponseInformation,
		ServerReference, ReasonString, ReceiveMaximum, TopicAliasMaximum,
		MaximumQoS, RetainAvailable, UserProperty, MaximumPacketSize,
		WildcardSubscriptionAvailable, SubscriptionIdentifierAvail,
		SharedSubscriptionAvailable,
	),
	TypePublish: setOfIDs(
		PayloadFormatIndicator, MessageExpiryInterval, ContentType,
		ResponseTopic, CorrelationData, SubscriptionIdentifier, TopicAlias,
		UserProperty,
	),
	TypePuback:      setOfIDs(ReasonString, UserProperty),
	TypePubrec:      setOfIDs(ReasonString, UserProperty),
	TypePubrel:      setOfIDs(ReasonString, UserProperty),
	TypePubcomp:     setOfIDs(ReasonString, UserProperty),
	TypeSubscribe:   setOfIDs(SubscriptionIdentifier, UserProperty),
	TypeSuback:      setOfIDs(ReasonString, UserProperty),
	TypeUnsubscribe: setOfIDs(UserProperty),
	TypeUnsuback:    setOfIDs(ReasonString, UserProperty),
	TypeDisconnect: setOfIDs(
		SessionExpiryInterval, ServerReference, ReasonString, UserProperty,
	),
	TypeAuth: setOfIDs(
		AuthenticationMethod, AuthenticationData, ReasonString, UserProperty,
	),
}

func setOfIDs(ids ...PropertyID) map[PropertyID]bool {
	m := make(map[PropertyID]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}

// readProperties decodes a Properties block: a leading Variable Byte Integer
// length prefix followed by exactly that many octets of identifier/value
// pairs. pt restricts which identifiers are legal for the containing packet.
func readProperties(r io.Reader, pt PacketType) (Properties, error) {
	var props Properties

	length, err := decodeVarint(r)
	if err != nil {
		return props, err
	}
	if length == 0 {
		return props, nil
	}

	br := newBoundedReader(r, int64(length))
	allowed := allowedProperties[pt]

	for br.remaining() > 0 {
		idVal, err := decodeVarint(br)
		if err != nil {
			return props, err
		}
		if idVal > 0xFF {
			return props, malformedf("property: identifier %d out of range", idVal)
		}
		id := PropertyID(idVal)

		if allowed != nil && !allowed[id] {
			wirelog.Debugf("rejecting property %s on packet type %s: not permitted", id, pt)
			return props, protocolErrorf("%s: property %s is not permitted on this packet type", pt, id)
		}

		v, err := readPropertyValue(br, id)
		if err != nil {
			return props, err
		}
		if err := props.add(v); err != nil {
			return props, err
		}
	}
	if br.remaining() < 0 {
		return props, malformedf("property: block overran its declared length")
	}

	if err := validateProperties(&props); err != nil {
		return props, err
	}

	return props, nil
}

func readPropertyValue(r io.Reader, id PropertyID) (property, error) {
	spec, ok := propertySpecs[id]
	if !ok {
		return property{}, protocolErrorf("property: unknown identifier %#x", byte(id))
	}

	v := property{ID: id}
	var err error
	switch spec.wire {
	case typeByte:
		v.Byte, err = readByteField(r)
	case typeTwoByteInt:
		v.Int16, err = readUint16(r)
	case typeFourByteInt:
		v.Int32, err = readUint32(r)
	case typeVarInt:
		v.VarInt, err = decodeVarint(r)
	case typeUTF8String:
		v.Str, err = readUTF8(r)
	case typeBinaryData:
		v.Bin, err = readBinary(r)
	case typeUTF8Pair:
		v.Pair, err = readUTF8Pair(r)
	}
	if err != nil {
		return property{}, err
	}
	return v, nil
}

// validateProperties applies the value-range rules from MQTT 5 section 3.1.2.11
// and its per-property sibling sections that aren't expressible as a wire
// type alone.
func validateProperties(p *Properties) error {
	if v, ok := p.first(ResponseTopic); ok && v.Str == "" {
		return protocolErrorf("property: ResponseTopic must not be empty")
	}
	for _, v := range p.all(SubscriptionIdentifier) {
		if v.VarInt == 0 {
			return protocolErrorf("property: SubscriptionIdentifier must not be 0")
		}
	}
	if v, ok := p.first(ReceiveMaximum); ok && v.Int16 == 0 {
		return protocolErrorf("property: ReceiveMaximum must not be 0")
	}
	if v, ok := p.first(MaximumQoS); ok && v.Byte > 1 {
		return protocolErrorf("property: MaximumQoS must be 0 or 1")
	}
	if v, ok := p.first(RetainAvailable); ok && v.Byte > 1 {
		return protocolErrorf("property: RetainAvailable must be 0 or 1")
	}
	if v, ok := p.first(WildcardSubscriptionAvailable); ok && v.Byte > 1 {
		return protocolErrorf("property: WildcardSubscriptionAvailable must be 0 or 1")
	}
	if v, ok := p.first(SubscriptionIdentifierAvail); ok && v.Byte > 1 {
		return protocolErrorf("property: SubscriptionIdentifierAvailable must be 0 or 1")
	}
	if v, ok := p.first(SharedSubscriptionAvailable); ok && v.Byte > 1 {
		return protocolErrorf("property: SharedSubscriptionAvailable must be 0 or 1")
	}
	if v, ok := p.first(MaximumPacketSize); ok {
		if v.Int32 == 0 {
			return protocolErrorf("property: MaximumPacketSize must not be 0")
		}
		if v.Int32 > MaxMaximumPacketSize {
			return protocolErrorf("property: MaximumPacketSize %d exceeds maximum %d", v.Int32, MaxMaximumPacketSize)
		}
	}
	if v, ok := p.first(TopicAlias); ok && v.Int16 == 0 {
		return protocolErrorf("property: TopicAlias must not be 0")
	}
	if v, ok := p.first(RequestProblemInformation); ok && v.Byte > 1 {
		return protocolErrorf("property: RequestProblemInformation must be 0 or 1")
	}
	if v, ok := p.first(RequestResponseInformation); ok && v.Byte > 1 {
		return protocolErrorf("property: RequestResponseInformation must be 0 or 1")
	}
	if v, ok := p.first(PayloadFormatIndicator); ok && v.Byte > 1 {
		return protocolErrorf("property: PayloadFormatIndicator must be 0 or 1")
	}
	if _, hasMethod := p.first(AuthenticationMethod); !hasMethod {
		if _, hasData := p.first(AuthenticationData); hasData {
			return protocolErrorf("property: AuthenticationData present without AuthenticationMethod")
		}
	}
	return nil
}

// writeProperties encodes the Properties block: length prefix then payload.
func writeProperties(w io.Writer, p Properties) error {
	if err := validateProperties(&p); err != nil {
		return err
	}
	payload, err := encodePropertiesPayload(p)
	if err != nil {
		return err
	}
	vb, err := encodeVarint(uint32(len(payload)))
	if err != nil {
		return err
	}
	if _, err := w.Write(vb); err != nil {
		return err
	}
	_, err = w.Write(payload)
	return err
}

func encodePropertiesPayload(p Properties) ([]byte, error) {
	buf := &bytes.Buffer{}
	for _, v := range p.items {
		idBytes, err := encodeVarint(uint32(v.ID))
		if err != nil {
			return nil, err
		}
		buf.Write(idBytes)

		spec := propertySpecs[v.ID]
		switch spec.wire {
		case typeByte:
			if err := writeByteField(buf, v.Byte); err != nil {
				return nil, err
			}
		case typeTwoByteInt:
			if err := writeUint16(buf, v.Int16); err != nil {
				return nil, err
			}
		case typeFourByteInt:
			if err := writeUint32(buf, v.Int32); err != nil {
				return nil, err
			}
		case typeVarInt:
			vb, err := encodeVarint(v.VarInt)
			if err != nil {
				return nil, err
			}
			buf.Write(vb)
		case typeUTF8String:
			if err := writeUTF8(buf, v.Str); err != nil {
				return nil, err
			}
		case typeBinaryData:
			if err := writeBinary(buf, v.Bin); err != nil {
				return nil, err
			}
		case typeUTF8Pair:
			if err := writeUTF8Pair(buf, v.Pair); err != nil {
				return nil, err
			}
		}
	}
	return buf.Bytes(), nil
}

// propertiesLength reports the encoded length of the properties payload
// alone (excluding its own length prefix).
func propertiesLength(p Properties) (int, error) {
	payload, err := encodePropertiesPayload(p)
	if err != nil {
		return 0, err
	}
	return len(payload), nil
}
