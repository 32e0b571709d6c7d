package mqtt5

// Will describes the optional CONNECT Will message: what the server must
// publish on the client's behalf if the network connection closes
// abnormally (MQTT 5 section 3.1.2.5 onward).
type Will struct {
	QoS    QoS
	Retain bool
	Topic  string
	Payload []byte

	DelayInterval         uint32
	PayloadFormatIndicator bool
	MessageExpiryInterval *uint32
	ContentType           string
	ResponseTopic         *string
	CorrelationData       []byte
	UserProperties        []utf8Pair
}
