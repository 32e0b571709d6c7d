package mqtt5

// Protocol-wide numeric limits, collected in one place so packet codecs
// don't repeat magic numbers.
const (
	// MaxPacketIdentifier is the largest non-zero value a Packet Identifier
	// field can hold (MQTT 5 section 2.2.1).
	MaxPacketIdentifier = 0xFFFF

	// MaxKeepAlive is the largest value the CONNECT Keep Alive field can
	// hold (MQTT 5 section 3.1.2.10).
	MaxKeepAlive = 0xFFFF

	// MaxClientIDLength is the longest ClientID the server is required to
	// accept (MQTT 5 section 3.1.3.1). This package's CONNECT encoder and
	// decoder reject a longer non-empty ClientID as a malformed packet.
	MaxClientIDLength = 23

	// MaxMaximumPacketSize is the widened encode bound for the
	// MaximumPacketSize property: the MQTT 5 Variable Byte Integer ceiling,
	// not the teacher's narrower 32,767.
	MaxMaximumPacketSize = MaxVariableByteInteger
)
