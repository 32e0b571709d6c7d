package mqtt5

import "io"

// MaxBinaryDataLength is the largest payload a Binary Data field can declare
// on encode: the length prefix is treated as a signed 16-bit quantity, per
// MQTT 5 section 1.5.6.
const MaxBinaryDataLength = 32767

// MaxUTF8StringLength is the largest string a UTF-8 String field can declare
// on encode: the full unsigned 16-bit length prefix range, per MQTT 5
// section 1.5.4.
const MaxUTF8StringLength = 65535

func readByteField(r io.Reader) (byte, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, ioError(err, "read byte")
	}
	return b[0], nil
}

func writeByteField(w io.Writer, v byte) error {
	_, err := w.Write([]byte{v})
	return err
}

// readBool decodes the MQTT Boolean primitive: 0 is false, 1 is true, any
// other octet is a protocol violation (section 1.5.1).
func readBool(r io.Reader) (bool, error) {
	b, err := readByteField(r)
	if err != nil {
		return false, err
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, protocolErrorf("boolean: value %#x is neither 0 nor 1", b)
	}
}

func writeBool(w io.Writer, v bool) error {
	if v {
		return writeByteField(w, 1)
	}
	return writeByteField(w, 0)
}

func readUint16(r io.Reader) (uint16, error) {
	var b [2]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, ioError(err, "read two byte integer")
	}
	return uint16(b[0])<<8 | uint16(b[1]), nil
}

func writeUint16(w io.Writer, v uint16) error {
	_, err := w.Write([]byte{byte(v >> 8), byte(v)})
	return err
}

func readUint32(r io.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, ioError(err, "read four byte integer")
	}
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
}

func writeUint32(w io.Writer, v uint32) error {
	_, err := w.Write([]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)})
	return err
}

// readBinary decodes Binary Data: a two-byte big-endian length followed by
// that many octets. A short read fails with MalformedPacket.
func readBinary(r io.Reader) ([]byte, error) {
	n, err := readUint16(r)
	if err != nil {
		return nil, ioError(err, "read binary data length")
	}
	if n == 0 {
		return []byte{}, nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, ioError(err, "read binary data payload")
	}
	return buf, nil
}

// writeBinary encodes Binary Data, rejecting payloads too long for the
// 16-bit length prefix.
func writeBinary(w io.Writer, v []byte) error {
	if len(v) > MaxBinaryDataLength {
		return malformedf("binary data: length %d exceeds %d", len(v), MaxBinaryDataLength)
	}
	if err := writeUint16(w, uint16(len(v))); err != nil {
		return err
	}
	if len(v) == 0 {
		return nil
	}
	_, err := w.Write(v)
	return err
}

// readQoS decodes a one-byte QoS field; any value above ExactlyOnce is a
// protocol error.
func readQoS(r io.Reader) (QoS, error) {
	b, err := readByteField(r)
	if err != nil {
		return 0, err
	}
	q := QoS(b)
	if !q.Valid() {
		return 0, protocolErrorf("qos: value %d is not 0, 1, or 2", b)
	}
	return q, nil
}
