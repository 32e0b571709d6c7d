package mqtt5

import (
	"bytes"
	"testing"
)

// FuzzDecode feeds arbitrary byte strings through Decode. The codec must
// never panic on untrusted input — only return a typed error or a value.
func FuzzDecode(f *testing.F) {
	f.Add([]byte{0xC0, 0x00})
	f.Add([]byte{0x20, 0x03, 0x00, 0x00, 0x00})
	f.Add([]byte{0x30, 0x05, 0x00, 0x01, 0x61, 0x68, 0x69})
	f.Add([]byte{})

	f.Fuzz(func(t *testing.T, data []byte) {
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("Decode panicked on input % x: %v", data, r)
			}
		}()
		_, _ = Decode(bytes.NewReader(data))
	})
}

// FuzzVarintRoundTrip checks that every value the encoder accepts decodes
// back to the same value.
func FuzzVarintRoundTrip(f *testing.F) {
	f.Add(uint32(0))
	f.Add(uint32(127))
	f.Add(uint32(128))
	f.Add(uint32(268435455))

	f.Fuzz(func(t *testing.T, v uint32) {
		if v > MaxVariableByteInteger {
			return
		}
		encoded, err := encodeVarint(v)
		if err != nil {
			t.Fatalf("encodeVarint(%d): %v", v, err)
		}
		decoded, err := decodeVarint(bytes.NewReader(encoded))
		if err != nil {
			t.Fatalf("decodeVarint(% x): %v", encoded, err)
		}
		if decoded != v {
			t.Fatalf("round trip %d -> % x -> %d", v, encoded, decoded)
		}
	})
}

// FuzzUTF8String checks that every string the encoder accepts decodes back
// identically, and that the decoder never panics.
func FuzzUTF8String(f *testing.F) {
	f.Add("")
	f.Add("hello")
	f.Add("A𪛔")

	f.Fuzz(func(t *testing.T, s string) {
		var buf bytes.Buffer
		if err := writeUTF8(&buf, s); err != nil {
			return
		}
		got, err := readUTF8(bytes.NewReader(buf.Bytes()))
		if err != nil {
			t.Fatalf("readUTF8 round trip: %v", err)
		}
		if got != s {
			t.Fatalf("round trip %q -> % x -> %q", s, buf.Bytes(), got)
		}
	})
}
