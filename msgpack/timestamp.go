package msgpack

import (
	"encoding/binary"
	"time"
)

// AppendTimestamp appends a time.Time using the MessagePack timestamp
// extension (type -1), choosing the 4-, 8-, or 12-byte form per the
// MessagePack spec: 4 bytes when seconds fit unsigned 32-bit and
// nanoseconds are zero, 8 bytes when seconds fit 34 bits, else 12.
func AppendTimestamp(b []byte, t time.Time) []byte {
	sec := t.Unix()
	nsec := int64(t.Nanosecond())
	switch {
	case nsec == 0 && sec >= 0 && sec <= 0xffffffff:
		payload := make([]byte, 4)
		binary.BigEndian.PutUint32(payload, uint32(sec))
		return AppendExt(b, extTimestamp, payload)
	case sec >= 0 && sec < (1<<34):
		data := (uint64(nsec) << 34) | uint64(sec)
		payload := make([]byte, 8)
		binary.BigEndian.PutUint64(payload, data)
		return AppendExt(b, extTimestamp, payload)
	default:
		payload := make([]byte, 12)
		binary.BigEndian.PutUint32(payload, uint32(nsec))
		binary.BigEndian.PutUint64(payload[4:], uint64(sec))
		return AppendExt(b, extTimestamp, payload)
	}
}

// ReadTimestampBytes reads a MessagePack timestamp extension.
func ReadTimestampBytes(b []byte) (time.Time, []byte, error) {
	extType, payload, rest, err := ReadExtBytes(b)
	if err != nil {
		return time.Time{}, b, err
	}
	if extType != extTimestamp {
		return time.Time{}, b, TypeError{Method: "timestamp", Encoded: "ext"}
	}
	switch len(payload) {
	case 4:
		sec := binary.BigEndian.Uint32(payload)
		return time.Unix(int64(sec), 0).UTC(), rest, nil
	case 8:
		data := binary.BigEndian.Uint64(payload)
		nsec := data >> 34
		sec := data & 0x3ffffffff
		return time.Unix(int64(sec), int64(nsec)).UTC(), rest, nil
	case 12:
		nsec := binary.BigEndian.Uint32(payload)
		sec := binary.BigEndian.Uint64(payload[4:])
		return time.Unix(int64(sec), int64(nsec)).UTC(), rest, nil
	default:
		return time.Time{}, b, ErrBadTimestampLength
	}
}
