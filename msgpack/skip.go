package msgpack

const recursionLimit = 100000

// Skip advances past the next complete MessagePack item in b.
func Skip(b []byte) ([]byte, error) { return skip(b, 0) }

func skip(b []byte, depth int) ([]byte, error) {
	if depth > recursionLimit {
		return b, ErrDepthExceeded
	}
	if len(b) < 1 {
		return b, ErrUnexpectedEnd
	}
	lead := b[0]
	switch {
	case lead <= fixintPosMax, lead >= fixintNegMin:
		return b[1:], nil
	case lead&0xe0 == fixstrMask:
		n := int(lead & fixstrMax)
		if len(b) < 1+n {
			return b, ErrUnexpectedEnd
		}
		return b[1+n:], nil
	case lead&0xf0 == fixarrMask:
		n := int(lead & fixarrMax)
		return skipN(b[1:], n, depth)
	case lead&0xf0 == fixmapMask:
		n := int(lead & fixmapMax)
		return skipN(b[1:], 2*n, depth)
	}
	switch lead {
	case nilCode, falseCode, trueCode:
		return b[1:], nil
	case uint8Code, int8Code:
		return skipFixed(b, 2)
	case uint16Code, int16Code:
		return skipFixed(b, 3)
	case uint32Code, int32Code, float32Code:
		return skipFixed(b, 5)
	case uint64Code, int64Code, float64Code:
		return skipFixed(b, 9)
	case str8, bin8:
		return skipLenPrefixed(b, 1)
	case str16, bin16, array16:
		if lead == array16 {
			n, o, err := ReadArrHeader(b)
			if err != nil {
				return b, err
			}
			return skipN(o, n, depth)
		}
		return skipLenPrefixed(b, 2)
	case str32, bin32, array32:
		if lead == array32 {
			n, o, err := ReadArrHeader(b)
			if err != nil {
				return b, err
			}
			return skipN(o, n, depth)
		}
		return skipLenPrefixed(b, 4)
	case map16:
		n, o, err := ReadObjHeader(b)
		if err != nil {
			return b, err
		}
		return skipN(o, 2*n, depth)
	case map32:
		n, o, err := ReadObjHeader(b)
		if err != nil {
			return b, err
		}
		return skipN(o, 2*n, depth)
	case fixext1, fixext2, fixext4, fixext8, fixext16, ext8, ext16, ext32:
		n, _, o, err := ReadExtHeader(b)
		if err != nil {
			return b, err
		}
		if len(o) < n {
			return b, ErrUnexpectedEnd
		}
		return o[n:], nil
	}
	return b, InvalidPrefixError{Byte: lead}
}

func skipN(b []byte, n int, depth int) ([]byte, error) {
	var err error
	for i := 0; i < n; i++ {
		b, err = skip(b, depth+1)
		if err != nil {
			return b, err
		}
	}
	return b, nil
}

func skipFixed(b []byte, total int) ([]byte, error) {
	if len(b) < total {
		return b, ErrUnexpectedEnd
	}
	return b[total:], nil
}

func skipLenPrefixed(b []byte, headerLen int) ([]byte, error) {
	if headerLen == 1 {
		if len(b) < 2 {
			return b, ErrUnexpectedEnd
		}
		n := int(b[1])
		if len(b) < 2+n {
			return b, ErrUnexpectedEnd
		}
		return b[2+n:], nil
	}
	if headerLen == 2 {
		if len(b) < 3 {
			return b, ErrUnexpectedEnd
		}
		n := int(be.Uint16(b[1:]))
		if len(b) < 3+n {
			return b, ErrUnexpectedEnd
		}
		return b[3+n:], nil
	}
	if len(b) < 5 {
		return b, ErrUnexpectedEnd
	}
	n := int(be.Uint32(b[1:]))
	if len(b) < 5+n {
		return b, ErrUnexpectedEnd
	}
	return b[5+n:], nil
}
