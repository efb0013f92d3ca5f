package cbor

// Skip advances past the next complete CBOR item in b, returning whatever
// follows it. Used by decoders and the path navigator to pass over values
// that aren't of interest without materializing them.
func Skip(b []byte) ([]byte, error) {
	return skip(b, 0)
}

func skip(b []byte, depth int) ([]byte, error) {
	if depth > recursionLimit {
		return b, ErrDepthExceeded
	}
	if len(b) < 1 {
		return b, ErrUnexpectedEnd
	}

	major := getMajorType(b[0])
	addInfo := getAddInfo(b[0])

	switch major {
	case majorTypeUint, majorTypeNegInt, majorTypeTag:
		_, o, err := readUintCore(b, major)
		if err != nil {
			return b, err
		}
		if major == majorTypeTag {
			return skip(o, depth+1)
		}
		return o, nil

	case majorTypeBytes, majorTypeText:
		if addInfo == addInfoIndefinite {
			o := b[1:]
			for {
				if len(o) < 1 {
					return b, ErrUnexpectedEnd
				}
				if o[0] == makeByte(majorTypeSimple, simpleBreak) {
					return o[1:], nil
				}
				sz, q, err := readUintCore(o, major)
				if err != nil {
					return b, err
				}
				if uint64(len(q)) < sz {
					return b, ErrUnexpectedEnd
				}
				o = q[sz:]
			}
		}
		sz, o, err := readUintCore(b, major)
		if err != nil {
			return b, err
		}
		if uint64(len(o)) < sz {
			return b, ErrUnexpectedEnd
		}
		return o[sz:], nil

	case majorTypeArray:
		if addInfo == addInfoIndefinite {
			o := b[1:]
			for {
				if len(o) < 1 {
					return b, ErrUnexpectedEnd
				}
				if o[0] == makeByte(majorTypeSimple, simpleBreak) {
					return o[1:], nil
				}
				var err error
				o, err = skip(o, depth+1)
				if err != nil {
					return b, err
				}
			}
		}
		sz, o, err := readUintCore(b, major)
		if err != nil {
			return b, err
		}
		for i := uint64(0); i < sz; i++ {
			o, err = skip(o, depth+1)
			if err != nil {
				return b, err
			}
		}
		return o, nil

	case majorTypeMap:
		if addInfo == addInfoIndefinite {
			o := b[1:]
			for {
				if len(o) < 1 {
					return b, ErrUnexpectedEnd
				}
				if o[0] == makeByte(majorTypeSimple, simpleBreak) {
					return o[1:], nil
				}
				var err error
				o, err = skip(o, depth+1) // key
				if err != nil {
					return b, err
				}
				o, err = skip(o, depth+1) // value
				if err != nil {
					return b, err
				}
			}
		}
		sz, o, err := readUintCore(b, major)
		if err != nil {
			return b, err
		}
		for i := uint64(0); i < sz; i++ {
			o, err = skip(o, depth+1) // key
			if err != nil {
				return b, err
			}
			o, err = skip(o, depth+1) // value
			if err != nil {
				return b, err
			}
		}
		return o, nil

	case majorTypeSimple:
		switch addInfo {
		case simpleFalse, simpleTrue, simpleNull, simpleUndefined:
			return b[1:], nil
		case simpleFloat16:
			if len(b) < 3 {
				return b, ErrUnexpectedEnd
			}
			return b[3:], nil
		case simpleFloat32:
			if len(b) < 5 {
				return b, ErrUnexpectedEnd
			}
			return b[5:], nil
		case simpleFloat64:
			if len(b) < 9 {
				return b, ErrUnexpectedEnd
			}
			return b[9:], nil
		case addInfoUint8:
			if len(b) < 2 {
				return b, ErrUnexpectedEnd
			}
			return b[2:], nil
		default:
			return b[1:], nil
		}
	}
	return b, &ErrUnsupportedType{}
}
