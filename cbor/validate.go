package cbor

import "unicode/utf8"

// ValidateWellFormedBytes checks that the next CBOR item in b is
// well-formed per RFC 8949 (structural correctness, valid UTF-8 text,
// no reserved additional-info values), returning the bytes after it.
func ValidateWellFormedBytes(b []byte) (rest []byte, err error) {
	return validateWellFormed(b, 0)
}

// ValidateDocument checks that every item in b is well-formed, consuming
// the whole input.
func ValidateDocument(b []byte) error {
	var err error
	for len(b) > 0 {
		b, err = validateWellFormed(b, 0)
		if err != nil {
			return err
		}
	}
	return nil
}

func validateWellFormed(b []byte, depth int) ([]byte, error) {
	if depth > recursionLimit {
		return b, ErrDepthExceeded
	}
	if len(b) < 1 {
		return b, ErrUnexpectedEnd
	}
	lead := b[0]
	major := getMajorType(lead)
	add := getAddInfo(lead)

	if add == 28 || add == 29 || add == 30 {
		return b, InvalidPrefixError{Want: major, Got: major}
	}

	switch major {
	case majorTypeUint, majorTypeNegInt, majorTypeTag:
		_, o, err := readUintCore(b, major)
		if err != nil {
			return b, err
		}
		if major == majorTypeTag {
			return validateWellFormed(o, depth+1)
		}
		return o, nil

	case majorTypeBytes:
		if add == addInfoIndefinite {
			p := b[1:]
			for {
				if len(p) < 1 {
					return b, ErrUnexpectedEnd
				}
				if p[0] == makeByte(majorTypeSimple, simpleBreak) {
					return p[1:], nil
				}
				sz, o, err := readUintCore(p, majorTypeBytes)
				if err != nil {
					return b, err
				}
				if uint64(len(o)) < sz {
					return b, ErrUnexpectedEnd
				}
				p = o[sz:]
			}
		}
		sz, o, err := readUintCore(b, majorTypeBytes)
		if err != nil {
			return b, err
		}
		if uint64(len(o)) < sz {
			return b, ErrUnexpectedEnd
		}
		return o[sz:], nil

	case majorTypeText:
		if add == addInfoIndefinite {
			p := b[1:]
			for {
				if len(p) < 1 {
					return b, ErrUnexpectedEnd
				}
				if p[0] == makeByte(majorTypeSimple, simpleBreak) {
					return p[1:], nil
				}
				sz, o, err := readUintCore(p, majorTypeText)
				if err != nil {
					return b, err
				}
				if uint64(len(o)) < sz {
					return b, ErrUnexpectedEnd
				}
				if !utf8.Valid(o[:sz]) {
					return b, ErrInvalidUTF8
				}
				p = o[sz:]
			}
		}
		sz, o, err := readUintCore(b, majorTypeText)
		if err != nil {
			return b, err
		}
		if uint64(len(o)) < sz {
			return b, ErrUnexpectedEnd
		}
		if !utf8.Valid(o[:sz]) {
			return b, ErrInvalidUTF8
		}
		return o[sz:], nil

	case majorTypeArray:
		if add == addInfoIndefinite {
			p := b[1:]
			for {
				if len(p) < 1 {
					return b, ErrUnexpectedEnd
				}
				if p[0] == makeByte(majorTypeSimple, simpleBreak) {
					return p[1:], nil
				}
				var err error
				p, err = validateWellFormed(p, depth+1)
				if err != nil {
					return b, err
				}
			}
		}
		sz, p, err := readUintCore(b, majorTypeArray)
		if err != nil {
			return b, err
		}
		for i := uint64(0); i < sz; i++ {
			p, err = validateWellFormed(p, depth+1)
			if err != nil {
				return b, err
			}
		}
		return p, nil

	case majorTypeMap:
		if add == addInfoIndefinite {
			p := b[1:]
			for {
				if len(p) < 1 {
					return b, ErrUnexpectedEnd
				}
				if p[0] == makeByte(majorTypeSimple, simpleBreak) {
					return p[1:], nil
				}
				var err error
				p, err = validateWellFormed(p, depth+1)
				if err != nil {
					return b, err
				}
				p, err = validateWellFormed(p, depth+1)
				if err != nil {
					return b, err
				}
			}
		}
		sz, p, err := readUintCore(b, majorTypeMap)
		if err != nil {
			return b, err
		}
		for i := uint64(0); i < sz; i++ {
			p, err = validateWellFormed(p, depth+1)
			if err != nil {
				return b, err
			}
			p, err = validateWellFormed(p, depth+1)
			if err != nil {
				return b, err
			}
		}
		return p, nil

	case majorTypeSimple:
		switch add {
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
			if add < 20 {
				return b[1:], nil
			}
			return b, &ErrUnsupportedType{}
		}
	}
	return b, &ErrUnsupportedType{}
}
