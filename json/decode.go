// Package json implements the tolerant JSON codec (spec §4.6): a
// recursive-descent decoder supporting strict and partial-recovery modes,
// binary round-trip via a base64 data-URI prefix, and a stable-key
// encoder, all against the shared value.Value model rather than a
// struct-tag reflection API.
package json

import (
	"encoding/base64"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	"math/big"

	"github.com/wireval/codec/value"
)

// DecoderMode selects strict RFC 8259 parsing or partial-recovery
// parsing (spec §4.6).
type DecoderMode uint8

const (
	ModeStrict DecoderMode = iota
	ModePartial
)

// DefaultBinaryPrefix is the data-URI prefix a decoded string must start
// with to round-trip back into a Bytes value (spec §4.6).
const DefaultBinaryPrefix = "data:application/octet-stream;base64,"

// DecoderOptions configures a Decoder.
type DecoderOptions struct {
	Mode          DecoderMode
	AllowProtoKey bool
	BinaryPrefix  string
}

// Decoder parses JSON text into value.Value trees.
type Decoder struct {
	Options  DecoderOptions
	MaxDepth int
}

// NewDecoder returns a Decoder configured with opts, filling in
// BinaryPrefix's default when left empty.
func NewDecoder(opts DecoderOptions) *Decoder {
	if opts.BinaryPrefix == "" {
		opts.BinaryPrefix = DefaultBinaryPrefix
	}
	return &Decoder{Options: opts, MaxDepth: value.DefaultMaxDepth}
}

// Unmarshal parses one JSON value from b, returning any trailing bytes.
// In ModePartial, a malformed or truncated array/object element yields
// the container assembled so far rather than an error; a top-level parse
// failure still propagates, since there's nothing to recover into.
func (d *Decoder) Unmarshal(b []byte) (value.Value, []byte, error) {
	opts := d.Options
	if opts.BinaryPrefix == "" {
		opts.BinaryPrefix = DefaultBinaryPrefix
	}
	maxDepth := d.MaxDepth
	if maxDepth == 0 {
		maxDepth = value.DefaultMaxDepth
	}
	p := &parser{data: b, opts: opts, maxDepth: maxDepth}
	v, err := p.parseValue(0)
	if err != nil {
		return value.Value{}, b, err
	}
	return v, p.data[p.pos:], nil
}

type parser struct {
	data     []byte
	pos      int
	opts     DecoderOptions
	maxDepth int
}

func (p *parser) atEnd() bool { return p.pos >= len(p.data) }

func (p *parser) peek() byte {
	if p.atEnd() {
		return 0
	}
	return p.data[p.pos]
}

func (p *parser) skipWS() {
	for !p.atEnd() {
		switch p.data[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func (p *parser) parseValue(depth int) (value.Value, error) {
	if depth > p.maxDepth {
		return value.Value{}, ErrDepthExceeded
	}
	p.skipWS()
	if p.atEnd() {
		return value.Value{}, ErrUnexpectedEnd
	}
	switch c := p.peek(); {
	case c == '"':
		return p.parseStringValue()
	case c == '{':
		return p.parseObject(depth)
	case c == '[':
		return p.parseArray(depth)
	case c == 't':
		return p.parseLiteral("true", value.Bool(true))
	case c == 'f':
		return p.parseLiteral("false", value.Bool(false))
	case c == 'n':
		return p.parseLiteral("null", value.Null())
	case c == '-' || isDigit(c):
		return p.parseNumber()
	}
	return value.Value{}, ErrInvalidJson
}

func (p *parser) parseLiteral(lit string, v value.Value) (value.Value, error) {
	if p.pos+len(lit) > len(p.data) || string(p.data[p.pos:p.pos+len(lit)]) != lit {
		return value.Value{}, ErrInvalidJson
	}
	p.pos += len(lit)
	return v, nil
}

func (p *parser) parseNumber() (value.Value, error) {
	start := p.pos
	if p.peek() == '-' {
		p.pos++
	}
	if !isDigit(p.peek()) {
		return value.Value{}, ErrInvalidJson
	}
	for isDigit(p.peek()) {
		p.pos++
	}
	isFloat := false
	if p.peek() == '.' {
		isFloat = true
		p.pos++
		if !isDigit(p.peek()) {
			return value.Value{}, ErrInvalidJson
		}
		for isDigit(p.peek()) {
			p.pos++
		}
	}
	if p.peek() == 'e' || p.peek() == 'E' {
		isFloat = true
		p.pos++
		if p.peek() == '+' || p.peek() == '-' {
			p.pos++
		}
		if !isDigit(p.peek()) {
			return value.Value{}, ErrInvalidJson
		}
		for isDigit(p.peek()) {
			p.pos++
		}
	}
	s := string(p.data[start:p.pos])
	if isFloat {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return value.Value{}, ErrInvalidJson
		}
		return value.Float64(f), nil
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return value.Int(i), nil
	}
	if u, err := strconv.ParseUint(s, 10, 64); err == nil {
		return value.UInt(u), nil
	}
	z, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return value.Value{}, ErrInvalidJson
	}
	return value.BigInt(z), nil
}

func (p *parser) parseStringValue() (value.Value, error) {
	s, err := p.parseRawString()
	if err != nil {
		return value.Value{}, err
	}
	if p.opts.BinaryPrefix != "" && strings.HasPrefix(s, p.opts.BinaryPrefix) {
		data, err := base64.StdEncoding.DecodeString(s[len(p.opts.BinaryPrefix):])
		if err != nil {
			return value.Value{}, ErrInvalidJson
		}
		return value.BytesVal(data), nil
	}
	return value.String(s), nil
}

// parseRawString scans one quoted string, returning its decoded content.
// Escapes are detected during the scan but unescaped lazily, so the
// common unescaped-string case costs one pass, not two.
func (p *parser) parseRawString() (string, error) {
	if p.peek() != '"' {
		return "", ErrInvalidJson
	}
	p.pos++
	start := p.pos
	hasEscape := false
	for {
		if p.atEnd() {
			return "", ErrUnexpectedEnd
		}
		c := p.data[p.pos]
		if c == '"' {
			raw := p.data[start:p.pos]
			p.pos++
			if !hasEscape {
				if !utf8.Valid(raw) {
					return "", ErrInvalidUtf8
				}
				return string(raw), nil
			}
			return unescapeString(raw)
		}
		if c == '\\' {
			hasEscape = true
			p.pos += 2
			continue
		}
		if c < 0x20 {
			return "", ErrInvalidJson
		}
		p.pos++
	}
}

func unescapeString(raw []byte) (string, error) {
	var sb strings.Builder
	i := 0
	for i < len(raw) {
		c := raw[i]
		if c != '\\' {
			sb.WriteByte(c)
			i++
			continue
		}
		i++
		if i >= len(raw) {
			return "", ErrInvalidJson
		}
		switch raw[i] {
		case '"':
			sb.WriteByte('"')
			i++
		case '\\':
			sb.WriteByte('\\')
			i++
		case '/':
			sb.WriteByte('/')
			i++
		case 'b':
			sb.WriteByte('\b')
			i++
		case 'f':
			sb.WriteByte('\f')
			i++
		case 'n':
			sb.WriteByte('\n')
			i++
		case 'r':
			sb.WriteByte('\r')
			i++
		case 't':
			sb.WriteByte('\t')
			i++
		case 'u':
			r, ni, err := parseHex4Rune(raw, i+1)
			if err != nil {
				return "", err
			}
			i = ni
			if utf16.IsSurrogate(r) && i+5 < len(raw) && raw[i] == '\\' && raw[i+1] == 'u' {
				r2, ni2, err := parseHex4Rune(raw, i+2)
				if err == nil {
					if combined := utf16.DecodeRune(r, r2); combined != unicode.ReplacementChar {
						sb.WriteRune(combined)
						i = ni2
						continue
					}
				}
			}
			sb.WriteRune(r)
		default:
			return "", ErrInvalidJson
		}
	}
	out := sb.String()
	if !utf8.ValidString(out) {
		return "", ErrInvalidUtf8
	}
	return out, nil
}

func parseHex4Rune(raw []byte, i int) (rune, int, error) {
	if i+4 > len(raw) {
		return 0, i, ErrInvalidJson
	}
	n, err := strconv.ParseUint(string(raw[i:i+4]), 16, 32)
	if err != nil {
		return 0, i, ErrInvalidJson
	}
	return rune(n), i + 4, nil
}

func (p *parser) parseArray(depth int) (value.Value, error) {
	p.pos++
	var arr []value.Value
	p.skipWS()
	for {
		if p.opts.Mode == ModePartial {
			for p.peek() == ',' {
				p.pos++
				p.skipWS()
			}
		}
		if p.atEnd() {
			if p.opts.Mode == ModePartial {
				return value.Arr(arr...), nil
			}
			return value.Value{}, ErrUnexpectedEnd
		}
		if p.peek() == ']' {
			p.pos++
			return value.Arr(arr...), nil
		}
		val, err := p.parseValue(depth + 1)
		if err != nil {
			if p.opts.Mode == ModePartial {
				return value.Arr(arr...), nil
			}
			return value.Value{}, err
		}
		arr = append(arr, val)
		p.skipWS()
		switch {
		case p.peek() == ',':
			p.pos++
			p.skipWS()
		case p.peek() == ']':
			p.pos++
			return value.Arr(arr...), nil
		default:
			if p.opts.Mode == ModePartial {
				return value.Arr(arr...), nil
			}
			return value.Value{}, ErrInvalidJson
		}
	}
}

func (p *parser) parseObject(depth int) (value.Value, error) {
	p.pos++
	var pairs []value.Pair
	p.skipWS()
	for {
		if p.opts.Mode == ModePartial {
			for p.peek() == ',' {
				p.pos++
				p.skipWS()
			}
		}
		if p.atEnd() {
			if p.opts.Mode == ModePartial {
				return value.Obj(pairs...), nil
			}
			return value.Value{}, ErrUnexpectedEnd
		}
		if p.peek() == '}' {
			p.pos++
			return value.Obj(pairs...), nil
		}
		if p.peek() != '"' {
			if p.opts.Mode == ModePartial {
				return value.Obj(pairs...), nil
			}
			return value.Value{}, ErrInvalidJson
		}
		key, err := p.parseRawString()
		if err != nil {
			if p.opts.Mode == ModePartial {
				return value.Obj(pairs...), nil
			}
			return value.Value{}, err
		}
		if key == "__proto__" && !p.opts.AllowProtoKey {
			return value.Value{}, ErrProtoKey
		}
		p.skipWS()
		if p.peek() != ':' {
			if p.opts.Mode == ModePartial {
				return value.Obj(pairs...), nil
			}
			return value.Value{}, ErrInvalidJson
		}
		p.pos++
		p.skipWS()
		val, err := p.parseValue(depth + 1)
		if err != nil {
			if p.opts.Mode == ModePartial {
				return value.Obj(pairs...), nil
			}
			return value.Value{}, err
		}
		pairs = append(pairs, value.Pair{Key: key, Val: val})
		p.skipWS()
		switch {
		case p.peek() == ',':
			p.pos++
			p.skipWS()
		case p.peek() == '}':
			p.pos++
			return value.Obj(pairs...), nil
		default:
			if p.opts.Mode == ModePartial {
				return value.Obj(pairs...), nil
			}
			return value.Value{}, ErrInvalidJson
		}
	}
}
