// Package wire holds the small protobuf wire-format helpers shared by the key,
// bundle and message encodings.
//
// Encodings are self-describing: every value is tagged with a field number
// and wire type, unknown fields are skipped on read, and truncated or
// otherwise malformed input is rejected with ErrMalformed.
package wire

import (
	"errors"

	"google.golang.org/protobuf/encoding/protowire"
)

// ErrMalformed is returned for input that is not valid wire data or that is
// missing a required field.
var ErrMalformed = errors.New("malformed wire data")

// Builder appends fields to an encoding.
type Builder struct {
	buf []byte
}

// Bytes appends a length-delimited field. Nil values are omitted.
func (b *Builder) Bytes(num protowire.Number, v []byte) *Builder {
	if v == nil {
		return b
	}
	b.buf = protowire.AppendTag(b.buf, num, protowire.BytesType)
	b.buf = protowire.AppendBytes(b.buf, v)
	return b
}

// Uint appends a varint field. Zero values are omitted.
func (b *Builder) Uint(num protowire.Number, v uint64) *Builder {
	if v == 0 {
		return b
	}
	b.buf = protowire.AppendTag(b.buf, num, protowire.VarintType)
	b.buf = protowire.AppendVarint(b.buf, v)
	return b
}

// Finish returns the encoded fields.
func (b *Builder) Finish() []byte {
	if b.buf == nil {
		return []byte{}
	}
	return b.buf
}

// Field is a single decoded field. Bytes aliases the input passed to Walk.
type Field struct {
	Num    protowire.Number
	Type   protowire.Type
	Bytes  []byte
	Varint uint64
}

// Walk calls fn for every length-delimited and varint field in data, in
// order. Fields of other wire types are skipped. Walk stops at the first
// error returned by fn and returns it unchanged.
func Walk(data []byte, fn func(Field) error) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return ErrMalformed
		}
		data = data[n:]

		f := Field{Num: num, Type: typ}
		switch typ {
		case protowire.BytesType:
			v, m := protowire.ConsumeBytes(data)
			if m < 0 {
				return ErrMalformed
			}
			f.Bytes, n = v, m
		case protowire.VarintType:
			v, m := protowire.ConsumeVarint(data)
			if m < 0 {
				return ErrMalformed
			}
			f.Varint, n = v, m
		default:
			m := protowire.ConsumeFieldValue(num, typ, data)
			if m < 0 {
				return ErrMalformed
			}
			data = data[m:]
			continue
		}
		data = data[n:]
		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}
