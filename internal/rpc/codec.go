package rpc

import (
	"bytes"
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/apache/thrift/lib/go/thrift"
)

// Field is one tagged value: a wire type, a field index and the value.
// Struct values are []Field, lists and sets are List, maps are Map.
// A nil Value is treated as an unset optional field and not written.
type Field struct {
	Type  thrift.TType
	ID    int16
	Value any
}

type List struct {
	Elem  thrift.TType
	Items []any
}

type Map struct {
	Key     thrift.TType
	Value   thrift.TType
	Entries []MapEntry
}

type MapEntry struct {
	Key   any
	Value any
}

// Reply is a decoded REPLY message. Fields holds the result struct keyed by
// field index: 0 is the return value, anything else a declared exception.
type Reply struct {
	Method string
	Seq    int32
	Fields map[int16]any
}

// Codec turns a call into bytes and bytes back into a reply.
type Codec interface {
	EncodeCall(ctx context.Context, method string, seq int32, params []Field) ([]byte, error)
	DecodeReply(ctx context.Context, data []byte) (Reply, error)
}

// Protocol is the request/response type tag a service is bound to.
type Protocol int

const (
	ProtocolBinary  Protocol = 3
	ProtocolCompact Protocol = 4
)

type NewCodecFunc func() Codec

var NewCodecFuncMap = map[Protocol]NewCodecFunc{
	ProtocolBinary: func() Codec {
		return &protocolCodec{newProtocol: func(t thrift.TTransport) thrift.TProtocol {
			return thrift.NewTBinaryProtocolConf(t, &thrift.TConfiguration{})
		}}
	},
	ProtocolCompact: func() Codec {
		return &protocolCodec{newProtocol: func(t thrift.TTransport) thrift.TProtocol {
			return thrift.NewTCompactProtocolConf(t, &thrift.TConfiguration{})
		}}
	},
}

// CodecFor returns the codec registered for p.
func CodecFor(p Protocol) (Codec, error) {
	newCodec, ok := NewCodecFuncMap[p]
	if !ok {
		return nil, fmt.Errorf("unsupported protocol type %d", p)
	}
	return newCodec(), nil
}

type protocolCodec struct {
	newProtocol func(thrift.TTransport) thrift.TProtocol
}

func (c *protocolCodec) EncodeCall(ctx context.Context, method string, seq int32, params []Field) ([]byte, error) {
	return c.encodeMessage(ctx, method, thrift.CALL, seq, params)
}

func (c *protocolCodec) encodeMessage(ctx context.Context, method string, typ thrift.TMessageType, seq int32, fields []Field) ([]byte, error) {
	buf := thrift.NewTMemoryBuffer()
	p := c.newProtocol(buf)

	if err := p.WriteMessageBegin(ctx, method, typ, seq); err != nil {
		return nil, fmt.Errorf("failed to write message header: %w", err)
	}
	if err := writeStruct(ctx, p, fields); err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", method, err)
	}
	if err := p.WriteMessageEnd(ctx); err != nil {
		return nil, err
	}
	if err := p.Flush(ctx); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *protocolCodec) DecodeReply(ctx context.Context, data []byte) (Reply, error) {
	buf := &thrift.TMemoryBuffer{Buffer: bytes.NewBuffer(data)}
	p := c.newProtocol(buf)

	name, typ, seq, err := p.ReadMessageBegin(ctx)
	if err != nil {
		return Reply{}, fmt.Errorf("failed to read message header: %w", err)
	}
	switch typ {
	case thrift.REPLY:
	case thrift.EXCEPTION:
		exc := thrift.NewTApplicationException(thrift.UNKNOWN_APPLICATION_EXCEPTION, "")
		if err := exc.Read(ctx, p); err != nil {
			return Reply{}, fmt.Errorf("failed to read %s exception: %w", name, err)
		}
		return Reply{}, exc
	default:
		return Reply{}, fmt.Errorf("unexpected message type %d for %s", typ, name)
	}

	fields, err := readStruct(ctx, p)
	if err != nil {
		return Reply{}, fmt.Errorf("failed to decode %s reply: %w", name, err)
	}
	if err := p.ReadMessageEnd(ctx); err != nil {
		return Reply{}, err
	}
	return Reply{Method: name, Seq: seq, Fields: fields}, nil
}

func writeStruct(ctx context.Context, p thrift.TProtocol, fields []Field) error {
	if err := p.WriteStructBegin(ctx, ""); err != nil {
		return err
	}
	for _, f := range fields {
		if f.Value == nil {
			continue
		}
		if err := p.WriteFieldBegin(ctx, "", f.Type, f.ID); err != nil {
			return err
		}
		if err := writeValue(ctx, p, f.Type, f.Value); err != nil {
			return fmt.Errorf("field %d: %w", f.ID, err)
		}
		if err := p.WriteFieldEnd(ctx); err != nil {
			return err
		}
	}
	if err := p.WriteFieldStop(ctx); err != nil {
		return err
	}
	return p.WriteStructEnd(ctx)
}

func writeValue(ctx context.Context, p thrift.TProtocol, t thrift.TType, v any) error {
	switch t {
	case thrift.BOOL:
		b, ok := v.(bool)
		if !ok {
			return typeMismatch(t, v)
		}
		return p.WriteBool(ctx, b)
	case thrift.BYTE:
		n, ok := toInt64(v)
		if !ok {
			return typeMismatch(t, v)
		}
		return p.WriteByte(ctx, int8(n))
	case thrift.I16:
		n, ok := toInt64(v)
		if !ok {
			return typeMismatch(t, v)
		}
		return p.WriteI16(ctx, int16(n))
	case thrift.I32:
		n, ok := toInt64(v)
		if !ok {
			return typeMismatch(t, v)
		}
		return p.WriteI32(ctx, int32(n))
	case thrift.I64:
		n, ok := toInt64(v)
		if !ok {
			return typeMismatch(t, v)
		}
		return p.WriteI64(ctx, n)
	case thrift.DOUBLE:
		f, ok := v.(float64)
		if !ok {
			return typeMismatch(t, v)
		}
		return p.WriteDouble(ctx, f)
	case thrift.STRING:
		switch s := v.(type) {
		case string:
			return p.WriteString(ctx, s)
		case []byte:
			return p.WriteBinary(ctx, s)
		}
		return typeMismatch(t, v)
	case thrift.STRUCT:
		fields, ok := v.([]Field)
		if !ok {
			return typeMismatch(t, v)
		}
		return writeStruct(ctx, p, fields)
	case thrift.LIST, thrift.SET:
		l, ok := v.(List)
		if !ok {
			return typeMismatch(t, v)
		}
		return writeList(ctx, p, t, l)
	case thrift.MAP:
		m, ok := v.(Map)
		if !ok {
			return typeMismatch(t, v)
		}
		if err := p.WriteMapBegin(ctx, m.Key, m.Value, len(m.Entries)); err != nil {
			return err
		}
		for _, e := range m.Entries {
			if err := writeValue(ctx, p, m.Key, e.Key); err != nil {
				return err
			}
			if err := writeValue(ctx, p, m.Value, e.Value); err != nil {
				return err
			}
		}
		return p.WriteMapEnd(ctx)
	}
	return fmt.Errorf("unsupported wire type %d", t)
}

func writeList(ctx context.Context, p thrift.TProtocol, t thrift.TType, l List) error {
	var err error
	if t == thrift.SET {
		err = p.WriteSetBegin(ctx, l.Elem, len(l.Items))
	} else {
		err = p.WriteListBegin(ctx, l.Elem, len(l.Items))
	}
	if err != nil {
		return err
	}
	for _, item := range l.Items {
		if err := writeValue(ctx, p, l.Elem, item); err != nil {
			return err
		}
	}
	if t == thrift.SET {
		return p.WriteSetEnd(ctx)
	}
	return p.WriteListEnd(ctx)
}

func readStruct(ctx context.Context, p thrift.TProtocol) (map[int16]any, error) {
	if _, err := p.ReadStructBegin(ctx); err != nil {
		return nil, err
	}
	fields := make(map[int16]any)
	for {
		_, t, id, err := p.ReadFieldBegin(ctx)
		if err != nil {
			return nil, err
		}
		if t == thrift.STOP {
			break
		}
		v, err := readValue(ctx, p, t)
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", id, err)
		}
		fields[id] = v
		if err := p.ReadFieldEnd(ctx); err != nil {
			return nil, err
		}
	}
	return fields, p.ReadStructEnd(ctx)
}

// maxPrealloc bounds the capacity reserved from a container header; the
// header is server supplied and may claim more items than the reply holds.
const maxPrealloc = 1024

// readValue decodes one value of type t. Map keys are rendered as strings
// so decoded replies can be handed straight to encoding/json. STRING and
// binary share a wire type: valid UTF-8 decodes as string, anything else
// stays []byte, which encoding/json renders as base64.
func readValue(ctx context.Context, p thrift.TProtocol, t thrift.TType) (any, error) {
	switch t {
	case thrift.BOOL:
		return p.ReadBool(ctx)
	case thrift.BYTE:
		return p.ReadByte(ctx)
	case thrift.I16:
		return p.ReadI16(ctx)
	case thrift.I32:
		return p.ReadI32(ctx)
	case thrift.I64:
		return p.ReadI64(ctx)
	case thrift.DOUBLE:
		return p.ReadDouble(ctx)
	case thrift.STRING:
		b, err := p.ReadBinary(ctx)
		if err != nil {
			return nil, err
		}
		if utf8.Valid(b) {
			return string(b), nil
		}
		return b, nil
	case thrift.STRUCT:
		return readStruct(ctx, p)
	case thrift.LIST, thrift.SET:
		var (
			elem thrift.TType
			size int
			err  error
		)
		if t == thrift.SET {
			elem, size, err = p.ReadSetBegin(ctx)
		} else {
			elem, size, err = p.ReadListBegin(ctx)
		}
		if err != nil {
			return nil, err
		}
		items := make([]any, 0, min(size, maxPrealloc))
		for i := 0; i < size; i++ {
			v, err := readValue(ctx, p, elem)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		if t == thrift.SET {
			return items, p.ReadSetEnd(ctx)
		}
		return items, p.ReadListEnd(ctx)
	case thrift.MAP:
		kt, vt, size, err := p.ReadMapBegin(ctx)
		if err != nil {
			return nil, err
		}
		m := make(map[string]any, min(size, maxPrealloc))
		for i := 0; i < size; i++ {
			k, err := readValue(ctx, p, kt)
			if err != nil {
				return nil, err
			}
			v, err := readValue(ctx, p, vt)
			if err != nil {
				return nil, err
			}
			m[fmt.Sprint(k)] = v
		}
		return m, p.ReadMapEnd(ctx)
	}
	return nil, p.Skip(ctx, t)
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	}
	return 0, false
}

func typeMismatch(t thrift.TType, v any) error {
	return fmt.Errorf("value of type %T cannot be written as wire type %d", v, t)
}
