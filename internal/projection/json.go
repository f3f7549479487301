package projection

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DecodeJSON parses raw JSON bytes into a Document, preserving object key
// insertion order. encoding/json's own Unmarshal into map[string]any does
// not preserve order, so this walks the token stream by hand the same way
// the donor's field-path builders walk idShortPath segments by hand rather
// than reach for a generic tree library.
func DecodeJSON(data []byte) (Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	doc, err := decodeValue(dec)
	if err != nil {
		return Document{}, err
	}
	return doc, nil
}

func decodeValue(dec *json.Decoder) (Document, error) {
	tok, err := dec.Token()
	if err != nil {
		return Document{}, err
	}
	return decodeToken(dec, tok)
}

func decodeToken(dec *json.Decoder, tok json.Token) (Document, error) {
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		default:
			return Document{}, fmt.Errorf("projection: unexpected delimiter %q", v)
		}
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return Document{}, fmt.Errorf("projection: invalid number %q: %w", v.String(), err)
		}
		return NewScalar(f), nil
	case string, bool, nil:
		return NewScalar(v), nil
	default:
		return Document{}, fmt.Errorf("projection: unsupported JSON token %T", tok)
	}
}

func decodeObject(dec *json.Decoder) (Document, error) {
	m := NewOrderedMap()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return Document{}, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return Document{}, fmt.Errorf("projection: expected object key, got %T", keyTok)
		}
		val, err := decodeValue(dec)
		if err != nil {
			return Document{}, err
		}
		m.Set(key, val)
	}
	if _, err := dec.Token(); err != nil { // consume closing '}'
		return Document{}, err
	}
	return NewMap(m), nil
}

func decodeArray(dec *json.Decoder) (Document, error) {
	var items []Document
	for dec.More() {
		val, err := decodeValue(dec)
		if err != nil {
			return Document{}, err
		}
		items = append(items, val)
	}
	if _, err := dec.Token(); err != nil { // consume closing ']'
		return Document{}, err
	}
	return NewList(items), nil
}

// MarshalJSON encodes d back into JSON text, writing object keys in their
// original insertion order.
func (d Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (d Document) encode(buf *bytes.Buffer) error {
	switch d.kind {
	case KindScalar:
		b, err := json.Marshal(d.scalar)
		if err != nil {
			return err
		}
		buf.Write(b)
		return nil
	case KindList:
		buf.WriteByte('[')
		for i, item := range d.List() {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	case KindMap:
		buf.WriteByte('{')
		if d.fields != nil {
			for i, k := range d.fields.Keys() {
				if i > 0 {
					buf.WriteByte(',')
				}
				kb, err := json.Marshal(k)
				if err != nil {
					return err
				}
				buf.Write(kb)
				buf.WriteByte(':')
				v, _ := d.fields.Get(k)
				if err := v.encode(buf); err != nil {
					return err
				}
			}
		}
		buf.WriteByte('}')
		return nil
	default:
		return fmt.Errorf("projection: unknown document kind %d", d.kind)
	}
}

// UnmarshalJSON decodes raw JSON into d, preserving object key order. This
// lets Document participate directly in encoding/json-driven request and
// response bodies in internal/api.
func (d *Document) UnmarshalJSON(data []byte) error {
	doc, err := DecodeJSON(data)
	if err != nil {
		return err
	}
	*d = doc
	return nil
}
