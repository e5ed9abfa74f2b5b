// Package docjson renders BSON documents as JSON for API responses.
//
// Plain mode mirrors how a JavaScript driver serialises documents: ObjectIDs
// become hex strings, dates become ISO-8601 strings and field order is kept.
// Relaxed and canonical modes emit MongoDB Extended JSON.
package docjson

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Mode selects the JSON dialect.
type Mode string

const (
	// ModePlain renders documents as ordinary JSON.
	ModePlain Mode = "plain"
	// ModeRelaxed renders relaxed Extended JSON.
	ModeRelaxed Mode = "relaxed"
	// ModeCanonical renders canonical Extended JSON.
	ModeCanonical Mode = "canonical"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModePlain, ModeRelaxed, ModeCanonical:
		return Mode(s), nil
	case "":
		return ModePlain, nil
	}
	return "", fmt.Errorf("unsupported document json mode: %s", s)
}

// Encoder converts documents to JSON in a fixed mode.
type Encoder struct {
	mode Mode
}

// NewEncoder creates an encoder for the mode.
func NewEncoder(mode Mode) *Encoder {
	if mode == "" {
		mode = ModePlain
	}
	return &Encoder{mode: mode}
}

// Mode returns the encoder's mode.
func (e *Encoder) Mode() Mode {
	return e.mode
}

// Encode renders one document.
func (e *Encoder) Encode(doc bson.D) (json.RawMessage, error) {
	switch e.mode {
	case ModeRelaxed:
		return bson.MarshalExtJSON(doc, false, false)
	case ModeCanonical:
		return bson.MarshalExtJSON(doc, true, false)
	}

	var buf bytes.Buffer
	if err := writeValue(&buf, doc); err != nil {
		return nil, err
	}
	return json.RawMessage(buf.Bytes()), nil
}

// EncodeAll renders documents in order.
func (e *Encoder) EncodeAll(docs []bson.D) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, 0, len(docs))
	for i, doc := range docs {
		raw, err := e.Encode(doc)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		out = append(out, raw)
	}
	return out, nil
}

func writeValue(buf *bytes.Buffer, v interface{}) error {
	switch val := v.(type) {
	case nil, primitive.Null, primitive.Undefined:
		buf.WriteString("null")
	case bson.D:
		return writeDocument(buf, val)
	case bson.M:
		return writeDocument(buf, mapToD(val))
	case map[string]interface{}:
		return writeDocument(buf, mapToD(val))
	case bson.A:
		return writeArray(buf, val)
	case []interface{}:
		return writeArray(buf, val)
	case primitive.ObjectID:
		writeString(buf, val.Hex())
	case primitive.DateTime:
		writeString(buf, formatTime(val.Time()))
	case time.Time:
		writeString(buf, formatTime(val))
	case primitive.Timestamp:
		return writeJSON(buf, map[string]uint32{"t": val.T, "i": val.I})
	case primitive.Decimal128:
		writeString(buf, val.String())
	case primitive.Binary:
		writeString(buf, base64.StdEncoding.EncodeToString(val.Data))
	case primitive.Regex:
		writeString(buf, "/"+val.Pattern+"/"+val.Options)
	case primitive.JavaScript:
		writeString(buf, string(val))
	case primitive.CodeWithScope:
		writeString(buf, string(val.Code))
	case primitive.Symbol:
		writeString(buf, string(val))
	case primitive.MinKey:
		writeString(buf, "MinKey")
	case primitive.MaxKey:
		writeString(buf, "MaxKey")
	case primitive.DBPointer:
		writeString(buf, val.DB+"."+val.Pointer.Hex())
	case float64:
		// JSON has no representation for NaN or infinities.
		if math.IsNaN(val) || math.IsInf(val, 0) {
			buf.WriteString("null")
			return nil
		}
		return writeJSON(buf, val)
	default:
		return writeJSON(buf, val)
	}
	return nil
}

func writeDocument(buf *bytes.Buffer, doc bson.D) error {
	buf.WriteByte('{')
	for i, elem := range doc {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeString(buf, elem.Key)
		buf.WriteByte(':')
		if err := writeValue(buf, elem.Value); err != nil {
			return fmt.Errorf("field %q: %w", elem.Key, err)
		}
	}
	buf.WriteByte('}')
	return nil
}

func writeArray(buf *bytes.Buffer, arr []interface{}) error {
	buf.WriteByte('[')
	for i, item := range arr {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeValue(buf, item); err != nil {
			return fmt.Errorf("index %d: %w", i, err)
		}
	}
	buf.WriteByte(']')
	return nil
}

func writeString(buf *bytes.Buffer, s string) {
	b, _ := json.Marshal(s)
	buf.Write(b)
}

func writeJSON(buf *bytes.Buffer, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

// mapToD orders map keys so output is stable.
func mapToD(m map[string]interface{}) bson.D {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	d := make(bson.D, 0, len(m))
	for _, k := range keys {
		d = append(d, bson.E{Key: k, Value: m[k]})
	}
	return d
}
