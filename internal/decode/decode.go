// Package decode turns a dropped or opened recording into trace.Data. A
// recording is either a data URI carrying a base64 payload or plain text; the
// text is JSON that may contain comments and trailing commas.
package decode

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/hjson/hjson-go/v4"
	"github.com/zeebo/xxh3"

	"stepscope/internal/trace"
)

// DataURIHeader is the prefix browsers put on dropped recordings.
const DataURIHeader = "data:application/x-javascript;base64,"

var (
	ErrEmptyPayload   = errors.New("empty payload")
	ErrUnknownPayload = errors.New("unrecognized payload")
)

// Error is a malformed or unrecognised recording.
type Error struct {
	Source string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Source, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// ReadFile reads and decodes the recording at path.
func ReadFile(path string) (trace.Data, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return trace.Data{}, &Error{Source: path, Err: err}
	}
	return Decode(path, payload)
}

// Decode parses payload. source only labels errors.
func Decode(source string, payload []byte) (trace.Data, error) {
	text, err := payloadText(payload)
	if err != nil {
		return trace.Data{}, &Error{Source: source, Err: err}
	}

	var raw rawData
	if err := unmarshal(text, &raw); err != nil {
		return trace.Data{}, &Error{Source: source, Err: err}
	}

	data := raw.data()
	data.Hash = xxh3.Hash(text)
	return data, nil
}

// payloadText unwraps a data URI if present and returns the document text.
func payloadText(payload []byte) ([]byte, error) {
	payload = bytes.TrimPrefix(payload, []byte("\xef\xbb\xbf"))
	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 {
		return nil, ErrEmptyPayload
	}

	if bytes.HasPrefix(payload, []byte("data:")) {
		i := bytes.Index(payload, []byte(";base64,"))
		if i < 0 {
			return nil, fmt.Errorf("%w: data URI without base64 payload", ErrUnknownPayload)
		}
		encoded := bytes.TrimSpace(payload[i+len(";base64,"):])
		decoded, err := decodeBase64(encoded)
		if err != nil {
			return nil, fmt.Errorf("base64: %w", err)
		}
		payload = bytes.TrimSpace(decoded)
		if len(payload) == 0 {
			return nil, ErrEmptyPayload
		}
	}

	if !utf8.Valid(payload) {
		return nil, fmt.Errorf("%w: not UTF-8 text", ErrUnknownPayload)
	}
	return payload, nil
}

func decodeBase64(b []byte) ([]byte, error) {
	out := make([]byte, base64.StdEncoding.DecodedLen(len(b)))
	n, err := base64.StdEncoding.Decode(out, b)
	if err == nil {
		return out[:n], nil
	}
	b = bytes.TrimRight(b, "=")
	out = make([]byte, base64.RawStdEncoding.DecodedLen(len(b)))
	n, rawErr := base64.RawStdEncoding.Decode(out, b)
	if rawErr != nil {
		return nil, err
	}
	return out[:n], nil
}

// unmarshal parses the relaxed syntax with hjson and maps the result onto
// the typed raw structures through encoding/json so that field tags and
// number conversion behave exactly as for strict JSON.
func unmarshal(text []byte, v any) error {
	var doc map[string]any
	if err := hjson.Unmarshal(text, &doc); err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("%w: top level is not an object", ErrUnknownPayload)
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}
