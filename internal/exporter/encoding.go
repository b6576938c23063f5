package exporter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// Encoding is a wire format for chart definitions and records
type Encoding string

const (
	EncodingJSON    Encoding = "json"
	EncodingMsgpack Encoding = "msgpack"
)

// ContentType returns the MIME type of the encoding
func (e Encoding) ContentType() string {
	if e == EncodingMsgpack {
		return "application/x-msgpack"
	}
	return "application/json"
}

// Extension returns the file extension of the encoding, without the dot
func (e Encoding) Extension() string {
	if e == EncodingMsgpack {
		return "msgpack"
	}
	return "json"
}

// ParseEncoding converts a format name. The empty name selects JSON.
func ParseEncoding(name string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "json":
		return EncodingJSON, nil
	case "msgpack":
		return EncodingMsgpack, nil
	default:
		return "", fmt.Errorf("unsupported encoding %q", name)
	}
}

// Encode writes v to out. MessagePack output uses the json struct tags so
// both encodings carry the same field names.
func Encode(out io.Writer, enc Encoding, v any) error {
	switch enc {
	case EncodingMsgpack:
		encoder := msgpack.NewEncoder(out)
		encoder.SetCustomStructTag("json")
		return encoder.Encode(v)
	case EncodingJSON, "":
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(v)
	default:
		return fmt.Errorf("unsupported encoding %q", enc)
	}
}

// WriteAndClose runs write against w, then closes w. A failed close is
// returned when the write succeeded, so buffered data lost on close is not ignored.
func WriteAndClose(w io.WriteCloser, write func(io.Writer) error) error {
	if err := write(w); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close output: %w", err)
	}
	return nil
}
