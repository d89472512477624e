package tokenizer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DecodeSource converts raw source bytes into UTF-8 text.
//
// name is the declared encoding ("utf-8", "latin-1", "iso-8859-15", ...). An
// empty name means UTF-8. A leading byte order mark is always removed.
func DecodeSource(data []byte, name string) (string, error) {
	enc, err := lookupEncoding(name)
	if err != nil {
		return "", err
	}

	if enc == unicode.UTF8 && !utf8.Valid(data) {
		return "", fmt.Errorf("%w: source is not valid %s", ErrMalformedSource, encodingName(name))
	}

	decoded, _, err := transform.Bytes(unicode.BOMOverride(enc.NewDecoder()), data)
	if err != nil {
		return "", fmt.Errorf("failed to decode source as %s: %w", encodingName(name), err)
	}

	return strings.TrimPrefix(string(decoded), "\uFEFF"), nil
}

func encodingName(name string) string {
	if name == "" {
		return "utf-8"
	}
	return name
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.ReplaceAll(name, "_", "-")) {
	case "", "utf-8", "utf8":
		return unicode.UTF8, nil
	case "latin-1", "latin1", "iso-8859-1":
		// Erlang's historical default source encoding
		return charmap.ISO8859_1, nil
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEncoding, name)
	}
	return enc, nil
}
