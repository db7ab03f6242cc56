package dax_xml

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// normalizeText removes a UTF-8 BOM and decodes BOM-marked UTF-16 text to
// UTF-8. Text without a BOM is passed through untouched.
func normalizeText(text string) (string, error) {
	out, _, err := transform.String(unicode.BOMOverride(transform.Nop), text)
	if err != nil {
		return "", fmt.Errorf("failed to normalize document encoding: %w", err)
	}
	return out, nil
}

// charsetReader decodes documents whose declaration names a non-UTF-8
// encoding (vendor files sometimes ship as GBK or ISO-8859-1).
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	// UTF-16 input has already been decoded by normalizeText.
	if strings.HasPrefix(strings.ToLower(label), "utf-16") {
		return input, nil
	}
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q: %w", label, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported charset %q", label)
	}
	return transform.NewReader(input, enc.NewDecoder()), nil
}
