package ingest

import (
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// encodingSampleSize is how many bytes of the file are inspected for
// charset detection.
const encodingSampleSize = 10 * 1024

// EncodingDetector guesses the charset of raw file bytes.
//
// Implementations must be deterministic for identical input and must
// always return a usable encoding token; when detection is inconclusive
// the fallback is "utf-8".
type EncodingDetector interface {
	DetectEncoding(sample []byte) string
}

// charsetDetector is the default EncodingDetector, backed by the
// statistical recognizers in github.com/saintfish/chardet.
type charsetDetector struct {
	det *chardet.Detector
}

// NewEncodingDetector returns the default statistical charset detector.
func NewEncodingDetector() EncodingDetector {
	return &charsetDetector{det: chardet.NewTextDetector()}
}

func (d *charsetDetector) DetectEncoding(sample []byte) string {
	if len(sample) == 0 {
		return "utf-8"
	}
	res, err := d.det.DetectBest(sample)
	if err != nil || res == nil || res.Charset == "" || res.Confidence <= 0 {
		return "utf-8"
	}
	return res.Charset
}

// charsetAliases maps detector outputs that the WHATWG index does not
// recognize to their canonical labels.
var charsetAliases = map[string]string{
	"gb-18030": "gb18030",
	"latin-1":  "iso-8859-1",
	"ascii":    "utf-8",
	"us-ascii": "utf-8",
}

// decodeToUTF8 converts raw bytes into UTF-8 text under the named
// charset. Unknown charset names fall back to UTF-8, and undecodable
// byte sequences become U+FFFD instead of an error; decoding never
// fails.
func decodeToUTF8(raw []byte, charset string) string {
	name := strings.ToLower(strings.TrimSpace(charset))
	if alias, ok := charsetAliases[name]; ok {
		name = alias
	}

	enc, err := htmlindex.Get(name)
	if err != nil || enc == nil {
		enc = unicode.UTF8
	}

	// x/text decoders substitute bytes they cannot transcode with
	// U+FFFD rather than erroring, which is exactly the repair-inline
	// behavior the pipeline wants.
	decoded, _, err := transform.Bytes(enc.NewDecoder(), raw)
	if err != nil {
		// Last resort: treat the bytes as UTF-8 and repair them.
		return strings.ToValidUTF8(string(raw), string(utf8.RuneError))
	}
	return strings.ToValidUTF8(string(decoded), string(utf8.RuneError))
}
