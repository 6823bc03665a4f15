package ingest

import (
	"strings"
	"testing"
)

func TestSniffDelimiter(t *testing.T) {
	tests := []struct {
		name   string
		sample string
		want   rune
	}{
		{
			name:   "plain comma",
			sample: "a,b,c\n1,2,3\n4,5,6",
			want:   ',',
		},
		{
			name:   "semicolon with quoted fields",
			sample: "\"x\";\"y\"\n\"1\";\"2\"",
			want:   ';',
		},
		{
			name:   "tab separated",
			sample: "a\tb\tc\n1\t2\t3",
			want:   '\t',
		},
		{
			name:   "pipe separated",
			sample: "a|b|c\n1|2|3",
			want:   '|',
		},
		{
			name:   "pipes only inside quoted fields",
			sample: "\"note\",\"||a||\"\n\"other\",\"|b|\"",
			want:   ',',
		},
		{
			name:   "semicolons inside quotes do not win",
			sample: "a,b\n\"x;y;z\",2\n\"p;q\",4",
			want:   ',',
		},
		{
			name:   "single column defaults to comma",
			sample: "justone\nvalue\nanother",
			want:   ',',
		},
		{
			name:   "empty sample defaults to comma",
			sample: "",
			want:   ',',
		},
		{
			name:   "crlf line endings",
			sample: "a;b\r\n1;2\r\n3;4",
			want:   ';',
		},
	}

	sniffer := NewDelimiterSniffer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sniffer.SniffDelimiter(tt.sample); got != tt.want {
				t.Errorf("SniffDelimiter() = %q, want %q", got, tt.want)
			}
		})
	}
}

// A complete sample keeps every line, even when decoding expanded it
// past the raw sample budget. Multibyte charsets decode to more
// characters than source bytes, and that expansion must not make the
// sniffer discard real rows.
func TestSniffLines_KeepsFinalLineOfExpandedSample(t *testing.T) {
	sample := strings.Repeat("é", delimiterSampleSize) + "\nx;y"

	lines := sniffLines(sample)
	if len(lines) != 2 {
		t.Fatalf("sniffLines() returned %d lines, want 2", len(lines))
	}
	if lines[1] != "x;y" {
		t.Errorf("last line = %q, want %q", lines[1], "x;y")
	}
}

func TestCountFields_QuoteAware(t *testing.T) {
	tests := []struct {
		line  string
		delim rune
		want  int
	}{
		{"a,b,c", ',', 3},
		{`"a,b",c`, ',', 2},
		{`"a""x"",b",c`, ',', 2},
		{`a|b`, '|', 2},
		{`"|||"`, '|', 1},
		{"no delimiters", ';', 1},
	}

	for _, tt := range tests {
		if got := countFields(tt.line, tt.delim); got != tt.want {
			t.Errorf("countFields(%q, %q) = %d, want %d", tt.line, tt.delim, got, tt.want)
		}
	}
}
