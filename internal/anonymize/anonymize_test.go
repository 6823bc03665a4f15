package anonymize

import (
	"strings"
	"testing"

	"github.com/karangattu/csv-anonymizer/internal/ingest"
)

func TestCell_Deterministic(t *testing.T) {
	a := Cell("test", "key")
	b := Cell("test", "key")

	if a != b {
		t.Errorf("Cell not deterministic: %q vs %q", a, b)
	}
}

func TestCell_Length(t *testing.T) {
	got := Cell("test_value", "secret_key")

	if len(got) != 16 {
		t.Errorf("digest length = %d, want 16", len(got))
	}
	if got == "test_value" {
		t.Error("value was not anonymized")
	}
}

func TestCell_HexAlphabet(t *testing.T) {
	got := Cell("john@example.com", "k")

	for _, r := range got {
		if !strings.ContainsRune("0123456789abcdef", r) {
			t.Errorf("digest %q contains non-hex character %q", got, r)
		}
	}
}

func TestCell_DifferentKeys(t *testing.T) {
	a := Cell("test", "key1")
	b := Cell("test", "key2")

	if a == b {
		t.Errorf("different keys produced the same digest %q", a)
	}
}

func TestCell_BlankPassThrough(t *testing.T) {
	for _, v := range []string{"", " ", "   ", "\t", " \t "} {
		if got := Cell(v, "key"); got != v {
			t.Errorf("Cell(%q) = %q, want unchanged", v, got)
		}
	}
}

func TestColumns_ReplacesOnlyRequested(t *testing.T) {
	table := &ingest.Table{
		Columns: []string{"name", "email", "age"},
		Rows: [][]string{
			{"John", "john@x.com", "30"},
			{"Jane", "jane@x.com", "25"},
		},
	}

	matched := Columns(table, []string{"name", "email"}, "k")

	if len(matched) != 2 {
		t.Fatalf("matched = %v, want 2 names", matched)
	}
	for i, row := range table.Rows {
		if len(row[0]) != 16 || len(row[1]) != 16 {
			t.Errorf("row %d: name/email not hashed: %v", i, row)
		}
	}
	if table.Rows[0][2] != "30" || table.Rows[1][2] != "25" {
		t.Errorf("age column was modified: %v", table.Rows)
	}
}

func TestColumns_UnknownNamesIgnored(t *testing.T) {
	table := &ingest.Table{
		Columns: []string{"a"},
		Rows:    [][]string{{"v"}},
	}

	matched := Columns(table, []string{"a", "missing"}, "k")

	if len(matched) != 1 || matched[0] != "a" {
		t.Errorf("matched = %v, want [a]", matched)
	}
}

func TestColumns_BlanksStayBlank(t *testing.T) {
	table := &ingest.Table{
		Columns: []string{"name"},
		Rows:    [][]string{{""}, {"  "}, {"John"}},
	}

	Columns(table, []string{"name"}, "k")

	if table.Rows[0][0] != "" || table.Rows[1][0] != "  " {
		t.Errorf("blank cells were modified: %v", table.Rows)
	}
	if len(table.Rows[2][0]) != 16 {
		t.Errorf("non-blank cell not hashed: %q", table.Rows[2][0])
	}
}

func TestWriteCSV_Canonical(t *testing.T) {
	table := &ingest.Table{
		Columns: []string{"a", "b"},
		Rows: [][]string{
			{"plain", `has,comma`},
			{`has "quote"`, "x"},
		},
	}

	var sb strings.Builder
	if err := WriteCSV(table, &sb); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	want := "a,b\nplain,\"has,comma\"\n\"has \"\"quote\"\"\",x\n"
	if sb.String() != want {
		t.Errorf("WriteCSV() = %q, want %q", sb.String(), want)
	}
}
