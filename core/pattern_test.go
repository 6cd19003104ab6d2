package core

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriteTestPattern(t *testing.T) {
	var buf bytes.Buffer
	WriteTestPattern(&buf, 10, 100)

	want := "TEST_PATTERN:0:0\n" +
		"TEST_PATTERN:1:100\n" +
		"TEST_PATTERN:2:200\n" +
		"TEST_PATTERN:3:300\n" +
		"TEST_PATTERN:4:400\n" +
		"TEST_PATTERN:5:500\n" +
		"TEST_PATTERN:6:600\n" +
		"TEST_PATTERN:7:700\n" +
		"TEST_PATTERN:8:800\n" +
		"TEST_PATTERN:9:900\n"
	if buf.String() != want {
		t.Errorf("pattern:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestWriteTestPatternIsRepeatable(t *testing.T) {
	var first, second bytes.Buffer
	WriteTestPattern(&first, 10, 100)
	WriteTestPattern(&second, 10, 100)
	if first.String() != second.String() {
		t.Error("pattern differs between runs")
	}
	if n := len(strings.Split(strings.TrimSuffix(first.String(), "\n"), "\n")); n != 10 {
		t.Errorf("%d pattern lines, want 10", n)
	}
}

func TestItoa(t *testing.T) {
	testCases := map[int]string{0: "0", 7: "7", 100: "100", -42: "-42", 2147483647: "2147483647"}
	for in, want := range testCases {
		if got := itoa(in); got != want {
			t.Errorf("itoa(%d) = %q, want %q", in, got, want)
		}
	}
	if got := utoa(4294967295); got != "4294967295" {
		t.Errorf("utoa(max) = %q", got)
	}
}
