package vecscan_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wxstat/aggregator/internal/vecscan"
)

func TestFindWithinFirstWord(t *testing.T) {
	data := []byte("Hamburg;12.0\n")
	idx := vecscan.Find(data, 0, ';')
	assert.Equal(t, bytes.IndexByte(data, ';'), idx)
}

func TestFindAcrossMultipleWords(t *testing.T) {
	data := []byte(strings.Repeat("x", 100) + ";rest")
	idx := vecscan.Find(data, 0, ';')
	assert.Equal(t, 100, idx)
}

func TestFindNoMatchReturnsLen(t *testing.T) {
	data := []byte("no semicolon here\n")
	idx := vecscan.Find(data, 0, ';')
	assert.Equal(t, len(data), idx)
}

func TestFindRespectsStartOffset(t *testing.T) {
	data := []byte("a;b;c;d")
	first := vecscan.Find(data, 0, ';')
	second := vecscan.Find(data, first+1, ';')
	require.Equal(t, 1, first)
	require.Equal(t, 3, second)
}

func TestFindTwoWithinSameWord(t *testing.T) {
	data := []byte("k;1.0\nk;2.0\n")
	first, second := vecscan.FindTwo(data, 0, ';')
	assert.Equal(t, 1, first)
	assert.Equal(t, 7, second)
}

func TestFindTwoSpanningWords(t *testing.T) {
	data := []byte(strings.Repeat("a", 20) + ";" + strings.Repeat("b", 20) + ";end")
	first, second := vecscan.FindTwo(data, 0, ';')
	want1 := bytes.IndexByte(data, ';')
	want2 := bytes.IndexByte(data[want1+1:], ';') + want1 + 1
	assert.Equal(t, want1, first)
	assert.Equal(t, want2, second)
}

func TestFindTwoNoSecondMatch(t *testing.T) {
	data := []byte("only;one")
	first, second := vecscan.FindTwo(data, 0, ';')
	assert.Equal(t, 4, first)
	assert.Equal(t, len(data), second)
}

func TestFindTwoNoMatchAtAll(t *testing.T) {
	data := []byte("nothing here")
	first, second := vecscan.FindTwo(data, 0, ';')
	assert.Equal(t, len(data), first)
	assert.Equal(t, len(data), second)
}

func TestFindAgreesWithBytesIndexByteExhaustively(t *testing.T) {
	lines := []string{
		"Hamburg;12.0", "Bulawayo;8.9", "St. John's;1.2", "Saint John;1.2",
		strings.Repeat("q", 63) + ";x", strings.Repeat("q", 64) + ";x",
		strings.Repeat("q", 65) + ";x",
	}
	for _, l := range lines {
		data := []byte(l)
		want := bytes.IndexByte(data, ';')
		if want < 0 {
			want = len(data)
		}
		assert.Equal(t, want, vecscan.Find(data, 0, ';'), "line %q", l)
	}
}
