package verify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wxstat/aggregator/internal/verify"
)

func TestIntmapAndSwissReferencesAgree(t *testing.T) {
	data := []byte("Hamburg;12.0\nHamburg;13.0\nBulawayo;8.9\nHamburg;-1.0\n")

	a := verify.IntmapReference(data)
	b := verify.SwissReference(data)

	require.Len(t, a, 2)
	require.Len(t, b, 2)
	assert.Equal(t, a["Hamburg"], b["Hamburg"])
	assert.Equal(t, a["Bulawayo"], b["Bulawayo"])
}

func TestCrossCheckAgreesOnWellFormedInput(t *testing.T) {
	data := []byte("Hamburg;12.0\nHamburg;13.0\nBulawayo;8.9\nSt. John's;1.2\nSaint John;1.2\n")
	mismatches := verify.CrossCheck(data, 4)
	assert.Empty(t, mismatches)
}

func TestCrossCheckAgreesAcrossWorkerCounts(t *testing.T) {
	data := []byte("k;1.0\nk;2.0\nk;-3.0\nm;0.0\nm;9.9\n")
	for _, w := range []int{1, 2, 4} {
		assert.Empty(t, verify.CrossCheck(data, w), "workers=%d", w)
	}
}
