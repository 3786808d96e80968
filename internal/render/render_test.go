package render_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wxstat/aggregator/internal/engine"
	"github.com/wxstat/aggregator/internal/render"
)

func TestWriteFormatsLiteralScenarioOne(t *testing.T) {
	records := []engine.Record{
		{Name: "Bulawayo", Min: 89, Max: 89, Sum: 89, Count: 1},
		{Name: "Hamburg", Min: 120, Max: 130, Sum: 250, Count: 2},
	}
	var buf bytes.Buffer
	require.NoError(t, render.Write(&buf, records))
	assert.Equal(t, "Bulawayo=8.9/8.9/8.9\nHamburg=12.0/12.5/13.0\n", buf.String())
}

func TestWriteScenarioFour(t *testing.T) {
	records := []engine.Record{
		{Name: "X", Min: -999, Max: 999, Sum: 0, Count: 2},
	}
	var buf bytes.Buffer
	require.NoError(t, render.Write(&buf, records))
	assert.Equal(t, "X=-99.9/0.0/99.9\n", buf.String())
}

func TestWriteEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render.Write(&buf, nil))
	assert.Empty(t, buf.String())
}
