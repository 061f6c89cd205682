package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-analyzer/internal/config"
	"movie-analyzer/internal/services"
	"movie-analyzer/pkg/logging"
)

const annotatedCSV = `title,year,runtime_min,rating,budget_num,income_num,genre_main,profit,roi,hit
Inception,2010,148,8.8,160000000,830000000,Action,670000000,5.1875,True
Cats,2019,110,2.8,95000000,75000000,Comedy,-20000000,0.7894736842105263,False
Amélie,2001,122,8.3,10000000,174000000,Comedy,164000000,17.4,False
`

func newTestApp(t *testing.T) *lookupApp {
	t.Helper()
	path := filepath.Join(t.TempDir(), "movies_metrics.csv")
	require.NoError(t, os.WriteFile(path, []byte(annotatedCSV), 0o644))

	a, err := newLookupApp(context.Background(), path, config.PipelineConfig{
		HitQuantile:    0.75,
		ROICapQuantile: 0.99,
	}, logging.NewNopLogger())
	require.NoError(t, err)
	return a
}

func TestNewLookupApp_MissingSnapshot(t *testing.T) {
	_, err := newLookupApp(context.Background(), filepath.Join(t.TempDir(), "nope.csv"), config.PipelineConfig{}, logging.NewNopLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.csv")
}

func TestRunTitle(t *testing.T) {
	a := newTestApp(t)

	var buf bytes.Buffer
	require.NoError(t, runTitle(context.Background(), &buf, a, "inception"))

	out := buf.String()
	assert.Contains(t, out, "Found: Inception")
	assert.Contains(t, out, "Inception → ROI: 5.19, Rating: 8.8")
	assert.Contains(t, out, "Profit ($):  670,000,000")
	assert.Contains(t, out, "Verdict:     HIT!")
}

func TestRunTitle_NotFound(t *testing.T) {
	a := newTestApp(t)

	var buf bytes.Buffer
	err := runTitle(context.Background(), &buf, a, "Heat")
	require.Error(t, err)
	assert.Contains(t, buf.String(), "not in the dataset")
}

func TestRunCheck(t *testing.T) {
	a := newTestApp(t)

	var buf bytes.Buffer
	require.NoError(t, runCheck(context.Background(), &buf, a, services.CustomMovie{
		Title:  services.DefaultCustomTitle,
		Budget: 100,
		Income: 90,
		Rating: 9,
	}))

	out := buf.String()
	assert.Contains(t, out, "My Movie → ROI: 0.90, Rating: 9")
	assert.Contains(t, out, "Profit ($):  -10")
	assert.Contains(t, out, "Verdict:     Not a HIT...")

	err := runCheck(context.Background(), &buf, a, services.CustomMovie{Budget: 1, Income: 1, Rating: 11})
	assert.Error(t, err)
}

func TestRunSummary(t *testing.T) {
	a := newTestApp(t)

	var buf bytes.Buffer
	require.NoError(t, runSummary(context.Background(), &buf, a))

	out := buf.String()
	assert.Contains(t, out, "Movies       3")
	assert.Contains(t, out, "Comedy  2")
	assert.Contains(t, out, "110–130")
}

func TestRenderTable_DisplayWidth(t *testing.T) {
	var buf bytes.Buffer
	renderTable(&buf, []string{"TITLE", "N"}, [][]string{
		{"千と千尋", "1"},
		{"Up", "22"},
	})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "TITLE     N", lines[0])
	assert.Equal(t, "--------  --", lines[1])
	assert.Equal(t, "千と千尋  1", lines[2])
	assert.Equal(t, "Up        22", lines[3])
}

func TestBar(t *testing.T) {
	assert.Equal(t, "["+strings.Repeat(".", barWidth)+"]", bar(-2, 10))
	assert.Equal(t, "["+strings.Repeat("#", barWidth)+"]", bar(12, 10))
	assert.Equal(t, "["+strings.Repeat("#", 15)+strings.Repeat(".", 15)+"]", bar(5, 10))
	assert.Equal(t, "["+strings.Repeat(".", barWidth)+"]", bar(5, 0))
}
