package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/TFMV/insights/errors"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fruitJSON = `{
  "nodes": [
    {"id": 1, "text": "Apples", "size": 10, "cluster": 0},
    {"id": 2, "text": "Bananas", "size": 20, "cluster": 1},
    {"id": 3, "text": "Carrot", "size": 30, "cluster": 2}
  ],
  "links": [[1, 2]]
}`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true

	var out bytes.Buffer
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&out)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func fruitFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fruit.json")
	require.NoError(t, os.WriteFile(path, []byte(fruitJSON), 0o644))
	return path
}

func TestParseSizeRange(t *testing.T) {
	tests := []struct {
		in       string
		min, max any
		wantErr  bool
	}{
		{in: "1:11", min: 1.0, max: 11.0},
		{in: ":21", min: nil, max: 21.0},
		{in: "19:", min: 19.0, max: nil},
		{in: " 2 : 3 ", min: 2.0, max: 3.0},
		{in: "5", wantErr: true},
		{in: "1:2:3", wantErr: true},
		{in: "a:2", wantErr: true},
		{in: "9:1", wantErr: true},
	}

	deref := func(p *float64) any {
		if p == nil {
			return nil
		}
		return *p
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			min, max, err := parseSizeRange(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, errors.ErrInvalidFilter))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.min, deref(min))
			assert.Equal(t, tt.max, deref(max))
		})
	}
}

func TestRenderJSON(t *testing.T) {
	out := filepath.Join(t.TempDir(), "frame.json")

	_, err := run(t, "render", "--data", fruitFile(t), "--format", "json", "--output", out,
		"--filter-cluster", "0,1", "--zoom", "2")
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var frame struct {
		Visible   int `json:"visible"`
		Transform struct {
			Scale float64 `json:"scale"`
		} `json:"transform"`
		Nodes    []map[string]any `json:"nodes"`
		Edges    []map[string]any `json:"edges"`
		Metadata map[string]any   `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(data, &frame))

	assert.Equal(t, 2, frame.Visible)
	assert.Len(t, frame.Nodes, 3)
	assert.Len(t, frame.Edges, 1)
	assert.Equal(t, 2.0, frame.Transform.Scale)
	assert.Equal(t, 3.0, frame.Metadata["nodeCount"])
}

func TestRenderSVGToStdout(t *testing.T) {
	out, err := run(t, "render", "--data", fruitFile(t), "--focus", "Apples", "--center", "1")
	require.NoError(t, err)

	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, "</svg>")
}

func TestRenderRejectsBadInput(t *testing.T) {
	path := fruitFile(t)

	_, err := run(t, "render", "--data", path, "--format", "png")
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))

	_, err = run(t, "render", "--data", path, "--filter-size", "10")
	assert.True(t, errors.Is(err, errors.ErrInvalidFilter))

	_, err = run(t, "render", "--data", path, "--center", "404")
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	_, err = run(t, "render")
	assert.Error(t, err)
}

func TestInspect(t *testing.T) {
	out, err := run(t, "inspect", "--data", fruitFile(t), "--node", "1", "--layout")
	require.NoError(t, err)

	assert.Contains(t, out, "fruit (json)")
	assert.Contains(t, out, "#1f77b4")
	assert.Contains(t, out, "Apples")
	assert.Contains(t, out, "settled")
	assert.Contains(t, out, "[2]")
}

func TestConfigInitAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "insights.toml")

	out, err := run(t, "config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	_, err = run(t, "config", "init", path)
	assert.Error(t, err)

	out, err = run(t, "--config", path, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "[view]")
	assert.Contains(t, out, "[physics]")
}
