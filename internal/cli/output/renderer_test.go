package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(mode Mode, isTTY bool) (*Renderer, *bytes.Buffer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return NewRendererWithTTY(out, errOut, isTTY, mode), out, errOut
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"", ModeAuto, false},
		{"auto", ModeAuto, false},
		{"TEXT", ModeText, false},
		{" markdown ", ModeMarkdown, false},
		{"json", ModeJSON, false},
		{"yaml", ModeYAML, false},
		{"table", ModeTable, false},
		{"html", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid output format")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderer_EffectiveMode(t *testing.T) {
	tests := []struct {
		name  string
		mode  Mode
		isTTY bool
		want  Mode
	}{
		{"auto on tty", ModeAuto, true, ModeText},
		{"auto piped", ModeAuto, false, ModeMarkdown},
		{"empty is auto", "", false, ModeMarkdown},
		{"explicit json", ModeJSON, true, ModeJSON},
		{"explicit text piped", ModeText, false, ModeText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, _ := newTestRenderer(tt.mode, tt.isTTY)
			assert.Equal(t, tt.want, r.EffectiveMode())
		})
	}
}

func TestNewRenderer_BufferIsNotTTY(t *testing.T) {
	r := NewRenderer(&bytes.Buffer{}, &bytes.Buffer{}, ModeAuto)
	assert.False(t, r.IsTTY())
	assert.Equal(t, ModeMarkdown, r.EffectiveMode())
}

func TestRenderer_Header(t *testing.T) {
	r, out, _ := newTestRenderer(ModeMarkdown, false)
	r.Header(1, "Weekly plan")
	r.Header(2, "Monday")
	assert.Equal(t, "# Weekly plan\n## Monday\n", out.String())

	r, out, _ = newTestRenderer(ModeText, false)
	r.Header(1, "Weekly plan")
	assert.Equal(t, "Weekly plan\n", out.String(), "no ANSI codes without a TTY")
}

func TestRenderer_MessagesGoToErrWriter(t *testing.T) {
	r, out, errOut := newTestRenderer(ModeText, false)
	r.Warning("careful")
	r.Error("broken")
	r.Success("done")

	assert.Equal(t, "done\n", out.String())
	assert.Equal(t, "careful\nbroken\n", errOut.String())
}

func TestRenderer_JSON(t *testing.T) {
	r, out, _ := newTestRenderer(ModeJSON, false)
	require.NoError(t, r.JSON(map[string]int{"meals": 2}))
	assert.Equal(t, "{\n  \"meals\": 2\n}\n", out.String())
}

func TestRenderer_YAML(t *testing.T) {
	r, out, _ := newTestRenderer(ModeYAML, false)
	v := struct {
		Name        string   `yaml:"name"`
		Ingredients []string `yaml:"ingredients"`
	}{"Pancakes", []string{"Flour", "Eggs"}}

	require.NoError(t, r.YAML(v))
	assert.Contains(t, out.String(), "name: Pancakes\n")
	assert.Contains(t, out.String(), "- Flour\n")
}

func TestRenderer_Table(t *testing.T) {
	r, out, _ := newTestRenderer(ModeTable, false)
	r.Table([]string{"Name", "Ingredients"}, [][]string{{"Pancakes", "Flour, Eggs"}})

	s := out.String()
	assert.Contains(t, s, "Pancakes")
	assert.Contains(t, s, "Flour, Eggs")
	assert.Contains(t, s, "┌")

	r, out, _ = newTestRenderer(ModeMarkdown, false)
	r.Table([]string{"Name"}, [][]string{{"Soup"}})
	assert.True(t, strings.HasPrefix(out.String(), "| Name |"), "got %q", out.String())
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "## Lunch", FormatHeader(2, "Lunch"))
	assert.Equal(t, "# X", FormatHeader(0, "X"))
	assert.Equal(t, "- **Meals**: 3", FormatKeyValue("Meals", "3"))
	assert.Equal(t, "Breakfast", Title("breakfast"))
	assert.Equal(t, "Eggs Benedict", Title("eggs benedict"))
}
