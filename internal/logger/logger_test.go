package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFormat(t *testing.T) {
	for _, tc := range []struct {
		name      string
		raw       string
		expected  string
		expectErr bool
	}{
		{name: "EmptyDefaultsToConsole", raw: "", expected: FormatConsole},
		{name: "MixedCaseJSON", raw: " JSON ", expected: FormatJSON},
		{name: "Console", raw: "console", expected: FormatConsole},
		{name: "Unsupported", raw: "text", expectErr: true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			actual, err := NormalizeFormat(tc.raw)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestInitRejectsUnknownFormat(t *testing.T) {
	assert.Error(t, Init(false, "xml"))
}

func TestJSONOutput(t *testing.T) {
	defer initConsole(false)

	var buf bytes.Buffer
	initJSON(false, &buf)

	Info("[INFO] Selected %s installer\n", "install-ubuntu.sh")
	Debug("[DEBUG] hidden below info level\n")
	Sync()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "Selected install-ubuntu.sh installer", entry["msg"])
}

func TestJSONOutputWithDebug(t *testing.T) {
	defer initConsole(false)

	var buf bytes.Buffer
	initJSON(true, &buf)

	Debug("[DEBUG] resolved %s\n", "sccache")
	Sync()

	assert.Contains(t, buf.String(), `"level":"debug"`)
	assert.Contains(t, buf.String(), `"msg":"resolved sccache"`)
}

func TestStripTag(t *testing.T) {
	assert.Equal(t, "plain", stripTag("plain"))
	assert.Equal(t, "tagged %s", stripTag("[WARN] tagged %s"))
	assert.Equal(t, "[unterminated", stripTag("[unterminated"))
}
