package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (output, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetArgs(args)

	var res output
	if err := cmd.Execute(); err != nil {
		return res, err
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	return res, nil
}

func TestExtractCmd_Stdin(t *testing.T) {
	res, err := run(t, "**Introduction**\nHi\n**Bonus**\nTip1\n**Conclusion**\nTip2")
	require.NoError(t, err)

	assert.Equal(t, "positional", res.Tier)
	assert.True(t, res.Parsed)
	assert.True(t, res.ConclusionMerged)
	assert.Equal(t, "Hi", res.Sections["Introduction"])
	assert.Equal(t, "Tip1\n\nTip2", res.Sections["Bonus"])
}

func TestExtractCmd_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, os.WriteFile(path, []byte("Introduction: Hello\n**Ingredients**\nVodka"), 0o600))

	res, err := run(t, "", path, "--pretty")
	require.NoError(t, err)
	assert.Equal(t, "Hello", res.Sections["Introduction"])
	assert.Equal(t, "Vodka", res.Sections["Ingredients"])
}

func TestExtractCmd_CustomTitles(t *testing.T) {
	res, err := run(t, "**Garnish**\nLime\n**Steps**\nShake", "--titles", "Steps,Garnish")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Garnish": "Lime", "Steps": "Shake"}, map[string]string(res.Sections))
}

func TestExtractCmd_Raw(t *testing.T) {
	res, err := run(t, "nothing to see", "--raw")
	require.NoError(t, err)
	assert.False(t, res.Parsed)
	assert.Equal(t, "none", res.Tier)
	assert.Equal(t, "nothing to see", res.Raw)
}

func TestExtractCmd_Errors(t *testing.T) {
	_, err := run(t, "", filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)

	_, err = run(t, "x", "--titles", "Steps,steps")
	assert.Error(t, err)
}
