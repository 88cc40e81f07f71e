package cli

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	r := bufio.NewReader(strings.NewReader("  hello world  \n"))

	got, err := GetSimpleText(r, "Say something", &out)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
	assert.Contains(t, out.String(), "Say something")
}

func TestGetSimpleText_EOFWithPartialLine(t *testing.T) {
	var out bytes.Buffer
	r := bufio.NewReader(strings.NewReader("no newline"))

	got, err := GetSimpleText(r, "Prompt", &out)
	require.NoError(t, err)
	assert.Equal(t, "no newline", got)
}

func TestGetLines(t *testing.T) {
	var out bytes.Buffer
	r := bufio.NewReader(strings.NewReader("step one\nstep two\n\nignored\n"))

	got, err := GetLines(r, "Steps", &out)
	require.NoError(t, err)
	assert.Equal(t, []string{"step one", "step two"}, got)
}

func TestGetMultiline(t *testing.T) {
	var out bytes.Buffer
	r := bufio.NewReader(strings.NewReader("line a\nline b\n\n"))

	got, err := GetMultiline(r, "Script", &out)
	require.NoError(t, err)
	assert.Equal(t, "line a\nline b", got)
}
