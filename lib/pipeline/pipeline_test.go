package pipeline

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vyPal/Cafezinho/lib/diag"
)

const smoke = `principal() {
	inteiro !x = 10;
	inteiro !y = 20;
	escreva("Soma: ", !x + !y);
}`

func TestSmokeProgram(t *testing.T) {
	var out bytes.Buffer
	res := Run(smoke, Options{Stdout: &out})
	require.True(t, res.Success, "%v", res.Session.Err())
	assert.Equal(t, "Soma: 30\n", out.String())
	assert.Equal(t, 0, res.Table.Level())
	assert.Empty(t, res.Allocator.Leaks())
	assert.Greater(t, res.Allocator.Stats().Peak, len(smoke))
}

func TestFailedStage(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		stage diag.Stage
	}{
		{"lexical", "principal() { inteiro !x = 1 # 2; }", diag.Lexical},
		{"syntax", "principal() { inteiro !x = ; }", diag.Syntax},
		{"semantic", "principal() { escreva(!x); }", diag.Semantic},
		{"runtime", "principal() { escreva(1 / 0); }", diag.Runtime},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			res := Run(tt.src, Options{Stdout: &out})
			assert.False(t, res.Success)
			assert.Equal(t, tt.stage, res.FailedStage)
			assert.Equal(t, 1, res.Session.ErrorCount())
			assert.Empty(t, out.String())
		})
	}
}

func TestStopAfter(t *testing.T) {
	var out bytes.Buffer

	res := Run(smoke, Options{Stdout: &out, StopAfter: Check})
	assert.True(t, res.Success)
	assert.Empty(t, out.String())

	res = Run("principal() { escreva(!x); }", Options{Stdout: &out, StopAfter: Parse})
	assert.True(t, res.Success, "semantic errors are not looked for")
	assert.NotNil(t, res.Program)
}

func TestSourceBufferCharged(t *testing.T) {
	src := smoke + strings.Repeat(" ", 200)
	res := Run(src, Options{MemoryLimit: 100})
	assert.False(t, res.Success)
	assert.Equal(t, diag.Allocation, res.FailedStage)
	assert.Nil(t, res.Program)
}

func TestReadFromInput(t *testing.T) {
	var out bytes.Buffer
	res := Run("principal() { texto !nome; leia(!nome); escreva(\"ola \", !nome); }", Options{
		Stdin:  strings.NewReader("Ana\n"),
		Stdout: &out,
	})
	require.True(t, res.Success, "%v", res.Session.Err())
	assert.Equal(t, "ola Ana\n", out.String())
}

func TestRunFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prog.cfz")
	require.NoError(t, os.WriteFile(path, []byte(smoke), 0644))

	var out bytes.Buffer
	res, err := RunFile(path, Options{Stdout: &out})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, smoke, res.Source)
	assert.Equal(t, "Soma: 30\n", out.String())

	_, err = RunFile(filepath.Join(t.TempDir(), "missing.cfz"), Options{})
	assert.Error(t, err)
}
