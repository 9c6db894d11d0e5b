package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoad(t *testing.T) {
	for _, name := range []string{"cfzconf.yaml", "cfzconf.toml"} {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			off := false

			var conf CfzConf
			conf.CreateDefault("demo")
			conf.Requires = "^1.0.0"
			conf.Runtime.MemoryLimitKB = 64
			conf.Runtime.ReadPrompt = "? "
			conf.Diagnostics.Color = &off

			path := filepath.Join(dir, name)
			written, err := conf.Save(path, nil)
			require.NoError(t, err)
			require.True(t, written)

			loaded, err := GetCfzConf(dir)
			require.NoError(t, err)
			assert.Equal(t, "demo", loaded.Name)
			assert.Equal(t, "src/principal.cfz", loaded.Main)
			assert.Equal(t, 64*1024, loaded.MemoryLimit())
			assert.Equal(t, "? ", loaded.Runtime.ReadPrompt)
			assert.False(t, loaded.UseColor())
			assert.True(t, loaded.ShowWarnings())
			assert.Equal(t, filepath.Join(dir, "src", "principal.cfz"), loaded.MainPath())
			assert.NoError(t, loaded.CheckRequires("1.2.0"))
		})
	}
}

func TestDefaults(t *testing.T) {
	var conf CfzConf
	conf.CreateDefault(".")
	assert.Equal(t, "NovoProjeto", conf.Name)
	assert.Equal(t, 0, conf.MemoryLimit())
	assert.True(t, conf.UseColor())
	assert.True(t, conf.ShowWarnings())
	assert.NoError(t, conf.CheckRequires("0.0.1"), "no constraint")
}

func TestCheckRequires(t *testing.T) {
	conf := CfzConf{Name: "demo", Requires: ">=2.0.0"}
	err := conf.CheckRequires("1.0.0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires cafezinho >=2.0.0, running 1.0.0")

	conf.Requires = "not-a-version"
	assert.Error(t, conf.CheckRequires("1.0.0"))
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	dir := t.TempDir()

	yml := filepath.Join(dir, "cfzconf.yaml")
	require.NoError(t, os.WriteFile(yml, []byte("name: x\nmemoria: 10\n"), 0644))
	_, err := Load(yml)
	assert.Error(t, err)

	tml := filepath.Join(dir, "cfzconf.toml")
	require.NoError(t, os.WriteFile(tml, []byte("name = \"x\"\n[runtime]\nlimite = 3\n"), 0644))
	_, err = Load(tml)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown key runtime.limite")
}

func TestGetCfzConfNotFound(t *testing.T) {
	_, err := GetCfzConf(t.TempDir())
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSaveOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfzconf.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: old\n"), 0644))

	conf := CfzConf{Name: "new"}
	var asked string
	written, err := conf.Save(path, func(question string, def bool) bool {
		asked = question
		return def
	})
	require.NoError(t, err)
	assert.False(t, written)
	assert.Contains(t, asked, "already exists")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "old", loaded.Name)

	written, err = conf.Save(path, func(string, bool) bool { return true })
	require.NoError(t, err)
	assert.True(t, written)

	loaded, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "new", loaded.Name)
}
