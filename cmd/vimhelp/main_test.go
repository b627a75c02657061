package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/vimhelp-mcp/internal/config"
)

const testTags = "'wildmenu'\toptions.txt\t/*'wildmenu'*\n" +
	":cd\tediting.txt\t/*:cd*\n" +
	"CTRL-N\tmotion.txt\t/*CTRL-N*\n" +
	"c_CTRL-N\tcmdline.txt\t/*c_CTRL-N*\n" +
	"i_CTRL-X_CTRL-N\tinsert.txt\t/*i_CTRL-X_CTRL-N*\n" +
	"star\tpattern.txt\t/*star*\n"

type testEnv struct {
	dir        string
	tagsPath   string
	configPath string
}

// setupEnv writes a tags file and a config file into a temp dir and clears
// the environment overrides
func setupEnv(t *testing.T, history bool) testEnv {
	t.Helper()
	for _, key := range []string{
		config.EnvConfigPath, config.EnvTagsPath, config.EnvDBPath,
		config.EnvLogLevel, config.EnvCacheSize, config.EnvHistory,
	} {
		t.Setenv(key, "")
	}

	dir := t.TempDir()
	env := testEnv{
		dir:        dir,
		tagsPath:   filepath.Join(dir, "tags"),
		configPath: filepath.Join(dir, "config.yaml"),
	}
	require.NoError(t, os.WriteFile(env.tagsPath, []byte(testTags), 0644))

	cfg := fmt.Sprintf("tags_path: %s\nlog_level: error\nhistory:\n  enabled: %t\n  db_path: %s\n",
		env.tagsPath, history, filepath.Join(dir, "history.db"))
	require.NoError(t, os.WriteFile(env.configPath, []byte(cfg), 0644))

	return env
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestNewRootCmd(t *testing.T) {
	cmd := newRootCmd()
	assert.Equal(t, "vimhelp", cmd.Use)

	for _, name := range []string{"serve", "lookup", "candidates", "stats", "version"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
	}

	for _, flag := range []string{"config", "tags", "log-level"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), flag)
	}
}

func TestLookupCmd(t *testing.T) {
	env := setupEnv(t, false)

	out, err := execute(t, "--config", env.configPath, "lookup", "^N", "wildmenu nonexistent_xyz")
	require.NoError(t, err)

	assert.Contains(t, out, "CTRL-N\tmotion.txt\thttps://neovim.io/doc/user/motion.html#CTRL-N\n")
	assert.Contains(t, out, "'wildmenu'\toptions.txt\thttps://neovim.io/doc/user/options.html#'wildmenu'\n")
	assert.Contains(t, out, `no help tag for "nonexistent_xyz"`)
}

func TestLookupCmd_JSON(t *testing.T) {
	env := setupEnv(t, false)

	out, err := execute(t, "--config", env.configPath, "lookup", "--json", "^X^N", "missing")
	require.NoError(t, err)

	var result struct {
		Found []struct {
			Query string `json:"query"`
			Name  string `json:"name"`
			File  string `json:"file"`
			URL   string `json:"url"`
		} `json:"found"`
		NotFound []string `json:"not_found"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))

	require.Len(t, result.Found, 1)
	assert.Equal(t, "^X^N", result.Found[0].Query)
	assert.Equal(t, "i_CTRL-X_CTRL-N", result.Found[0].Name)
	assert.Equal(t, "insert.txt", result.Found[0].File)
	assert.Equal(t, []string{"missing"}, result.NotFound)
}

func TestLookupCmd_TagsFlagOverridesConfig(t *testing.T) {
	env := setupEnv(t, false)

	other := filepath.Join(env.dir, "other-tags")
	require.NoError(t, os.WriteFile(other, []byte("CTRL-N\tother.txt\t/*CTRL-N*\n"), 0644))

	out, err := execute(t, "--config", env.configPath, "--tags", other, "lookup", "^N")
	require.NoError(t, err)
	assert.Contains(t, out, "CTRL-N\tother.txt")
}

func TestLookupCmd_Errors(t *testing.T) {
	env := setupEnv(t, false)

	_, err := execute(t, "--config", env.configPath, "lookup")
	assert.Error(t, err, "requires at least one query")

	_, err = execute(t, "--config", env.configPath, "--log-level", "loud", "lookup", "^N")
	assert.Error(t, err)

	_, err = execute(t, "--config", env.configPath, "--tags", filepath.Join(env.dir, "nope"), "lookup", "^N")
	assert.Error(t, err)
}

func TestCandidatesCmd(t *testing.T) {
	env := setupEnv(t, false)

	out, err := execute(t, "--config", env.configPath, "candidates", "^N")
	require.NoError(t, err)

	assert.Contains(t, out, "SCORE")
	assert.Contains(t, out, "506")
	assert.Contains(t, out, "c_CTRL-N")
	assert.Contains(t, out, "i_CTRL-X_CTRL-N")

	out, err = execute(t, "--config", env.configPath, "candidates", "--json", "--limit", "1", "^N")
	require.NoError(t, err)

	var entries []struct {
		Name  string `json:"name"`
		Score int64  `json:"score"`
		Kind  string `json:"kind"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "CTRL-N", entries[0].Name)
	assert.Equal(t, int64(506), entries[0].Score)
	assert.Equal(t, "exact", entries[0].Kind)

	out, err = execute(t, "--config", env.configPath, "candidates", "nonexistent_xyz")
	require.NoError(t, err)
	assert.Contains(t, out, "no candidates")
}

func TestStatsCmd(t *testing.T) {
	t.Run("history disabled", func(t *testing.T) {
		env := setupEnv(t, false)

		out, err := execute(t, "--config", env.configPath, "stats")
		require.NoError(t, err)
		assert.Contains(t, out, "disabled")
	})

	t.Run("after lookups", func(t *testing.T) {
		env := setupEnv(t, true)

		_, err := execute(t, "--config", env.configPath, "lookup", "^N", "missing")
		require.NoError(t, err)
		_, err = execute(t, "--config", env.configPath, "lookup", "^N")
		require.NoError(t, err)

		out, err := execute(t, "--config", env.configPath, "stats")
		require.NoError(t, err)
		assert.Contains(t, out, "Lookups:        3 (2 found, 1 missed, 67% hit rate)")
		assert.Contains(t, out, "CTRL-N (motion.txt)")
		assert.Contains(t, out, "missing")

		out, err = execute(t, "--config", env.configPath, "stats", "--json")
		require.NoError(t, err)

		var stats map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(out), &stats))
		assert.Equal(t, float64(3), stats["total_lookups"])
		assert.Equal(t, float64(1), stats["missed_lookups"])
	})
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "vimhelp dev")
	assert.Contains(t, out, "SQLite Driver:")
}
