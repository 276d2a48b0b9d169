package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MimeLyc/dreamsense/internal/chat"
	"github.com/MimeLyc/dreamsense/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"LLM_API_KEY", "LLM_ENABLED", "DICTIONARY_FILE", "DICTIONARY_RELOAD_CRON", "DREAMSENSE_API_URL", "LOG_FILE", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}
}

func runCmd(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	out, _, err := runCmdLogged(t, input, args...)
	return out, err
}

// runCmdLogged also returns what the command logged to stderr.
func runCmdLogged(t *testing.T, input string, args ...string) (string, string, error) {
	t.Helper()
	prev := log.GetLogger()
	t.Cleanup(func() { log.SetLogger(prev) })

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(input))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)

	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestChat_Offline(t *testing.T) {
	clearEnv(t)

	out, err := runCmd(t, "I was flying\nquit\n", "--offline")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "DreamSense: "+chat.Greeting))
	assert.Contains(t, out, `Regarding the "flying" in your dream:`)
	assert.Contains(t, out, "Key symbols in your dream:\n• flying")
	assert.NotContains(t, out, chat.ConnectionNotice)
}

func TestChat_EndsOnEOF(t *testing.T) {
	clearEnv(t)

	out, err := runCmd(t, "", "--offline")
	require.NoError(t, err)
	assert.Contains(t, out, chat.Greeting)
}

func TestChat_Remote(t *testing.T) {
	clearEnv(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/interpret", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":{"interpretation":"A remote reading.","symbols":[{"term":"water","details":"Water...","score":1}]}}`))
	}))
	defer server.Close()

	out, err := runCmd(t, "I swam in water\nexit\n", "--api-url", server.URL)
	require.NoError(t, err)

	assert.Contains(t, out, "DreamSense: A remote reading.")
	assert.Contains(t, out, "Key symbols in your dream:\n• water")
}

func TestChat_RemoteDownFallsBack(t *testing.T) {
	clearEnv(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	out, err := runCmd(t, "I was falling\n", "--api-url", server.URL)
	require.NoError(t, err)

	assert.Contains(t, out, chat.ConnectionNotice)
	assert.Contains(t, out, `Regarding the "falling" in your dream:`)
}

func TestChat_DictionaryFlag(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "dreams.csv")
	require.NoError(t, os.WriteFile(path, []byte("Term,Details\nLighthouse,A guiding light in uncertain times.\n"), 0o644))

	out, err := runCmd(t, "I saw a lighthouse\n", "--offline", "--dictionary", path)
	require.NoError(t, err)

	assert.Contains(t, out, `Regarding the "Lighthouse" in your dream: A guiding light in uncertain times.`)
}

func TestChat_BadDictionary(t *testing.T) {
	clearEnv(t)

	_, err := runCmd(t, "", "--offline", "--dictionary", filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "advice:")
}

func TestChat_LogsOfflineMode(t *testing.T) {
	clearEnv(t)

	_, logged, err := runCmdLogged(t, "", "--offline")
	require.NoError(t, err)
	assert.Contains(t, logged, "Offline: interpreting with")
	assert.NotContains(t, logged, "Sending dreams to")
}

func TestChat_VerboseLogsAPIURL(t *testing.T) {
	clearEnv(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"interpretation":"ok","symbols":[]}}`))
	}))
	defer server.Close()

	_, logged, err := runCmdLogged(t, "", "--api-url", server.URL)
	require.NoError(t, err)
	assert.NotContains(t, logged, "Sending dreams to")

	_, logged, err = runCmdLogged(t, "", "--api-url", server.URL+"/", "--verbose")
	require.NoError(t, err)
	assert.Contains(t, logged, "[DEBUG]")
	assert.Contains(t, logged, "Sending dreams to "+server.URL+"\n")
	assert.NotContains(t, logged, "Offline:")
}

func TestChat_LongDream(t *testing.T) {
	clearEnv(t)
	dreamText := "I was flying over " + strings.Repeat("endless fields ", 8000)
	require.Greater(t, len(dreamText), 64*1024)

	out, err := runCmd(t, dreamText+"\nquit\n", "--offline")
	require.NoError(t, err)
	assert.Contains(t, out, `Regarding the "flying" in your dream:`)
}
