package output

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplogConsole(t *testing.T) {
	t.Run("writes plain messages with warning prefixes", func(t *testing.T) {
		var buf bytes.Buffer
		splog, err := NewSplogWithOptions(Options{Writer: &buf})
		require.NoError(t, err)

		splog.Info("checking out %s", "main")
		splog.Warn("uncommitted changes")
		splog.Error("push failed")

		require.Equal(t, "checking out main\n⚠️  uncommitted changes\n❌ push failed\n", buf.String())
	})

	t.Run("debug only in debug mode", func(t *testing.T) {
		var buf bytes.Buffer
		splog, err := NewSplogWithOptions(Options{Writer: &buf})
		require.NoError(t, err)
		splog.Debug("hidden")
		require.Empty(t, buf.String())

		buf.Reset()
		splog, err = NewSplogWithOptions(Options{Writer: &buf, Debug: true})
		require.NoError(t, err)
		splog.Debug("shown")
		require.Equal(t, "shown\n", buf.String())
	})

	t.Run("quiet suppresses console output", func(t *testing.T) {
		var buf bytes.Buffer
		splog, err := NewSplogWithOptions(Options{Writer: &buf})
		require.NoError(t, err)

		splog.SetQuiet(true)
		require.True(t, splog.IsQuiet())
		splog.Info("nothing")
		splog.Newline()
		require.Empty(t, buf.String())
	})
}

func TestSplogFileLogging(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "branchsync.log")
	var buf bytes.Buffer
	splog, err := NewSplogWithOptions(Options{Writer: &buf, LogFile: logFile, Quiet: true})
	require.NoError(t, err)

	splog.Debug("fetching preview")
	require.NoError(t, splog.Close())

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	require.Contains(t, string(data), "fetching preview")
	require.Contains(t, string(data), "level=DEBUG")
	require.Empty(t, buf.String())
}

func TestSink(t *testing.T) {
	t.Run("nil sink is a no-op", func(t *testing.T) {
		var sink Sink
		require.NotPanics(t, func() { sink.Emit("hello %s", "world") })
	})

	t.Run("recorder keeps lines in order", func(t *testing.T) {
		rec := &Recorder{}
		sink := rec.Sink()
		sink.Emit("one")
		sink.Emit("two %d", 2)
		require.Equal(t, []string{"one", "two 2"}, rec.Lines())
	})

	t.Run("splog sink writes info lines", func(t *testing.T) {
		var buf bytes.Buffer
		splog, err := NewSplogWithOptions(Options{Writer: &buf})
		require.NoError(t, err)
		splog.Sink().Emit("Creating %s", "preview")
		require.Equal(t, "Creating preview\n", buf.String())
	})
}

func TestStyleWithoutTerminal(t *testing.T) {
	style := NewStyle(&bytes.Buffer{})
	require.Equal(t, "* main", style.Branch("main", true, false))
	require.Equal(t, "  feature", style.Branch("feature", false, true))
	require.Equal(t, "preview", style.Highlight("preview"))
}

func TestGetLogFilePath(t *testing.T) {
	t.Setenv("BRANCHSYNC_LOG_FILE", "/tmp/custom.log")
	require.Equal(t, "/tmp/custom.log", GetLogFilePath())
}
