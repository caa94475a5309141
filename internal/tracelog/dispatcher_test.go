package tracelog

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	corelog "deploytrace/internal/core/log"
)

type harness struct {
	d       *Dispatcher
	console *bytes.Buffer
	dir     string
}

func newHarness(t *testing.T, mutate func(*Config), opts ...DispatcherOption) *harness {
	t.Helper()

	dir := filepath.Join(t.TempDir(), "logs")
	cfg := Config{
		Format:            FormatLegacy,
		Directory:         dir,
		FileName:          "setup.log",
		MirrorToConsole:   true,
		ContinueOnFailure: true,
	}
	if mutate != nil {
		mutate(&cfg)
	}

	var console bytes.Buffer
	base := []DispatcherOption{
		WithClock(func() time.Time { return fixedTime }),
		WithEnvironment(func() Environment {
			return Environment{ThreadID: 4242, Principal: "svc-deploy", ScriptFile: "deploytrace"}
		}),
		WithConsoleMirror(NewConsoleMirror(&console, StaticCapability(false))),
		WithDiagnosticLogger(corelog.NewTestLogger(t)),
	}

	return &harness{
		d:       New(cfg, append(base, opts...)...),
		console: &console,
		dir:     dir,
	}
}

func (h *harness) path() string {
	return filepath.Join(h.dir, "setup.log")
}

func (h *harness) lines(t *testing.T) []string {
	t.Helper()
	data, err := os.ReadFile(h.path())
	require.NoError(t, err)
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func TestDispatcher_ScenarioInstallingPatch(t *testing.T) {
	h := newHarness(t, nil)

	h.d.Log([]string{"Installing patch"}, WithSeverity(SeverityInfo), WithSource("Add-Patch"), WithSection("Installation"))

	assert.Equal(t, []string{"[03-14-2026 09:26:53.589] [Installation] [Add-Patch] [Info] :: Installing patch"}, h.lines(t))
	assert.Equal(t, "[03-14-2026 09:26:53.589] [Installation] [Add-Patch] [Info] :: Installing patch\n", h.console.String())
}

func TestDispatcher_ScenarioErrorWithoutSource(t *testing.T) {
	var console bytes.Buffer
	h := newHarness(t, nil, WithConsoleMirror(NewConsoleMirror(&console, StaticCapability(true))))

	h.d.Log([]string{"disk full"}, WithSeverity(SeverityError))

	assert.Equal(t, []string{"[03-14-2026 09:26:53.589] [Error] :: disk full"}, h.lines(t))
	assert.Contains(t, console.String(), "\x1b[31;40m")
	assert.Contains(t, console.String(), "[03-14-2026 09:26:53.589] [Error] :: disk full")
}

func TestDispatcher_ScenarioDirectoryUnavailable(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	h := newHarness(t, func(c *Config) {
		c.Directory = filepath.Join(blocker, "logs")
		c.ContinueOnFailure = false
	})

	h.d.Log([]string{"first"})
	assert.Contains(t, h.console.String(), "Failed to create the log directory")
	assert.NotContains(t, h.console.String(), ":: first")
	assert.True(t, h.d.Session().FileLoggingDisabled())

	h.console.Reset()
	h.d.Log([]string{"second"}, WithSource("Copy-File"))
	assert.Equal(t, "[03-14-2026 09:26:53.589] [Copy-File] [Info] :: second\n", h.console.String())
	assert.NoDirExists(t, filepath.Join(blocker, "logs"))
}

func TestDispatcher_DirectoryFailureSilentWhenContinuing(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	h := newHarness(t, func(c *Config) { c.Directory = blocker })

	h.d.Log([]string{"first"})
	assert.Empty(t, h.console.String())
	assert.True(t, h.d.Session().FileLoggingDisabled())
}

func TestDispatcher_TraceToolFormat(t *testing.T) {
	h := newHarness(t, func(c *Config) { c.Format = FormatTraceTool })

	h.d.Log([]string{"Installing patch"}, WithSource("Add-Patch"), WithSeverity(SeverityWarning))

	assert.Equal(t, []string{
		`<![LOG[Installing patch]LOG]!><time="09:26:53.589+060" date="03-14-2026" component="Add-Patch" context="svc-deploy" type="2" thread="4242" file="deploytrace">`,
	}, h.lines(t))
	// console always gets the legacy rendering
	assert.Equal(t, "[03-14-2026 09:26:53.589] [Add-Patch] [Warning] :: Installing patch\n", h.console.String())
}

func TestDispatcher_ScriptFileOverride(t *testing.T) {
	h := newHarness(t, func(c *Config) {
		c.Format = FormatTraceTool
		c.ScriptFile = "Deploy-Application.ps1"
	})
	h.d.Info("x")
	assert.Contains(t, h.lines(t)[0], `file="Deploy-Application.ps1"`)
}

func TestDispatcher_MessagesKeepOrderAndShareTimestamp(t *testing.T) {
	calls := 0
	h := newHarness(t, nil, WithClock(func() time.Time {
		calls++
		return fixedTime.Add(time.Duration(calls) * time.Second)
	}))

	h.d.Log([]string{"one", "", "three"}, WithSource("Step"))

	assert.Equal(t, 1, calls)
	assert.Equal(t, []string{
		"[03-14-2026 09:26:54.589] [Step] [Info] :: one",
		"[03-14-2026 09:26:54.589] [Step] [Info] :: ",
		"[03-14-2026 09:26:54.589] [Step] [Info] :: three",
	}, h.lines(t))
}

func TestDispatcher_AppendsAcrossCalls(t *testing.T) {
	h := newHarness(t, func(c *Config) { c.MirrorToConsole = false })

	h.d.Info("a")
	h.d.Warning("b")
	h.d.Error("c")

	lines := h.lines(t)
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "[Info] :: a")
	assert.Contains(t, lines[1], "[Warning] :: b")
	assert.Contains(t, lines[2], "[Error] :: c")
	assert.Empty(t, h.console.String())
}

func TestDispatcher_SectionDefaultsToPhase(t *testing.T) {
	h := newHarness(t, nil)

	h.d.Info("no phase yet")
	h.d.Session().SetPhase("Pre-Installation")
	h.d.Info("in phase")
	h.d.Log([]string{"cleared"}, WithSection(""))

	lines := h.lines(t)
	assert.Equal(t, "[03-14-2026 09:26:53.589] [Info] :: no phase yet", lines[0])
	assert.Equal(t, "[03-14-2026 09:26:53.589] [Pre-Installation] [Info] :: in phase", lines[1])
	assert.Equal(t, "[03-14-2026 09:26:53.589] [Info] :: cleared", lines[2])
}

func TestDispatcher_DebugGate(t *testing.T) {
	h := newHarness(t, nil)
	h.d.Log([]string{"verbose"}, AsDebug())
	assert.NoFileExists(t, h.path())
	assert.Empty(t, h.console.String())

	h = newHarness(t, func(c *Config) { c.DebugEnabled = true })
	h.d.Log([]string{"verbose"}, AsDebug())
	assert.Len(t, h.lines(t), 1)
}

func TestDispatcher_DisabledProducesNothing(t *testing.T) {
	h := newHarness(t, func(c *Config) {
		c.DisableFileLogging = true
		c.MirrorToConsole = false
	})

	out := h.d.Log([]string{"quiet"})

	assert.Nil(t, out)
	assert.NoDirExists(t, h.dir)
	assert.Empty(t, h.console.String())
}

func TestDispatcher_EmptyMessagesProduceNothing(t *testing.T) {
	h := newHarness(t, nil)

	h.d.Log(nil)
	h.d.Log([]string{})

	assert.NoDirExists(t, h.dir)
	assert.Empty(t, h.console.String())
}

func TestDispatcher_FileDisabledStillMirrors(t *testing.T) {
	h := newHarness(t, func(c *Config) { c.DisableFileLogging = true })

	h.d.Log([]string{"console only"}, WithSource("Get-Process"))

	assert.NoDirExists(t, h.dir)
	assert.Equal(t, "[03-14-2026 09:26:53.589] [Get-Process] [Info] :: console only\n", h.console.String())
}

func TestDispatcher_ConsoleOverride(t *testing.T) {
	h := newHarness(t, nil)
	h.d.Log([]string{"file only"}, WithConsole(false))
	assert.Empty(t, h.console.String())
	assert.Len(t, h.lines(t), 1)
}

func TestDispatcher_RelaunchSuppressesFirstInitialization(t *testing.T) {
	h := newHarness(t, nil, WithSession(NewSession("Initialization", true)))

	h.d.Info("banner")
	assert.NoFileExists(t, h.path())

	h.d.Info("banner again")
	assert.Equal(t, []string{"[03-14-2026 09:26:53.589] [Initialization] [Info] :: banner again"}, h.lines(t))
}

func TestDispatcher_RelaunchIgnoresOtherSections(t *testing.T) {
	h := newHarness(t, nil, WithSession(NewSession("Installation", true)))

	h.d.Info("work")
	h.d.Log([]string{"late banner"}, WithSection("Initialization"))

	lines := h.lines(t)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], ":: work")
}

func TestDispatcher_WriteFailureContinues(t *testing.T) {
	h := newHarness(t, func(c *Config) { c.ContinueOnFailure = false })
	require.NoError(t, os.MkdirAll(h.path(), 0o755)) // log path is a directory

	h.d.Log([]string{"one", "two"}, WithSource("Copy-File"))

	out := h.console.String()
	assert.Contains(t, out, "Failed to write message [one]")
	assert.Contains(t, out, "Failed to write message [two]")
	assert.Contains(t, out, "[Copy-File] [Info] :: one")
	assert.Contains(t, out, "[Copy-File] [Info] :: two")
	assert.False(t, h.d.Session().FileLoggingDisabled())
}

func TestDispatcher_WriteFailureSilentWhenContinuing(t *testing.T) {
	h := newHarness(t, func(c *Config) { c.MirrorToConsole = false })
	require.NoError(t, os.MkdirAll(h.path(), 0o755))

	assert.NotPanics(t, func() { h.d.Info("lost") })
	assert.Empty(t, h.console.String())
}

func TestDispatcher_PassThrough(t *testing.T) {
	h := newHarness(t, func(c *Config) {
		c.DisableFileLogging = true
		c.MirrorToConsole = false
	})

	msgs := []string{"a", "b"}
	assert.Equal(t, msgs, h.d.Log(msgs, PassThrough()))
	assert.Nil(t, h.d.Log(msgs))
}

func TestDispatcher_PerCallOverridesDoNotLeak(t *testing.T) {
	h := newHarness(t, nil)
	other := filepath.Join(t.TempDir(), "other")

	h.d.Log([]string{"elsewhere"}, WithDirectory(other), WithFileName("x.log"), WithFormat(FormatTraceTool))
	h.d.Info("home")

	assert.FileExists(t, filepath.Join(other, "x.log"))
	assert.Equal(t, []string{"[03-14-2026 09:26:53.589] [Info] :: home"}, h.lines(t))
	assert.Equal(t, FormatLegacy, h.d.Config().Format)
}

func TestDispatcher_CallerSource(t *testing.T) {
	h := newHarness(t, nil)

	h.d.Log([]string{"who"}, WithCallerSource())
	assert.Contains(t, h.lines(t)[0], "[TestDispatcher_CallerSource]")

	h.d.Log([]string{"explicit"}, WithSource("Copy-File"), WithCallerSource())
	assert.Contains(t, h.lines(t)[1], "[Copy-File]")
}

func TestDispatcher_InvalidSeverityIsInfo(t *testing.T) {
	h := newHarness(t, nil)
	h.d.Log([]string{"x"}, WithSeverity(Severity(7)))
	assert.Contains(t, h.lines(t)[0], "[Info] :: x")
}

type panicOnceWriter struct {
	armed bool
	buf   bytes.Buffer
}

func (w *panicOnceWriter) Write(p []byte) (int, error) {
	if w.armed {
		w.armed = false
		panic("console gone")
	}
	return w.buf.Write(p)
}

func TestDispatcher_ReleasesLockAfterPanic(t *testing.T) {
	w := &panicOnceWriter{armed: true}
	h := newHarness(t, nil, WithConsoleMirror(NewConsoleMirror(w, StaticCapability(false))))

	require.Panics(t, func() { h.d.Info("first") })

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.d.Info("second")
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Log blocked after a panicking console write")
	}

	assert.Equal(t, []string{
		"[03-14-2026 09:26:53.589] [Info] :: first",
		"[03-14-2026 09:26:53.589] [Info] :: second",
	}, h.lines(t))
	assert.Equal(t, "[03-14-2026 09:26:53.589] [Info] :: second\n", w.buf.String())
}
