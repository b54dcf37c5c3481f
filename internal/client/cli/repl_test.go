package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// captureOutput redirects printlnFn into a slice for the duration of a test.
func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimRight(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

type stubExec struct {
	loggedIn bool
	calls    []string
}

func (s *stubExec) isLoggedIn() bool { return s.loggedIn }
func (s *stubExec) Login(_ context.Context, provider string) error {
	s.calls = append(s.calls, "login:"+provider)
	return nil
}
func (s *stubExec) Paste(context.Context) error {
	s.calls = append(s.calls, "paste")
	return nil
}
func (s *stubExec) Whoami(context.Context) error {
	s.calls = append(s.calls, "whoami")
	return nil
}
func (s *stubExec) Open(_ context.Context, path string) error {
	s.calls = append(s.calls, "open:"+path)
	return nil
}
func (s *stubExec) Status(context.Context) error {
	s.calls = append(s.calls, "status")
	return nil
}
func (s *stubExec) Logout(context.Context) error {
	s.calls = append(s.calls, "logout")
	return nil
}

func runScript(t *testing.T, a execIface, script string) []string {
	t.Helper()
	out := captureOutput(t)
	scanner := bufio.NewScanner(strings.NewReader(script))
	runREPL(context.Background(), a, func() string { return "test" }, scanner)
	return *out
}

func TestREPL_DispatchesCommands(t *testing.T) {
	s := &stubExec{}
	runScript(t, s, "login gitlab\npaste\nopen /dashboard\nstatus\nlogout\nwhoami\nexit\n")

	require.Equal(t, []string{
		"login:gitlab", "paste", "open:/dashboard", "status", "logout", "whoami",
	}, s.calls)
}

func TestREPL_LoginWithoutArgumentPassesEmptyProvider(t *testing.T) {
	s := &stubExec{}
	runScript(t, s, "login\nexit\n")
	require.Equal(t, []string{"login:"}, s.calls)
}

func TestREPL_OpenRequiresArgument(t *testing.T) {
	s := &stubExec{}
	out := runScript(t, s, "open\nexit\n")

	require.Empty(t, s.calls)
	require.Contains(t, out, "Usage: open <path>")
}

func TestREPL_UnknownCommand(t *testing.T) {
	s := &stubExec{}
	out := runScript(t, s, "frobnicate\nexit\n")

	require.Empty(t, s.calls)
	require.Contains(t, out, "Unknown command: frobnicate")
}

func TestREPL_HelpFollowsSessionState(t *testing.T) {
	out := runScript(t, &stubExec{loggedIn: false}, "help\nexit\n")
	require.Contains(t, strings.Join(out, "\n"), "login [provider]")

	out = runScript(t, &stubExec{loggedIn: true}, "help\nexit\n")
	require.Contains(t, strings.Join(out, "\n"), "logout")
}

func TestREPL_ExitSaysBye(t *testing.T) {
	out := runScript(t, &stubExec{}, "exit\n")
	require.Contains(t, out, "Bye!")
}

func TestREPL_EOFEndsLoop(t *testing.T) {
	s := &stubExec{}
	runScript(t, s, "status\n") // no exit, scanner just runs dry
	require.Equal(t, []string{"status"}, s.calls)
}
