package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool
	calls    []string
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }

func (f *fakeExec) Register(ctx context.Context) error {
	f.calls = append(f.calls, "register")
	return nil
}

func (f *fakeExec) Login(ctx context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return nil
}

func (f *fakeExec) Show(ctx context.Context) error {
	f.calls = append(f.calls, "show")
	return nil
}

func (f *fakeExec) Edit(ctx context.Context) error {
	f.calls = append(f.calls, "edit")
	return nil
}

func (f *fakeExec) SaveEdit(ctx context.Context) error {
	f.calls = append(f.calls, "save")
	return nil
}

func (f *fakeExec) CancelEdit(ctx context.Context) error {
	f.calls = append(f.calls, "cancel")
	return nil
}

func (f *fakeExec) Avatar(ctx context.Context) error {
	f.calls = append(f.calls, "avatar")
	return nil
}

func (f *fakeExec) Logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}

func (f *fakeExec) DeleteAccount(ctx context.Context) error {
	f.calls = append(f.calls, "delete")
	return nil
}

func silencePrintln(t *testing.T) {
	t.Helper()
	orig := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = orig })
}

func TestRunREPL_DispatchAndExit(t *testing.T) {
	silencePrintln(t)

	input := strings.Join([]string{
		"help",
		"login",
		"show",
		"edit",
		"save",
		"cancel",
		"",
		"foobar",
		"logout",
		"exit",
	}, "\n")

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, bufio.NewScanner(strings.NewReader(input)))

	assert.Equal(t, []string{"login", "show", "edit", "save", "cancel", "logout"}, exec.calls)
}

func TestRunREPL_EOFStopsLoop(t *testing.T) {
	silencePrintln(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewScanner(strings.NewReader("show\n")))

	assert.Equal(t, []string{"show"}, exec.calls)
}
