package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

// newTestEnv returns an Environment writing to buffers.
func newTestEnv() (*Environment, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	env := &Environment{
		Now:    time.Now,
		Stdout: stdout,
		Stderr: stderr,
	}
	return env, stdout, stderr
}

func TestRun_NoArgs(t *testing.T) {
	t.Parallel()

	env, _, stderr := newTestEnv()
	code := run(context.Background(), nil, env)

	if code != ExitUsage {
		t.Errorf("run() = %d, want %d", code, ExitUsage)
	}
	if !strings.Contains(stderr.String(), "Usage: invitepdf") {
		t.Errorf("stderr missing usage, got %q", stderr.String())
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	t.Parallel()

	env, _, stderr := newTestEnv()
	code := run(context.Background(), []string{"frobnicate"}, env)

	if code != ExitUsage {
		t.Errorf("run() = %d, want %d", code, ExitUsage)
	}
	if !strings.Contains(stderr.String(), "Unknown command: frobnicate") {
		t.Errorf("stderr missing unknown command, got %q", stderr.String())
	}
}

func TestRun_Version(t *testing.T) {
	t.Parallel()

	env, stdout, _ := newTestEnv()
	code := run(context.Background(), []string{"version"}, env)

	if code != ExitSuccess {
		t.Errorf("run() = %d, want %d", code, ExitSuccess)
	}
	if !strings.Contains(stdout.String(), "invitepdf") {
		t.Errorf("stdout missing version line, got %q", stdout.String())
	}
}

func TestRun_Help(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bare help", []string{"help"}, "Commands:"},
		{"help render", []string{"help", "render"}, "Usage: invitepdf render"},
		{"help devices", []string{"help", "devices"}, "Usage: invitepdf devices"},
		{"help qualities", []string{"help", "qualities"}, "Usage: invitepdf qualities"},
		{"help doctor", []string{"help", "doctor"}, "Usage: invitepdf doctor"},
		{"help version", []string{"help", "version"}, "Usage: invitepdf version"},
		{"dash dash help", []string{"--help"}, "Commands:"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, _ := newTestEnv()
			code := run(context.Background(), tt.args, env)

			if code != ExitSuccess {
				t.Errorf("run(%v) = %d, want %d", tt.args, code, ExitSuccess)
			}
			if !strings.Contains(stdout.String(), tt.want) {
				t.Errorf("stdout = %q, want substring %q", stdout.String(), tt.want)
			}
		})
	}
}

func TestRun_HelpUnknownCommand(t *testing.T) {
	t.Parallel()

	env, _, stderr := newTestEnv()
	code := run(context.Background(), []string{"help", "bogus"}, env)

	if code != ExitSuccess {
		t.Errorf("run() = %d, want %d", code, ExitSuccess)
	}
	if !strings.Contains(stderr.String(), "Unknown command: bogus") {
		t.Errorf("stderr = %q, want unknown command notice", stderr.String())
	}
}
