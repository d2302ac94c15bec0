package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/use-agent/emotetcheck/checker"
	"github.com/use-agent/emotetcheck/config"
)

type stubSession struct {
	answers map[string]string
	closed  int
}

func (s *stubSession) Query(_ context.Context, address string) (string, error) {
	return s.answers[address], nil
}

func (s *stubSession) Close() error {
	s.closed++
	return nil
}

func stubOpener(s *stubSession) func(*config.Config) checker.Opener {
	return func(*config.Config) checker.Opener {
		return func() (checker.Session, error) { return s, nil }
	}
}

// These tests replace the process-wide slog default and must not run in parallel.

func TestRun_Success(t *testing.T) {
	t.Chdir(t.TempDir())

	sess := &stubSession{answers: map[string]string{
		"a@x.com": "Result:\n0 times as REAL SENDER, 0 times as FAKE SENDER and 4 times as RECIPIENT.\nFOUND!!!",
		"b@y.com": "Sorry, this address was NOT found in any leak.",
	}}

	var stdout, stderr bytes.Buffer
	code := run(nil, strings.NewReader("a@x.com\nb@y.com\n"), &stdout, &stderr, stubOpener(sess))

	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr.String())
	}
	want := "a@x.com\tTrue\t0\t0\t4\nb@y.com\tFalse\t0\t0\t0\n"
	if stdout.String() != want {
		t.Errorf("stdout = %q, want %q", stdout.String(), want)
	}
	if sess.closed != 1 {
		t.Errorf("closed = %d, want 1", sess.closed)
	}
}

func TestRun_InvalidResponseExitsNonZero(t *testing.T) {
	t.Chdir(t.TempDir())

	sess := &stubSession{answers: map[string]string{
		"a@x.com": "Sorry, this address was NOT found in any leak.",
		"b@y.com": "Under maintenance",
	}}

	var stdout, stderr bytes.Buffer
	code := run(nil, strings.NewReader("a@x.com\nb@y.com\nc@z.com\n"), &stdout, &stderr, stubOpener(sess))

	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if stdout.String() != "a@x.com\tFalse\t0\t0\t0\n" {
		t.Errorf("stdout = %q", stdout.String())
	}
	if !strings.Contains(stderr.String(), "INVALID_RESPONSE") || !strings.Contains(stderr.String(), "b@y.com") {
		t.Errorf("stderr should describe the failure, got %q", stderr.String())
	}
	if sess.closed != 1 {
		t.Errorf("closed = %d, want 1", sess.closed)
	}
}

func TestRun_LenientExitsNonZeroAfterFailures(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("EMOTETCHECK_LENIENT", "true")

	sess := &stubSession{answers: map[string]string{
		"a@x.com": "Under maintenance",
		"b@y.com": "Sorry, this address was NOT found in any leak.",
	}}

	var stdout, stderr bytes.Buffer
	code := run(nil, strings.NewReader("a@x.com\nb@y.com\n"), &stdout, &stderr, stubOpener(sess))

	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if stdout.String() != "b@y.com\tFalse\t0\t0\t0\n" {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("EMOTETCHECK_RESULT_TIMEOUT", "-1s")

	sess := &stubSession{}
	var stdout, stderr bytes.Buffer
	code := run(nil, strings.NewReader("a@x.com\n"), &stdout, &stderr, stubOpener(sess))

	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if sess.closed != 0 {
		t.Error("session must not be opened with an invalid configuration")
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout = %q, want empty", stdout.String())
	}
}

func TestRun_ReadsFiles(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, "list.txt"), []byte("a@x.com\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	sess := &stubSession{answers: map[string]string{
		"a@x.com": "Sorry, this address was NOT found in any leak.",
	}}

	var stdout, stderr bytes.Buffer
	code := run([]string{"list.txt"}, strings.NewReader("ignored@x.com\n"), &stdout, &stderr, stubOpener(sess))
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr.String())
	}
	if stdout.String() != "a@x.com\tFalse\t0\t0\t0\n" {
		t.Errorf("stdout = %q", stdout.String())
	}
}
