package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRenderCommand(t *testing.T) {
	out, err := run(t, "render", "--mode", "edit", "Hello", "#world")
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	want := `Hello <span class="text-category">#world</span>`
	if strings.TrimSpace(out) != want {
		t.Fatalf("render = %q, want %q", out, want)
	}

	if _, err := run(t, "render", "--mode", "bold", "x"); err == nil {
		t.Fatal("expected invalid mode error")
	}
}

func TestAddAndListCommands(t *testing.T) {
	t.Setenv("TASKMARK_CONFIG", "")
	t.Setenv("TASKMARK_LOG_FILE", "")
	db := filepath.Join(t.TempDir(), "cli.db")

	if _, err := run(t, "--db", db, "add", "call", "@ana", "#work"); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := run(t, "--db", db, "add", "buy", "milk", "#home"); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	out, err := run(t, "--db", db, "list", "--tag", "work")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out, "call @ana #work") || strings.Contains(out, "milk") {
		t.Fatalf("unexpected filtered list:\n%s", out)
	}

	out, err = run(t, "--db", db, "categories")
	if err != nil {
		t.Fatalf("categories failed: %v", err)
	}
	if !strings.Contains(out, "#home") || !strings.Contains(out, "#work") {
		t.Fatalf("unexpected categories:\n%s", out)
	}

	if _, err := run(t, "--db", db, "list", "--state", "later"); err == nil {
		t.Fatal("expected invalid state error")
	}
}
