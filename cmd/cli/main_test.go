package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/iho/gowallet/internal/infrastructure/config"
	"github.com/iho/gowallet/internal/usecase"
)

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	if err := printJSON(cmd, usecase.TickSummary{Candidates: 2, Executed: 1, Failed: 1}); err != nil {
		t.Fatalf("printJSON failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "\"Candidates\": 2") || !strings.Contains(out, "\"Failed\": 1") {
		t.Fatalf("unexpected json output:\n%s", out)
	}
}

func TestHashPasswordCmd(t *testing.T) {
	orig := bcryptGenerate
	var gotCost int
	bcryptGenerate = func(p []byte, cost int) ([]byte, error) {
		gotCost = cost
		return []byte("hashed-value"), nil
	}
	defer func() { bcryptGenerate = orig }()

	var buf bytes.Buffer
	cmd := hashPasswordCmd()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"secret", "--cost", "12"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("command failed: %v", err)
	}

	if strings.TrimSpace(buf.String()) != "hashed-value" {
		t.Fatalf("expected hashed-value, got %q", buf.String())
	}
	if gotCost != 12 {
		t.Fatalf("expected cost 12, got %d", gotCost)
	}
}

func TestHashPasswordCmd_RequiresPassword(t *testing.T) {
	cmd := hashPasswordCmd()
	cmd.SetArgs([]string{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected an error without a password argument")
	}
}

func TestConfigErrorsPropagate(t *testing.T) {
	orig := loadConfig
	loadConfig = func() (*config.Config, error) { return nil, errors.New("bad env") }
	defer func() { loadConfig = orig }()

	for _, args := range [][]string{
		{"migrate", "up"},
		{"migrate", "down"},
		{"migrate", "version"},
		{"scheduler", "tick"},
		{"balance", "user-1"},
	} {
		root := newRootCmd()
		root.SetArgs(args)
		root.SetOut(&bytes.Buffer{})

		err := root.Execute()
		if err == nil || err.Error() != "bad env" {
			t.Fatalf("%v: expected config error, got %v", args, err)
		}
	}
}

func TestRootCmdRegistersCommands(t *testing.T) {
	root := newRootCmd()

	for _, path := range [][]string{
		{"migrate", "up"},
		{"migrate", "down"},
		{"scheduler", "tick"},
		{"hash-password"},
		{"balance"},
	} {
		cmd, _, err := root.Find(path)
		if err != nil || cmd == root {
			t.Fatalf("expected command %v to be registered", path)
		}
	}
}
