package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestVersionCmd(t *testing.T) {
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "triagewizard "+version {
		t.Errorf("Expected %q, got %q", "triagewizard "+version, got)
	}
}

func TestRootCmd_Flags(t *testing.T) {
	cmd := rootCmd()
	for _, name := range []string{"from", "save-answers", "api-url", "timeout", "log-file"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("Expected flag --%s", name)
		}
	}

	var found bool
	for _, sub := range cmd.Commands() {
		if sub.Name() == "mock-api" {
			found = true
			if sub.Flags().Lookup("addr") == nil {
				t.Error("Expected flag --addr on mock-api")
			}
		}
	}
	if !found {
		t.Error("Expected mock-api subcommand")
	}
}

func TestRootCmd_NegativeTimeoutRejected(t *testing.T) {
	cmd := rootCmd()
	cmd.SetArgs([]string{"--timeout", "-1s"})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("Expected error for negative timeout")
	}
	if !strings.Contains(err.Error(), "REQUEST_TIMEOUT") {
		t.Errorf("Expected timeout error, got %v", err)
	}
}
