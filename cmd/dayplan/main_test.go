package main

import (
	"path/filepath"
	"testing"
)

func TestNeedsStore(t *testing.T) {
	tests := map[string]bool{
		"init":                         false,
		"keyring set <secret> <value>": false,
		"keyring status":               false,
		"day show":                     true,
		"capture":                      true,
		"backup restore <backup-file>": true,
	}

	for command, want := range tests {
		if got := needsStore(command); got != want {
			t.Errorf("needsStore(%q) = %v, want %v", command, got, want)
		}
	}
}

func TestLogDir(t *testing.T) {
	if got := logDir("/data/plans/dayplan.db"); got != "/data/plans" {
		t.Errorf("logDir(file) = %q", got)
	}

	server := logDir("postgres://user@localhost/dayplan")
	if filepath.Base(server) != "dayplan" || server == "/data/plans" {
		t.Errorf("logDir(postgres) = %q, want the default config directory", server)
	}
	if logDir("keyring") != server {
		t.Error("keyring config should log to the default config directory")
	}
}
