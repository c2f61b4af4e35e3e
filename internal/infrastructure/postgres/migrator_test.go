package postgres

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestSourceURL(t *testing.T) {
	cases := map[string]string{
		"migrations":             "file://migrations",
		"file://migrations":      "file://migrations",
		"/srv/ledger/migrations": "file:///srv/ledger/migrations",
		"github://org/repo/path": "github://org/repo/path",
	}
	for in, want := range cases {
		if got := SourceURL(in); got != want {
			t.Fatalf("SourceURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRunMigrationsInvalidDatabaseURL(t *testing.T) {
	if err := RunMigrations("not-a-url", "file://does-not-exist", zerolog.Nop()); err == nil {
		t.Fatalf("expected error for invalid migrate configuration")
	}
}
