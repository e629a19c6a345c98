package database

import (
	"strings"
	"testing"

	"pos-api/config"
)

func TestMySQLDSN(t *testing.T) {
	dsn := mysqlDSN(config.Database{
		Host:     "db",
		User:     "pos",
		Password: "secret",
		Name:     "pos",
	})
	for _, want := range []string{"pos:secret@tcp(db:3306)/pos", "parseTime=true", "charset=utf8mb4"} {
		if !strings.Contains(dsn, want) {
			t.Errorf("dsn %q missing %q", dsn, want)
		}
	}

	if got := mysqlDSN(config.Database{DSN: "explicit"}); got != "explicit" {
		t.Errorf("explicit DSN ignored, got %q", got)
	}
}

func TestPostgresDSN(t *testing.T) {
	got := postgresDSN(config.Database{Host: "pg", User: "u", Password: "p", Name: "pos"})
	want := "postgres://u:p@pg:5432/pos?sslmode=disable"
	if got != want {
		t.Errorf("postgresDSN() = %q, want %q", got, want)
	}
}
