package db

import (
	"testing"

	"github.com/yungbote/neurobridge-questionbank/internal/domain/quiz"
	"github.com/yungbote/neurobridge-questionbank/internal/platform/logger"
)

func TestPostgresDSN(t *testing.T) {
	cfg := Config{
		PostgresHost:     "db",
		PostgresPort:     "5433",
		PostgresUser:     "qb",
		PostgresPassword: "pw",
		PostgresName:     "questionbank",
	}
	want := "postgres://qb:pw@db:5433/questionbank?sslmode=disable"
	if got := cfg.PostgresDSN(); got != want {
		t.Fatalf("got=%q want=%q", got, want)
	}
	cfg.PostgresSSLMode = "require"
	if got := cfg.PostgresDSN(); got != "postgres://qb:pw@db:5433/questionbank?sslmode=require" {
		t.Fatalf("sslmode not applied: %q", got)
	}
}

func TestOpenSQLiteAndMigrate(t *testing.T) {
	svc, err := Open(Config{Driver: DriverSQLite, SQLitePath: "file:dbtest?mode=memory&cache=shared"}, logger.NewNop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = svc.Close() })

	if err := svc.AutoMigrateAll(); err != nil {
		t.Fatalf("AutoMigrateAll: %v", err)
	}
	for _, table := range []string{quiz.Question{}.TableName(), quiz.Option{}.TableName()} {
		if !svc.DB().Migrator().HasTable(table) {
			t.Fatalf("missing table %s", table)
		}
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open(Config{Driver: "oracle"}, logger.NewNop()); err == nil {
		t.Fatal("expected error")
	}
}
