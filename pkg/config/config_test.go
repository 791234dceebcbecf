package config

import (
	"testing"
	"time"
)

func TestDBConfigValidate(t *testing.T) {
	ok := DBConfig{Driver: DriverSQLite, DSN: "tradzy.db"}
	if err := ok.validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	badDriver := DBConfig{Driver: "mysql", DSN: "whatever"}
	if err := badDriver.validate(); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}

	noDSN := DBConfig{Driver: DriverPostgres}
	if err := noDSN.validate(); err == nil {
		t.Fatalf("expected error for missing DSN")
	}
}

func TestRefreshTokenTTL(t *testing.T) {
	cfg := JWTConfig{RefreshTokenTTLMinutes: 30}
	if cfg.RefreshTokenTTL() != 30*time.Minute {
		t.Fatalf("ttl = %s", cfg.RefreshTokenTTL())
	}
	cfg.RefreshTokenTTLMinutes = 0
	if cfg.RefreshTokenTTL() != 0 {
		t.Fatalf("expected zero ttl when unset")
	}
}

func TestMailEnabled(t *testing.T) {
	if (MailConfig{}).Enabled() {
		t.Fatalf("mail should be disabled without an api key")
	}
	if !(MailConfig{APIKey: "re_123"}).Enabled() {
		t.Fatalf("mail should be enabled with an api key")
	}
}
