package main

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"habitstreak/internal/adapter/memory"
	"habitstreak/internal/config"
)

func TestNewLogger(t *testing.T) {
	log, err := newLogger("debug")
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	if !log.Core().Enabled(zapcore.DebugLevel) {
		t.Error("expected debug level to be enabled")
	}

	if _, err := newLogger("chatty"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestOpenStore(t *testing.T) {
	db, closeDB, err := openStore(config.DatabaseConfig{Driver: config.DriverMemory})
	if err != nil {
		t.Fatalf("openStore: %v", err)
	}
	defer closeDB()
	if _, ok := db.(*memory.DB); !ok {
		t.Errorf("expected memory store, got %T", db)
	}

	if _, _, err := openStore(config.DatabaseConfig{Driver: "sqlite"}); err == nil {
		t.Error("expected error for unknown driver")
	}
}
