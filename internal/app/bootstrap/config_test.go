package bootstrap

import (
	"testing"

	"go.uber.org/zap"

	"github.com/getmeachai/getmeachai/internal/app/system/indexes"
	"github.com/getmeachai/getmeachai/internal/testutil"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func validAppConfig() AppConfig {
	return AppConfig{
		MongoURI:      "mongodb://localhost:27017",
		MongoDatabase: "getmeachai",
		SessionKey:    "test-session-key-0123456789abcdef",
		SessionName:   "getmeachai-session",
		SealingKey:    "test-sealing-key-0123456789abcdef",
		BaseURL:       "http://localhost:3000",
	}
}

func TestValidateConfig_Valid(t *testing.T) {
	if err := ValidateConfig(nil, validAppConfig(), testLogger()); err != nil {
		t.Errorf("ValidateConfig: %v", err)
	}
}

func TestValidateConfig_BadMongoURI(t *testing.T) {
	cfg := validAppConfig()
	cfg.MongoURI = "not-a-mongo-uri"
	if err := ValidateConfig(nil, cfg, testLogger()); err == nil {
		t.Error("expected error for invalid mongo URI")
	}
}

func TestValidateConfig_MissingDatabase(t *testing.T) {
	cfg := validAppConfig()
	cfg.MongoDatabase = ""
	if err := ValidateConfig(nil, cfg, testLogger()); err == nil {
		t.Error("expected error for empty database name")
	}
}

func TestValidateConfig_MissingSealingKey(t *testing.T) {
	cfg := validAppConfig()
	cfg.SealingKey = ""
	if err := ValidateConfig(nil, cfg, testLogger()); err == nil {
		t.Error("expected error for empty sealing key")
	}
}

func TestEnsureSchema_CreatesIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)

	deps := DBDeps{MongoClient: db.Client(), MongoDatabase: db}
	if err := EnsureSchema(ctx, nil, validAppConfig(), deps, testLogger()); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}

	// Idempotent: a second pass must not fail.
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Errorf("EnsureAll second run: %v", err)
	}
}
