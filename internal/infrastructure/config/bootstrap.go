package config

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// AppName is the canonical application name
const AppName = "oulia"

// HomeDir returns the user's configuration home: ~/.oulia
func HomeDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, "."+AppName)
}

// Bootstrap ensures ~/.oulia exists and holds a commented config.yaml.
// Existing files are never overwritten.
func Bootstrap(logger *zap.Logger) error {
	root := HomeDir()
	if err := os.MkdirAll(root, 0755); err != nil {
		return fmt.Errorf("create dir %s: %w", root, err)
	}

	path := filepath.Join(root, "config.yaml")
	if _, err := os.Stat(path); err == nil {
		logger.Debug("Oulia home directory OK", zap.String("home", root))
		return nil
	}
	if err := os.WriteFile(path, []byte(defaultConfig), 0600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	logger.Info("Oulia bootstrap complete", zap.String("config", path))
	return nil
}

const defaultConfig = `# Oulia configuration
# Every key can be overridden with an OULIA_ environment variable,
# e.g. OULIA_LLM_MODEL=gemini-2.0-flash.

server:
  host: 0.0.0.0
  port: 5000
  mode: release                # debug | release
  frontend_url: http://localhost:5173

database:
  type: sqlite                 # sqlite | postgres
  dsn: oulia.db                # file path (sqlite) or connection string (postgres)

log:
  level: info                  # debug | info | warn | error (hot-reloaded)
  format: json                 # json | console

auth:
  jwt_secret: ""               # or JWT_SECRET
  token_ttl: 168h

llm:
  api_key: ""                  # or GEMINI_API_KEY
  model: gemini-2.0-flash
  timeout: 60s

engine:
  history_limit: 20
  default_language: fr

telegram:
  bot_token: ""                # empty disables host alerts
  alert_chat_id: 0

ratelimit:
  enabled: true
  rps: 2
  burst: 10
`
