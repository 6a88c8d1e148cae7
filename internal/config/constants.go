package config

import "time"

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"
	defaultPort       = 3100
	defaultEnv        = "development"

	defaultDBHost     = "127.0.0.1"
	defaultDBPort     = 3306
	defaultDBUser     = "root"
	defaultDBPassword = "password"
	defaultDBName     = "researchhub"
	defaultDBCharset  = "utf8mb4"
	defaultDBLoc      = "Local"

	defaultRedisHost = "localhost"
	defaultRedisPort = 6379
	defaultRedisDB   = 0

	// DefaultPDFCoEndpoint is the hosted document-conversion API.
	DefaultPDFCoEndpoint = "https://api.pdf.co/v1/pdf/convert/to/text"
	// EnvPDFCoAPIKey overrides the YAML credential.
	EnvPDFCoAPIKey = "PDFCO_API_KEY"

	// UpstreamTimeout bounds every call to an external service.
	UpstreamTimeout = 60 * time.Second
)

// Extraction thresholds. Empirical values observed on certificate-style
// scanned PDFs; keep as-is unless overridden in config.
const (
	DefaultMinAcceptLength     = 200
	DefaultFooterMaxLength     = 160
	DefaultMostlyLinkMaxLength = 220
	DefaultNonURLFloor         = 40
	DefaultMaxOCRPages         = 8
	DefaultOCRDPI              = 144 // 2x the 72dpi PDF point grid
	DefaultProxyMaxFetchMB     = 50
)

// defaultBackends is the built-in closed backend set, used when the
// config file does not declare any. Keys still have to come from env or
// YAML for the backends to be usable.
func defaultBackends() []AIBackend {
	return []AIBackend{
		{
			ID:             "openai",
			Name:           "OpenAI GPT-4o mini",
			Type:           "openai",
			Model:          "gpt-4o-mini",
			AcceptsHistory: true,
			SupportsVision: true,
			Enabled:        true,
		},
		{
			ID:             "anthropic",
			Name:           "Anthropic Claude Haiku",
			Type:           "anthropic",
			Model:          "claude-haiku-4-5-20251001",
			AcceptsHistory: true,
			Enabled:        true,
		},
		{
			ID:              "free",
			Name:            "Community (rate limited)",
			Type:            "openai-compatible",
			Model:           "gpt-4o-mini",
			AcceptsHistory:  false, // single flattened string only
			CooldownSeconds: 20,
			Enabled:         true,
		},
	}
}
