package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML config at path and normalizes it. A missing file
// is not an error: everything has a development default.
func Load(path string) (*AppConfig, error) {
	raw := rawAppConfig{}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return normalize(&raw), nil
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool {
	return strings.EqualFold(strings.TrimSpace(c.Env), defaultEnv) || c.Env == ""
}

// LogDir returns the configured log directory, may be empty.
func (c *AppConfig) LogDir() string { return strings.TrimSpace(c.Paths.Logs) }

func normalize(raw *rawAppConfig) *AppConfig {
	cfg := &AppConfig{
		Port:       raw.Port,
		Env:        strings.TrimSpace(raw.Env),
		JWTSecret:  strings.TrimSpace(raw.JWTSecret),
		Paths:      raw.Paths,
		PDFCo:      raw.PDFCo,
		Storage:    raw.Storage,
		AI:         raw.AI,
		Extraction: raw.Extraction,
		Proxy:      raw.Proxy,
	}

	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.Env == "" {
		cfg.Env = defaultEnv
	}

	cfg.AllowedOrigins = raw.AllowedOrigins
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = raw.CORSAllowedOrigins
	}

	cfg.Timezone = strings.TrimSpace(raw.Timezone)
	if cfg.Timezone == "" {
		cfg.Timezone = strings.TrimSpace(raw.TZ)
	}

	cfg.DSN = resolveDSN(raw)
	cfg.RedisURL = resolveRedisURL(raw)

	if key := strings.TrimSpace(os.Getenv(EnvPDFCoAPIKey)); key != "" {
		cfg.PDFCo.APIKey = key
	}
	if strings.TrimSpace(cfg.PDFCo.Endpoint) == "" {
		cfg.PDFCo.Endpoint = DefaultPDFCoEndpoint
	}

	normalizeExtraction(&cfg.Extraction)
	if cfg.Proxy.MaxFetchMB <= 0 {
		cfg.Proxy.MaxFetchMB = DefaultProxyMaxFetchMB
	}
	normalizeAI(&cfg.AI)

	return cfg
}

func resolveDSN(raw *rawAppConfig) string {
	if dsn := strings.TrimSpace(raw.DSN); dsn != "" {
		return dsn
	}
	if dsn := strings.TrimSpace(raw.Database.DSN); dsn != "" {
		return dsn
	}
	if dsn := strings.TrimSpace(raw.DatabaseURL); dsn != "" {
		return dsn
	}

	host := firstNonEmpty(raw.Database.Host, defaultDBHost)
	port := raw.Database.Port
	if port == 0 {
		port = defaultDBPort
	}
	user := firstNonEmpty(raw.Database.User, raw.Database.Username, defaultDBUser)
	password := firstNonEmpty(raw.Database.Password, defaultDBPassword)
	name := firstNonEmpty(raw.Database.Name, raw.Database.DBName, defaultDBName)
	charset := firstNonEmpty(raw.Database.Charset, defaultDBCharset)
	loc := firstNonEmpty(raw.Database.Loc, defaultDBLoc)

	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=%s",
		user, password, host, port, name, charset, loc)
}

func resolveRedisURL(raw *rawAppConfig) string {
	if url := strings.TrimSpace(raw.RedisURL); url != "" {
		return url
	}
	if url := strings.TrimSpace(raw.Redis.URL); url != "" {
		return url
	}

	host := firstNonEmpty(raw.Redis.Host, defaultRedisHost)
	port := raw.Redis.Port
	if port == 0 {
		port = defaultRedisPort
	}
	db := defaultRedisDB
	if raw.Redis.DB != nil {
		db = *raw.Redis.DB
	}

	auth := ""
	if raw.Redis.Password != "" {
		auth = fmt.Sprintf("%s:%s@", raw.Redis.Username, raw.Redis.Password)
	}
	return fmt.Sprintf("redis://%s%s:%d/%d", auth, host, port, db)
}

func normalizeExtraction(e *ExtractionConfig) {
	if e.MinAcceptLength <= 0 {
		e.MinAcceptLength = DefaultMinAcceptLength
	}
	if e.FooterMaxLength <= 0 {
		e.FooterMaxLength = DefaultFooterMaxLength
	}
	if e.MostlyLinkMaxLength <= 0 {
		e.MostlyLinkMaxLength = DefaultMostlyLinkMaxLength
	}
	if e.NonURLFloor <= 0 {
		e.NonURLFloor = DefaultNonURLFloor
	}
	if e.MaxOCRPages <= 0 {
		e.MaxOCRPages = DefaultMaxOCRPages
	}
	if e.OCRDPI <= 0 {
		e.OCRDPI = DefaultOCRDPI
	}
}

func normalizeAI(ai *AIConfig) {
	if len(ai.Backends) == 0 {
		ai.Backends = defaultBackends()
	}
	for i := range ai.Backends {
		b := &ai.Backends[i]
		b.ID = strings.TrimSpace(b.ID)
		b.Type = strings.ToLower(strings.TrimSpace(b.Type))
		if envKey := backendEnvKey(b.ID); envKey != "" {
			if key := strings.TrimSpace(os.Getenv(envKey)); key != "" {
				b.APIKey = key
			}
		}
	}
	if ai.DefaultBackend == "" {
		for _, b := range ai.Backends {
			if b.Enabled {
				ai.DefaultBackend = b.ID
				break
			}
		}
	}
}

// backendEnvKey maps a backend id to its credential env var, e.g.
// "openai" -> RH_AI_KEY_OPENAI.
func backendEnvKey(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return ""
	}
	id = strings.ToUpper(strings.ReplaceAll(id, "-", "_"))
	return "RH_AI_KEY_" + id
}

// Backend returns the enabled backend with the given id, or nil.
func (ai *AIConfig) Backend(id string) *AIBackend {
	id = strings.TrimSpace(id)
	if id == "" {
		id = ai.DefaultBackend
	}
	for i := range ai.Backends {
		if ai.Backends[i].Enabled && ai.Backends[i].ID == id {
			return &ai.Backends[i]
		}
	}
	return nil
}

// VisionBackend returns the first enabled vision-capable backend, or nil.
func (ai *AIConfig) VisionBackend() *AIBackend {
	for i := range ai.Backends {
		if ai.Backends[i].Enabled && ai.Backends[i].SupportsVision {
			return &ai.Backends[i]
		}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
