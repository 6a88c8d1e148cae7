package config

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int                `yaml:"port"`
	DSN            string             `yaml:"dsn"` // MySQL DSN
	RedisURL       string             `yaml:"redis_url"`
	Env            string             `yaml:"env"` // "development" | "production"
	AllowedOrigins []string           `yaml:"allowed_origins"`
	JWTSecret      string             `yaml:"jwt_secret"`
	Timezone       string             `yaml:"timezone"`
	Paths          RuntimePathsConfig `yaml:"paths"`
	PDFCo          PDFCoConfig        `yaml:"pdfco"`
	Storage        S3Options          `yaml:"storage"`
	AI             AIConfig           `yaml:"ai"`
	Extraction     ExtractionConfig   `yaml:"extraction"`
	Proxy          ProxyConfig        `yaml:"proxy"`
}

type RuntimePathsConfig struct {
	Logs   string `yaml:"logs"`
	Static string `yaml:"static"`
}

// PDFCoConfig is the hosted document-conversion API credential.
type PDFCoConfig struct {
	APIKey   string `yaml:"api_key"`
	Endpoint string `yaml:"endpoint"`
}

// S3Options configures the document object store.
type S3Options struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	PathStyleAccess bool   `yaml:"path_style_access"`
	PublicBaseURL   string `yaml:"public_base_url"`
}

// AIBackend is one entry of the closed LLM backend set.
type AIBackend struct {
	ID              string `yaml:"id"`
	Name            string `yaml:"name"`
	Type            string `yaml:"type"` // openai | anthropic | openai-compatible
	Endpoint        string `yaml:"endpoint"`
	APIKey          string `yaml:"api_key"`
	Model           string `yaml:"model"`
	AcceptsHistory  bool   `yaml:"accepts_history"`
	SupportsVision  bool   `yaml:"supports_vision"`
	CooldownSeconds int    `yaml:"cooldown_seconds"` // >0 marks a rate-limited backend
	Enabled         bool   `yaml:"enabled"`
}

type AIConfig struct {
	DefaultBackend string      `yaml:"default_backend"`
	Backends       []AIBackend `yaml:"backends"`
}

// ExtractionConfig carries the pipeline thresholds. The heuristic cutoffs
// are empirically chosen on sample certificate-style PDFs; override them
// here rather than re-deriving.
type ExtractionConfig struct {
	MinAcceptLength     int `yaml:"min_accept_length"`
	FooterMaxLength     int `yaml:"footer_max_length"`
	MostlyLinkMaxLength int `yaml:"mostly_link_max_length"`
	NonURLFloor         int `yaml:"non_url_floor"`
	MaxOCRPages         int `yaml:"max_ocr_pages"`
	OCRDPI              int `yaml:"ocr_dpi"`
}

// ProxyConfig bounds the same-origin fetch proxy.
type ProxyConfig struct {
	MaxFetchMB int `yaml:"max_fetch_mb"`
}

type rawAppConfig struct {
	Port               int                `yaml:"port"`
	DSN                string             `yaml:"dsn"`
	DatabaseURL        string             `yaml:"database_url"`
	Database           rawDatabaseConfig  `yaml:"database"`
	RedisURL           string             `yaml:"redis_url"`
	Redis              rawRedisConfig     `yaml:"redis"`
	Env                string             `yaml:"env"`
	AllowedOrigins     []string           `yaml:"allowed_origins"`
	CORSAllowedOrigins []string           `yaml:"cors_allowed_origins"`
	JWTSecret          string             `yaml:"jwt_secret"`
	Timezone           string             `yaml:"timezone"`
	TZ                 string             `yaml:"tz"`
	Paths              RuntimePathsConfig `yaml:"paths"`
	PDFCo              PDFCoConfig        `yaml:"pdfco"`
	Storage            S3Options          `yaml:"storage"`
	AI                 AIConfig           `yaml:"ai"`
	Extraction         ExtractionConfig   `yaml:"extraction"`
	Proxy              ProxyConfig        `yaml:"proxy"`
}

type rawDatabaseConfig struct {
	DSN      string `yaml:"dsn"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	DBName   string `yaml:"db_name"`
	Charset  string `yaml:"charset"`
	Loc      string `yaml:"loc"`
}

type rawRedisConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DB       *int   `yaml:"db"`
}
