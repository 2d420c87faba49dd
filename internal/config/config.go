package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pollahq/polla-champions/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                     string
	ServiceName                string
	ServiceVersion             string
	HTTPAddr                   string
	DBURL                      string
	DBDisablePreparedBinary    bool
	CacheEnabled               bool
	CacheTTL                   time.Duration
	CORSAllowedOrigins         []string
	ReadTimeout                time.Duration
	WriteTimeout               time.Duration
	PprofEnabled               bool
	PprofAddr                  string
	UptraceEnabled             bool
	UptraceDSN                 string
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
	UEFAStandingsURLByID       map[string]string
	UEFATimeout                time.Duration
	UEFAMaxRetries             int
	UEFACircuitEnabled         bool
	UEFACircuitFailureCount    int
	UEFACircuitOpenTimeout     time.Duration
	UEFACircuitHalfOpenMaxReq  int
	FallbackTableEnabled       bool
	DefaultCompetitionID       string
	MatchThreshold             int
	MatchScorer                string
	TeamAliases                map[string][]string
	ParticipantsFile           string
	InternalJobToken           string
	RefreshEnabled             bool
	RefreshSchedule            string
	RefreshWorkers             int
	RefreshWriteSnapshot       bool
	LogLevel                   logging.Level
}

const (
	ScorerLevenshtein = "levenshtein"
	ScorerSubstring   = "substring"

	defaultStandingsURLMap = "ucl=https://www.uefa.com/uefachampionsleague/standings/"
)

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	standingsURLByID, err := parseURLMap(getEnv("UEFA_STANDINGS_URL_MAP", defaultStandingsURLMap))
	if err != nil {
		return Config{}, fmt.Errorf("parse UEFA_STANDINGS_URL_MAP: %w", err)
	}
	if len(standingsURLByID) == 0 {
		return Config{}, fmt.Errorf("UEFA_STANDINGS_URL_MAP cannot be empty")
	}

	uefaTimeout, err := time.ParseDuration(getEnv("UEFA_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UEFA_TIMEOUT: %w", err)
	}
	if uefaTimeout <= 0 {
		return Config{}, fmt.Errorf("UEFA_TIMEOUT must be > 0")
	}
	uefaMaxRetries, err := getEnvAsInt("UEFA_MAX_RETRIES", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse UEFA_MAX_RETRIES: %w", err)
	}
	if uefaMaxRetries < 0 {
		return Config{}, fmt.Errorf("UEFA_MAX_RETRIES must be >= 0")
	}
	uefaCircuitEnabled, err := strconv.ParseBool(getEnv("UEFA_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UEFA_CIRCUIT_ENABLED: %w", err)
	}
	uefaCircuitFailureCount, err := getEnvAsInt("UEFA_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse UEFA_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if uefaCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("UEFA_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	uefaCircuitOpenTimeout, err := time.ParseDuration(getEnv("UEFA_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UEFA_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if uefaCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("UEFA_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	uefaCircuitHalfOpenMaxReq, err := getEnvAsInt("UEFA_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse UEFA_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if uefaCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("UEFA_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	fallbackEnabled, err := strconv.ParseBool(getEnv("FALLBACK_TABLE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FALLBACK_TABLE_ENABLED: %w", err)
	}

	defaultCompetitionID := strings.TrimSpace(getEnv("DEFAULT_COMPETITION_ID", "ucl"))
	if _, ok := standingsURLByID[defaultCompetitionID]; !ok {
		return Config{}, fmt.Errorf("DEFAULT_COMPETITION_ID %q missing from UEFA_STANDINGS_URL_MAP", defaultCompetitionID)
	}

	matchThreshold, err := getEnvAsInt("MATCH_THRESHOLD", 72)
	if err != nil {
		return Config{}, fmt.Errorf("parse MATCH_THRESHOLD: %w", err)
	}
	if matchThreshold < 1 || matchThreshold > 100 {
		return Config{}, fmt.Errorf("MATCH_THRESHOLD must be between 1 and 100")
	}
	matchScorer := strings.ToLower(strings.TrimSpace(getEnv("MATCH_SCORER", ScorerLevenshtein)))
	if matchScorer != ScorerLevenshtein && matchScorer != ScorerSubstring {
		return Config{}, fmt.Errorf("invalid MATCH_SCORER %q: valid values are %s, %s", matchScorer, ScorerLevenshtein, ScorerSubstring)
	}

	teamAliases, err := parseAliasMap(getEnv("TEAM_ALIASES", ""))
	if err != nil {
		return Config{}, fmt.Errorf("parse TEAM_ALIASES: %w", err)
	}

	refreshEnabled, err := strconv.ParseBool(getEnv("REFRESH_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse REFRESH_ENABLED: %w", err)
	}
	refreshSchedule := strings.TrimSpace(getEnv("REFRESH_SCHEDULE", "@every 15m"))
	if refreshEnabled && refreshSchedule == "" {
		return Config{}, fmt.Errorf("REFRESH_SCHEDULE is required when REFRESH_ENABLED=true")
	}
	refreshWorkers, err := getEnvAsInt("REFRESH_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse REFRESH_WORKERS: %w", err)
	}
	if refreshWorkers < 1 {
		return Config{}, fmt.Errorf("REFRESH_WORKERS must be >= 1")
	}
	refreshWriteSnapshot, err := strconv.ParseBool(getEnv("REFRESH_WRITE_SNAPSHOT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse REFRESH_WRITE_SNAPSHOT: %w", err)
	}

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}

	cfg := Config{
		AppEnv:                     appEnv,
		ServiceName:                getEnv("APP_SERVICE_NAME", "polla-champions-api"),
		ServiceVersion:             getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                   getEnv("APP_HTTP_ADDR", ":8080"),
		DBURL:                      strings.TrimSpace(getEnv("DB_URL", "")),
		DBDisablePreparedBinary:    dbDisablePreparedBinary,
		CacheEnabled:               cacheEnabled,
		CacheTTL:                   cacheTTL,
		CORSAllowedOrigins:         splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		ReadTimeout:                readTimeout,
		WriteTimeout:               writeTimeout,
		PprofEnabled:               pprofEnabled,
		PprofAddr:                  pprofAddr,
		UptraceEnabled:             uptraceEnabled,
		UptraceDSN:                 uptraceDSN,
		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,
		UEFAStandingsURLByID:       standingsURLByID,
		UEFATimeout:                uefaTimeout,
		UEFAMaxRetries:             uefaMaxRetries,
		UEFACircuitEnabled:         uefaCircuitEnabled,
		UEFACircuitFailureCount:    uefaCircuitFailureCount,
		UEFACircuitOpenTimeout:     uefaCircuitOpenTimeout,
		UEFACircuitHalfOpenMaxReq:  uefaCircuitHalfOpenMaxReq,
		FallbackTableEnabled:       fallbackEnabled,
		DefaultCompetitionID:       defaultCompetitionID,
		MatchThreshold:             matchThreshold,
		MatchScorer:                matchScorer,
		TeamAliases:                teamAliases,
		ParticipantsFile:           strings.TrimSpace(getEnv("PARTICIPANTS_FILE", "")),
		InternalJobToken:           strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),
		RefreshEnabled:             refreshEnabled,
		RefreshSchedule:            refreshSchedule,
		RefreshWorkers:             refreshWorkers,
		RefreshWriteSnapshot:       refreshWriteSnapshot,
		LogLevel:                   parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	return cfg, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

// parseURLMap reads comma separated competition_id=url items.
func parseURLMap(raw string) (map[string]string, error) {
	out := make(map[string]string)
	parts := strings.Split(raw, ",")
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}

		segments := strings.SplitN(item, "=", 2)
		if len(segments) != 2 {
			return nil, fmt.Errorf("invalid map item %q, expected competition_id=url", item)
		}

		key := strings.TrimSpace(segments[0])
		if key == "" {
			return nil, fmt.Errorf("empty competition id in item %q", item)
		}
		value := strings.TrimSpace(segments[1])
		if !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
			return nil, fmt.Errorf("invalid url in item %q: expected http or https scheme", item)
		}

		out[key] = value
	}
	return out, nil
}

// parseAliasMap reads semicolon separated alias=canonical items. The same
// alias may map to several canonical names.
func parseAliasMap(raw string) (map[string][]string, error) {
	out := make(map[string][]string)
	parts := strings.Split(raw, ";")
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}

		segments := strings.SplitN(item, "=", 2)
		if len(segments) != 2 {
			return nil, fmt.Errorf("invalid alias item %q, expected alias=canonical", item)
		}

		alias := strings.TrimSpace(segments[0])
		canonical := strings.TrimSpace(segments[1])
		if alias == "" || canonical == "" {
			return nil, fmt.Errorf("empty alias or canonical name in item %q", item)
		}

		out[alias] = append(out[alias], canonical)
	}
	return out, nil
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
