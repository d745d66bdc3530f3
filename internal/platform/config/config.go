// internal/platform/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"icpharvest/internal/core/domain"
	"icpharvest/internal/platform/pacing"
)

// Transport kinds.
const (
	TransportCurl = "curl"
	TransportHTTP = "http"
)

type Config struct {
	Core       Core
	Transport  Transport
	Retry      Retry
	Pacing     Pacing
	Downstream Downstream
	Metrics    Metrics
	UI         UI

	// ConfigPath archivo de configuración cargado (vacío si no hay)
	ConfigPath string
}

type Core struct {
	TargetsFile string // vacío = preguntar de forma interactiva
	BaseURL     string
	PageSize    int
	OutputDir   string
	LogDir      string
}

type Transport struct {
	Kind           string // curl | http
	CurlPath       string
	ProxyURL       string
	ConnectTimeout time.Duration
	Timeout        time.Duration // límite total por intento
}

type Retry struct {
	MaxRetries int // reintentos después del primer intento
	BackoffMin time.Duration
	BackoffMax time.Duration
}

type Pacing struct {
	ResourceBase  time.Duration
	ResourceRange time.Duration
	TargetBase    time.Duration
	TargetRange   time.Duration
}

type Downstream struct {
	Enabled bool
	Script  string
}

type Metrics struct {
	Textfile    string // vacío = no exportar
	SummaryJSON string // vacío = no exportar
}

type UI struct {
	Mode     string // auto | pterm | raw | quiet
	Quiet    bool
	LogLevel string
}

// DefaultConfig retorna una configuración por defecto.
func DefaultConfig() Config {
	return Config{
		Core: Core{
			BaseURL:   "http://127.0.0.1:16181/query",
			PageSize:  1000,
			OutputDir: ".",
			LogDir:    "request_logs",
		},
		Transport: Transport{
			Kind:           TransportCurl,
			CurlPath:       "curl",
			ConnectTimeout: 10 * time.Second,
			Timeout:        60 * time.Second,
		},
		Retry: Retry{
			MaxRetries: 2,
			BackoffMin: 5 * time.Second,
			BackoffMax: 10 * time.Second,
		},
		Pacing: Pacing{
			ResourceBase:  pacing.DefaultResourceDelay.Base,
			ResourceRange: pacing.DefaultResourceDelay.Spread,
			TargetBase:    pacing.DefaultTargetDelay.Base,
			TargetRange:   pacing.DefaultTargetDelay.Spread,
		},
		Downstream: Downstream{
			Enabled: true,
			Script:  "oneforall.sh",
		},
		UI: UI{
			Mode:     "auto",
			LogLevel: "info",
		},
	}
}

// RegisterFlags declara los flags de CLI sobre fs con los valores por defecto.
func RegisterFlags(fs *pflag.FlagSet) {
	d := DefaultConfig()

	fs.String("config", "", "Archivo de configuración (.yaml, .yml o .toml)")
	fs.StringP("targets", "t", d.Core.TargetsFile, "Archivo con un target por línea (vacío = preguntar)")
	fs.String("base-url", d.Core.BaseURL, "Endpoint base del servicio de consulta")
	fs.Int("page-size", d.Core.PageSize, "Tamaño de página solicitado")
	fs.StringP("out", "o", d.Core.OutputDir, "Directorio de los archivos *_results.txt")
	fs.String("log-dir", d.Core.LogDir, "Directorio de logs de peticiones")

	fs.String("transport", d.Transport.Kind, "Transporte de peticiones: curl | http")
	fs.String("curl-path", d.Transport.CurlPath, "Ruta del binario curl")
	fs.StringP("proxy", "p", d.Transport.ProxyURL, "Proxy http(s):// o socks5:// (opcional)")
	fs.Duration("connect-timeout", d.Transport.ConnectTimeout, "Timeout de conexión por intento")
	fs.DurationP("timeout", "T", d.Transport.Timeout, "Timeout total por intento")

	fs.IntP("retries", "r", d.Retry.MaxRetries, "Reintentos por par después del primer intento")
	fs.Duration("backoff-min", d.Retry.BackoffMin, "Espera mínima antes de un reintento")
	fs.Duration("backoff-max", d.Retry.BackoffMax, "Espera máxima antes de un reintento")

	fs.Duration("resource-delay", d.Pacing.ResourceBase, "Espera base entre tipos de recurso")
	fs.Duration("resource-jitter", d.Pacing.ResourceRange, "Variación aleatoria entre tipos de recurso")
	fs.Duration("target-delay", d.Pacing.TargetBase, "Espera base entre targets")
	fs.Duration("target-jitter", d.Pacing.TargetRange, "Variación aleatoria entre targets")

	fs.String("script", d.Downstream.Script, "Script a ejecutar al terminar todos los targets")
	fs.Bool("no-downstream", false, "No ejecutar el script final")

	fs.String("metrics-file", d.Metrics.Textfile, "Exportar métricas Prometheus a este archivo al terminar")
	fs.String("summary-json", d.Metrics.SummaryJSON, "Exportar el resumen de la ejecución en JSON a este archivo")

	fs.String("ui", d.UI.Mode, "Modo de salida: auto | pterm | raw | quiet")

	fs.BoolP("quiet", "q", d.UI.Quiet, "Sin salida de progreso en terminal")
	fs.String("log-level", d.UI.LogLevel, "Nivel de log: debug | info | warn | error")
}

// Load inicializa la configuración: defaults -> archivo -> ENV -> FLAGS (flags tienen prioridad).
// fs debe estar ya parseado. Un fs nil omite los flags.
func Load(fs *pflag.FlagSet) (Config, error) {
	cfg := DefaultConfig()

	if fs != nil {
		if path, err := fs.GetString("config"); err == nil && path != "" {
			cfg.ConfigPath = path
		}
	}
	if cfg.ConfigPath == "" {
		cfg.ConfigPath = getenv("ICPH_CONFIG", "")
	}
	if cfg.ConfigPath != "" {
		if err := loadFromFile(cfg.ConfigPath, &cfg); err != nil {
			return cfg, fmt.Errorf("%w: %v", domain.ErrConfigLoadFailed, err)
		}
	}

	loadFromEnv(&cfg)

	if fs != nil {
		applyFlags(fs, &cfg)
	}

	normalize(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// loadFromEnv carga configuración desde variables de entorno.
func loadFromEnv(cfg *Config) {
	if v := getenv("ICPH_TARGETS", ""); v != "" {
		cfg.Core.TargetsFile = v
	}
	if v := getenv("ICPH_BASE_URL", ""); v != "" {
		cfg.Core.BaseURL = v
	}
	if v := getenv("ICPH_PAGE_SIZE", ""); v != "" {
		cfg.Core.PageSize = parseInt(v, cfg.Core.PageSize)
	}
	if v := getenv("ICPH_OUTPUT_DIR", ""); v != "" {
		cfg.Core.OutputDir = v
	}
	if v := getenv("ICPH_LOG_DIR", ""); v != "" {
		cfg.Core.LogDir = v
	}

	if v := getenv("ICPH_TRANSPORT", ""); v != "" {
		cfg.Transport.Kind = v
	}
	if v := getenv("ICPH_CURL_PATH", ""); v != "" {
		cfg.Transport.CurlPath = v
	}
	if v := getenv("ICPH_PROXY_URL", ""); v != "" {
		cfg.Transport.ProxyURL = v
	}
	if v := getenv("ICPH_CONNECT_TIMEOUT", ""); v != "" {
		cfg.Transport.ConnectTimeout = parseDuration(v, cfg.Transport.ConnectTimeout)
	}
	if v := getenv("ICPH_TIMEOUT", ""); v != "" {
		cfg.Transport.Timeout = parseDuration(v, cfg.Transport.Timeout)
	}

	if v := getenv("ICPH_MAX_RETRIES", ""); v != "" {
		cfg.Retry.MaxRetries = parseInt(v, cfg.Retry.MaxRetries)
	}
	if v := getenv("ICPH_BACKOFF_MIN", ""); v != "" {
		cfg.Retry.BackoffMin = parseDuration(v, cfg.Retry.BackoffMin)
	}
	if v := getenv("ICPH_BACKOFF_MAX", ""); v != "" {
		cfg.Retry.BackoffMax = parseDuration(v, cfg.Retry.BackoffMax)
	}

	if v := getenv("ICPH_RESOURCE_DELAY", ""); v != "" {
		cfg.Pacing.ResourceBase = parseDuration(v, cfg.Pacing.ResourceBase)
	}
	if v := getenv("ICPH_RESOURCE_JITTER", ""); v != "" {
		cfg.Pacing.ResourceRange = parseDuration(v, cfg.Pacing.ResourceRange)
	}
	if v := getenv("ICPH_TARGET_DELAY", ""); v != "" {
		cfg.Pacing.TargetBase = parseDuration(v, cfg.Pacing.TargetBase)
	}
	if v := getenv("ICPH_TARGET_JITTER", ""); v != "" {
		cfg.Pacing.TargetRange = parseDuration(v, cfg.Pacing.TargetRange)
	}

	if v := getenv("ICPH_SCRIPT", ""); v != "" {
		cfg.Downstream.Script = v
	}
	if v := getenv("ICPH_DOWNSTREAM", ""); v != "" {
		cfg.Downstream.Enabled = parseBool(v)
	}

	if v := getenv("ICPH_METRICS_FILE", ""); v != "" {
		cfg.Metrics.Textfile = v
	}

	if v := getenv("ICPH_SUMMARY_JSON", ""); v != "" {
		cfg.Metrics.SummaryJSON = v
	}

	if v := getenv("ICPH_UI", ""); v != "" {
		cfg.UI.Mode = v
	}
	if v := getenv("ICPH_QUIET", ""); v != "" {
		cfg.UI.Quiet = parseBool(v)
	}
	if v := getenv("ICPH_LOG_LEVEL", ""); v != "" {
		cfg.UI.LogLevel = v
	}
}

// applyFlags aplica solo los flags que el usuario estableció explícitamente.
func applyFlags(fs *pflag.FlagSet, cfg *Config) {
	str := func(name string, dst *string) {
		if fs.Changed(name) {
			if v, err := fs.GetString(name); err == nil {
				*dst = v
			}
		}
	}
	num := func(name string, dst *int) {
		if fs.Changed(name) {
			if v, err := fs.GetInt(name); err == nil {
				*dst = v
			}
		}
	}
	dur := func(name string, dst *time.Duration) {
		if fs.Changed(name) {
			if v, err := fs.GetDuration(name); err == nil {
				*dst = v
			}
		}
	}
	flag := func(name string, dst *bool) {
		if fs.Changed(name) {
			if v, err := fs.GetBool(name); err == nil {
				*dst = v
			}
		}
	}

	str("targets", &cfg.Core.TargetsFile)
	str("base-url", &cfg.Core.BaseURL)
	num("page-size", &cfg.Core.PageSize)
	str("out", &cfg.Core.OutputDir)
	str("log-dir", &cfg.Core.LogDir)

	str("transport", &cfg.Transport.Kind)
	str("curl-path", &cfg.Transport.CurlPath)
	str("proxy", &cfg.Transport.ProxyURL)
	dur("connect-timeout", &cfg.Transport.ConnectTimeout)
	dur("timeout", &cfg.Transport.Timeout)

	num("retries", &cfg.Retry.MaxRetries)
	dur("backoff-min", &cfg.Retry.BackoffMin)
	dur("backoff-max", &cfg.Retry.BackoffMax)

	dur("resource-delay", &cfg.Pacing.ResourceBase)
	dur("resource-jitter", &cfg.Pacing.ResourceRange)
	dur("target-delay", &cfg.Pacing.TargetBase)
	dur("target-jitter", &cfg.Pacing.TargetRange)

	str("script", &cfg.Downstream.Script)
	if fs.Changed("no-downstream") {
		if v, err := fs.GetBool("no-downstream"); err == nil {
			cfg.Downstream.Enabled = !v
		}
	}

	str("metrics-file", &cfg.Metrics.Textfile)
	str("summary-json", &cfg.Metrics.SummaryJSON)

	str("ui", &cfg.UI.Mode)

	flag("quiet", &cfg.UI.Quiet)
	str("log-level", &cfg.UI.LogLevel)
}

func normalize(c *Config) {
	c.Core.TargetsFile = strings.TrimSpace(c.Core.TargetsFile)
	c.Core.BaseURL = strings.TrimRight(strings.TrimSpace(c.Core.BaseURL), "/")
	if c.Core.OutputDir == "" {
		c.Core.OutputDir = "."
	}
	if c.Core.LogDir == "" {
		c.Core.LogDir = "request_logs"
	}
	c.Transport.Kind = strings.ToLower(strings.TrimSpace(c.Transport.Kind))
	if c.Transport.CurlPath == "" {
		c.Transport.CurlPath = "curl"
	}
	c.UI.Mode = strings.ToLower(strings.TrimSpace(c.UI.Mode))
	if c.UI.Mode == "" {
		c.UI.Mode = "auto"
	}
	if c.UI.Quiet {
		c.UI.Mode = "quiet"
	}
	c.UI.LogLevel = strings.ToLower(strings.TrimSpace(c.UI.LogLevel))
}

// Validate verifica la coherencia de la configuración.
func (c Config) Validate() error {
	var problems []string

	u, err := url.Parse(c.Core.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		problems = append(problems, fmt.Sprintf("base url %q must be absolute", c.Core.BaseURL))
	}
	if c.Core.PageSize <= 0 {
		problems = append(problems, "page size must be positive")
	}
	if c.Transport.Kind != TransportCurl && c.Transport.Kind != TransportHTTP {
		problems = append(problems, fmt.Sprintf("unknown transport %q (curl|http)", c.Transport.Kind))
	}
	if c.Transport.ConnectTimeout <= 0 || c.Transport.Timeout <= 0 {
		problems = append(problems, "timeouts must be positive")
	}
	if c.Transport.ProxyURL != "" {
		if p, err := url.Parse(c.Transport.ProxyURL); err != nil || p.Scheme == "" || p.Host == "" {
			problems = append(problems, fmt.Sprintf("proxy url %q is invalid", c.Transport.ProxyURL))
		}
	}
	if c.Retry.MaxRetries < 0 {
		problems = append(problems, "retries must be >= 0")
	}
	if c.Retry.BackoffMin < 0 || c.Retry.BackoffMax < c.Retry.BackoffMin {
		problems = append(problems, "backoff window must satisfy 0 <= min <= max")
	}
	for _, r := range []pacing.Range{c.ResourceDelay(), c.TargetDelay()} {
		if err := r.Validate(); err != nil {
			problems = append(problems, err.Error())
		}
	}

	switch c.UI.Mode {
	case "auto", "pterm", "raw", "quiet":
	default:
		problems = append(problems, fmt.Sprintf("unknown ui mode %q (auto|pterm|raw|quiet)", c.UI.Mode))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// BackoffRange retorna la ventana de espera entre reintentos.
func (c Config) BackoffRange() pacing.Range {
	return pacing.Between(c.Retry.BackoffMin, c.Retry.BackoffMax)
}

// ResourceDelay retorna la ventana de espera entre tipos de recurso.
func (c Config) ResourceDelay() pacing.Range {
	return pacing.Range{Base: c.Pacing.ResourceBase, Spread: c.Pacing.ResourceRange}
}

// TargetDelay retorna la ventana de espera entre targets.
func (c Config) TargetDelay() pacing.Range {
	return pacing.Range{Base: c.Pacing.TargetBase, Spread: c.Pacing.TargetRange}
}

// ToJSON serializa la configuración a JSON (útil para debugging).
func (c Config) ToJSON() (string, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Helpers

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok {
		return v
	}
	return def
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "t", "true", "y", "yes", "on":
		return true
	default:
		return false
	}
}

func parseInt(v string, def int) int {
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return i
}

// parseDuration acepta "90s", "1m30s" o segundos enteros ("90").
func parseDuration(v string, def time.Duration) time.Duration {
	v = strings.TrimSpace(v)
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return def
}
