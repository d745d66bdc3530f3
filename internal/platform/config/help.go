// internal/platform/config/help.go
package config

import (
	"fmt"
	"runtime"
)

// LongHelp texto extendido para el comando raíz (cobra genera USAGE/FLAGS).
const LongHelp = `icpharvest - batch ICP record harvester

Queries a local aggregation service for every target and resource type
(web, app, mapp), one request at a time with randomized pauses, and appends
the extracted domains / service names to <resource>_results.txt.

ORDER:
  For each target: web -> app -> mapp, then wait before the next target.
  Failed requests are retried (default 2 retries) after a 5-10s pause.

CONFIGURATION PRECEDENCE:
  defaults < config file (--config, .yaml/.toml) < ICPH_* env vars < flags

ENVIRONMENT VARIABLES:
  ICPH_CONFIG            Config file path
  ICPH_TARGETS           Targets file (one per line)
  ICPH_BASE_URL          Query endpoint (default: http://127.0.0.1:16181/query)
  ICPH_PAGE_SIZE         Requested page size (default: 1000)
  ICPH_OUTPUT_DIR        Results directory (default: .)
  ICPH_LOG_DIR           Request log directory (default: request_logs)
  ICPH_TRANSPORT         curl | http (default: curl)
  ICPH_CURL_PATH         curl binary (default: curl)
  ICPH_PROXY_URL         http(s):// or socks5:// proxy
  ICPH_CONNECT_TIMEOUT   Connect timeout (default: 10s)
  ICPH_TIMEOUT           Per-attempt timeout (default: 60s)
  ICPH_MAX_RETRIES       Retries after the first attempt (default: 2)
  ICPH_BACKOFF_MIN       Minimum retry pause (default: 5s)
  ICPH_BACKOFF_MAX       Maximum retry pause (default: 10s)
  ICPH_RESOURCE_DELAY    Base pause between resource types (default: 20s)
  ICPH_RESOURCE_JITTER   Random extra pause between resource types (default: 10s)
  ICPH_TARGET_DELAY      Base pause between targets (default: 100s)
  ICPH_TARGET_JITTER     Random extra pause between targets (default: 50s)
  ICPH_SCRIPT            Script to run after the batch (default: oneforall.sh)
  ICPH_DOWNSTREAM        Run the script at the end (default: true)
  ICPH_METRICS_FILE      Write Prometheus metrics to this file
  ICPH_SUMMARY_JSON      Write the run summary as JSON to this file
  ICPH_UI                auto | pterm | raw | quiet (default: auto)
  ICPH_QUIET             Disable terminal progress output
  ICPH_LOG_LEVEL         debug | info | warn | error`

// Example ejemplos de uso para el comando raíz.
const Example = `  icpharvest -t targets.txt
  icpharvest -t targets.txt --transport http -p socks5://127.0.0.1:1080
  icpharvest -t targets.txt --target-delay 30s --target-jitter 10s --no-downstream
  icpharvest --config icpharvest.toml --metrics-file run.prom
  icpharvest -t targets.txt --ui raw --summary-json run.json | tee run.log`

// VersionString formatea la información de versión.
func VersionString(version, commit, date string) string {
	return fmt.Sprintf("icpharvest %s (commit %s, built %s, %s %s/%s)",
		version, commit, date, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
