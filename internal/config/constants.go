package config

const (
	// Capture Defaults
	DefaultCapturePageURL         = "https://scvsar.team-manager.us.d4h.com/team/incidents"
	DefaultCaptureAPIPrefix       = "https://scvsar.team-manager.us.d4h.com/api/v3"
	DefaultCaptureSettleDelayMs   = 5000
	DefaultCapturePostNudgeMs     = 3000
	DefaultCaptureMaxLoggedURLs   = 10
	DefaultCaptureRequesterHeader = "x-d4h-requester"

	// Browser Defaults
	DefaultBrowserWindowWidth         = 1280
	DefaultBrowserWindowHeight        = 900
	DefaultBrowserPageLoadTimeoutSecs = 60

	// HTTP Client Defaults
	DefaultHTTPClientTimeoutSecs  = 0
	DefaultHTTPClientMaxRedirects = 10

	// Harvest Defaults
	DefaultHarvestResource   = "/incidents"
	DefaultHarvestQueryParam = "passthrough"
	DefaultHarvestAfter      = "2018-01-01T00:00:00.000Z"
	DefaultHarvestBefore     = "2026-12-31T00:00:00.000Z"
	DefaultHarvestSort       = "startsAt"
	DefaultHarvestOrder      = "asc"
	DefaultHarvestMaxPages   = 100
	DefaultHarvestOutputPath = "incidents.json"

	// Storage Defaults
	DefaultStorageCredentialsPath  = ""
	DefaultStorageHistoryDBPath    = ""
	DefaultStorageCompressionCodec = "zstd"

	// Log Defaults
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultLogFile       = ""
	DefaultMaxLogSizeMB  = 100
	DefaultMaxLogBackups = 3

	// ConfigPathEnv names the environment variable consulted for a config file.
	ConfigPathEnv = "INCIDENTHARVEST_CONFIG"
)

// DefaultHeaderAllowlist is the set of request headers replayed outside the browser.
var DefaultHeaderAllowlist = []string{
	"x-d4h-requester",
	"accept",
	"user-agent",
	"x-csrf-token",
	"referer",
	"authorization",
}

// DefaultCandidatePageSizes are probed in order during page-size discovery.
var DefaultCandidatePageSizes = []int{50, 100, 200, 500, 1000}
