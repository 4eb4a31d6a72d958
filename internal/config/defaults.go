package config

const (
	defaultDataDir               = "~/.local/share/questlog"
	defaultLogDir                = "~/.local/share/questlog/logs"
	defaultBackupDir             = "~/.local/share/questlog/backups"
	defaultCatalogBaseURL        = "https://api.igdb.com/v4"
	defaultCatalogTokenURL       = "https://id.twitch.tv/oauth2/token"
	defaultCatalogTimeout        = 15
	defaultCriticsBaseURL        = "https://api.opencritic.com/api"
	defaultCriticsRPS            = 2
	defaultCriticsMaxRetries     = 2
	defaultReviewSiteBaseURL     = "https://www.metacritic.com"
	defaultReviewSiteUserAgent   = "Mozilla/5.0 (X11; Linux x86_64) questlog"
	defaultEnrichmentConcurrency = 4
	defaultEnrichmentTimeout     = 30
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
)

var (
	defaultPressSelectors = []string{
		`[data-testid="critic-score-info"] .c-siteReviewScore span`,
		`.c-productScoreInfo_scoreNumber .c-siteReviewScore span`,
		`.metascore_w.xlarge.game span`,
		`.metascore_w.game`,
	}
	defaultUserSelectors = []string{
		`[data-testid="user-score-info"] .c-siteReviewScore span`,
		`.c-siteReviewScore_user span`,
		`.metascore_w.user.large.game`,
		`.metascore_w.user`,
	}
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:   defaultDataDir,
			LogDir:    defaultLogDir,
			BackupDir: defaultBackupDir,
		},
		Catalog: Catalog{
			BaseURL:        defaultCatalogBaseURL,
			TokenURL:       defaultCatalogTokenURL,
			TimeoutSeconds: defaultCatalogTimeout,
		},
		Critics: Critics{
			BaseURL:           defaultCriticsBaseURL,
			RequestsPerSecond: defaultCriticsRPS,
			MaxRetries:        defaultCriticsMaxRetries,
		},
		ReviewSite: ReviewSite{
			BaseURL:        defaultReviewSiteBaseURL,
			UserAgent:      defaultReviewSiteUserAgent,
			PressSelectors: append([]string(nil), defaultPressSelectors...),
			UserSelectors:  append([]string(nil), defaultUserSelectors...),
		},
		Enrichment: Enrichment{
			Concurrency:    defaultEnrichmentConcurrency,
			RequestTimeout: defaultEnrichmentTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
