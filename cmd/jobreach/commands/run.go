package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"jobreach/internal/artifact"
	"jobreach/internal/deliver"
	"jobreach/internal/feed"
	"jobreach/internal/feed/roddriver"
	"jobreach/internal/ledger"
	"jobreach/internal/runner"
	"jobreach/lib/linkedin/session"
	"jobreach/lib/util/serviceutil"

	"github.com/spf13/cobra"
)

var maxPosts *int

func init() {
	maxPosts = runCmd.Flags().Int("max-posts", -1, "Override the per-query post cap from the config, 0 means unbounded.")
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Traverses the configured queries, extracts addresses and sends applications.",
	Run: func(cmd *cobra.Command, args []string) {
		runPipeline(cmd.Context(), runner.ModeFull)
	},
}

// openBrowser launches the browsing session. when the saved cookies no
// longer carry a live session, it falls back to a manual login in the
// headed browser window.
func openBrowser(ctx context.Context, cfg Config) *roddriver.Driver {
	store := session.Store{Path: cfg.CookiePath}

	loggedIn := false
	cookies, err := store.Load()
	if err != nil {
		slog.Warn("failed to load saved cookies", "err", err)
	}
	if len(cookies) > 0 {
		probe, err := session.NewProbe(cookies)
		if err != nil {
			serviceutil.Fatal("failed to initialize session probe", err)
		}
		ok, err := probe.LoggedIn(ctx)
		if err != nil {
			slog.Warn("session probe failed, assuming stale session", "err", err)
		} else {
			loggedIn = ok
		}
	}

	driver, err := roddriver.New(ctx, roddriver.Options{
		Headless:    cfg.Browser.Headless,
		Bin:         cfg.Browser.Bin,
		CookieStore: store,
		ScrollPause: cfg.scrollPause(),
	})
	if err != nil {
		serviceutil.Fatal("failed to launch browser", err)
	}

	if !loggedIn {
		if cfg.Browser.Headless {
			driver.Close()
			serviceutil.Fatal(
				"no live session, run once with browser.headless=false to log in",
				errors.New("saved session is stale or missing"))
		}
		loginCtx, cancel := context.WithTimeout(ctx, time.Minute*5)
		defer cancel()
		err := driver.WaitForLogin(loginCtx)
		if err != nil {
			driver.Close()
			serviceutil.Fatal("failed to complete login", err)
		}
	}
	return driver
}

func runPipeline(ctx context.Context, mode runner.Mode) {
	cfg, err := loadConfig()
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	if *maxPosts >= 0 {
		cfg.MaxPosts = *maxPosts
	}

	sent, err := ledger.Open(cfg.LedgerPath)
	if err != nil {
		serviceutil.Fatal("failed to open sent ledger", err)
	}
	defer sent.Close()
	slog.Info("opened sent ledger", "path", cfg.LedgerPath, "addresses", sent.Len())

	store, err := artifact.Open(cfg.ArtifactPath)
	if err != nil {
		serviceutil.Fatal("failed to open artifact store", err)
	}
	defer store.Close()

	var delivery *deliver.Engine
	if mode != runner.ModeScrapeOnly {
		delivery, err = deliver.NewEngine(
			deliver.NewSmtpTransport(cfg.Smtp), sent, cfg.deliveryOptions())
		if err != nil {
			serviceutil.Fatal("failed to initialize delivery", err)
		}
	}

	var driver feed.PageDriver
	if mode != runner.ModeDeliverOnly {
		if len(cfg.Queries) == 0 {
			serviceutil.Fatal("no queries configured", errors.New("config key 'queries' is empty"))
		}
		browser := openBrowser(ctx, cfg)
		defer browser.Close()
		driver = browser
	}

	r := runner.New(driver, delivery, sent, store, runner.Options{
		Mode:      mode,
		Queries:   cfg.queries(),
		Traversal: cfg.traversal(),
	})
	summary, err := r.Run(ctx)
	if err != nil {
		serviceutil.Fatal("run failed", err)
	}
	fmt.Println(summary.Render())
}
