// cmd/preflight/main.go
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/hamed0406/seoaudit/internal/config"
)

func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	cfg, err := config.Load()
	if errors.Is(err, config.ErrConfigNotFound) {
		fail(err.Error())
	}
	if err != nil {
		for _, line := range strings.Split(err.Error(), "\n") {
			fmt.Fprintln(os.Stderr, "✖", line)
		}
		os.Exit(1)
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		ok("CONFIG_FILE=" + path)
	}
	ok("API_ADDR=" + cfg.Addr)
	if strings.HasPrefix(cfg.Addr, "127.0.0.1") || strings.HasPrefix(cfg.Addr, "localhost") {
		warn("API_ADDR binds to loopback; use :8080 inside containers.")
	}

	ok("LOG_DIR=" + cfg.LogDir)
	if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
		fail("LOG_DIR is not writable: " + err.Error())
	}

	ok("FETCH_TIMEOUT=" + cfg.FetchTimeout.String())
	if cfg.UserAgent == "" {
		warn("USER_AGENT empty; the default fetch user agent will be sent.")
	}

	if cfg.RateLimitRPM == 0 {
		warn("RATE_LIMIT_RPM=0; audit endpoints are not rate limited.")
	} else {
		ok(fmt.Sprintf("RATE_LIMIT_RPM=%d burst=%d", cfg.RateLimitRPM, cfg.RateLimitBurst))
	}

	if len(cfg.AllowedOrigins) == 0 {
		warn("ALLOWED_ORIGINS empty; every origin is allowed by CORS.")
	} else {
		ok("ALLOWED_ORIGINS=" + strings.Join(cfg.AllowedOrigins, ","))
	}

	ok("preflight passed")
}
