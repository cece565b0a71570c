package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hamed0406/seoaudit/internal/audit"
	"github.com/hamed0406/seoaudit/internal/domain"
	"github.com/hamed0406/seoaudit/internal/probe"
	"github.com/hamed0406/seoaudit/internal/report"
)

// errAborted makes the process exit 1 after the report was printed.
var errAborted = errors.New("audit did not complete")

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout).Execute(); err != nil {
		if !errors.Is(err, errAborted) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("SEOAUDIT")
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "seoaudit [url]",
		Short:         "Run an on-page SEO and DNS audit for one URL",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw string
			if len(args) == 1 {
				raw = args[0]
			} else {
				fmt.Fprint(out, "Enter a site URL to audit (e.g., https://example.com): ")
				line, _ := bufio.NewReader(in).ReadString('\n')
				raw = line
			}
			raw = normalizeURL(raw)
			if raw == "" {
				return errors.New("no URL given")
			}

			ctx := cmd.Context()
			var (
				rep *domain.Report
				err error
			)
			if api := strings.TrimSpace(v.GetString("api")); api != "" {
				rep, err = remoteAudit(ctx, http.DefaultClient, api, raw)
				if err != nil {
					return err
				}
			} else {
				a := audit.New(probe.NewFetcher(v.GetDuration("timeout"), v.GetString("user_agent")), net.DefaultResolver)
				rep = a.Run(ctx, raw)
			}

			if v.GetBool("json") {
				err = report.WriteJSON(out, rep)
			} else {
				// color.NoColor is set when stdout is not a terminal
				err = report.WriteText(out, rep, !v.GetBool("no_color") && !color.NoColor)
			}
			if err != nil {
				return err
			}
			if rep.Aborted() {
				return errAborted
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.String("api", "", "audit through a running server at this base URL (env SEOAUDIT_API)")
	f.Bool("json", false, "print the report as JSON")
	f.Bool("no-color", false, "disable colored output")
	f.Duration("timeout", probe.DefaultFetchTimeout, "page fetch timeout for local audits")
	f.String("user-agent", probe.DefaultUserAgent, "User-Agent header for local audits")

	for key, flag := range map[string]string{
		"api": "api", "json": "json", "no_color": "no-color",
		"timeout": "timeout", "user_agent": "user-agent",
	} {
		_ = v.BindPFlag(key, f.Lookup(flag))
	}
	return cmd
}

// normalizeURL trims input and assumes https when no scheme is given.
func normalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	return raw
}

func remoteAudit(ctx context.Context, c *http.Client, api, target string) (*domain.Report, error) {
	body, err := json.Marshal(map[string]string{"url": target})
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(api, "/")+"/api/audit", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Do(req)
	if err != nil {
		return nil, fmt.Errorf("contacting API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status: %s", resp.Status)
	}
	var jr report.JSONReport
	if err := json.NewDecoder(resp.Body).Decode(&jr); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return jr.Report(), nil
}
