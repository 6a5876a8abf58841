package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"go.uber.org/zap"

	"github.com/famomatic/bilidown/client"
	"github.com/famomatic/bilidown/internal/cli"
	"github.com/famomatic/bilidown/internal/config"
	"github.com/famomatic/bilidown/internal/logging"
)

var version = "dev"

const (
	exitOK = iota
	exitFailure
	exitUsage
	exitNotFound
	exitAuthRequired
	exitIO
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := cli.ParseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		return exitUsage
	}
	if opts.Version {
		fmt.Fprintln(stdout, "bilidown", version)
		return exitOK
	}
	if opts.Help || (len(opts.URLs) == 0 && !opts.WhoAmI) {
		fmt.Fprintln(stderr, "Usage: bilidown [OPTIONS] URL [URL...]")
		return exitUsage
	}

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return exitUsage
	}
	cfg = cli.Apply(cfg, opts)

	logger, err := logging.New(logging.Options{Level: cfg.Log.Level, Debug: cfg.Log.Debug, Dir: cfg.Log.Dir})
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return exitUsage
	}
	defer func() { _ = logger.Sync() }()

	settings, err := cli.Build(ctx, cfg, opts, logger)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return exitUsage
	}
	defer settings.Close()

	c, err := client.New(settings.Client)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return exitFailure
	}

	a := &app{client: c, settings: settings, opts: opts, stdout: stdout, stderr: stderr, logger: logger}
	if opts.WhoAmI {
		return a.whoami(ctx)
	}
	code := exitOK
	for _, url := range opts.URLs {
		if err := a.process(ctx, url); err != nil {
			fmt.Fprintf(stderr, "error: %s: %v\n", url, err)
			code = exitCode(err)
		}
	}
	return code
}

type app struct {
	client   *client.Client
	settings *cli.Settings
	opts     cli.Options
	stdout   io.Writer
	stderr   io.Writer
	logger   *zap.Logger
}

func (a *app) whoami(ctx context.Context) int {
	info, err := a.client.UserInfo(ctx, a.settings.SessionToken)
	if err != nil {
		fmt.Fprintln(a.stderr, "error:", err)
		return exitCode(err)
	}
	if !info.LoggedIn {
		fmt.Fprintln(a.stdout, "not logged in")
		return exitOK
	}
	vip := ""
	if info.VIP {
		vip = " (VIP)"
	}
	fmt.Fprintf(a.stdout, "%s mid=%d%s\n", info.Name, info.MID, vip)
	return exitOK
}

func (a *app) process(ctx context.Context, url string) error {
	meta, err := a.client.GetVideoMeta(ctx, url, a.settings.SessionToken)
	if err != nil {
		return err
	}
	if a.opts.PrintJSON {
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(meta); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(a.stdout, describeMeta(meta))
	}
	if a.opts.ListFormats {
		fmt.Fprint(a.stdout, formatTable(meta.Formats))
	}
	if a.opts.SkipDownload || a.opts.ListFormats {
		return nil
	}

	indexes, err := cli.ParsePages(a.opts.Pages, len(meta.Pages))
	if err != nil {
		return err
	}
	for _, i := range indexes {
		page := meta.Pages[i]
		if !page.Available {
			a.logger.Warn("skipping unavailable page", zap.Int("page", i+1), zap.String("title", page.Title))
			continue
		}
		res, err := a.client.Download(ctx, client.DownloadRequest{
			Dir:          a.settings.Dir,
			Category:     page.Category,
			Identifier:   page.Identifier(),
			Title:        pageTitle(meta, page, len(meta.Pages)),
			Artist:       artist(meta),
			Quality:      a.settings.Quality,
			Audio:        a.settings.Audio,
			SessionToken: a.settings.SessionToken,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(a.stdout, describeResult(res))
	}
	return nil
}

func describeMeta(meta *client.VideoMeta) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", meta.Title)
	for _, s := range meta.Staff {
		fmt.Fprintf(&b, "  %s: %s\n", s.Title, s.Name)
	}
	for i, p := range meta.Pages {
		line := fmt.Sprintf("  %d. %s", i+1, p.Title)
		if p.Badge != "" {
			line += " [" + p.Badge + "]"
		}
		if p.Duration != nil {
			line += fmt.Sprintf(" (%ds)", *p.Duration)
		}
		if !p.Available {
			line += " unavailable"
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatTable(formats []client.Format) string {
	var b strings.Builder
	for _, f := range formats {
		gate := ""
		switch {
		case f.VIPRequired:
			gate = " vip"
		case f.LoginRequired:
			gate = " login"
		}
		fmt.Fprintf(&b, "[%d] %s%s\n", f.Quality, f.Description, gate)
	}
	return b.String()
}

// pageTitle names multi-page outputs after both the video and the page.
func pageTitle(meta *client.VideoMeta, page client.Page, pages int) string {
	if pages <= 1 || page.Title == "" {
		return meta.Title
	}
	if meta.Title == "" {
		return page.Title
	}
	return meta.Title + " - " + page.Title
}

func artist(meta *client.VideoMeta) string {
	if len(meta.Staff) == 0 {
		return ""
	}
	return meta.Staff[0].Name
}

func describeResult(res *client.DownloadResult) string {
	if res.MergedPath != "" {
		return fmt.Sprintf("[download] %s (%d bytes)", res.MergedPath, res.Bytes)
	}
	return fmt.Sprintf("[download] %s (%d bytes)", strings.Join(res.Files, ", "), res.Bytes)
}

func exitCode(err error) int {
	switch client.ClassifyError(err) {
	case client.ErrorCategoryNone:
		return exitOK
	case client.ErrorCategoryUnrecognizedURL, client.ErrorCategoryInvalidRequest, client.ErrorCategoryUnknownCategory:
		return exitUsage
	case client.ErrorCategoryNotFound:
		return exitNotFound
	case client.ErrorCategoryAuthRequired:
		return exitAuthRequired
	case client.ErrorCategoryIO:
		return exitIO
	default:
		return exitFailure
	}
}
