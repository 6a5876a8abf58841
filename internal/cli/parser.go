// Package cli turns command-line flags and loaded configuration into a client.Config.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/famomatic/bilidown/client"
	"github.com/famomatic/bilidown/internal/config"
	"github.com/famomatic/bilidown/internal/cookies"
	"github.com/famomatic/bilidown/internal/muxer"
	"github.com/famomatic/bilidown/internal/quality"
	"github.com/famomatic/bilidown/internal/storage"
	"github.com/famomatic/bilidown/internal/wbi"
)

// Options holds all command-line options.
type Options struct {
	// Input
	URLs []string

	// General
	Help       bool
	Version    bool
	ConfigFile string // --config

	// Network / Session
	ProxyURL     string
	CookiesFile  string // --cookies
	SessionToken string // --sessdata
	NoWBI        bool   // --no-wbi

	// Selection
	Quality     string // -q, --quality
	HiResAudio  bool   // --hires
	DolbyAudio  bool   // --dolby
	Pages       string // -p, --pages
	ListFormats bool   // -F, --list-formats

	// Download / Filesystem
	OutputDir       string // -o, --output
	SkipDownload    bool   // --skip-download
	DownloadRetries int    // --retries
	RetrySleepMS    int    // --retry-sleep-ms

	// Post-processing
	Merge          bool   // --merge
	FFmpegLocation string // --ffmpeg-location

	// Verbosity / Debug
	Verbose   bool
	PrintJSON bool // --print-json
	WhoAmI    bool // --whoami

	set map[string]bool
}

// ParseFlags parses args (without the program name) into Options.
func ParseFlags(args []string, output io.Writer) (Options, error) {
	opts := Options{}
	fs := flag.NewFlagSet("bilidown", flag.ContinueOnError)
	fs.SetOutput(output)

	var qualityShort, qualityLong string
	var outputShort, outputLong string
	var pagesShort, pagesLong string
	var listFormatsShort, listFormatsLong bool

	fs.StringVar(&qualityShort, "q", "", "Preferred quality (qn number or label such as 1080P, 4K)")
	fs.StringVar(&qualityLong, "quality", "", "Preferred quality (qn number or label such as 1080P, 4K)")
	fs.StringVar(&outputShort, "o", "", "Output directory")
	fs.StringVar(&outputLong, "output", "", "Output directory")
	fs.StringVar(&pagesShort, "p", "", "Pages to download, e.g. 1,3-5 (default all)")
	fs.StringVar(&pagesLong, "pages", "", "Pages to download, e.g. 1,3-5 (default all)")
	fs.BoolVar(&listFormatsShort, "F", false, "List available formats")
	fs.BoolVar(&listFormatsLong, "list-formats", false, "List available formats")

	fs.BoolVar(&opts.Help, "help", false, "Print this help text")
	fs.BoolVar(&opts.Version, "version", false, "Print version and exit")
	fs.StringVar(&opts.ConfigFile, "config", "", "YAML configuration file")

	fs.StringVar(&opts.ProxyURL, "proxy", "", "Use the specified HTTP/HTTPS/SOCKS proxy")
	fs.StringVar(&opts.CookiesFile, "cookies", "", "Netscape formatted cookies file holding SESSDATA")
	fs.StringVar(&opts.SessionToken, "sessdata", "", "SESSDATA session token")
	fs.BoolVar(&opts.NoWBI, "no-wbi", false, "Do not sign stream requests")

	fs.BoolVar(&opts.HiResAudio, "hires", false, "Prefer hi-res (FLAC) audio when offered")
	fs.BoolVar(&opts.DolbyAudio, "dolby", false, "Request Dolby audio tracks")

	fs.BoolVar(&opts.SkipDownload, "skip-download", false, "Do not download the video")
	fs.IntVar(&opts.DownloadRetries, "retries", -1, "Media open retry count (-1 keeps config)")
	fs.IntVar(&opts.RetrySleepMS, "retry-sleep-ms", -1, "Initial retry backoff in milliseconds (-1 keeps defaults)")

	fs.BoolVar(&opts.Merge, "merge", false, "Merge split video and audio with ffmpeg")
	fs.StringVar(&opts.FFmpegLocation, "ffmpeg-location", "", "Path to ffmpeg binary")

	fs.BoolVar(&opts.Verbose, "verbose", false, "Print various debugging information")
	fs.BoolVar(&opts.PrintJSON, "print-json", false, "Print the video information as JSON")
	fs.BoolVar(&opts.WhoAmI, "whoami", false, "Print the account behind the session and exit")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: bilidown [OPTIONS] URL [URL...]\n\n")
		fmt.Fprintln(fs.Output(), "Options:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	opts.Quality = pickValue(qualityShort, qualityLong, "")
	opts.OutputDir = pickValue(outputShort, outputLong, "")
	opts.Pages = pickValue(pagesShort, pagesLong, "")
	opts.ListFormats = listFormatsShort || listFormatsLong
	opts.URLs = fs.Args()

	opts.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })
	return opts, nil
}

func pickValue(v1, v2, def string) string {
	if v1 != def {
		return v1
	}
	if v2 != def {
		return v2
	}
	return def
}

// Apply overlays explicitly given flags on the loaded configuration.
func Apply(cfg config.Config, opts Options) config.Config {
	if opts.ProxyURL != "" {
		cfg.Network.Proxy = opts.ProxyURL
	}
	if opts.SessionToken != "" {
		cfg.Session.Token = opts.SessionToken
	}
	if opts.CookiesFile != "" {
		cfg.Session.CookiesFile = opts.CookiesFile
	}
	if opts.set["no-wbi"] {
		cfg.WBI.Enabled = !opts.NoWBI
	}
	if opts.Quality != "" {
		cfg.Download.Quality = opts.Quality
	}
	if opts.set["hires"] {
		cfg.Download.HiResAudio = opts.HiResAudio
	}
	if opts.set["dolby"] {
		cfg.Download.DolbyAudio = opts.DolbyAudio
	}
	if opts.OutputDir != "" {
		cfg.Download.Dir = opts.OutputDir
	}
	if opts.DownloadRetries >= 0 {
		cfg.Download.Retries = opts.DownloadRetries
	}
	if opts.set["merge"] {
		cfg.Download.Merge = opts.Merge
	}
	if opts.FFmpegLocation != "" {
		cfg.Download.FFmpeg = opts.FFmpegLocation
	}
	if opts.Verbose {
		cfg.Log.Debug = true
		cfg.Log.Level = "debug"
	}
	return cfg
}

// Settings is everything a command needs to run downloads.
type Settings struct {
	Client       client.Config
	SessionToken string
	Dir          string
	Quality      quality.Number
	Audio        quality.AudioPreference

	closers []func() error
}

// Close releases connections opened by Build.
func (s *Settings) Close() error {
	var errs []error
	for _, c := range s.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Build resolves the session token and the optional Redis, MinIO and ffmpeg
// collaborators described by cfg.
func Build(ctx context.Context, cfg config.Config, opts Options, logger *zap.Logger) (*Settings, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	qn, ok := quality.Parse(cfg.Download.Quality)
	if !ok {
		return nil, fmt.Errorf("unknown quality %q", cfg.Download.Quality)
	}

	s := &Settings{
		Dir:     cfg.Download.Dir,
		Quality: qn,
		Audio:   quality.AudioPreference{HiRes: cfg.Download.HiResAudio, Dolby: cfg.Download.DolbyAudio},
		Client: client.Config{
			ProxyURL:   cfg.Network.Proxy,
			Timeout:    cfg.Network.Timeout,
			Logger:     logger,
			DisableWBI: !cfg.WBI.Enabled,
			WBITTL:     cfg.WBI.TTL,
		},
	}
	s.Client.Transport.MaxRetries = cfg.Download.Retries
	if opts.RetrySleepMS >= 0 {
		s.Client.Transport.InitialBackoff = time.Duration(opts.RetrySleepMS) * time.Millisecond
	}

	token, err := sessionToken(cfg.Session, logger)
	if err != nil {
		return nil, err
	}
	s.SessionToken = token

	if cfg.WBI.Enabled && cfg.WBI.RedisAddr != "" {
		store, err := wbi.NewRedisStore(ctx, cfg.WBI.RedisAddr, cfg.WBI.RedisPassword, cfg.WBI.RedisDB)
		if err != nil {
			logger.Warn("redis unavailable, caching wbi key in memory", zap.String("addr", cfg.WBI.RedisAddr), zap.Error(err))
		} else {
			s.Client.WBIStore = store
			s.closers = append(s.closers, store.Close)
		}
	}

	if cfg.Storage.Endpoint != "" {
		pub, err := storage.NewMinioPublisher(ctx, storage.MinioConfig{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			UseSSL:    cfg.Storage.UseSSL,
		})
		if err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("object storage: %w", err)
		}
		s.Client.Publisher = pub
	}

	if cfg.Download.Merge {
		s.Client.Muxer = muxer.NewFFmpegMuxer(cfg.Download.FFmpeg)
	}
	return s, nil
}

func sessionToken(cfg config.SessionConfig, logger *zap.Logger) (string, error) {
	if token := strings.TrimSpace(cfg.Token); token != "" {
		return token, nil
	}
	if cfg.CookiesFile == "" {
		return "", nil
	}
	token, err := cookies.LoadSessionToken(cfg.CookiesFile)
	if errors.Is(err, cookies.ErrNoSession) {
		logger.Warn("no SESSDATA in cookies file, continuing anonymously", zap.String("path", cfg.CookiesFile))
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return token, nil
}

// ParsePages expands a selection such as "1,3-5" into sorted zero-based
// indexes below total. An empty selection means every page.
func ParsePages(selection string, total int) ([]int, error) {
	selection = strings.TrimSpace(selection)
	if selection == "" {
		out := make([]int, total)
		for i := range out {
			out[i] = i
		}
		return out, nil
	}
	seen := make(map[int]struct{})
	for _, part := range strings.Split(selection, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi, err := pageRange(part)
		if err != nil {
			return nil, err
		}
		if lo < 1 || hi > total || lo > hi {
			return nil, fmt.Errorf("page range %q out of bounds (1-%d)", part, total)
		}
		for p := lo; p <= hi; p++ {
			seen[p-1] = struct{}{}
		}
	}
	out := make([]int, 0, len(seen))
	for i := range seen {
		out = append(out, i)
	}
	sort.Ints(out)
	return out, nil
}

func pageRange(part string) (int, int, error) {
	from, to, isRange := strings.Cut(part, "-")
	lo, err := strconv.Atoi(strings.TrimSpace(from))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid page %q", part)
	}
	if !isRange {
		return lo, lo, nil
	}
	hi, err := strconv.Atoi(strings.TrimSpace(to))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid page %q", part)
	}
	return lo, hi, nil
}
