package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

const envPrefix = "RENDERFARM_"

type Server struct {
	Addr       string `toml:"addr"`
	APIKeyHash string `toml:"api_key_hash"`
	// RunWorker starts a worker loop inside `serve`.
	RunWorker bool `toml:"run_worker"`
	// BehindProxy trusts X-Forwarded-For for client addresses.
	BehindProxy bool `toml:"behind_proxy"`
}

// Store selects the durable job table.
type Store struct {
	Driver   string `toml:"driver"` // sqlite, postgres or json
	Path     string `toml:"path"`
	DSN      string `toml:"dsn"`
	MaxConns int32  `toml:"max_conns"`
}

type Worker struct {
	ID                 string `toml:"id"`
	ScratchDir         string `toml:"scratch_dir"`
	PollMinSeconds     int    `toml:"poll_min_seconds"`
	PollMaxSeconds     int    `toml:"poll_max_seconds"`
	KeepFailedWorkdirs bool   `toml:"keep_failed_workdirs"`
	ReapOnStart        bool   `toml:"reap_on_start"`
	ReapAfterMinutes   int    `toml:"reap_after_minutes"`
}

type FFmpeg struct {
	Binary           string `toml:"binary"`
	ProbeBinary      string `toml:"probe_binary"`
	Preset           string `toml:"preset"`
	CRF              int    `toml:"crf"`
	WebmCRF          int    `toml:"webm_crf"`
	AudioBitrate     string `toml:"audio_bitrate"`
	FrameRate        int    `toml:"frame_rate"`
	GOP              int    `toml:"gop"`
	FontFile         string `toml:"font_file"`
	DiagnosticsLimit int    `toml:"diagnostics_limit"`
}

type Fetcher struct {
	YtDlpBinary    string   `toml:"ytdlp_binary"`
	TimeoutSeconds int      `toml:"timeout_seconds"`
	MaxBytes       int64    `toml:"max_bytes"`
	UserAgent      string   `toml:"user_agent"`
	SocialHosts    []string `toml:"social_hosts"`
}

type LocalArtifacts struct {
	Dir     string `toml:"dir"`
	BaseURL string `toml:"base_url"`
}

type S3Artifacts struct {
	Bucket          string `toml:"bucket"`
	Region          string `toml:"region"`
	Endpoint        string `toml:"endpoint"`
	AccessKeyID     string `toml:"access_key_id"`
	SecretAccessKey string `toml:"secret_access_key"`
	PublicBaseURL   string `toml:"public_base_url"`
	PathStyle       bool   `toml:"path_style"`
	PublicRead      bool   `toml:"public_read"`
}

type Artifacts struct {
	Driver string         `toml:"driver"` // s3 or local
	Local  LocalArtifacts `toml:"local"`
	S3     S3Artifacts    `toml:"s3"`
}

type Webhooks struct {
	StatusURL      string `toml:"status_url"`
	FinishedURL    string `toml:"finished_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config is the full renderfarm configuration.
//
// Sources, later wins: built-in defaults, the TOML file, RENDERFARM_* env vars.
type Config struct {
	Server    Server    `toml:"server"`
	Store     Store     `toml:"store"`
	Worker    Worker    `toml:"worker"`
	FFmpeg    FFmpeg    `toml:"ffmpeg"`
	Fetcher   Fetcher   `toml:"fetcher"`
	Artifacts Artifacts `toml:"artifacts"`
	Webhooks  Webhooks  `toml:"webhooks"`
	Logging   Logging   `toml:"logging"`
}

func Default() Config {
	return Config{
		Server: Server{Addr: ":7890", RunWorker: true},
		Store: Store{
			Driver:   "sqlite",
			Path:     "data/renderfarm.db",
			MaxConns: 4,
		},
		Worker: Worker{
			ScratchDir:       filepath.Join(os.TempDir(), "renderfarm"),
			PollMinSeconds:   2,
			PollMaxSeconds:   120,
			ReapAfterMinutes: 180,
		},
		FFmpeg: FFmpeg{
			Binary:           "ffmpeg",
			ProbeBinary:      "ffprobe",
			Preset:           "fast",
			CRF:              23,
			WebmCRF:          32,
			AudioBitrate:     "128k",
			FrameRate:        30,
			GOP:              60,
			DiagnosticsLimit: 4096,
		},
		Fetcher: Fetcher{
			YtDlpBinary:    "yt-dlp",
			TimeoutSeconds: 600,
			MaxBytes:       2 << 30,
			UserAgent:      "renderfarm/1.0",
			SocialHosts: []string{
				"instagram.com", "tiktok.com", "facebook.com", "fb.watch",
				"youtube.com", "youtu.be", "x.com", "twitter.com",
			},
		},
		Artifacts: Artifacts{
			Driver: "local",
			Local:  LocalArtifacts{Dir: "data/artifacts", BaseURL: "http://localhost:7890/artifacts"},
			S3:     S3Artifacts{Region: "auto", PublicRead: true},
		},
		Webhooks: Webhooks{TimeoutSeconds: 10},
		Logging:  Logging{Level: "info", Format: "auto"},
	}
}

// SampleConfig returns a commented TOML file with every option.
func SampleConfig() string {
	return sampleConfig
}

// Load reads defaults, then the TOML file at path, then env overrides.
// An empty path looks for ./renderfarm.toml and skips it when absent.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		if _, err := os.Stat("renderfarm.toml"); err == nil {
			path = "renderfarm.toml"
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config file %s not found", path)
			}
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyEnv() error {
	c.Server.Addr = getEnv("SERVER_ADDR", c.Server.Addr)
	c.Server.APIKeyHash = getEnv("API_KEY_HASH", c.Server.APIKeyHash)

	c.Store.Driver = getEnv("STORE_DRIVER", c.Store.Driver)
	c.Store.Path = getEnv("STORE_PATH", c.Store.Path)
	c.Store.DSN = getEnv("STORE_DSN", c.Store.DSN)

	c.Worker.ID = getEnv("WORKER_ID", c.Worker.ID)
	c.Worker.ScratchDir = getEnv("SCRATCH_DIR", c.Worker.ScratchDir)

	c.FFmpeg.Binary = getEnv("FFMPEG_BINARY", c.FFmpeg.Binary)
	c.FFmpeg.ProbeBinary = getEnv("FFPROBE_BINARY", c.FFmpeg.ProbeBinary)
	c.FFmpeg.FontFile = getEnv("FONT_FILE", c.FFmpeg.FontFile)

	c.Fetcher.YtDlpBinary = getEnv("YTDLP_BINARY", c.Fetcher.YtDlpBinary)

	c.Artifacts.Driver = getEnv("ARTIFACTS_DRIVER", c.Artifacts.Driver)
	c.Artifacts.Local.Dir = getEnv("ARTIFACTS_DIR", c.Artifacts.Local.Dir)
	c.Artifacts.Local.BaseURL = getEnv("ARTIFACTS_BASE_URL", c.Artifacts.Local.BaseURL)
	c.Artifacts.S3.Bucket = getEnv("S3_BUCKET", c.Artifacts.S3.Bucket)
	c.Artifacts.S3.Region = getEnv("S3_REGION", c.Artifacts.S3.Region)
	c.Artifacts.S3.Endpoint = getEnv("S3_ENDPOINT", c.Artifacts.S3.Endpoint)
	c.Artifacts.S3.AccessKeyID = getEnv("S3_ACCESS_KEY_ID", c.Artifacts.S3.AccessKeyID)
	c.Artifacts.S3.SecretAccessKey = getEnv("S3_SECRET_ACCESS_KEY", c.Artifacts.S3.SecretAccessKey)
	c.Artifacts.S3.PublicBaseURL = getEnv("S3_PUBLIC_BASE_URL", c.Artifacts.S3.PublicBaseURL)

	c.Webhooks.StatusURL = getEnv("WEBHOOK_STATUS_URL", c.Webhooks.StatusURL)
	c.Webhooks.FinishedURL = getEnv("WEBHOOK_FINISHED_URL", c.Webhooks.FinishedURL)

	c.Logging.Level = getEnv("LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = getEnv("LOG_FORMAT", c.Logging.Format)

	var err error
	if c.Worker.PollMaxSeconds, err = getEnvInt("POLL_MAX_SECONDS", c.Worker.PollMaxSeconds); err != nil {
		return err
	}
	if c.Worker.KeepFailedWorkdirs, err = getEnvBool("KEEP_FAILED_WORKDIRS", c.Worker.KeepFailedWorkdirs); err != nil {
		return err
	}
	if c.Server.RunWorker, err = getEnvBool("RUN_WORKER", c.Server.RunWorker); err != nil {
		return err
	}
	if c.Server.BehindProxy, err = getEnvBool("BEHIND_PROXY", c.Server.BehindProxy); err != nil {
		return err
	}
	return nil
}

func (c *Config) normalize() {
	c.Store.Driver = strings.ToLower(strings.TrimSpace(c.Store.Driver))
	c.Artifacts.Driver = strings.ToLower(strings.TrimSpace(c.Artifacts.Driver))
	c.Artifacts.Local.BaseURL = strings.TrimRight(c.Artifacts.Local.BaseURL, "/")
	c.Artifacts.S3.PublicBaseURL = strings.TrimRight(c.Artifacts.S3.PublicBaseURL, "/")
	if c.Worker.ID == "" {
		host, err := os.Hostname()
		if err != nil || host == "" {
			host = "worker"
		}
		c.Worker.ID = fmt.Sprintf("%s-%d", host, os.Getpid())
	}
}

func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "sqlite", "json":
		if c.Store.Path == "" {
			return fmt.Errorf("store.path is required for the %s driver", c.Store.Driver)
		}
	case "postgres":
		if c.Store.DSN == "" {
			return errors.New("store.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}

	switch c.Artifacts.Driver {
	case "local":
		if c.Artifacts.Local.Dir == "" {
			return errors.New("artifacts.local.dir is required")
		}
	case "s3":
		if c.Artifacts.S3.Bucket == "" {
			return errors.New("artifacts.s3.bucket is required")
		}
		if c.Artifacts.S3.PublicBaseURL == "" {
			return errors.New("artifacts.s3.public_base_url is required")
		}
	default:
		return fmt.Errorf("unknown artifacts driver %q", c.Artifacts.Driver)
	}

	if c.Worker.ScratchDir == "" {
		return errors.New("worker.scratch_dir is required")
	}
	if c.Worker.PollMinSeconds <= 0 || c.Worker.PollMaxSeconds < c.Worker.PollMinSeconds {
		return fmt.Errorf("invalid poll interval: min %d, max %d", c.Worker.PollMinSeconds, c.Worker.PollMaxSeconds)
	}
	if c.Worker.ReapOnStart && c.Worker.ReapAfterMinutes <= 0 {
		return errors.New("worker.reap_after_minutes must be positive when reap_on_start is set")
	}
	if c.FFmpeg.Binary == "" || c.FFmpeg.ProbeBinary == "" {
		return errors.New("ffmpeg.binary and ffmpeg.probe_binary are required")
	}
	if c.FFmpeg.FrameRate <= 0 || c.FFmpeg.GOP <= 0 {
		return errors.New("ffmpeg.frame_rate and ffmpeg.gop must be positive")
	}
	if c.Fetcher.TimeoutSeconds <= 0 {
		return errors.New("fetcher.timeout_seconds must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(envPrefix + key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(envPrefix + key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s%s: %w", envPrefix, key, err)
	}
	return v, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	raw := os.Getenv(envPrefix + key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s%s: %w", envPrefix, key, err)
	}
	return v, nil
}
