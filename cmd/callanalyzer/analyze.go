package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"

	"github.com/kbukum/callanalyzer/analysis"
	"github.com/kbukum/callanalyzer/bootstrap"
	"github.com/kbukum/callanalyzer/errors"
	"github.com/kbukum/callanalyzer/logger"
	"github.com/kbukum/callanalyzer/transcription"
)

type analyzeFlags struct {
	configPath string
	file       string
	url        string
	key        string
	provider   string
	model      string
	compact    bool
}

func analyzeCommand(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var f analyzeFlags
	fs.StringVar(&f.configPath, "config", os.Getenv("CALLANALYZER_CONFIG"), "path to config.yml")
	fs.StringVar(&f.file, "file", "", "local audio file to upload")
	fs.StringVar(&f.url, "url", "", "public audio URL")
	fs.StringVar(&f.key, "key", "", "provider API key (overrides the configured key)")
	fs.StringVar(&f.provider, "provider", "", "provider name (mistral, whisper)")
	fs.StringVar(&f.model, "model", "", "model override")
	fs.BoolVar(&f.compact, "compact", false, "print JSON on one line")
	if err := fs.Parse(args); err != nil {
		return usageError(err)
	}
	if f.file == "" && f.url == "" {
		fmt.Fprintln(stderr, "analyze: one of -file or -url is required")
		fs.Usage()
		return errUsage
	}

	src, err := readSource(f.file, f.url)
	if err != nil {
		return err
	}
	if err := src.Validate(); err != nil {
		return err
	}

	cfg, err := loadConfig(f.configPath)
	if err != nil {
		return err
	}
	// stdout carries the result.
	cfg.Logging.Output = "stderr"
	if f.provider != "" {
		cfg.Transcription.Provider = f.provider
	}

	a, err := bootstrap.NewApp(cfg)
	if err != nil {
		return err
	}
	c, err := newCore(a)
	if err != nil {
		return err
	}

	return a.RunTask(ctx, func(ctx context.Context) error {
		p, err := c.transcription.Manager().Get(ctx)
		if err != nil {
			return errors.ServiceUnavailable("transcription")
		}
		p = transcription.Instrument(p, c.providerMiddleware(logger.Get("transcription"))...)
		result, err := analysis.NewAnalyzer(p, analysis.WithMetrics(c.telemetry.Metrics())).
			Analyze(ctx, analysis.Request{Source: src, APIKey: f.key, Model: f.model})
		if err != nil {
			return err
		}
		enc := json.NewEncoder(stdout)
		if !f.compact {
			enc.SetIndent("", "  ")
		}
		return enc.Encode(result)
	})
}

func readSource(file, url string) (transcription.AudioSource, error) {
	src := transcription.AudioSource{URL: url}
	if file == "" {
		return src, nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return src, errors.InvalidInput("file", err.Error())
	}
	src.Data = data
	src.FileName = filepath.Base(file)
	src.ContentType = mime.TypeByExtension(filepath.Ext(file))
	return src, nil
}
