// BYZRA ⸻ cmd/reclaim/wire.go
// builds the processor and its tools from a loaded config

package main

import (
	"fmt"
	"io"

	"reclaim/internal/config"
	"reclaim/internal/exiftool"
	"reclaim/internal/ffmpeg"
	"reclaim/internal/logging"
	"reclaim/internal/process"
	"reclaim/internal/sniff"
	"reclaim/internal/util"
)

type app struct {
	proc     *process.Processor
	sniffer  sniff.Sniffer
	log      *logging.Logger
	verifier *exiftool.Verifier
}

func build(cfg *config.Config, out io.Writer) (*app, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	logPath := cfg.LogFile
	if logPath == "" {
		logPath = logging.DefaultPath()
	}
	log, err := logging.NewLogger(logPath, level)
	if err != nil {
		// a read-only home still gets a run, just without a log file
		fmt.Fprintln(out, util.Warn(err.Error()))
		log = logging.Nop()
	}

	a := &app{log: log}

	loc, err := cfg.Location()
	if err != nil {
		a.Close()
		return nil, err
	}

	profile, err := config.LoadProfile(cfg.Profile)
	if err != nil {
		a.Close()
		return nil, err
	}
	if profile != nil {
		fmt.Fprintln(out, util.Info(fmt.Sprintf("Profile: %s (%d extra tags)", profile.Source, len(profile.Entries))))
	}

	runner := util.ExecRunner{Timeout: cfg.Timeout.Duration}

	a.sniffer, err = sniff.New(cfg.Sniffer, cfg.Tools.File, runner)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.proc = &process.Processor{
		Writer:      exiftool.New(cfg.Tools.Exiftool, runner),
		Transcoder:  ffmpeg.New(cfg.Tools.Ffmpeg, runner),
		Location:    loc,
		Profile:     profile,
		RetryPolicy: cfg.RetryPolicy,
		Log:         log,
	}

	if cfg.Verify {
		a.verifier, err = exiftool.NewVerifier(cfg.Tools.Exiftool)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.proc.Verifier = a.verifier
	}

	log.Debug(fmt.Sprintf("tools: exiftool=%s ffmpeg=%s sniffer=%s timeout=%s policy=%s",
		cfg.Tools.Exiftool, cfg.Tools.Ffmpeg, cfg.Sniffer, cfg.Timeout.Duration, cfg.RetryPolicy))

	return a, nil
}

func (a *app) Close() {
	if a.verifier != nil {
		a.verifier.Close()
	}
	if a.log != nil {
		a.log.Close()
	}
}
