package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"
)

var (
	doDebug bool
	silent  bool

	feedPath  string
	webhook   string
	framePath string
	devMode   bool
)

func main() {
	flag.StringVar(&dataDirPath, "data", dataDirPath, "directory for settings, profiles, logs and screenshots")
	flag.StringVar(&feedPath, "feed", "-", "event feed to read (- for stdin)")
	flag.StringVar(&webhook, "webhook", "", "Discord webhook URL (saved to settings)")
	flag.StringVar(&framePath, "frame", "", "PNG the game client writes its latest frame to")
	flag.BoolVar(&devMode, "dev", false, "enable developer commands")
	flag.BoolVar(&doDebug, "debug", false, "verbose/debug logging")
	flag.BoolVar(&silent, "silent", false, "only log warnings and errors")
	flag.Parse()

	setupLogging(doDebug)

	if !loadSettings() {
		logInfo("using default settings")
		saveSettings()
	}
	if webhook != "" && webhook != gs.Webhook {
		gs.Webhook = webhook
		saveSettings()
	}
	if framePath != "" {
		gs.FramePath = framePath
	}
	if err := run(); err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var in io.Reader = os.Stdin
	if feedPath != "-" && feedPath != "" {
		f, err := os.Open(feedPath)
		if err != nil {
			return fmt.Errorf("open feed: %w", err)
		}
		defer f.Close()
		in = f
	}
	in, err := feedReader(in, gs.FeedCharset)
	if err != nil {
		return err
	}

	loadStats()
	profiles := newProfileStores(filepath.Join(dataDirPath, "profiles"))
	done := make(chan struct{})
	go profiles.autosave(time.Minute, done)

	hook := newWebhookClient(gs.Webhook, time.Duration(gs.WebhookTimeout)*time.Second, gs.WebhookPerMin)
	hook.onResult = statWebhook
	if gs.Webhook == "" {
		logWarn("no Discord webhook configured; notifications will not be sent")
	}

	var frames frameSource
	if gs.FramePath != "" {
		frames = fileFrame{path: gs.FramePath}
	}

	initDiscordRPC(gs.PresenceAppID)

	s := newSession(profiles, hook, frames)
	s.devMode = devMode || gs.DeveloperMode

	feedDone := make(chan error, 1)
	go func() { feedDone <- runFeed(ctx, in, s) }()
	select {
	case err = <-feedDone:
	case <-ctx.Done():
		logInfo("shutting down")
	}

	hook.Flush()
	close(done)
	profiles.Save()
	saveStats()
	closeDiscordRPC()

	if err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
