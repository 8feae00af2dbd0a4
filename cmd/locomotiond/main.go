package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/oomph-ac/locomotion/server"
	"github.com/oomph-ac/locomotion/settings"
	"github.com/sirupsen/logrus"
)

// The following program hosts the authority of every character of the arena.
func main() {
	configPath := flag.String("config", "locomotion.toml", "path to the settings file, created if missing")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		ForceColors:     true,
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
	})
	if *debug {
		log.SetLevel(logrus.DebugLevel)
	}

	conf, err := settings.Load(*configPath)
	if err != nil {
		log.Fatalf("error loading settings: %v", err)
	}

	if dsn := conf.Server.SentryDSN; dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: dsn}); err != nil {
			log.Fatalf("error initializing sentry: %v", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	if os.Getenv("LOCOMOTION_STATSVIEW") != "" {
		// set configurations before calling `statsview.New()` method
		viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr(conf.Server.StatsAddress))

		mgr := statsview.New()
		go mgr.Start()
		defer mgr.Stop()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(server.Config{Settings: conf, Log: log})
	if err := srv.ListenAndServe(ctx); err != nil {
		log.Errorf("server stopped: %v", err)
	}
}
