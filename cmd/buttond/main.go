// Command buttond debounces a GPIO button line and publishes confirmed
// press/release transitions to MQTT, with an HTTP status page.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chunsun978/bbb-embedded-drivers/internal/button"
	"github.com/chunsun978/bbb-embedded-drivers/internal/config"
	"github.com/chunsun978/bbb-embedded-drivers/internal/gpio"
	"github.com/chunsun978/bbb-embedded-drivers/internal/mailbox"
	"github.com/chunsun978/bbb-embedded-drivers/internal/sink"
	"github.com/chunsun978/bbb-embedded-drivers/internal/web"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (flags override its values)")
	label := flag.String("label", "", "Button label for logs and payloads")
	chip := flag.String("chip", "", "GPIO chip name")
	pin := flag.Int("pin", -1, "GPIO line offset")
	activeLow := flag.Bool("active-low", true, "Treat a low level as pressed")
	debounce := flag.Duration("debounce", 0, "Debounce settle interval")
	broker := flag.String("broker", "", "MQTT broker address")
	topic := flag.String("topic", "", "MQTT topic for button events")
	httpAddr := flag.String("http", "", `HTTP status address ("off" to disable)`)
	printState := flag.Bool("print-state", false, "Print current line state and exit")

	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("fatal: %v", err)
		}
		cfg = loaded
	}

	// Only flags the user actually set override the file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "label":
			cfg.Label = *label
		case "chip":
			cfg.Chip = *chip
		case "pin":
			cfg.Pin = *pin
		case "active-low":
			cfg.ActiveLow = *activeLow
		case "debounce":
			cfg.DebounceMs = int(debounce.Milliseconds())
		case "broker":
			cfg.Broker = *broker
		case "topic":
			cfg.Topic = *topic
		case "http":
			cfg.HTTPAddr = *httpAddr
			if cfg.HTTPAddr == "off" {
				cfg.HTTPAddr = ""
			}
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatalf("fatal: %v", err)
	}

	if err := run(cfg, *printState); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(cfg config.Config, printState bool) error {
	line, err := gpio.NewRealLine(cfg.Chip, cfg.Pin)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}

	if printState {
		defer line.Close()
		lvl, err := line.Level()
		if err != nil {
			return fmt.Errorf("read gpio: %w", err)
		}
		pressed := (lvl == gpio.Low) == cfg.ActiveLow
		state := button.StateReleased
		if pressed {
			state = button.StatePressed
		}
		fmt.Printf("%s: level=%s state=%s\n", cfg.Label, lvl, state)
		return nil
	}

	snk, err := sink.NewMQTT(cfg.Broker, cfg.Topic, cfg.Label)
	if err != nil {
		line.Close()
		return fmt.Errorf("init mqtt sink: %w", err)
	}
	defer snk.Close()

	eng, err := button.New(button.Config{
		Label:            cfg.Label,
		DebounceInterval: cfg.Debounce(),
		ActiveLow:        cfg.ActiveLow,
	}, line, line, snk)
	if err != nil {
		snk.Close()
		line.Close()
		return err
	}
	defer eng.Close() // releases the line

	if err := snk.PublishSystem("STARTUP", ""); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	}

	startTime := time.Now()
	if cfg.HTTPAddr != "" {
		srv := web.New(cfg.HTTPAddr, eng, web.Info{
			Label:      cfg.Label,
			Broker:     cfg.Broker,
			DebounceMs: int64(cfg.DebounceMs),
			StartTime:  startTime,
		})
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.HTTPAddr)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Consume confirmed transitions until shutdown. The engine already
	// delivered each event to the sink; this loop is the blocking-read
	// consumer, kept for operator-visible logging.
	go func() {
		for {
			ev, err := eng.TakeEvent(ctx)
			if err != nil {
				if errors.Is(err, mailbox.ErrClosed) || errors.Is(err, context.Canceled) {
					return
				}
				log.Printf("take event: %v", err)
				return
			}
			log.Printf("event: %s at %s (count=%d)",
				ev.State, ev.Timestamp.Format(time.RFC3339Nano), ev.PressCount)
		}
	}()

	log.Printf("started: chip=%s pin=%d debounce=%v broker=%s",
		cfg.Chip, cfg.Pin, cfg.Debounce(), cfg.Broker)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	s := <-sigCh
	cancel()

	reason := signalName(s)
	log.Printf("received %v, shutting down", s)
	if err := snk.PublishSystem("SHUTDOWN", reason); err != nil {
		log.Printf("failed to publish shutdown event: %v", err)
	}
	return nil
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	}
	return "UNKNOWN"
}
