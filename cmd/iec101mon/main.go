// Command iec101mon watches an IEC 60870-5-101 serial line.
//
// It logs every decoded link frame and exposes Prometheus counters. With
// -poll it acts as the primary station for the configured address: it resets
// the link and then polls class 2 data, switching to class 1 while the
// secondary station reports access demand.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/moffa90/go-iec101/internal/config"
	"github.com/moffa90/go-iec101/internal/logging"
	"github.com/moffa90/go-iec101/internal/serialport"
	"github.com/moffa90/go-iec101/link"
	"github.com/moffa90/go-iec101/metrics"
	"github.com/moffa90/go-iec101/protocol"
)

const defaultConfigPath = "iec101.toml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file (.toml, .yaml)")
	port := flag.String("port", "", "Serial port, overrides the configuration")
	poll := flag.Duration("poll", 0, "Poll interval as primary station; 0 only listens")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *port != "" {
		cfg.Serial.Port = *port
	}

	logger := logging.Configure("iec101mon", logging.Config{
		Level:   cfg.Log.Level,
		NoColor: cfg.Log.NoColor,
	})
	log.Info().
		Str("config", *configPath).
		Str("port", cfg.Serial.Port).
		Int("baud", cfg.Serial.Baud).
		Int("address", cfg.Link.Address).
		Int("address_size", cfg.Link.AddressSize).
		Msg("configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	if cfg.Metrics.Listen != "" {
		srv := serveMetrics(cfg.Metrics.Listen, reg)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	sp, err := serialport.Open(cfg.Serial)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open serial port")
	}
	defer func() { _ = sp.Close() }()

	conn := link.New(sp,
		link.WithAddressSize(protocol.AddressSize(cfg.Link.AddressSize)),
		link.WithTimeout(cfg.Link.TimeoutDuration()),
		link.WithRetries(cfg.Link.Retries),
		link.WithMetrics(m),
		link.WithLogger(logging.NewLinkLogger(logger)),
		link.WithFrameCallback(frameLogger(logger)),
	)

	if *poll > 0 {
		err = runPrimary(ctx, conn.Station(uint16(cfg.Link.Address)), *poll)
	} else {
		err = listen(ctx, conn)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("monitor stopped")
	}
	log.Info().Msg("monitor stopped")
}

func serveMetrics(addr string, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info().Str("addr", addr).Msg("metrics endpoint listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("metrics endpoint failed")
		}
	}()
	return srv
}

// frameLogger logs each frame crossing the line at info level.
func frameLogger(logger zerolog.Logger) link.FrameCallback {
	return func(e link.Event) {
		ev := logger.Info().
			Str("dir", string(e.Direction)).
			Uint16("address", e.Frame.Address).
			Str("control", e.Frame.Control.String())
		if e.Frame.HasPayload() {
			ev = ev.Hex("asdu", e.Frame.Payload)
		}
		ev.Msg("frame")
	}
}

// listen reads frames until ctx is done. Frames are reported by the frame callback.
func listen(ctx context.Context, conn *link.Conn) error {
	for {
		if _, err := conn.ReadFrame(ctx); err != nil {
			if errors.Is(err, link.ErrTimeout) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
	}
}

// runPrimary resets the link, then polls the station every interval.
// Class 1 is requested while the station sets ACD.
func runPrimary(ctx context.Context, st *link.Station, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	linkUp := false
	class1 := false
	for {
		if !linkUp {
			if _, err := st.ResetLink(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				log.Warn().Err(err).Uint16("address", st.Address()).Msg("reset remote link failed")
			} else {
				linkUp = true
				log.Info().Uint16("address", st.Address()).Msg("link reset")
			}
		} else {
			var resp protocol.Frame
			var err error
			if class1 {
				resp, err = st.RequestClass1(ctx)
			} else {
				resp, err = st.RequestClass2(ctx)
			}
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				log.Warn().Err(err).Uint16("address", st.Address()).Msg("poll failed, resetting link")
				linkUp = false
			} else {
				acd, _ := resp.AccessDemand()
				class1 = acd
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
