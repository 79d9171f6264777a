// Command endpointctl runs one peer of the length-prefixed socket protocol
// from the command line, for manual interop testing against another
// endpointctl instance or another implementation of the same wire format.
package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/arcuswire/endpoint"
	"github.com/arcuswire/endpoint/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var (
	addr        string
	port        uint16
	metricsAddr string
	logLevel    string
)

func main() {
	root := &cobra.Command{
		Use:   "endpointctl",
		Short: "Run one peer of the length-prefixed socket protocol",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var lvl slog.Level
			if err := lvl.UnmarshalText([]byte(logLevel)); err != nil {
				return err
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
			return nil
		},
	}
	root.PersistentFlags().StringVar(&addr, "addr", "127.0.0.1", "IPv4 address")
	root.PersistentFlags().Uint16Var(&port, "port", 7777, "TCP port")
	root.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "address to serve /metrics on, e.g. :9090 (disabled if empty)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")

	root.AddCommand(listenCmd(), connectCmd())

	if err := root.Execute(); err != nil {
		slog.Error("endpointctl failed", "error", err)
		os.Exit(1)
	}
}

func listenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "listen",
		Short: "Listen for one incoming connection and echo-log received messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			rec := maybeServeMetrics()

			ep, err := endpoint.New(
				endpoint.WithTypeRegistry(newTextRegistry()),
				endpoint.WithPayloadCodec(textCodec{}),
				endpoint.WithMetrics(rec),
			)
			if err != nil {
				return err
			}
			ep.AddListener(&cliListener{ep: ep})

			slog.Info("listening", "addr", addr, "port", port)
			if err := ep.Listen(addr, port); err != nil {
				return err
			}
			ep.Wait()
			return nil
		},
	}
}

func connectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "connect",
		Short: "Connect to a listening peer and send stdin lines as messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			rec := maybeServeMetrics()

			ep, err := endpoint.New(
				endpoint.WithTypeRegistry(newTextRegistry()),
				endpoint.WithPayloadCodec(textCodec{}),
				endpoint.WithMetrics(rec),
			)
			if err != nil {
				return err
			}
			ep.AddListener(&cliListener{ep: ep})

			slog.Info("connecting", "addr", addr, "port", port)
			if err := ep.Connect(addr, port); err != nil {
				return err
			}

			go func() {
				scanner := bufio.NewScanner(os.Stdin)
				for scanner.Scan() {
					ep.Send(&textMessage{text: scanner.Text()})
				}
				ep.Close()
			}()

			ep.Wait()
			return nil
		},
	}
}

// maybeServeMetrics starts a /metrics HTTP server when --metrics-addr is
// set and returns the Recorder to wire into the endpoint; otherwise
// returns nil, letting the endpoint fall back to its no-op default.
func maybeServeMetrics() endpoint.MetricsRecorder {
	if metricsAddr == "" {
		return nil
	}

	rec := metrics.New(prometheus.DefaultRegisterer)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("metrics server failed", "error", err)
		}
	}()
	fmt.Fprintf(os.Stderr, "metrics listening on %s\n", metricsAddr)
	return rec
}
