package commands

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/battlesnakeio/arcade/api"
	"github.com/battlesnakeio/arcade/config"
	"github.com/battlesnakeio/arcade/session"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	apiListen   = ":3005"
	maxSessions = config.MaxSessions
	promEnable  = true
	promListen  = ":9000"
)

func init() {
	serveCmd.Flags().StringVarP(&apiListen, "listen", "l", apiListen, "api address to listen on")
	serveCmd.Flags().IntVar(&maxSessions, "max-sessions", maxSessions, "maximum number of concurrent games")
	serveCmd.Flags().BoolVar(&promEnable, "prometheus", promEnable, "enable prometheus metrics")
	serveCmd.Flags().StringVar(&promListen, "prometheus-listen", promListen, "prometheus http endpoint")
}

var serveCmd = &cobra.Command{
	Use:    "serve",
	Short:  "serves snake games over http and websockets",
	PreRun: func(c *cobra.Command, args []string) { prometheus() },
	Run: func(c *cobra.Command, args []string) {
		store, err := openStore(storeBackend, storeArgs)
		if err != nil {
			log.WithError(err).WithField("backend", storeBackend).Fatal("unable to open high score store")
		}
		defer closeStore(store)

		sessions := session.NewManager(maxSessions)
		defer sessions.Close()

		srv := api.New(apiListen, sessions, store)
		go func() {
			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
			<-sig
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				log.WithError(err).Warn("api shutdown failed")
			}
		}()

		if err := srv.WaitForExit(); err != nil {
			log.WithError(err).
				WithField("listen", apiListen).
				Error("api server failed")
		}
	},
}

func prometheus() {
	if !promEnable {
		log.Info("prometheus exporter not enabled")
		return
	}

	log.WithField("addr", promListen).Info("starting prometheus exporter")
	go func() {
		r := http.NewServeMux()
		r.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(promListen, r); err != nil {
			log.WithError(err).Warn("prometheus failed to listen")
		}
	}()
}
