package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ecospark/ewaste-server/internal/geo"
	"github.com/ecospark/ewaste-server/internal/server"
	"github.com/ecospark/ewaste-server/pkg/gemini"
	"github.com/ecospark/ewaste-server/pkg/places"
	"github.com/ecospark/ewaste-server/pkg/yelp"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the JSON HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := newStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		ai := gemini.NewClient(cfg.Gemini.Key, gemini.WithModel(cfg.Gemini.Model))

		// A nil geo client means that provider is unconfigured; the finder
		// handles the cascade and the no-provider error itself.
		var placesClient places.Client
		if cfg.Places.Key != "" {
			placesClient = places.NewClient(cfg.Places.Key)
		}
		var yelpClient yelp.Client
		if cfg.Yelp.Key != "" {
			yelpClient = yelp.NewClient(cfg.Yelp.Key)
		}
		finder := geo.NewFinder(placesClient, yelpClient,
			geo.WithRateLimit(cfg.Places.RateLimit),
			geo.WithMaxResults(cfg.Search.MaxResults),
		)
		shops := geo.NewShopLocator(placesClient)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: server.New(st, ai, finder, shops, cfg).Router(),
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(context.Background())
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
