package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/pprof"
	"os"

	"github.com/rs/zerolog/log"
	suture "github.com/thejerf/suture/v4"
)

// externalWeb serves pprof and the current log file for debugging
type externalWeb struct {
	srv     *http.Server
	logFile string
}

func NewWeb(addr string, logFile string) *externalWeb {
	return &externalWeb{
		srv: &http.Server{
			Addr: addr,
		},
		logFile: logFile,
	}
}

func (g *externalWeb) String() string {
	return "externalWeb"
}

func (g *externalWeb) handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/debug/logs", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if g.logFile == "" {
			fmt.Fprintf(w, "Logging to file is not enabled")
			return
		}
		osFile, err := os.Open(g.logFile)
		if err != nil {
			fmt.Fprintf(w, "Unable to open log file: %+v", err)
			return
		}
		defer osFile.Close()
		io.Copy(w, osFile)
	}))
	mux.Handle("/debug/version", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "AcerRGB %s\n", Version)
	}))
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	return mux
}

func (g *externalWeb) Serve(haltCtx context.Context) error {
	errCh := make(chan error, 1)
	g.srv.Handler = g.handler()

	go func() {
		log.Info().Msgf("[externalWeb] externalWeb available at %s", g.srv.Addr)
		errCh <- g.srv.ListenAndServe()
	}()
	for {
		select {
		case <-haltCtx.Done():
			log.Info().Msg("[externalWeb] exiting externalWeb server")
			g.srv.Shutdown(context.Background())
			return nil
		case err := <-errCh:
			if err == nil || err == http.ErrServerClosed {
				return nil
			}
			log.Error().Err(err).Msg("[externalWeb] error channel")
			return suture.ErrDoNotRestart
		}
	}
}
