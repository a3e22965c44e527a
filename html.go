package main

import (
	"embed"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Ragudos/skribbl/internal/session"
	"github.com/julienschmidt/httprouter"
)

//go:embed dist/*
var dist embed.FS

// cspHome relaxes the default 'self'-only Content-Security-Policy for the
// handshake page: it needs to load its own stylesheet/script and to open a
// WebSocket back to the same origin.
func cspHome(cfg *Config, w http.ResponseWriter) {
	wsScheme := "ws:"
	if cfg.scheme() == "https" {
		wsScheme = "wss:"
	}
	w.Header().Set("Content-Security-Policy",
		"default-src 'self'; connect-src 'self' "+wsScheme+"; style-src 'self'; script-src 'self'")
}

func serveHomePage(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		data, err := dist.ReadFile("dist/index.html")
		if err != nil {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		securityHeaders(cfg, w)
		cspHome(cfg, w)
		_, _ = w.Write(data)
	}
}

// serveHealthCheck reports liveness plus how many rooms and players the
// process is currently carrying.
func serveHealthCheck(cfg *Config, game *session.Server, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		rooms, users := game.Registry.Counts()

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		securityHeaders(cfg, w)

		_, err := fmt.Fprintf(w, "{\"status\":\"ok\",\"rooms\":%d,\"users\":%d}\n", rooms, users)
		if err != nil {
			errs <- err

			return
		}
	}
}

func serveAssets(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		startTime := time.Now()

		fname := strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, cfg.prefix), "/")

		data, err := dist.ReadFile(fname)
		if err != nil {
			http.NotFound(w, r)

			return
		}

		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		securityHeaders(cfg, w)

		switch strings.ToLower(filepath.Ext(fname)) {
		case ".css":
			w.Header().Set("Content-Type", "text/css; charset=utf-8")
		case ".html":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
		case ".js":
			w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
		case ".svg":
			w.Header().Set("Content-Type", "image/svg+xml")
		}

		written, err := w.Write(data)
		if err != nil {
			errs <- err

			return
		}

		logServe(cfg, fname, int64(written), r, startTime)
	}
}

// serveRobots keeps crawlers on the landing page. Everything past it is
// either a live socket or a transient room artifact with nothing to index.
func serveRobots(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		startTime := time.Now()

		data := "User-agent: *\nDisallow: /ws\nDisallow: /rooms/\n"

		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		securityHeaders(cfg, w)

		written, err := w.Write([]byte(data))
		if err != nil {
			errs <- err

			return
		}

		logServe(cfg, "robots.txt", int64(written), r, startTime)
	}
}
