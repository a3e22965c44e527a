package main

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
)

func logf(cfg *Config, format string, args ...any) {
	if !cfg.verbose {
		return
	}

	log.Printf("%s | "+format, append([]any{time.Now().Format(logDate)}, args...)...)
}

// logServe is the shared access-log line for every static/utility handler.
func logServe(cfg *Config, what string, written int64, r *http.Request, start time.Time) {
	logf(cfg, "SERVE: %s (%s) to %s in %s",
		what,
		humanReadableSize(written),
		realIP(r),
		time.Since(start).Round(time.Microsecond),
	)
}

// drainErrors consumes handler write errors for the lifetime of the
// process. Handlers push into a buffered channel so a slow log sink never
// stalls a response; something has to keep reading or the buffer fills and
// they block anyway.
func drainErrors(cfg *Config, errs <-chan error) {
	for err := range errs {
		logf(cfg, "ERROR: %v", err)
	}
}

func newPage(title, body string) string {
	var htmlBody strings.Builder

	htmlBody.WriteString(`<!DOCTYPE html><html lang="en"><head>`)
	htmlBody.WriteString(getFavicon())
	htmlBody.WriteString(`<style>`)
	htmlBody.WriteString(`html,body{height:100%;margin:0;display:grid;place-items:center;`)
	htmlBody.WriteString(`font-family:system-ui,sans-serif;background:#1d2430;color:#f4f1ea;}`)
	htmlBody.WriteString(`a{color:inherit;text-decoration:underline;}</style>`)
	htmlBody.WriteString(fmt.Sprintf("<title>%s</title></head>", title))
	htmlBody.WriteString(fmt.Sprintf("<body><p>%s <a href=\"/\">Back to the lobby.</a></p></body></html>", body))

	return htmlBody.String()
}
