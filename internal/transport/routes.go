package transport

import (
	"fmt"
	"net/http"
	"net/http/pprof"
	"strings"

	"github.com/julienschmidt/httprouter"

	"github.com/anlumo/tttod/internal/config"
	"github.com/anlumo/tttod/internal/registry"
	"github.com/anlumo/tttod/internal/session"
)

// releaseVersion is reported by /version. cmd/tttod-server keeps its own
// constant of the same value for cobra's --version flag.
const releaseVersion = "0.1.0"

func securityHeaders(cfg *config.Config, w http.ResponseWriter) {
	w.Header().Set("Cross-Origin-Embedder-Policy", "require-corp")
	w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")
	w.Header().Set("Cross-Origin-Resource-Policy", "same-site")
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Content-Security-Policy", "default-src 'self'")

	if cfg.Scheme() == "https" {
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
	}
}

func newPage(title, body string) string {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html lang="en"><head>`)
	b.WriteString(`<style>html,body{height:100%;width:100%;font-family:sans-serif;}</style>`)
	b.WriteString(fmt.Sprintf("<title>%s</title></head>", title))
	b.WriteString(fmt.Sprintf("<body>%s</body></html>", body))
	return b.String()
}

func serveHealthCheck(cfg *config.Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		securityHeaders(cfg, w)
		_, _ = w.Write([]byte("Ok\n"))
	}
}

func serveRobots(cfg *config.Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		securityHeaders(cfg, w)
		_, _ = w.Write([]byte("User-agent: *\nDisallow: /\n"))
	}
}

func serveVersion(cfg *config.Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		securityHeaders(cfg, w)
		_, _ = w.Write([]byte("tttod-server v" + releaseVersion + "\n"))
	}
}

// serveGamePage serves the bare join page for :gameid. The actual game
// client is out of scope (spec.md's contract is the server state machine
// only); this just hands the browser a page it can open a websocket from.
func serveGamePage(cfg *config.Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		securityHeaders(cfg, w)
		gameID := ps.ByName("gameid")
		_, _ = w.Write([]byte(newPage(gameID, fmt.Sprintf("Game %s", gameID))))
	}
}

func registerProfileHandlers(cfg *config.Config, mux *httprouter.Router) {
	mux.Handler("GET", cfg.Prefix+"/pprof/allocs", pprof.Handler("allocs"))
	mux.Handler("GET", cfg.Prefix+"/pprof/block", pprof.Handler("block"))
	mux.Handler("GET", cfg.Prefix+"/pprof/goroutine", pprof.Handler("goroutine"))
	mux.Handler("GET", cfg.Prefix+"/pprof/heap", pprof.Handler("heap"))
	mux.Handler("GET", cfg.Prefix+"/pprof/mutex", pprof.Handler("mutex"))
	mux.Handler("GET", cfg.Prefix+"/pprof/threadcreate", pprof.Handler("threadcreate"))
	mux.HandlerFunc("GET", cfg.Prefix+"/pprof/cmdline", pprof.Cmdline)
	mux.HandlerFunc("GET", cfg.Prefix+"/pprof/profile", pprof.Profile)
	mux.HandlerFunc("GET", cfg.Prefix+"/pprof/symbol", pprof.Symbol)
	mux.HandlerFunc("GET", cfg.Prefix+"/pprof/trace", pprof.Trace)
}

// Register builds the full httprouter.Router: health/robots/version
// utility routes, the join page, the websocket endpoint, and the QR
// helper, mirroring Seednode-partybox/web.go's route layout generalized
// from a single fixed "/celebrity" game to arbitrary game names.
func Register(cfg *config.Config, mgr *registry.Manager, newRandomizer func() session.Randomizer) *httprouter.Router {
	mux := httprouter.New()

	mux.PanicHandler = func(w http.ResponseWriter, r *http.Request, i any) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		securityHeaders(cfg, w)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(newPage("Server Error", "An error has occurred. Please try again.")))
	}

	cfg.Prefix = strings.TrimSuffix(cfg.Prefix, "/")

	mux.GET(cfg.Prefix+"/healthz", serveHealthCheck(cfg))
	mux.GET(cfg.Prefix+"/robots.txt", serveRobots(cfg))
	mux.GET(cfg.Prefix+"/version", serveVersion(cfg))

	if cfg.Profile {
		registerProfileHandlers(cfg, mux)
	}

	mux.GET(cfg.Prefix+"/tttod/:gameid", serveGamePage(cfg))
	mux.GET(cfg.Prefix+"/tttod/:gameid/qr", serveQR(cfg))
	mux.GET(cfg.Prefix+"/tttod/:gameid/ws/:playerid", ServeWS(cfg, mgr, newRandomizer))

	return mux
}
