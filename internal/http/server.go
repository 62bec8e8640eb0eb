package http

import (
	"context"
	"errors"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"bikeshare/internal/amqp"
	"bikeshare/internal/core"
	"bikeshare/internal/dataset"
	"bikeshare/internal/log"
	"bikeshare/internal/metrics"
	"bikeshare/internal/middleware/ratelimit"
	"bikeshare/internal/middleware/security"
	"bikeshare/internal/middleware/trace"
	appweb "bikeshare/web"
)

// Reporter computes dashboard reports over the loaded datasets.
type Reporter interface {
	Ready() bool
	Bounds(ctx context.Context) (core.DateRange, error)
	Report(ctx context.Context, r core.DateRange, surface string) (core.Report, error)
}

// ReportQueue publishes asynchronous report requests.
type ReportQueue interface {
	PublishReportRequest(ctx context.Context, req *amqp.ReportRequest) error
}

// Deps are the collaborators of the HTTP server. Queue and Recorder may be nil.
type Deps struct {
	Reporter           Reporter
	Queue              ReportQueue
	Recorder           *metrics.Recorder
	Logger             *log.Logger
	AssetPath          string
	RequestTimeout     time.Duration
	RateLimitPerMinute int
	TrustedProxies     []string // CIDRs whose X-Forwarded-For is honoured
}

// Report surfaces, used as metric and log labels.
const (
	surfaceHTML = "html"
	surfaceAPI  = "api"
	surfaceXLSX = "xlsx"
)

type Server struct {
	http.Server
	templates *template.Template
	reporter  Reporter
	queue     ReportQueue
	recorder  *metrics.Recorder
	logger    *log.Logger
	timeout   time.Duration
	asset     *dataset.Asset
	started   time.Time

	rateLimiter      *ratelimit.Limiter
	securityDetector *security.Detector
	traceMiddleware  *trace.Middleware

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(addr string, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentHTTP)
	timeout := deps.RequestTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      timeout + 5*time.Second,
			IdleTimeout:       120 * time.Second,
		},
		reporter:         deps.Reporter,
		queue:            deps.Queue,
		recorder:         deps.Recorder,
		logger:           logger,
		timeout:          timeout,
		started:          time.Now(),
		securityDetector: security.NewDetector(),
		rateLimiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: deps.RateLimitPerMinute,
			CleanupInterval:   5 * time.Minute,
		}),
	}
	for _, cidr := range deps.TrustedProxies {
		if err := s.securityDetector.AddTrustedProxy(cidr); err != nil {
			logger.Warn("Ignoring trusted proxy", "cidr", cidr, "error", err)
		}
	}
	s.traceMiddleware = trace.NewMiddleware(s.securityDetector.ExtractClientIP, deps.Recorder)

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		logger.Warn("Failed parsing templates", "error", err)
	} else {
		s.templates = t
	}

	s.loadAsset(deps.AssetPath)

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", security.CacheFor(time.Hour)(static))
	} else {
		logger.Warn("Failed to mount embedded static FS", "error", err)
	}

	limited := s.rateLimiter.Middleware(s.securityDetector.ExtractClientIP, nil)

	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/ui/report", s.handleReportPartial)
	mux.Handle("/api/report", limited(http.HandlerFunc(s.handleReportAPI)))
	mux.Handle("/export.xlsx", limited(http.HandlerFunc(s.handleExport)))
	mux.Handle("/reports", limited(http.HandlerFunc(s.handleEnqueueReport)))
	mux.HandleFunc("/asset", s.handleAsset)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.Handle("/metrics", deps.Recorder.Handler())

	headers := security.NewHeadersMiddleware(security.DashboardHeadersConfig())
	var h http.Handler = mux
	h = log.RequestIDMiddleware(trace.FromRequest)(h)
	h = log.Middleware(logger)(h)
	h = s.securityDetector.Middleware(h)
	h = headers.Middleware(h)
	h = s.traceMiddleware.Middleware(h)
	s.Handler = h

	return s
}

func (s *Server) loadAsset(path string) {
	asset, err := dataset.LoadAsset(path)
	switch {
	case err == nil:
		s.asset = &asset
		s.logger.Info("Sidebar asset loaded", "path", path, "content_type", asset.ContentType, "bytes", len(asset.Data))
	case errors.Is(err, core.ErrAssetMissing):
		s.logger.Debug("Sidebar asset not found", "path", path)
	default:
		s.logger.Warn("Sidebar asset unreadable", "path", path, "error", err)
	}
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
