// Package server wires the site, the SLA download and the infrastructure
// endpoints into an http.Server, with optional ACME-managed HTTPS.
package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"time"

	"trustmonitor/evidence"
	"trustmonitor/shared"
	"trustmonitor/sla"
	"trustmonitor/web"

	"go.uber.org/zap"
	"golang.org/x/crypto/acme/autocert"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	config  *Config
	logger  *shared.Logger
	handler http.Handler
	started time.Time
}

// New builds the route table. It lints the featured evidence bundle so
// operators see fixture problems at startup; lint failures never stop the server.
func New(config *Config, logger *shared.Logger) (*Server, error) {
	content, err := web.LoadContent(config.ContentPath)
	if err != nil {
		return nil, err
	}

	documents := sla.NewSource(config.PublicDir)
	site, err := web.NewSite(content, config.PublicDir, documents, logger.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	s := &Server{
		config:  config,
		logger:  logger,
		started: time.Now(),
	}

	s.lintEvidence(site.Evidence())

	mux := http.NewServeMux()
	mux.Handle("/download-sla", sla.NewHandler(documents, logger.Logger))
	site.Register(mux)
	s.addInfrastructureEndpoints(mux)

	s.handler = withRequestLogging(logger, withSecurityHeaders(mux))
	return s, nil
}

// Handler returns the fully wrapped handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) lintEvidence(store *evidence.Store) {
	snap, err := store.Featured(context.Background())
	if err != nil {
		s.logger.Warn("Featured evidence bundle not readable", zap.Error(err))
		return
	}
	if err := evidence.Lint(snap.Raw); err != nil {
		s.logger.Warn("Featured evidence bundle failed lint", zap.Error(err))
		return
	}
	s.logger.Info("Featured evidence bundle passed lint",
		zap.String("incident_id", snap.Bundle.Incident.IncidentID))
}

// Run serves until ctx is cancelled or a listener fails, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	servers := s.buildServers()

	errChan := make(chan error, len(servers))
	for _, srv := range servers {
		go func() {
			var err error
			if srv.TLSConfig != nil {
				s.logger.Info("Starting HTTPS server", zap.String("addr", srv.Addr), zap.String("domain", s.config.Domain))
				err = srv.ListenAndServeTLS("", "")
			} else {
				s.logger.Info("Starting HTTP server", zap.String("addr", srv.Addr))
				err = srv.ListenAndServe()
			}
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				errChan <- fmt.Errorf("server on %s failed: %w", srv.Addr, err)
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down...")
	case runErr = <-errChan:
		s.logger.Critical("Server failed", zap.Error(runErr))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for _, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Shutdown error", zap.String("addr", srv.Addr), zap.Error(err))
		}
	}

	s.logger.Info("Shutdown complete")
	return runErr
}

func (s *Server) buildServers() []*http.Server {
	if !s.config.TLSEnabled() {
		return []*http.Server{s.newHTTPServer(fmt.Sprintf(":%d", s.config.Port), s.handler)}
	}

	manager := &autocert.Manager{
		Prompt:     autocert.AcceptTOS,
		HostPolicy: autocert.HostWhitelist(s.config.Domain, "www."+s.config.Domain),
		Cache:      autocert.DirCache(s.config.CertCacheDir),
		Email:      s.config.ACMEEmail,
	}

	tlsConfig := manager.TLSConfig()
	tlsConfig.MinVersion = tls.VersionTLS12

	httpsServer := s.newHTTPServer(fmt.Sprintf(":%d", s.config.HTTPSPort), s.handler)
	httpsServer.TLSConfig = tlsConfig

	// HTTP answers ACME challenges and redirects everything else to HTTPS.
	httpServer := s.newHTTPServer(fmt.Sprintf(":%d", s.config.HTTPPort), manager.HTTPHandler(nil))

	return []*http.Server{httpsServer, httpServer}
}

func (s *Server) newHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		ErrorLog:          zap.NewStdLog(s.logger.Logger),
	}
}
