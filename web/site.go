// Package web renders the landing page sections and the SLA page, and serves
// the public assets they link to.
package web

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"trustmonitor/evidence"
	"trustmonitor/shared"
	"trustmonitor/sla"

	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// UnavailableDigest is shown when the SLA digest cannot be computed.
const UnavailableDigest = "Unavailable"

var funcs = template.FuncMap{
	"formatTime":    evidence.FormatTime,
	"blockHeight":   evidence.FormatBlockHeight,
	"explorerURL":   evidence.ExplorerURL,
	"explorerLabel": evidence.ExplorerLabel,
	"otsCommand":    evidence.OTSVerifyCommand,
	"hashCommand":   evidence.HashCheckCommand,
	"upper":         strings.ToUpper,
	"join":          strings.Join,
	"money":         FormatMoney,
	"mark":          comparisonMark,
}

func comparisonMark(v string) string {
	switch v {
	case "yes":
		return "✓"
	case "no":
		return "✕"
	case "partial":
		return "~"
	}
	return v
}

// Site holds everything the page handlers need. All fields are read-only
// after construction, so one Site serves concurrent requests.
type Site struct {
	content   *Content
	pages     *template.Template
	evidence  *evidence.Store
	documents *sla.Source
	publicDir string
	logger    *zap.Logger
}

func NewSite(content *Content, publicDir string, documents *sla.Source, logger *zap.Logger) (*Site, error) {
	pages, err := template.New("site").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Site{
		content:   content,
		pages:     pages,
		evidence:  evidence.NewStore(publicDir),
		documents: documents,
		publicDir: publicDir,
		logger:    logger.With(zap.String("component", "web")),
	}, nil
}

// Evidence returns the store backing the proof section.
func (s *Site) Evidence() *evidence.Store {
	return s.evidence
}

// Register adds the page, form, redirect and asset routes to mux.
func (s *Site) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /sla", s.handleSLAPage)
	mux.HandleFunc("POST /waitlist", s.handleWaitlist)

	for _, path := range []string{"/privacy", "/security"} {
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/#waitlist", http.StatusTemporaryRedirect)
		})
	}

	static, _ := fs.Sub(staticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", noListing(http.FileServerFS(static))))

	public := noListing(http.FileServer(http.Dir(s.publicDir)))
	mux.Handle("GET /"+evidence.Dir+"/", public)
}

// noListing hides directory indexes.
func noListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Site) render(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := s.pages.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.Error("Failed to render page", zap.String("template", name), zap.Error(err))
		shared.WriteJSONError(w, http.StatusInternalServerError, shared.ErrMsgInternal)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
