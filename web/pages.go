package web

import (
	"net/http"
	"net/mail"
	"strings"

	"trustmonitor/evidence"

	"go.uber.org/zap"
)

// proofView is the evidence bundle plus the pieces the template cannot derive.
type proofView struct {
	*evidence.Bundle
	Raw      string
	HashHead string
	HashTail string
	HasOTS   bool
}

func newProofView(snap *evidence.Snapshot, hasOTS bool) *proofView {
	head, tail := evidence.SplitHash(snap.Bundle.Proof.Hash.Value)
	return &proofView{
		Bundle:   snap.Bundle,
		Raw:      string(snap.Raw),
		HashHead: head,
		HashTail: tail,
		HasOTS:   hasOTS,
	}
}

type homePage struct {
	Content       *Content
	Proof         *proofView
	Estimate      Estimate
	Joined        bool
	WaitlistError bool
}

type slaPage struct {
	Content *Content
	SHA256  string
}

func (s *Site) handleHome(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := homePage{
		Content:       s.content,
		Estimate:      CalculatorInputFromQuery(q, s.content.Calculator.Defaults).Estimate(),
		Joined:        q.Get("joined") == "1",
		WaitlistError: q.Get("waitlist_error") == "1",
	}

	snap, err := s.evidence.Featured(r.Context())
	if err != nil {
		s.logger.Warn("Evidence bundle unavailable", zap.Error(err))
	} else {
		page.Proof = newProofView(snap, s.evidence.HasProofFile(snap.Bundle.Proof.BitcoinAnchor))
	}

	s.render(w, "home.html", page)
}

func (s *Site) handleSLAPage(w http.ResponseWriter, r *http.Request) {
	page := slaPage{Content: s.content, SHA256: UnavailableDigest}

	doc, err := s.documents.Load()
	if err != nil {
		s.logger.Warn("SLA digest unavailable", zap.Error(err))
	} else {
		page.SHA256 = doc.SHA256
	}

	s.render(w, "sla.html", page)
}

// handleWaitlist accepts a signup. Nothing is stored; the signup is logged
// by domain only.
func (s *Site) handleWaitlist(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 4<<10)
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/?waitlist_error=1#waitlist", http.StatusSeeOther)
		return
	}

	domain, ok := emailDomain(r.PostFormValue("email"))
	if !ok {
		http.Redirect(w, r, "/?waitlist_error=1#waitlist", http.StatusSeeOther)
		return
	}

	s.logger.Info("Waitlist signup", zap.String("email_domain", domain))
	http.Redirect(w, r, "/?joined=1#waitlist", http.StatusSeeOther)
}

// emailDomain validates a bare address (no display name) and returns its domain.
func emailDomain(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	addr, err := mail.ParseAddress(raw)
	if err != nil || addr.Address != raw || addr.Name != "" {
		return "", false
	}
	at := strings.LastIndexByte(addr.Address, '@')
	domain := addr.Address[at+1:]
	if !strings.Contains(domain, ".") {
		return "", false
	}
	return strings.ToLower(domain), true
}
