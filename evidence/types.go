// Package evidence models the pre-generated evidence bundle shown on the
// proof section. Bundles are static fixtures: they are read and displayed,
// never computed, signed or anchored here.
package evidence

// Bundle is the top-level evidence document.
type Bundle struct {
	Incident     Incident     `json:"incident"`
	Proof        Proof        `json:"proof"`
	Meta         Meta         `json:"meta"`
	Distribution Distribution `json:"distribution"`
}

type Incident struct {
	IncidentID string    `json:"incident_id"`
	DetectedAt string    `json:"detected_at"`
	Endpoint   string    `json:"endpoint"`
	Status     string    `json:"status"`
	Regions    []string  `json:"regions"`
	Consensus  Consensus `json:"consensus"`
}

// Consensus is the probe threshold: Required of Total regions must agree.
type Consensus struct {
	Required int `json:"required"`
	Total    int `json:"total"`
}

type Proof struct {
	Hash          Hash          `json:"hash"`
	BitcoinAnchor BitcoinAnchor `json:"bitcoin_anchor"`
	Signature     Signature     `json:"signature"`
}

type Hash struct {
	Algorithm string `json:"algorithm"`
	Value     string `json:"value"`
}

type BitcoinAnchor struct {
	BlockHeight  int64  `json:"block_height"`
	AnchoredAt   string `json:"anchored_at"`
	Network      string `json:"network"`
	OTSProofFile string `json:"ots_proof_file"`
}

type Signature struct {
	Algorithm   string `json:"algorithm"`
	PublicKeyID string `json:"public_key_id"`
	Value       string `json:"value"`
}

type Meta struct {
	GeneratedAt    string `json:"generated_at"`
	ServiceVersion string `json:"service_version"`
	Environment    string `json:"environment"`
}

type Distribution struct {
	EvidenceURL string `json:"evidence_url"`
	OTSProofURL string `json:"ots_proof_url"`
}
