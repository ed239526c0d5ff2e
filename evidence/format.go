package evidence

import (
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const explorerBase = "https://blockstream.info/block-height/"

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatTime renders an RFC 3339 timestamp as "Feb 10, 2026, 02:47 AM UTC".
// Unparseable input is returned unchanged.
func FormatTime(iso string) string {
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return iso
	}
	return t.UTC().Format("Jan 2, 2006, 03:04 PM") + " UTC"
}

// FormatBlockHeight groups digits, e.g. 883412 -> "883,412".
func FormatBlockHeight(height int64) string {
	return printer.Sprintf("%d", height)
}

// SplitHash breaks a hex digest into two display lines at 32 characters.
func SplitHash(value string) (string, string) {
	if len(value) <= 32 {
		return value, ""
	}
	return value[:32], value[32:]
}

// ExplorerURL links to the anchoring block on a public block explorer.
func ExplorerURL(height int64) string {
	return explorerBase + strconv.FormatInt(height, 10)
}

// ExplorerLabel is ExplorerURL without the scheme.
func ExplorerLabel(height int64) string {
	return "blockstream.info/block-height/" + strconv.FormatInt(height, 10)
}

// OTSVerifyCommand is the shell command that checks the timestamp proof.
func OTSVerifyCommand(a BitcoinAnchor) string {
	return "ots verify " + a.OTSProofFile
}

// HashCheckCommand is the shell command that recomputes the bundle hash.
func HashCheckCommand(incidentID string) string {
	return "shasum -a 256 \\\n  " + incidentID + ".json"
}

// ConfirmedRegions reports how many probe regions confirmed the incident.
func (i Incident) ConfirmedRegions() int {
	return len(i.Regions)
}

// ConsensusReached reports whether enough regions confirmed.
func (i Incident) ConsensusReached() bool {
	return i.ConfirmedRegions() >= i.Consensus.Required
}
