package services

import (
	"cmp"
	"slices"

	"github.com/benmeehan/otp-display/internal/models"
	"github.com/benmeehan/otp-display/pkg/radio"
	"github.com/rs/zerolog"
)

// NetworkSelector orders scanned networks into connection candidates.
type NetworkSelector struct {
	known  []models.KnownNetwork
	logger zerolog.Logger
}

// NewNetworkSelector initializes a new NetworkSelector
func NewNetworkSelector(known []models.KnownNetwork, logger zerolog.Logger) *NetworkSelector {
	return &NetworkSelector{
		known:  known,
		logger: logger,
	}
}

// Classify converts radio results into scan results, matching each SSID
// against the configured networks.
func (ns *NetworkSelector) Classify(aps []radio.AccessPoint) []models.ScanResult {
	index := make(map[string]int, len(ns.known))
	for i, k := range ns.known {
		if _, exists := index[k.SSID]; !exists {
			index[k.SSID] = i
		}
	}

	results := make([]models.ScanResult, 0, len(aps))
	for _, ap := range aps {
		knownIndex := models.NotKnown
		if i, ok := index[ap.SSID]; ok && ap.SSID != "" {
			knownIndex = i
		}
		results = append(results, models.ScanResult{
			SSID:           ap.SSID,
			SignalStrength: ap.Signal,
			IsOpen:         ap.Open,
			KnownIndex:     knownIndex,
		})
	}
	return results
}

// Select builds the ordered candidate list. The last-known network comes
// first if it is visible and still configured, then the other configured
// networks, then open networks. Each tier is ordered by signal strength and
// every SSID appears once, in its highest tier.
func (ns *NetworkSelector) Select(scan []models.ScanResult, last models.Credential) []models.Candidate {
	lastSSID := last.SSIDString()

	var lastKnown, known, open []models.Candidate
	for _, r := range scan {
		if r.SSID == "" {
			continue
		}
		isKnown := r.KnownIndex >= 0 && r.KnownIndex < len(ns.known)

		switch {
		case isKnown && !last.IsEmpty() && r.SSID == lastSSID:
			lastKnown = append(lastKnown, ns.candidate(r, models.TierLastKnown))
		case isKnown:
			known = append(known, ns.candidate(r, models.TierKnown))
		case r.IsOpen:
			open = append(open, ns.candidate(r, models.TierOpen))
		}
	}

	seen := make(map[string]struct{})
	candidates := make([]models.Candidate, 0, len(lastKnown)+len(known)+len(open))
	for _, tier := range [][]models.Candidate{lastKnown, known, open} {
		slices.SortStableFunc(tier, bySignalDesc)
		for _, c := range tier {
			if _, dup := seen[c.SSID]; dup {
				continue
			}
			seen[c.SSID] = struct{}{}
			candidates = append(candidates, c)
		}
	}

	ns.logger.Debug().
		Int("scanned", len(scan)).
		Int("candidates", len(candidates)).
		Bool("last_known_visible", len(lastKnown) > 0).
		Msg("Built connection candidate list")
	return candidates
}

func (ns *NetworkSelector) candidate(r models.ScanResult, tier models.Tier) models.Candidate {
	c := models.Candidate{
		SSID:           r.SSID,
		SignalStrength: r.SignalStrength,
		Tier:           tier,
	}
	if tier != models.TierOpen {
		c.Password = ns.known[r.KnownIndex].Password
	}
	return c
}

func bySignalDesc(a, b models.Candidate) int {
	return cmp.Compare(b.SignalStrength, a.SignalStrength)
}
