package detection

import (
	"context"
	"math"
	"time"

	"github.com/ahmetcoskunkizilkaya/safeview-backend/internal/models"
)

const (
	minConfidence = 0.70
	maxConfidence = 0.99

	safeCutoff   = 0.70
	mediumCutoff = 0.90
)

// MockDetector stands in for a real detection service. The outcome depends
// only on its random source; the content reference and type are not inspected.
type MockDetector struct {
	rnd RandomSource
	now func() time.Time
}

func NewMockDetector(rnd RandomSource) *MockDetector {
	if rnd == nil {
		rnd = NewRandomSource()
	}
	return &MockDetector{rnd: rnd, now: time.Now}
}

// WithClock overrides the clock used to stamp verdicts.
func (d *MockDetector) WithClock(now func() time.Time) *MockDetector {
	d.now = now
	return d
}

// Analyze draws confidence first, then the risk roll, then the threat sample.
// The draw order matters for callers that script the random source.
func (d *MockDetector) Analyze(_ context.Context, _ string, contentType string) (Verdict, error) {
	confidence := minConfidence + d.rnd.Float64()*(maxConfidence-minConfidence)
	confidence = math.Round(confidence*1000) / 1000

	riskRoll := d.rnd.Float64()

	var (
		riskLevel string
		threats   []string
	)
	switch {
	case riskRoll < safeCutoff:
		riskLevel = models.RiskSafe
		threats = []string{}
	case riskRoll < mediumCutoff:
		riskLevel = models.RiskMedium
		threats = d.sampleThreats(1 + d.rnd.IntN(2))
	default:
		riskLevel = models.RiskHigh
		threats = d.sampleThreats(2 + d.rnd.IntN(3))
	}

	return Verdict{
		RiskLevel:   riskLevel,
		Confidence:  confidence,
		ThreatTypes: threats,
		AnalyzedAt:  d.now().UTC(),
		ContentType: contentType,
	}, nil
}

// sampleThreats picks k distinct vocabulary entries.
func (d *MockDetector) sampleThreats(k int) []string {
	perm := d.rnd.Perm(len(ThreatVocabulary))
	out := make([]string, 0, k)
	for _, idx := range perm[:k] {
		out = append(out, ThreatVocabulary[idx])
	}
	return out
}

func (d *MockDetector) Capabilities() Capabilities {
	return Capabilities{
		SupportedContentTypes: append([]string(nil), SupportedContentTypes...),
		ThreatTypes:           append([]string(nil), ThreatVocabulary...),
		AccuracyRate:          0.94,
		AvgProcessingTime:     "2.3s",
	}
}
