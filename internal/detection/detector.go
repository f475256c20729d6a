// Package detection classifies content references into risk verdicts.
package detection

import (
	"context"
	"time"
)

const (
	ContentVideo = "video"
	ContentImage = "image"
	ContentAudio = "audio"
)

// ThreatVocabulary is the sampling universe for Verdict.ThreatTypes.
var ThreatVocabulary = []string{
	"deepfake_video",
	"synthetic_audio",
	"manipulated_image",
	"ai_generated_text",
	"face_swap",
	"voice_cloning",
}

// SupportedContentTypes lists the content types a detector understands.
var SupportedContentTypes = []string{ContentVideo, ContentImage, ContentAudio}

// Verdict is the output of one detector invocation, not yet persisted.
type Verdict struct {
	RiskLevel   string    `json:"risk_level"`
	Confidence  float64   `json:"confidence"`
	ThreatTypes []string  `json:"threat_types"`
	AnalyzedAt  time.Time `json:"analysis_time"`
	ContentType string    `json:"content_type"`
}

// Capabilities is static descriptive metadata about a detector.
type Capabilities struct {
	SupportedContentTypes []string `json:"supported_content_types"`
	ThreatTypes           []string `json:"threat_types"`
	AccuracyRate          float64  `json:"accuracy_rate"`
	AvgProcessingTime     string   `json:"processing_time_avg"`
}

// Detector produces verdicts for content references. The in-process mock never
// fails; remote implementations may.
type Detector interface {
	Analyze(ctx context.Context, contentURL, contentType string) (Verdict, error)
	Capabilities() Capabilities
}

// IsSupportedContentType reports whether ct is one of SupportedContentTypes.
func IsSupportedContentType(ct string) bool {
	for _, s := range SupportedContentTypes {
		if s == ct {
			return true
		}
	}
	return false
}
