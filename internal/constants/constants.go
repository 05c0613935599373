// Package constants provides shared constants used across the codebase.
// Centralizing these values ensures consistency and makes them easier to modify.
package constants

import "time"

// AI provider names
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"

	// DefaultProvider is used when a request does not name one
	DefaultProvider = ProviderOpenAI
)

// Model names, also the keys into prices.yaml
const (
	OpenAIModel = "gpt-4.1-mini"
	GeminiModel = "gemini-2.5-flash"
)

// Image processing constants
const (
	// MaxImageSize is the maximum dimension (width or height) a photo is
	// scaled down to before analysis and compositing
	MaxImageSize = 1920

	// MaxBodySize is the maximum JSON request body in bytes (50MB), photos
	// arrive inline as data URLs
	MaxBodySize = 50 << 20
)

// Session constants
const (
	// SessionCookieName is the cookie carrying the signed session ID
	SessionCookieName = "looksmaxxer_session"

	// DefaultSessionTTL is how long a session with its last photo is kept
	DefaultSessionTTL = 24 * time.Hour

	// SessionCleanupInterval is how often expired sessions are removed
	SessionCleanupInterval = 10 * time.Minute
)

// Batch processing constants
const (
	// DefaultConcurrency is the default number of parallel workers
	DefaultConcurrency = 4
)
