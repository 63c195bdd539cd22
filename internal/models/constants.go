package models

// Session steps for the seat reservation dialog.
const (
	StepViewing       = "viewing"
	StepTimeSelecting = "time_selecting"
	StepCancelConfirm = "cancel_confirm"
)

const (
	// DefaultRefreshSeconds is the seat-status repoll period.
	DefaultRefreshSeconds = 60

	// DefaultStateTTL is how long a persisted session state lives (seconds).
	DefaultStateTTL = 24 * 60 * 60

	// LoginRateLimit / LoginRateWindow bound failed login attempts.
	LoginRateLimit  = 10
	LoginRateWindow = 60

	// AnnounceQueueSize is the TTS worker queue capacity.
	AnnounceQueueSize = 64

	// MenuCacheSeconds is how long a fetched weekly menu stays fresh.
	MenuCacheSeconds = 30 * 60
)
