package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/handicapstudent/ppt-project/internal/config"
	"github.com/handicapstudent/ppt-project/internal/events"
	"github.com/handicapstudent/ppt-project/internal/metrics"
	"github.com/handicapstudent/ppt-project/internal/models"
)

// Speaker voices one utterance. The production engine shells out to the
// platform TTS binary; tests substitute fakes.
type Speaker interface {
	Speak(text string) error
}

// RetryPolicy controls how often a failed utterance is retried and how the
// delay between attempts grows.
type RetryPolicy struct {
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// NextDelay returns the backoff before retrying the given 1-based attempt,
// clamped to MaxDelay.
func (p RetryPolicy) NextDelay(attempt int) time.Duration {
	delay := p.InitialDelay
	if delay <= 0 {
		delay = time.Second
	}
	factor := p.BackoffFactor
	if factor <= 0 {
		factor = 2
	}
	for i := 1; i < attempt; i++ {
		delay = time.Duration(float64(delay) * factor)
		if p.MaxDelay > 0 && delay >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	return delay
}

// AnnounceWorker turns reservation events into voice announcements. It is
// strictly fire-and-forget: enqueueing never blocks, a full queue drops
// the utterance, and nothing in the booking flow waits on narration.
type AnnounceWorker struct {
	speaker Speaker
	queue   chan string
	retry   RetryPolicy
	enabled bool
	logger  *zerolog.Logger
}

func NewAnnounceWorker(speaker Speaker, acc config.AccessibilityConfig, retry RetryPolicy, logger *zerolog.Logger) *AnnounceWorker {
	if retry.MaxRetries == 0 {
		retry.MaxRetries = 2
	}
	if retry.InitialDelay == 0 {
		retry.InitialDelay = 500 * time.Millisecond
	}
	if retry.BackoffFactor == 0 {
		retry.BackoffFactor = 2
	}

	return &AnnounceWorker{
		speaker: speaker,
		queue:   make(chan string, models.AnnounceQueueSize),
		retry:   retry,
		enabled: acc.TTSEnabled,
		logger:  logger,
	}
}

// Announce implements domain.Announcer.
func (w *AnnounceWorker) Announce(text string) {
	if !w.enabled || text == "" {
		return
	}
	metrics.IncAnnouncement()
	select {
	case w.queue <- text:
	default:
		w.logger.Warn().Str("text", text).Msg("announce queue full, utterance dropped")
	}
}

// SubscribeBus wires the worker to the reservation events it narrates.
// When TTS is disabled nothing is subscribed at all.
func (w *AnnounceWorker) SubscribeBus(bus *events.EventBus) {
	if !w.enabled {
		return
	}
	handler := func(event *events.Event) error {
		var payload events.ReservationEventPayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			return err
		}
		w.Announce(payload.Message)
		return nil
	}
	bus.Subscribe(events.EventReservationBooked, handler)
	bus.Subscribe(events.EventReservationRejected, handler)
	bus.Subscribe(events.EventReservationCancelled, handler)
}

// Start consumes the queue until the context is cancelled.
func (w *AnnounceWorker) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case text := <-w.queue:
			w.speak(ctx, text)
		}
	}
}

func (w *AnnounceWorker) speak(ctx context.Context, text string) {
	for attempt := 1; ; attempt++ {
		err := w.speaker.Speak(text)
		if err == nil {
			return
		}
		if attempt > w.retry.MaxRetries {
			w.logger.Error().Err(err).Str("text", text).Msg("tts failed, giving up")
			return
		}
		w.logger.Warn().Err(err).Int("attempt", attempt).Msg("tts failed, retrying")

		select {
		case <-ctx.Done():
			return
		case <-time.After(w.retry.NextDelay(attempt)):
		}
	}
}
