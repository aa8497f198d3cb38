package service

import (
	"context"
	"strings"
	"time"

	"marehpilates/internal/domain"
	"marehpilates/internal/metrics"
	"marehpilates/internal/models"

	"github.com/rs/zerolog"
)

func orNop(logger *zerolog.Logger) *zerolog.Logger {
	if logger == nil {
		nop := zerolog.Nop()
		return &nop
	}
	return logger
}

// publish hands payload to the bus. Delivery problems are logged, never returned:
// the write they describe has already committed.
func publish(logger *zerolog.Logger, bus domain.EventPublisher, eventType string, payload interface{}) {
	if bus == nil {
		return
	}
	metrics.IncEvent(eventType)
	if err := bus.PublishJSON(eventType, payload); err != nil {
		logger.Error().Err(err).Str("event_type", eventType).Msg("publish event error")
	}
}

// checkRef turns a missing row into a ReferenceError naming field.
func checkRef(ctx context.Context, exists func(context.Context, int64) (bool, error), field string, id int64) error {
	ok, err := exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.InvalidReference(field)
	}
	return nil
}

// requiredString returns the trimmed value or a ValidationError when absent or blank.
func requiredString(f models.Field[string], field string) (string, error) {
	if !f.Has() || strings.TrimSpace(f.Value) == "" {
		return "", domain.Required(field)
	}
	return strings.TrimSpace(f.Value), nil
}

// optionalString maps absent, null and blank values to nil.
func optionalString(f models.Field[string]) *string {
	if !f.Has() {
		return nil
	}
	v := strings.TrimSpace(f.Value)
	if v == "" {
		return nil
	}
	return &v
}

func today(clock domain.Clock) models.Date {
	return models.DateOf(clock())
}

func systemClock() time.Time { return time.Now() }
