package tracer

import (
	"context"
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

var (
	otpIssuedTotal         metric.Int64Counter
	otpVerifyFailuresTotal metric.Int64Counter
	tokensIssuedTotal      metric.Int64Counter

	once sync.Once
)

// InitMetrics creates the application's metric instruments from the globally
// configured meter provider. Safe to call more than once.
func InitMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("hd-notes-api")
		var err error

		otpIssuedTotal, err = meter.Int64Counter(
			"otp_issued_total",
			metric.WithDescription("Total number of one-time codes issued"),
			metric.WithUnit("{code}"),
		)
		if err != nil {
			log.Fatalf("Metrics: failed to create otp_issued_total: %v", err)
		}

		otpVerifyFailuresTotal, err = meter.Int64Counter(
			"otp_verify_failures_total",
			metric.WithDescription("Total number of failed OTP verification attempts"),
			metric.WithUnit("{attempt}"),
		)
		if err != nil {
			log.Fatalf("Metrics: failed to create otp_verify_failures_total: %v", err)
		}

		tokensIssuedTotal, err = meter.Int64Counter(
			"session_tokens_issued_total",
			metric.WithDescription("Total number of session tokens issued"),
			metric.WithUnit("{token}"),
		)
		if err != nil {
			log.Fatalf("Metrics: failed to create session_tokens_issued_total: %v", err)
		}
	})
}

func RecordOTPIssued(ctx context.Context) {
	if otpIssuedTotal != nil {
		otpIssuedTotal.Add(ctx, 1)
	}
}

func RecordOTPVerifyFailure(ctx context.Context) {
	if otpVerifyFailuresTotal != nil {
		otpVerifyFailuresTotal.Add(ctx, 1)
	}
}

func RecordTokenIssued(ctx context.Context) {
	if tokensIssuedTotal != nil {
		tokensIssuedTotal.Add(ctx, 1)
	}
}
