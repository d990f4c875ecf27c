// Package metrics exposes Prometheus counters for auth events.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Logins counts login attempts by outcome: new, existing, rejected.
	Logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sankofa_logins_total",
		Help: "Login attempts by outcome.",
	}, []string{"outcome"})

	// OtpVerifications counts OTP checks by outcome: ok, failed.
	OtpVerifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sankofa_otp_verifications_total",
		Help: "OTP verification attempts by outcome.",
	}, []string{"outcome"})

	// Refreshes counts refresh-token rotations by outcome: ok, failed.
	Refreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sankofa_token_refreshes_total",
		Help: "Refresh token rotations by outcome.",
	}, []string{"outcome"})

	// Logouts counts successful logouts.
	Logouts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sankofa_logouts_total",
		Help: "Successful logouts.",
	})
)
