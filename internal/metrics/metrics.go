// Package metrics counts economy and progress events and writes them to a
// node-exporter textfile.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/balkashynov/flowstate/internal/apperr"
	"github.com/balkashynov/flowstate/internal/engine"
)

// Recorder implements engine.Observer on its own registry.
type Recorder struct {
	registry *prometheus.Registry

	SessionsTotal   *prometheus.CounterVec
	FocusMinutes    prometheus.Counter
	DustEarned      *prometheus.CounterVec
	DustSpent       *prometheus.CounterVec
	CrystalsForged  *prometheus.CounterVec
	FusionsTotal    *prometheus.CounterVec
	ClaimsTotal     prometheus.Counter
	TierUpsTotal    *prometheus.CounterVec
	RejectionsTotal *prometheus.CounterVec
	EventsTotal     *prometheus.CounterVec
}

func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,

		SessionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flowstate_sessions_total",
				Help: "Completed focus sessions",
			},
			[]string{"kind"},
		),
		FocusMinutes: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "flowstate_focus_minutes_total",
				Help: "Minutes of completed focus",
			},
		),
		DustEarned: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flowstate_dust_earned_total",
				Help: "Focus dust earned",
			},
			[]string{"source"},
		),
		DustSpent: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flowstate_dust_spent_total",
				Help: "Focus dust spent",
			},
			[]string{"sink"},
		),
		CrystalsForged: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flowstate_crystals_forged_total",
				Help: "Crystals added to the sanctuary",
			},
			[]string{"type"},
		),
		FusionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flowstate_fusions_total",
				Help: "Successful fusions by input type",
			},
			[]string{"input"},
		),
		ClaimsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "flowstate_challenge_claims_total",
				Help: "Challenge rewards claimed",
			},
		),
		TierUpsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flowstate_achievement_tier_ups_total",
				Help: "Achievement levels gained",
			},
			[]string{"achievement"},
		),
		RejectionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flowstate_rejections_total",
				Help: "Rejected actions by error code",
			},
			[]string{"event", "code"},
		),
		EventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flowstate_events_total",
				Help: "Applied events",
			},
			[]string{"event"},
		),
	}
}

func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

func (r *Recorder) Applied(ev engine.Event, out engine.Outcome) {
	r.EventsTotal.WithLabelValues(ev.Name()).Inc()

	switch e := ev.(type) {
	case engine.SessionCompleted:
		r.SessionsTotal.WithLabelValues(string(e.Completion.Kind)).Inc()
		if out.Reward != nil {
			r.FocusMinutes.Add(float64(out.Reward.Minutes))
		}
		r.DustEarned.WithLabelValues("session").Add(float64(out.DustEarned))
	case engine.CrystalFused:
		r.FusionsTotal.WithLabelValues(string(e.Input)).Inc()
	case engine.ChallengeClaimed:
		r.ClaimsTotal.Inc()
		r.DustEarned.WithLabelValues("challenge").Add(float64(out.DustEarned))
	case engine.ProRedeemed:
		r.DustSpent.WithLabelValues("pro").Add(float64(out.DustSpent))
	case engine.BreakdownApplied:
		r.DustSpent.WithLabelValues("breakdown").Add(float64(out.DustSpent))
	}

	if out.Forged != nil {
		r.CrystalsForged.WithLabelValues(string(out.Forged.Type)).Inc()
	}
	for _, up := range out.TierUps {
		r.TierUpsTotal.WithLabelValues(up.ID).Inc()
	}
}

func (r *Recorder) Rejected(ev engine.Event, err error) {
	code := "UNKNOWN"
	if d, ok := apperr.As(err); ok {
		code = d.Code
	}
	r.RejectionsTotal.WithLabelValues(ev.Name(), code).Inc()
}

// WriteTextfile atomically writes every metric to path in the text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
