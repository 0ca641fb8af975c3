package application

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	usersRegisteredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "devconnector",
		Name:      "users_registered_total",
		Help:      "Successful registrations.",
	})

	loginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "devconnector",
			Name:      "logins_total",
			Help:      "Login attempts by result.",
		},
		[]string{"result"},
	)

	postActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "devconnector",
			Name:      "post_actions_total",
			Help:      "Post mutations by action.",
		},
		[]string{"action"},
	)

	githubLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "devconnector",
			Name:      "github_lookups_total",
			Help:      "GitHub repo lookups by source.",
		},
		[]string{"source"},
	)
)
