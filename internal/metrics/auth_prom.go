package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var LoginFailedAmount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "promptvault_login_failed_amount",
	Help: "The total number of rejected password logins",
})

var APIKeyAuthAmount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "promptvault_api_key_auth_amount",
	Help: "The total number of API key authentications by result",
}, []string{"result"})
