package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var PromptsCreatedAmount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "promptvault_prompts_created_amount",
	Help: "The total number of prompts created",
})

var PromptVersionsCreatedAmount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "promptvault_prompt_versions_created_amount",
	Help: "The total number of prompt versions created",
})

var PromptVersionConflictAmount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "promptvault_prompt_version_conflict_amount",
	Help: "The total number of version inserts retried after losing a numbering race",
})
