// Package metrics exports Prometheus series for what the budget manager
// records.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/MrJamesThe3rd/orcamento/internal/budget"
	"github.com/MrJamesThe3rd/orcamento/internal/manager"
	"github.com/MrJamesThe3rd/orcamento/internal/transaction"
)

const namespace = "orcamento"

// Recorder is a manager.Observer.
type Recorder struct {
	incomes  prometheus.Counter
	expenses *prometheus.CounterVec
	alerts   *prometheus.CounterVec
	balance  *prometheus.GaugeVec
}

func NewRecorder(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)

	return &Recorder{
		incomes: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "incomes_total",
			Help:      "Total incomes recorded.",
		}),
		expenses: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expenses_total",
			Help:      "Total expenses attempted, by result.",
		}, []string{"result"}),
		alerts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_total",
			Help:      "Total alerts raised, by kind.",
		}, []string{"kind"}),
		balance: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "period_balance",
			Help:      "Current balance of a budget period.",
		}, []string{"period"}),
	}
}

func (r *Recorder) IncomeRecorded(period *budget.Monthly, _ transaction.Income) {
	r.incomes.Inc()
	r.balance.WithLabelValues(period.Period()).Set(period.Balance().InexactFloat64())
}

func (r *Recorder) ExpenseAttempted(period *budget.Monthly, rc manager.Receipt) {
	result := "rejected"
	if rc.Outcome.Accepted {
		result = "accepted"
	}

	r.expenses.WithLabelValues(result).Inc()

	for _, a := range rc.Alerts {
		r.alerts.WithLabelValues(string(a.Kind)).Inc()
	}

	r.balance.WithLabelValues(period.Period()).Set(period.Balance().InexactFloat64())
}

var _ manager.Observer = (*Recorder)(nil)
