package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Métricas de autenticación/autorización. Paquete aparte para evitar ciclos
// de import entre middlewares y services.

var (
	LoginsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_logins_total",
		Help: "Intentos de login por resultado (ok, invalid, locked, error)",
	}, []string{"outcome"})

	AuthzDenialsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "authz_denials_total",
		Help: "Decisiones de autorización denegadas por tipo (unauthenticated, forbidden)",
	}, []string{"kind"})

	ImpersonationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_impersonations_total",
		Help: "Operaciones de impersonación por acción (start, restore)",
	}, []string{"action"})

	TokensIssuedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "auth_tokens_issued_total",
		Help: "Tokens de acceso emitidos",
	})
)

// Register registra las métricas de auth en el registry dado (o el default si es nil).
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{
		LoginsTotal, AuthzDenialsTotal, ImpersonationsTotal, TokensIssuedTotal,
	} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}
