// Package audit emite eventos de auditoría estructurados.
//
// Cada decisión de autorización denegada y cada impersonación queda registrada
// con la identidad resuelta, el rol requerido y el resultado.
package audit

import (
	"context"

	"go.uber.org/zap"

	"github.com/dropDatabas3/campusgate/internal/observability/logger"
)

// Event escribe un evento de auditoría. Va al sink del logger (en el futuro
// puede cablearse a una tabla o a un sink externo).
func Event(ctx context.Context, event string, fields ...zap.Field) {
	all := make([]zap.Field, 0, len(fields)+1)
	all = append(all, zap.String("audit_event", event))
	all = append(all, fields...)
	logger.From(ctx).Info("audit", all...)
}

// Denied registra una decisión de autorización denegada.
func Denied(ctx context.Context, kind, userID string, required []string) {
	Event(ctx, "authz.denied",
		zap.String("kind", kind),
		logger.UserID(userID),
		logger.RequiredRoles(required),
	)
}

// Impersonation registra el inicio o la vuelta de una impersonación, siempre
// con ambos IDs (original y activo).
func Impersonation(ctx context.Context, action, originalID, activeID string) {
	Event(ctx, "impersonation."+action,
		logger.OriginalUserID(originalID),
		zap.String("active_user_id", activeID),
	)
}
