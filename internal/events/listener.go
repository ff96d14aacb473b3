package events

import (
	"context"

	"ledgerpay/internal/repositories"

	"github.com/rs/zerolog"
)

// AuditListener forwards the audit records of each committed scope to pub.
// Records whose insert failed are still published so the archive keeps a copy.
// Publishing failures are logged.
func AuditListener(pub Publisher, log zerolog.Logger) repositories.CommitListener {
	return func(ctx context.Context, commit repositories.Commit) {
		if !commit.AuditStored && len(commit.AuditLogs) > 0 {
			log.Warn().Int("entries", len(commit.AuditLogs)).Msg("publishing audit records that were not stored")
		}
		for _, entry := range commit.AuditLogs {
			if err := pub.Publish(ctx, RoutingAuditRecorded, NewAuditEvent(entry)); err != nil {
				log.Warn().Err(err).
					Str("entity", entry.EntityName()).
					Uint("entity_id", entry.EntityID()).
					Msg("failed to publish audit event")
			}
		}
	}
}
