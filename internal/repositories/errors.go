package repositories

import (
	"errors"
	"fmt"

	apperrors "ledgerpay/internal/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation = "23505"

	constraintReference = "idx_transactions_reference_number"
	constraintEmail     = "idx_users_email"
)

// translate maps driver failures onto the domain taxonomy. notFound is
// returned for gorm.ErrRecordNotFound; unknown failures are wrapped as
// unclassified with op as context.
func translate(err error, op string, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) && notFound != nil {
		return notFound
	}
	var de *apperrors.DomainError
	if errors.As(err, &de) {
		return err
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		switch pgErr.ConstraintName {
		case constraintReference:
			return apperrors.Wrap(apperrors.CodeReferenceCollision, apperrors.ErrReferenceCollision.Message, err)
		case constraintEmail:
			return apperrors.Wrap(apperrors.CodeDuplicateEmail, apperrors.ErrDuplicateEmail.Message, err)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
