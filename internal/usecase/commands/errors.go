package commands

import (
	"mcdee-marketplace/internal/infra"
	"mcdee-marketplace/internal/pkg/errs"
)

// repoErr maps a repository failure onto the use-case sentinel for a missing
// row, or onto ErrDatabaseOperationFailed for anything else.
func repoErr(err error, notFound error) error {
	if err == nil {
		return nil
	}
	if notFound != nil && infra.IsKind(err, infra.KindNotFound) {
		return errs.Mark(err, notFound)
	}
	return errs.Mark(err, errs.ErrDatabaseOperationFailed)
}

// domainErr marks a rule violation from the domain layer.
func domainErr(err error) error {
	return errs.Mark(err, errs.ErrDomainValidation)
}

// transitionErr marks a refused state-machine step.
func transitionErr(err error) error {
	return errs.Mark(err, errs.ErrStateConflict)
}
