package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/hertz/pkg/common/hlog"

	"startup-directory/pkg/common/config"
	apperr "startup-directory/pkg/common/errors"
	"startup-directory/pkg/core/startup/model"
	"startup-directory/pkg/core/startup/repository/dao"
)

// OwnershipPolicy decides who may mutate a startup.
type OwnershipPolicy string

const (
	// PolicyLegacy re-stamps the owner to whoever updates and lets any
	// authenticated caller update or delete any record.
	PolicyLegacy OwnershipPolicy = config.OwnershipLegacy
	// PolicyEnforce restricts update and delete to the owner.
	PolicyEnforce OwnershipPolicy = config.OwnershipEnforce
)

type StartupService struct {
	repo   dao.StartupRepository
	policy OwnershipPolicy
}

func NewStartupService(repo dao.StartupRepository, policy OwnershipPolicy) *StartupService {
	if policy == "" {
		policy = PolicyLegacy
	}
	return &StartupService{repo: repo, policy: policy}
}

func (s *StartupService) Policy() OwnershipPolicy {
	return s.policy
}

// Create validates and stores a new startup owned by ownerID.
func (s *StartupService) Create(ctx context.Context, ownerID string, in Input) (model.Startup, error) {
	startup := build(in, ownerID)
	if violations := startup.Validate(); len(violations) > 0 {
		return model.Startup{}, apperr.Validation(violations)
	}

	if err := s.repo.Create(ctx, &startup); err != nil {
		return model.Startup{}, err
	}
	hlog.CtxInfof(ctx, "startup created id=%s owner=%s", startup.ID, ownerID)
	return startup, nil
}

// Update merges in over the stored record and replaces it.
func (s *StartupService) Update(ctx context.Context, callerID, id string, in Input) (model.Startup, error) {
	existing, err := s.repo.QueryByID(ctx, id)
	if err != nil {
		return model.Startup{}, notFoundAs(err, "startup does not exist")
	}
	if err := s.checkOwner(existing, callerID); err != nil {
		return model.Startup{}, err
	}

	merged := merge(existing, in)
	if s.policy == PolicyLegacy {
		merged.OwnerID = callerID
	}

	if violations := merged.Validate(); len(violations) > 0 {
		return model.Startup{}, apperr.Validation(violations)
	}

	if err := s.repo.Save(ctx, &merged); err != nil {
		if _, ok := apperr.As(err); ok {
			return model.Startup{}, err
		}
		return model.Startup{}, apperr.Unexpected("unable to update startup", err)
	}
	return merged, nil
}

func (s *StartupService) Get(ctx context.Context, id string) (model.Startup, error) {
	startup, err := s.repo.QueryByID(ctx, id)
	if err != nil {
		return model.Startup{}, notFoundAs(err, "no startup of this id")
	}
	return startup, nil
}

func (s *StartupService) ListByOwner(ctx context.Context, ownerID string) ([]model.Summary, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *StartupService) ListDashboard(ctx context.Context) ([]model.DashboardCard, error) {
	return s.repo.ListDashboard(ctx)
}

// Delete removes the startup. The NotFound message echoes id.
func (s *StartupService) Delete(ctx context.Context, callerID, id string) error {
	notFound := apperr.NotFound(fmt.Sprintf("No startup found with id: %s", id))

	if s.policy == PolicyEnforce {
		existing, err := s.repo.QueryByID(ctx, id)
		if err != nil {
			return replaceNotFound(err, notFound)
		}
		if err := s.checkOwner(existing, callerID); err != nil {
			return err
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return replaceNotFound(err, notFound)
	}
	hlog.CtxInfof(ctx, "startup deleted id=%s by=%s", id, callerID)
	return nil
}

func (s *StartupService) checkOwner(existing model.Startup, callerID string) error {
	if s.policy == PolicyEnforce && existing.OwnerID != callerID {
		return apperr.Forbidden("only the owner may modify this startup")
	}
	return nil
}

func notFoundAs(err error, message string) error {
	return replaceNotFound(err, apperr.NotFound(message))
}

func replaceNotFound(err error, notFound *apperr.AppError) error {
	if errors.Is(err, apperr.ErrNotFound) {
		return notFound
	}
	return err
}
