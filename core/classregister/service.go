package classregister

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/register/core"
)

type (
	Repository interface {
		// UpsertRegister inserts reg or overwrites every mutable field of the register with the same key.
		UpsertRegister(ctx context.Context, reg Register, exec ...core.DBExecutor) error
		// GetRegister returns core.ErrNotFound when there is no such register.
		GetRegister(ctx context.Context, key Key, exec ...core.DBExecutor) (Register, error)
	}

	Service struct {
		repo     Repository
		validate *validator.Validate
		logger   core.Logger
	}
)

func NewService(repo Repository, validate *validator.Validate, logger core.Logger) *Service {
	return &Service{repo: repo, validate: validate, logger: logger}
}

func (svc *Service) Save(ctx context.Context, reg Register) (Register, error) {
	if err := reg.Validate(svc.validate); err != nil {
		return Register{}, err
	}
	reg.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)

	if err := svc.repo.UpsertRegister(ctx, reg); err != nil {
		svc.logger.Error("saving class register failed", "form", reg.Form, "class", reg.ClassName, "error", err)
		return Register{}, err
	}
	// created_at is kept on update
	return svc.repo.GetRegister(ctx, reg.Key())
}

func (svc *Service) Get(ctx context.Context, key Key) (Register, error) {
	key.ClassName = core.CleanString(key.ClassName)
	key.AcademicYear = core.CleanString(key.AcademicYear)
	if err := svc.validate.Struct(key); err != nil {
		return Register{}, err
	}

	reg, err := svc.repo.GetRegister(ctx, key)
	if err != nil {
		if !errors.Is(err, core.ErrNotFound) {
			svc.logger.Error("fetching class register failed", "form", key.Form, "class", key.ClassName, "error", err)
		}
		return Register{}, err
	}
	return reg, nil
}
