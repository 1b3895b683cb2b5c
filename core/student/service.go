package student

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/register/core"
)

type (
	Repository interface {
		// QueryClasses returns the distinct classes of students with a form, ordered by form then class name.
		QueryClasses(ctx context.Context, exec ...core.DBExecutor) ([]Class, error)
		// QueryClassStudents returns a class' students ordered by last name then first name.
		QueryClassStudents(ctx context.Context, form int, className string, exec ...core.DBExecutor) ([]Student, error)
		// QueryRoster returns every student assigned to a form.
		QueryRoster(ctx context.Context, exec ...core.DBExecutor) ([]Student, error)
		GetStudent(ctx context.Context, id int64, exec ...core.DBExecutor) (Student, error)
		UpsertStudent(ctx context.Context, std Student, exec ...core.DBExecutor) error
	}

	Service struct {
		db       core.DB
		repo     Repository
		validate *validator.Validate
		logger   core.Logger
	}
)

func NewService(db core.DB, repo Repository, validate *validator.Validate, logger core.Logger) *Service {
	return &Service{db: db, repo: repo, validate: validate, logger: logger}
}

func (svc *Service) Classes(ctx context.Context) ([]Class, error) {
	classes, err := svc.repo.QueryClasses(ctx)
	if err != nil {
		return nil, err
	}
	return classes, nil
}

func (svc *Service) ClassStudents(ctx context.Context, form int, className string) ([]Student, error) {
	students, err := svc.repo.QueryClassStudents(ctx, form, core.CleanString(className))
	if err != nil {
		return nil, err
	}
	return students, nil
}

func (svc *Service) Get(ctx context.Context, id int64) (Student, error) {
	return svc.repo.GetStudent(ctx, id)
}

// Import creates or updates all students, or none of them.
func (svc *Service) Import(ctx context.Context, students []Student) (int, error) {
	for i := range students {
		if err := students[i].Validate(svc.validate); err != nil {
			return 0, errors.Wrapf(err, "validating student #%d", i+1)
		}
	}

	err := core.RunInTx(ctx, svc.db, func(exec core.DBExecutor) error {
		for _, std := range students {
			if err := svc.repo.UpsertStudent(ctx, std, exec); err != nil {
				return errors.Wrap(err, fmt.Sprintf("importing student %s", std.AdmissionNumber))
			}
		}
		return nil
	})
	if err != nil {
		svc.logger.Error("student import failed", "error", err)
		return 0, err
	}

	svc.logger.Info("students imported", "count", len(students))
	return len(students), nil
}
