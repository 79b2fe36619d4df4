package period

import (
	"context"
	"sort"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/ShinzTer/phys-diary-sub000/core"
)

var (
	// errors
	ErrNotFound    = errors.New("period not found")
	ErrLabelExists = errors.New("a period with this label already exists")

	NowFunc = core.NowUTC // mockable

	labelTag  = "periodlabel"
	labelText = "unknown period label"
)

type (
	Repository interface {
		CreatePeriod(ctx context.Context, p Period) (Period, error)
		QueryPeriods(ctx context.Context) ([]Period, error)
		GetPeriod(ctx context.Context, id int) (Period, error)
	}

	Service interface {
		Create(ctx context.Context, np NewPeriod) (Period, error)
		// Query returns the periods in chronological order.
		Query(ctx context.Context) ([]Period, error)
		GetByID(ctx context.Context, id int) (Period, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

// InitValidators registers the `periodlabel` validator and its translation.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(labelTag, core.EnumValidation(func(s string) bool { return Label(s).IsValid() }))
	core.RegisterCustomTranslation(validate, translator, labelTag, labelText)
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Create(ctx context.Context, np NewPeriod) (Period, error) {
	p, err := svc.repo.CreatePeriod(ctx, Period{Label: np.Label, CreatedAt: NowFunc()})
	if err != nil {
		if errors.Cause(err) == ErrLabelExists {
			return Period{}, core.NewFieldError("label", ErrLabelExists)
		}
		return Period{}, err
	}
	return p, nil
}

func (svc *service) Query(ctx context.Context) ([]Period, error) {
	periods, err := svc.repo.QueryPeriods(ctx)
	if err != nil {
		return nil, err
	}
	SortChronologically(periods)
	return periods, nil
}

func (svc *service) GetByID(ctx context.Context, id int) (Period, error) {
	return svc.repo.GetPeriod(ctx, id)
}

// SortChronologically sorts periods by label order, then by ID.
func SortChronologically(periods []Period) {
	sort.SliceStable(periods, func(i, j int) bool {
		oi, oj := periods[i].Label.Order(), periods[j].Label.Order()
		if oi != oj {
			return oi < oj
		}
		return periods[i].ID < periods[j].ID
	})
}
