package implementation

import (
	"context"
	"errors"

	"dossier-be/internal/entity"
	"dossier-be/internal/mapper"
	"dossier-be/internal/model"
	"dossier-be/internal/repository/contract"
	"dossier-be/internal/repository/specification"

	"gorm.io/gorm"
)

type CaseFileRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CaseFileMapper
}

func NewCaseFileRepository(db *gorm.DB) contract.CaseFileRepository {
	return &CaseFileRepositoryImpl{
		db:     db,
		mapper: mapper.NewCaseFileMapper(),
	}
}

func (r *CaseFileRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *CaseFileRepositoryImpl) Create(ctx context.Context, caseFile *entity.CaseFile) error {
	m := r.mapper.ToModel(caseFile)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*caseFile = *r.mapper.ToEntity(m)
	return nil
}

func (r *CaseFileRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CaseFile, error) {
	var m model.CaseFile
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *CaseFileRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CaseFile, error) {
	var models []*model.CaseFile
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *CaseFileRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.CaseFile{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
