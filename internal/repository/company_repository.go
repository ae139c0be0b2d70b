package repository

import (
	"github.com/noah-isme/tutor-center-api/internal/models"
	"github.com/noah-isme/tutor-center-api/pkg/store"
)

// CompanyRepository manages persistence for companies.
type CompanyRepository struct {
	*Collection[models.Company]
}

// NewCompanyRepository constructs a CompanyRepository.
func NewCompanyRepository(s *store.Store) *CompanyRepository {
	return &CompanyRepository{Collection: NewCollection[models.Company](s, CollectionCompanies)}
}
