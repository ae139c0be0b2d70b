package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tutor-center-api/internal/models"
	"github.com/noah-isme/tutor-center-api/pkg/response"
)

type companyService interface {
	List(ctx context.Context) ([]models.Company, error)
	Create(ctx context.Context, patch models.Patch) (*models.Company, error)
	Update(ctx context.Context, id models.ID, patch models.Patch) (*models.Company, error)
	Delete(ctx context.Context, id models.ID) error
}

type branchService interface {
	List(ctx context.Context, companyID *models.ID) ([]models.BranchView, error)
	Create(ctx context.Context, patch models.Patch) (*models.BranchCreated, error)
	Update(ctx context.Context, id models.ID, patch models.Patch) (*models.Branch, error)
	Delete(ctx context.Context, id models.ID) error
	Stats(ctx context.Context, id models.ID) (*models.BranchStats, error)
}

// CompanyHandler wires companies and their branches to HTTP routes.
type CompanyHandler struct {
	companies companyService
	branches  branchService
}

// NewCompanyHandler constructs a CompanyHandler.
func NewCompanyHandler(companies companyService, branches branchService) *CompanyHandler {
	return &CompanyHandler{companies: companies, branches: branches}
}

// ListCompanies godoc
// @Summary List companies
// @Tags Companies
// @Produce json
// @Success 200 {array} models.Company
// @Router /companies [get]
func (h *CompanyHandler) ListCompanies(c *gin.Context) {
	companies, err := h.companies.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, companies)
}

// CreateCompany godoc
// @Summary Create company
// @Tags Companies
// @Accept json
// @Produce json
// @Success 201 {object} models.Company
// @Router /companies [post]
func (h *CompanyHandler) CreateCompany(c *gin.Context) {
	patch, ok := bindPatch(c, "company")
	if !ok {
		return
	}
	company, err := h.companies.Create(c.Request.Context(), patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, company)
}

// UpdateCompany godoc
// @Summary Update company
// @Tags Companies
// @Accept json
// @Produce json
// @Param id path int true "Company ID"
// @Success 200 {object} models.Company
// @Router /companies/{id} [put]
func (h *CompanyHandler) UpdateCompany(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	patch, ok := bindPatch(c, "company")
	if !ok {
		return
	}
	company, err := h.companies.Update(c.Request.Context(), id, patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, company)
}

// DeleteCompany godoc
// @Summary Delete a company without branches
// @Tags Companies
// @Param id path int true "Company ID"
// @Success 200 {object} response.MessageBody
// @Failure 400 {object} response.ErrorBody
// @Router /companies/{id} [delete]
func (h *CompanyHandler) DeleteCompany(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.companies.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	deleted(c, "Company")
}

// ListBranches godoc
// @Summary List branches with center counters
// @Tags Branches
// @Produce json
// @Param companyId query int false "Only branches of this company"
// @Success 200 {array} models.BranchView
// @Router /branches [get]
func (h *CompanyHandler) ListBranches(c *gin.Context) {
	var companyID *models.ID
	if raw := c.Query("companyId"); raw != "" {
		id, err := models.ParseID(raw)
		if err != nil {
			// An unparsable filter matches nothing.
			response.OK(c, []models.BranchView{})
			return
		}
		companyID = &id
	}
	branches, err := h.branches.List(c.Request.Context(), companyID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, branches)
}

// CreateBranch godoc
// @Summary Create branch and its login user
// @Tags Branches
// @Accept json
// @Produce json
// @Success 201 {object} models.BranchCreated
// @Router /branches [post]
func (h *CompanyHandler) CreateBranch(c *gin.Context) {
	patch, ok := bindPatch(c, "branch")
	if !ok {
		return
	}
	created, err := h.branches.Create(c.Request.Context(), patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// UpdateBranch godoc
// @Summary Update branch
// @Tags Branches
// @Accept json
// @Produce json
// @Param id path int true "Branch ID"
// @Success 200 {object} models.Branch
// @Router /branches/{id} [put]
func (h *CompanyHandler) UpdateBranch(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	patch, ok := bindPatch(c, "branch")
	if !ok {
		return
	}
	branch, err := h.branches.Update(c.Request.Context(), id, patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, branch)
}

// DeleteBranch godoc
// @Summary Delete branch and its users
// @Tags Branches
// @Param id path int true "Branch ID"
// @Success 200 {object} response.MessageBody
// @Router /branches/{id} [delete]
func (h *CompanyHandler) DeleteBranch(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.branches.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	deleted(c, "Branch")
}

// BranchStats godoc
// @Summary Dashboard counters for a branch
// @Tags Branches
// @Produce json
// @Param id path int true "Branch ID"
// @Success 200 {object} models.BranchStats
// @Router /branches/{id}/stats [get]
func (h *CompanyHandler) BranchStats(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	stats, err := h.branches.Stats(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, stats)
}
