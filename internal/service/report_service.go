package service

import (
	"context"
	"fmt"
	"strings"

	"pcru-chatbot-be/internal/dto"
	"pcru-chatbot-be/internal/repository/specification"
	"pcru-chatbot-be/internal/repository/unitofwork"
)

type IReportService interface {
	Organizations(ctx context.Context, req *dto.OrganizationReportRequest) ([]*dto.OrganizationSummaryDTO, error)
}

type reportService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewReportService(uowFactory unitofwork.RepositoryFactory) IReportService {
	return &reportService{uowFactory: uowFactory}
}

// Organizations lists organizations with their officer count, sorted by name.
// Anything other than "asc" sorts descending. A positive limit pages the list.
func (r *reportService) Organizations(ctx context.Context, req *dto.OrganizationReportRequest) ([]*dto.OrganizationSummaryDTO, error) {
	if req == nil {
		req = &dto.OrganizationReportRequest{}
	}

	specs := []specification.Specification{
		specification.OrderBy{Field: "org.name", Desc: !strings.EqualFold(req.Order, "asc")},
	}
	if req.Limit > 0 {
		specs = append(specs, specification.Pagination{Limit: req.Limit, Offset: req.Offset})
	}

	summaries, err := r.uowFactory.NewUnitOfWork(ctx).OrganizationRepository().Summaries(ctx, specs...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatastore, err)
	}

	out := make([]*dto.OrganizationSummaryDTO, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, &dto.OrganizationSummaryDTO{
			OrgID:          s.Id,
			OrgName:        s.Name,
			OrgDescription: s.Description,
			StaffCount:     s.OfficerCount,
		})
	}
	return out, nil
}
