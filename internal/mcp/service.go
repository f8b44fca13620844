package mcp

import (
	"context"
	"fmt"

	"github.com/2beens/coachlab/internal/assessments"
	"github.com/2beens/coachlab/internal/threshold"
)

type assessmentsService interface {
	Get(ctx context.Context, businessID, id int) (*assessments.Assessment, error)
	Analyze(ctx context.Context, a *assessments.Assessment, opts threshold.Options) (*assessments.Analysis, error)
}

type businessResolver interface {
	BusinessID(ctx context.Context, businessSlug string) (int, error)
}

// toolService backs the tools that read stored data.
type toolService interface {
	AnalyzeAssessment(ctx context.Context, businessSlug string, id int) (*assessments.Analysis, error)
}

// ToolService resolves the business and runs the stored assessment analysis.
type ToolService struct {
	assessments assessmentsService
	businesses  businessResolver
}

func NewToolService(assessmentsSvc assessmentsService, businesses businessResolver) *ToolService {
	return &ToolService{
		assessments: assessmentsSvc,
		businesses:  businesses,
	}
}

// AnalyzeAssessment runs the threshold analysis of an assessment stored in the given business.
func (s *ToolService) AnalyzeAssessment(ctx context.Context, businessSlug string, id int) (*assessments.Analysis, error) {
	businessID, err := s.businesses.BusinessID(ctx, businessSlug)
	if err != nil {
		return nil, fmt.Errorf("business %q: %w", businessSlug, err)
	}

	a, err := s.assessments.Get(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	return s.assessments.Analyze(ctx, a, threshold.DefaultOptions())
}
