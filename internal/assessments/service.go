package assessments

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/coachlab/internal/telemetry/metrics"
	"github.com/2beens/coachlab/internal/telemetry/tracing"
	"github.com/2beens/coachlab/internal/threshold"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=assessments_test

type assessmentsRepo interface {
	List(ctx context.Context, params ListParams) ([]*Assessment, error)
	Get(ctx context.Context, businessID, id int) (*Assessment, error)
	Create(ctx context.Context, a Assessment) (*Assessment, error)
	Update(ctx context.Context, a Assessment) (*Assessment, error)
	Delete(ctx context.Context, businessID, id int) error
}

const megabyte = 1024 * 1024

type Service struct {
	repo        assessmentsRepo
	cache       *freecache.Cache
	cacheExpiry int
	metrics     *metrics.Manager
}

func NewService(repo assessmentsRepo, cacheSizeMB, cacheExpirySeconds int, metricsManager *metrics.Manager) *Service {
	return &Service{
		repo:        repo,
		cache:       freecache.NewCache(cacheSizeMB * megabyte),
		cacheExpiry: cacheExpirySeconds,
		metrics:     metricsManager,
	}
}

func (s *Service) List(ctx context.Context, params ListParams) (_ []*Assessment, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.assessments.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	assessments, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	return assessments, nil
}

func (s *Service) Get(ctx context.Context, businessID, id int) (_ *Assessment, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.assessments.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	a, err := s.repo.Get(ctx, businessID, id)
	if err != nil {
		return nil, fmt.Errorf("get assessment %d: %w", id, err)
	}
	return a, nil
}

func (s *Service) Create(ctx context.Context, a Assessment) (_ *Assessment, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.assessments.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	a.normalize()
	created, err := s.repo.Create(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("create assessment: %w", err)
	}

	s.metrics.CounterAssessments.WithLabelValues(string(created.Type)).Inc()
	return created, nil
}

func (s *Service) Update(ctx context.Context, a Assessment) (_ *Assessment, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.assessments.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	a.normalize()
	updated, err := s.repo.Update(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("update assessment %d: %w", a.ID, err)
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, businessID, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.assessments.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := s.repo.Delete(ctx, businessID, id); err != nil {
		return fmt.Errorf("delete assessment %d: %w", id, err)
	}
	return nil
}

// Analyze runs the threshold estimator on a stored assessment. Results are cached per
// assessment version (updated_at) and estimator options.
func (s *Service) Analyze(ctx context.Context, a *Assessment, opts threshold.Options) (_ *Analysis, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "service.assessments.analyze")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", a.ID))
	span.SetAttributes(attribute.String("type", string(a.Type)))

	if !a.Type.Analyzable() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, a.Type)
	}

	opts.Unit = a.ThresholdUnit()
	cacheKey := analysisCacheKey(a, opts)
	if cached, err := s.cache.Get(cacheKey); err == nil {
		analysis := &Analysis{}
		if err := json.Unmarshal(cached, analysis); err == nil {
			s.metrics.CounterAnalysisCache.WithLabelValues("hit").Inc()
			span.SetAttributes(attribute.Bool("cached", true))
			return analysis, nil
		} else {
			log.Errorf("failed to unmarshal cached analysis for assessment %d: %s", a.ID, err)
		}
	}
	s.metrics.CounterAnalysisCache.WithLabelValues("miss").Inc()

	analysis := s.analyze(a.Type, a.Stages, opts)
	analysis.AssessmentID = a.ID
	analysis.ClientID = a.ClientID

	analysisJson, err := json.Marshal(analysis)
	if err != nil {
		log.Errorf("failed to marshal analysis for cache, assessment %d: %s", a.ID, err)
		return analysis, nil
	}
	if err := s.cache.Set(cacheKey, analysisJson, s.cacheExpiry); err != nil {
		log.Errorf("failed to cache analysis for assessment %d: %s", a.ID, err)
	}

	return analysis, nil
}

// Preview analyzes stages that are not stored yet, never cached.
func (s *Service) Preview(ctx context.Context, req PreviewRequest) (_ *Analysis, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "service.assessments.preview")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	t := req.Type
	if t == "" {
		t = TypeLactate
	}
	if !t.Analyzable() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}

	opts := threshold.DefaultOptions()
	if req.Options != nil {
		opts = *req.Options
	}
	a := Assessment{Type: t, Unit: req.Unit, Stages: req.Stages}
	a.normalize()
	opts.Unit = a.ThresholdUnit()

	return s.analyze(t, a.Stages, opts), nil
}

// Report renders the xlsx report, the threshold sheets are filled for analyzable types only.
func (s *Service) Report(ctx context.Context, a *Assessment) (_ []byte, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.assessments.report")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var analysis *Analysis
	if a.Type.Analyzable() {
		analysis, err = s.Analyze(ctx, a, threshold.DefaultOptions())
		if err != nil {
			return nil, err
		}
	}

	report, err := BuildReport(a, analysis)
	if err != nil {
		return nil, fmt.Errorf("build report for assessment %d: %w", a.ID, err)
	}
	return report, nil
}

func (s *Service) analyze(t Type, stages []Stage, opts threshold.Options) *Analysis {
	result := threshold.Estimate(ThresholdStages(stages), opts)
	s.metrics.CounterThresholdEstimates.WithLabelValues(string(result.Method), string(result.Confidence)).Inc()

	analysis := &Analysis{
		Type:   t,
		Unit:   opts.Unit,
		Result: result,
	}
	if t == TypeVO2max {
		analysis.VO2Peak = peakVO2(stages)
	}
	return analysis
}

func analysisCacheKey(a *Assessment, opts threshold.Options) []byte {
	return fmt.Appendf(nil, "analysis||%d||%d||%g||%g||%d||%d||%g||%s",
		a.ID, a.UpdatedAt.UnixNano(),
		opts.AerobicConcentration, opts.OBLAConcentration, opts.Degree, opts.MinStages, opts.MinLactateRange, opts.Unit,
	)
}
