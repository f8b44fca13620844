package test

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/2beens/coachlab/internal/assessments"
)

func lactateStages() []assessments.Stage {
	speeds := []float64{8, 9, 10, 11, 12, 13, 14, 15}
	lactates := []float64{1.1, 1.2, 1.3, 1.6, 2.1, 3.0, 4.4, 6.5}
	heartRates := []float64{128, 136, 144, 151, 159, 167, 175, 183}

	stages := make([]assessments.Stage, 0, len(speeds))
	for i := range speeds {
		stages = append(stages, assessments.Stage{
			Intensity: speeds[i],
			Lactate:   &lactates[i],
			HeartRate: &heartRates[i],
		})
	}
	return stages
}

func (s *IntegrationTestSuite) TestAssessments_AnalysisAndReport() {
	ctx := context.Background()
	t := s.T()

	resp := doRequest(ctx, t, http.MethodPost, fmt.Sprintf("/api/%s/assessments", testBusiness), coachToken, assessments.Assessment{
		ClientID:    s.athleteClientID,
		Type:        assessments.TypeLactate,
		PerformedAt: time.Now().UTC().Add(-24 * time.Hour),
		Stages:      lactateStages(),
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode, string(resp.Body))
	created := decodeBody[assessments.Assessment](t, resp)
	s.Require().Len(created.Stages, 8)
	s.Equal(1, created.Stages[0].Seq)
	s.Equal("km/h", created.Unit)

	assessmentPath := fmt.Sprintf("/api/%s/assessments/%d", testBusiness, created.ID)

	resp = doRequest(ctx, t, http.MethodGet, assessmentPath+"/analysis", athleteToken, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(resp.Body))
	analysis := decodeBody[assessments.Analysis](t, resp)
	s.Equal(created.ID, analysis.AssessmentID)
	s.Equal(assessments.TypeLactate, analysis.Type)
	s.NotEmpty(analysis.Result.Method)

	// second read is served from the cache and must be identical
	resp = doRequest(ctx, t, http.MethodGet, assessmentPath+"/analysis", coachToken, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Equal(analysis, decodeBody[assessments.Analysis](t, resp))

	resp = doRequest(ctx, t, http.MethodGet, assessmentPath+"/report.xlsx", coachToken, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(resp.Body))
	s.Equal("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", resp.Header.Get("Content-Type"))

	report, err := excelize.OpenReader(bytes.NewReader(resp.Body))
	s.Require().NoError(err)
	defer report.Close()
	s.NotEmpty(report.GetSheetList())

	resp = doRequest(ctx, t, http.MethodDelete, assessmentPath, athleteToken, nil)
	s.Equal(http.StatusForbidden, resp.StatusCode)

	resp = doRequest(ctx, t, http.MethodDelete, assessmentPath, coachToken, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Equal(created.ID, decodeBody[assessments.DeleteAssessmentResponse](t, resp).DeletedID)
}

func (s *IntegrationTestSuite) TestAssessments_UnknownClient() {
	ctx := context.Background()

	resp := doRequest(ctx, s.T(), http.MethodPost, fmt.Sprintf("/api/%s/assessments", testBusiness), coachToken, assessments.Assessment{
		ClientID:    999999,
		Type:        assessments.TypeLactate,
		PerformedAt: time.Now().UTC(),
		Stages:      lactateStages(),
	})
	s.Equal(http.StatusBadRequest, resp.StatusCode, string(resp.Body))
}

func (s *IntegrationTestSuite) TestAssessments_PreviewOpenToMembers() {
	ctx := context.Background()
	t := s.T()
	previewPath := fmt.Sprintf("/api/%s/assessments/preview-analysis", testBusiness)
	req := assessments.PreviewRequest{Type: assessments.TypeLactate, Stages: lactateStages()}

	resp := doRequest(ctx, t, http.MethodPost, previewPath, athleteToken, req)
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(resp.Body))
	analysis := decodeBody[assessments.Analysis](t, resp)
	s.Equal(assessments.TypeLactate, analysis.Type)
	s.Zero(analysis.AssessmentID)
	s.NotNil(analysis.Result.AnaerobicThreshold)

	resp = doRequest(ctx, t, http.MethodPost, previewPath, outsiderToken, req)
	s.Equal(http.StatusForbidden, resp.StatusCode)

	// storing stays with owners and coaches
	resp = doRequest(ctx, t, http.MethodPost, fmt.Sprintf("/api/%s/assessments", testBusiness), athleteToken, assessments.Assessment{
		ClientID:    s.athleteClientID,
		Type:        assessments.TypeLactate,
		PerformedAt: time.Now().UTC(),
		Stages:      lactateStages(),
	})
	s.Equal(http.StatusForbidden, resp.StatusCode)
}
