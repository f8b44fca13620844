package test

import (
	"context"
	"fmt"
	"net/http"

	"github.com/2beens/coachlab/internal/calculators"
)

func (s *IntegrationTestSuite) TestCalculators() {
	ctx := context.Background()
	t := s.T()
	calcPath := func(name string) string {
		return fmt.Sprintf("/api/%s/calculators/%s", testBusiness, name)
	}

	// athletes may use the calculators too
	resp := doRequest(ctx, t, http.MethodPost, calcPath("vdot"), athleteToken, calculators.VDOTRequest{
		DistanceMeters:  5000,
		DurationSeconds: 20 * 60,
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(resp.Body))
	vdot := decodeBody[calculators.VDOTResponse](t, resp)
	s.InDelta(49.8, vdot.VDOT, 1.0)
	s.NotEmpty(vdot.PaceTable)

	resp = doRequest(ctx, t, http.MethodPost, calcPath("one-rep-max"), coachToken, calculators.OneRepMaxRequest{
		Weight: 100,
		Reps:   5,
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(resp.Body))
	s.InDelta(116.67, decodeBody[calculators.OneRepMaxResponse](t, resp).Epley, 0.1)

	resp = doRequest(ctx, t, http.MethodPost, calcPath("vdot"), coachToken, calculators.VDOTRequest{
		DistanceMeters:  100,
		DurationSeconds: 12,
	})
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	resp = doRequest(ctx, t, http.MethodPost, calcPath("vdot"), outsiderToken, calculators.VDOTRequest{
		DistanceMeters:  5000,
		DurationSeconds: 20 * 60,
	})
	s.Equal(http.StatusForbidden, resp.StatusCode)
}
