package test

import (
	"context"
	"fmt"
	"net/http"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/2beens/coachlab/internal/clients"
)

func (s *IntegrationTestSuite) TestClients_CRUD() {
	ctx := context.Background()
	t := s.T()

	weight := 71.5
	newClient := clients.Client{
		Name:     gofakeit.Name(),
		Email:    gofakeit.Email(),
		Sport:    "triathlon",
		WeightKg: &weight,
	}

	resp := doRequest(ctx, t, http.MethodPost, fmt.Sprintf("/api/%s/clients", testBusiness), coachToken, newClient)
	s.Require().Equal(http.StatusCreated, resp.StatusCode, string(resp.Body))
	created := decodeBody[clients.Client](t, resp)
	s.Positive(created.ID)
	s.Equal(newClient.Name, created.Name)
	s.Require().NotNil(created.WeightKg)
	s.Equal(weight, *created.WeightKg)

	// same email in the same business
	resp = doRequest(ctx, t, http.MethodPost, fmt.Sprintf("/api/%s/clients", testBusiness), coachToken, newClient)
	s.Equal(http.StatusConflict, resp.StatusCode, string(resp.Body))

	clientPath := fmt.Sprintf("/api/%s/clients/%d", testBusiness, created.ID)
	resp = doRequest(ctx, t, http.MethodGet, clientPath, coachToken, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Equal(created.Email, decodeBody[clients.Client](t, resp).Email)

	created.Notes = "prefers morning sessions"
	resp = doRequest(ctx, t, http.MethodPut, clientPath, coachToken, created)
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(resp.Body))
	s.Equal("prefers morning sessions", decodeBody[clients.Client](t, resp).Notes)

	resp = doRequest(ctx, t, http.MethodGet, fmt.Sprintf("/api/%s/clients?q=%s", testBusiness, "triathlon"), coachToken, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	resp = doRequest(ctx, t, http.MethodDelete, clientPath, coachToken, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Equal(created.ID, decodeBody[clients.DeleteClientResponse](t, resp).DeletedID)

	resp = doRequest(ctx, t, http.MethodGet, clientPath, coachToken, nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *IntegrationTestSuite) TestClients_Access() {
	ctx := context.Background()
	t := s.T()
	listPath := fmt.Sprintf("/api/%s/clients", testBusiness)

	resp := doRequest(ctx, t, http.MethodGet, listPath, "", nil)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	resp = doRequest(ctx, t, http.MethodGet, listPath, "not-a-session", nil)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	resp = doRequest(ctx, t, http.MethodGet, listPath, outsiderToken, nil)
	s.Equal(http.StatusForbidden, resp.StatusCode)

	resp = doRequest(ctx, t, http.MethodGet, "/api/no-such-business/clients", coachToken, nil)
	s.Equal(http.StatusForbidden, resp.StatusCode)

	// athletes only see their own client record
	resp = doRequest(ctx, t, http.MethodGet, listPath, athleteToken, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	list := decodeBody[clients.ListResponse](t, resp)
	s.Require().Len(list.Clients, 1)
	s.Equal(s.athleteClientID, list.Clients[0].ID)
	s.Equal(testAthleteEmail, list.Clients[0].Email)

	resp = doRequest(ctx, t, http.MethodPost, listPath, athleteToken, clients.Client{Name: "Sneaky"})
	s.Equal(http.StatusForbidden, resp.StatusCode)
}
