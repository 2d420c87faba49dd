package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"

	"github.com/pollahq/polla-champions/internal/domain/participant"
	"github.com/pollahq/polla-champions/internal/domain/standings"
	"github.com/pollahq/polla-champions/internal/infrastructure/repository/memory"
	"github.com/pollahq/polla-champions/internal/match"
	"github.com/pollahq/polla-champions/internal/platform/cache"
	idgen "github.com/pollahq/polla-champions/internal/platform/id"
	"github.com/pollahq/polla-champions/internal/usecase"
)

const testJobToken = "job-secret"

type fixedSource struct {
	table standings.Table
	err   error
}

func (s *fixedSource) FetchStandings(_ context.Context, competitionID string) (standings.Table, error) {
	if s.err != nil {
		return standings.Table{}, s.err
	}
	table := s.table
	table.CompetitionID = competitionID
	return table, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	source := &fixedSource{table: standings.NewTable("ucl", []standings.Row{
		{CanonicalName: "Real Madrid", Points: 12},
		{CanonicalName: "Liverpool", Points: 10},
		{CanonicalName: "Manchester City", Points: 13},
	})}

	participants := memory.NewParticipantRepository([]participant.Participant{
		{ID: "Daniela", CompetitionID: "ucl", TeamLabels: [participant.TeamPickCount]string{"Real Madrid", "Liverpool"}},
		{ID: "Marco", CompetitionID: "ucl", TeamLabels: [participant.TeamPickCount]string{"Man City", "Unknown FC"}},
	})
	snapshots := memory.NewSnapshotRepository()

	standingsSvc := usecase.NewStandingsService(source, cache.NewStore(time.Minute), []string{"ucl"}, true, nil)
	resolver := match.NewResolver(match.NewLevenshteinScorer(), memory.SeedAliases(), 72)
	rankingSvc := usecase.NewRankingService(standingsSvc, participants, snapshots, resolver, nil)
	refreshSvc := usecase.NewRefreshService(source, standingsSvc, rankingSvc, participants, snapshots, idgen.NewRandomGenerator(), true, nil)

	handler := NewHandler(standingsSvc, rankingSvc, refreshSvc, nil)
	return NewRouter(handler, nil, []string{"*"}, testJobToken)
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) googleResponseEnvelope {
	t.Helper()

	var envelope googleResponseEnvelope
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return envelope
}

func TestRouter_Healthz(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	envelope := decodeEnvelope(t, rec)
	if envelope.APIVersion != "2.0" || envelope.Error != nil {
		t.Fatalf("unexpected envelope %+v", envelope)
	}
}

func TestRouter_ListCompetitions(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/competitions", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"ucl"`) {
		t.Fatalf("competition list missing: %s", rec.Body.String())
	}
}

func TestRouter_GetStandings(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/competitions/ucl/standings", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"Manchester City"`) || !strings.Contains(body, `"position":1`) {
		t.Fatalf("unexpected standings payload: %s", body)
	}
}

func TestRouter_GetStandingsUnknownCompetition(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/competitions/mls/standings", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	envelope := decodeEnvelope(t, rec)
	if envelope.Error == nil || envelope.Error.Status != "NOT_FOUND" {
		t.Fatalf("unexpected envelope %+v", envelope)
	}
}

func TestRouter_GetRanking(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/competitions/ucl/ranking", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"total_points":22`) {
		t.Fatalf("expected Daniela at 22 points: %s", body)
	}
	if !strings.Contains(body, "not found: Unknown FC") {
		t.Fatalf("expected unresolved note: %s", body)
	}
}

func TestRouter_RankingHistoryRejectsBadLimit(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/competitions/ucl/ranking/history?limit=zero", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_RefreshJobRequiresToken(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/refresh", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/refresh", nil)
	req.Header.Set("X-Internal-Job-Token", "wrong")
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_RefreshJobRunsWithToken(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/refresh", strings.NewReader(`{"write_snapshot":true}`))
	req.Header.Set("X-Internal-Job-Token", testJobToken)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"success_count":1`) {
		t.Fatalf("unexpected refresh payload: %s", body)
	}
	if !strings.Contains(body, `"snapshot_id"`) {
		t.Fatalf("expected snapshot id in payload: %s", body)
	}
}

func TestRouter_UnconfiguredJobTokenIsConfigurationMissing(t *testing.T) {
	t.Parallel()

	source := &fixedSource{table: standings.NewTable("ucl", nil)}
	standingsSvc := usecase.NewStandingsService(source, nil, []string{"ucl"}, true, nil)
	handler := NewHandler(standingsSvc, usecase.NewRankingService(standingsSvc, memory.NewParticipantRepository(nil), memory.NewSnapshotRepository(), nil, nil), nil, nil)
	router := NewRouter(handler, nil, []string{"*"}, "")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/refresh", nil)
	req.Header.Set("X-Internal-Job-Token", "anything")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCORS_PreflightAllowsConfiguredOrigin(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/v1/competitions", nil)
	req.Header.Set("Origin", "https://pool.example")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("missing CORS header: %v", rec.Header())
	}
}
