package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spb-forensics/sentinel/pkg/agent/orchestrator"
	"github.com/spb-forensics/sentinel/pkg/memory"
	"github.com/spb-forensics/sentinel/pkg/models"
	"github.com/spb-forensics/sentinel/pkg/services"
)

type stepFunc func(ctx context.Context, state *models.TurnState) (models.Update, error)

func (f stepFunc) Run(ctx context.Context, state *models.TurnState) (models.Update, error) {
	return f(ctx, state)
}

func testServer() (*Server, *memory.ConversationLog) {
	router := stepFunc(func(ctx context.Context, state *models.TurnState) (models.Update, error) {
		return models.Update{Flow: models.FlowSQL}, nil
	})
	synthesis := stepFunc(func(ctx context.Context, state *models.TurnState) (models.Update, error) {
		return models.Update{GeneratedQuery: models.StrPtr("SELECT 1;"), IncrementAttempt: true}, nil
	})
	execution := stepFunc(func(ctx context.Context, state *models.TurnState) (models.Update, error) {
		return models.Update{
			QueryResult:   models.StrPtr("| n |\n|---|\n| 1 |\n"),
			ExecutedQuery: state.GeneratedQuery,
		}, nil
	})
	noop := stepFunc(func(ctx context.Context, state *models.TurnState) (models.Update, error) {
		return models.Update{}, nil
	})
	engine := orchestrator.New(router, synthesis, execution, noop, noop)

	log := memory.NewConversationLog(10, 500, 200)
	turns := services.NewTurnService(engine, log, nil)
	return NewServer(turns, nil, log, nil), log
}

func TestCreateTurn(t *testing.T) {
	server, _ := testServer()
	r := server.Router()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/turns",
		strings.NewReader(`{"input":"how many operations?"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var result models.TurnResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, models.FlowSQL, result.Flow)
	assert.Equal(t, "SELECT 1;", result.ExecutedQuery)
	assert.Contains(t, result.QueryResult, "| 1 |")
}

func TestCreateTurnRejectsMissingInput(t *testing.T) {
	server, _ := testServer()
	r := server.Router()

	for _, body := range []string{`{}`, `{"input":""}`, `not json`} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/turns", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, "body: %s", body)
	}
}

func TestCreateTurnRejectsBlankInput(t *testing.T) {
	server, _ := testServer()
	r := server.Router()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/turns",
		strings.NewReader(`{"input":"   "}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "validation error")
}

func TestGetMemory(t *testing.T) {
	server, log := testServer()
	r := server.Router()

	log.RecordTurn("first question", models.TurnResult{FinalReport: "verdict text"})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/memory", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Entries []string `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Entries, 2)
	assert.Equal(t, "User: first question", resp.Entries[0])
	assert.Equal(t, "AI Analysis: verdict text", resp.Entries[1])
}

func TestMetricsEndpointExposed(t *testing.T) {
	server, _ := testServer()
	r := server.Router()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}
