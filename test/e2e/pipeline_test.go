// Package e2e drives complete forensic turns through the real pipeline:
// router, synthesis, execution, investigation and classification against a
// live PostgreSQL instance, with only the language model stubbed.
package e2e

import (
	"context"
	stdsql "database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spb-forensics/sentinel/pkg/agent"
	"github.com/spb-forensics/sentinel/pkg/agent/orchestrator"
	"github.com/spb-forensics/sentinel/pkg/memory"
	"github.com/spb-forensics/sentinel/pkg/models"
	"github.com/spb-forensics/sentinel/pkg/services"
	"github.com/spb-forensics/sentinel/pkg/store"
	"github.com/spb-forensics/sentinel/test/util"
)

const testNuop = "E5610123420251201abcDEF99"

// scriptedLLM returns canned completions in order and records every prompt
// it was asked.
type scriptedLLM struct {
	responses []string
	calls     int
	prompts   []string
}

func (s *scriptedLLM) Complete(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	i := s.calls
	s.calls++
	if i >= len(s.responses) {
		i = len(s.responses) - 1
	}
	return s.responses[i], nil
}

func seedPipeline(t *testing.T, db *stdsql.DB) {
	t.Helper()
	base := time.Date(2025, 12, 1, 9, 0, 0, 0, time.UTC)

	_, err := db.ExecContext(context.Background(), `
		INSERT INTO pix.operacao (msgid, codmsg, nuop, statusop, statusmsg, sitlanc, ts_inclusao, msgop)
		VALUES
			('m1', 'pacs.008', $1, 9, 302, 'LQ', $2, NULL),
			('m2', 'pacs.002', 'E0000999920251201OTHEROP99', 205, NULL, NULL, $3,
			 '<Doc><RsnDesc>Pagamento expirado por timeout</RsnDesc></Doc>')`,
		testNuop, base, base.Add(time.Minute))
	require.NoError(t, err)
}

func newService(t *testing.T, db *stdsql.DB, llmClient *scriptedLLM) (*services.TurnService, *memory.ConversationLog) {
	t.Helper()
	txStore := store.NewTransactionStore(db)
	engine := orchestrator.New(
		agent.Router{},
		agent.NewSynthesisStep(llmClient),
		agent.NewExecutionStep(txStore, 50),
		agent.NewInvestigationStep(txStore),
		agent.NewClassifierStep(llmClient, 10*time.Second),
	)
	log := memory.NewConversationLog(10, 500, 200)
	return services.NewTurnService(engine, log, services.NewHistoryService(db)), log
}

func TestPipelineSQLTurn(t *testing.T) {
	db := util.SetupTestDatabase(t)
	seedPipeline(t, db)

	llmClient := &scriptedLLM{responses: []string{
		"```sql\nSELECT count(*) AS total FROM view_universal;\n```",
	}}
	svc, log := newService(t, db, llmClient)

	result, err := svc.RunTurn(context.Background(), "how many operations are there?")
	require.NoError(t, err)

	assert.Equal(t, models.FlowSQL, result.Flow)
	assert.Equal(t, 1, result.Attempts)
	assert.Contains(t, result.QueryResult, "total")
	assert.Contains(t, result.QueryResult, "2")
	assert.Contains(t, result.ExecutedQuery, "WITH view_universal AS")
	assert.Empty(t, result.SystemError)

	// The turn is now conversational context and an audit row.
	assert.Contains(t, log.Context(), "AI SQL Executed:")
	records, err := services.NewHistoryService(db).RecentTurns(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, result.TurnID, records[0].ID)
}

func TestPipelineInvestigationTurn(t *testing.T) {
	db := util.SetupTestDatabase(t)
	seedPipeline(t, db)

	report := "**Case Summary:** settled.\n**Technical Analysis:** pacs.008 accepted.\n**Final Verdict:** SUCCESS"
	llmClient := &scriptedLLM{responses: []string{report}}
	svc, _ := newService(t, db, llmClient)

	result, err := svc.RunTurn(context.Background(), "what happened with "+testNuop+"?")
	require.NoError(t, err)

	assert.Equal(t, models.FlowInvestigation, result.Flow)
	assert.Equal(t, 0, result.Attempts)
	assert.Equal(t, report, result.FinalReport)
	assert.Empty(t, result.QueryResult)

	// The narration prompt carried the locally computed verdict and rows.
	require.Len(t, llmClient.prompts, 1)
	assert.Contains(t, llmClient.prompts[0], "DETERMINED VERDICT: SUCCESS")
	assert.Contains(t, llmClient.prompts[0], "pacs.008")
}

func TestPipelineInvestigationUnknownNuop(t *testing.T) {
	db := util.SetupTestDatabase(t)
	seedPipeline(t, db)

	llmClient := &scriptedLLM{responses: []string{"must not be called"}}
	svc, _ := newService(t, db, llmClient)

	result, err := svc.RunTurn(context.Background(), "E9999888877776666555544443")
	require.NoError(t, err)

	assert.Equal(t, models.FlowInvestigation, result.Flow)
	assert.Contains(t, result.FinalReport, "was not found in any table (SPI/SPB)")
	assert.Zero(t, llmClient.calls)
}

func TestPipelineRetryExhaustion(t *testing.T) {
	db := util.SetupTestDatabase(t)
	seedPipeline(t, db)

	llmClient := &scriptedLLM{responses: []string{
		"SELECT nope FROM view_universal;",
	}}
	svc, _ := newService(t, db, llmClient)

	result, err := svc.RunTurn(context.Background(), "list everything broken")
	require.NoError(t, err)

	assert.Equal(t, models.MaxSynthesisAttempts, result.Attempts)
	assert.Contains(t, result.QueryError, "nope")
	assert.Empty(t, result.QueryResult)
	assert.Equal(t, models.MaxSynthesisAttempts, llmClient.calls)

	// Retries carried the database error back into the prompt.
	assert.Contains(t, llmClient.prompts[1], "PREVIOUS ATTEMPT FAILED")
}

func TestPipelineRetryRecovers(t *testing.T) {
	db := util.SetupTestDatabase(t)
	seedPipeline(t, db)

	llmClient := &scriptedLLM{responses: []string{
		"SELECT nope FROM view_universal;",
		"SELECT count(*) AS total FROM view_universal;",
	}}
	svc, _ := newService(t, db, llmClient)

	result, err := svc.RunTurn(context.Background(), "count the operations")
	require.NoError(t, err)

	assert.Equal(t, 2, result.Attempts)
	assert.Empty(t, result.QueryError)
	assert.Contains(t, result.QueryResult, "total")
}

func TestPipelineMemoryReference(t *testing.T) {
	db := util.SetupTestDatabase(t)
	seedPipeline(t, db)

	report := "**Final Verdict:** SUCCESS"
	llmClient := &scriptedLLM{responses: []string{
		report,
		"SELECT nuop, statusmsg FROM view_universal WHERE nuop = '" + testNuop + "';",
	}}
	svc, _ := newService(t, db, llmClient)

	_, err := svc.RunTurn(context.Background(), testNuop)
	require.NoError(t, err)

	result, err := svc.RunTurn(context.Background(), "and what was the status of that one?")
	require.NoError(t, err)

	// Follow-up with no identifier routes to SQL and sees the prior turn.
	assert.Equal(t, models.FlowSQL, result.Flow)
	require.Len(t, llmClient.prompts, 2)
	assert.Contains(t, llmClient.prompts[1], "User: "+testNuop)
	assert.Contains(t, result.QueryResult, "302")
}

func TestPipelineEmptyResultMessage(t *testing.T) {
	db := util.SetupTestDatabase(t)
	seedPipeline(t, db)

	llmClient := &scriptedLLM{responses: []string{
		"SELECT * FROM view_universal WHERE statusmsg = 777;",
	}}
	svc, _ := newService(t, db, llmClient)

	result, err := svc.RunTurn(context.Background(), "list operations with status 777")
	require.NoError(t, err)

	assert.Equal(t, agent.NoRecordsMessage, result.QueryResult)
}
