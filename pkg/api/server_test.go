package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intentflow/resolver/pkg/corpus"
	"github.com/intentflow/resolver/pkg/database"
	"github.com/intentflow/resolver/pkg/embedding"
	"github.com/intentflow/resolver/pkg/feedback"
	"github.com/intentflow/resolver/pkg/intent"
	"github.com/intentflow/resolver/pkg/memory"
	"github.com/intentflow/resolver/pkg/normalize"
	"github.com/intentflow/resolver/pkg/resolver"
	"github.com/intentflow/resolver/pkg/review"
)

type memStatsStore struct{ stats intent.LearningStats }

func (m *memStatsStore) SaveLearningStats(s intent.LearningStats) error { m.stats = s; return nil }
func (m *memStatsStore) LoadLearningStats() (intent.LearningStats, error) {
	return m.stats, nil
}

type memReviewStore struct{ items []intent.ReviewItem }

func (m *memReviewStore) InsertReviewItem(_ context.Context, item intent.ReviewItem) error {
	m.items = append(m.items, item)
	return nil
}
func (m *memReviewStore) MarkReviewItemReviewed(_ context.Context, itemID string) error {
	for i := range m.items {
		if m.items[i].ItemID == itemID {
			m.items[i].Status = intent.ReviewStatusReviewed
		}
	}
	return nil
}
func (m *memReviewStore) ListReviewItems(_ context.Context) ([]intent.ReviewItem, error) {
	return m.items, nil
}

type memGoldenStore struct{ records []intent.GoldenRecord }

func (m *memGoldenStore) InsertGoldenRecord(_ context.Context, rec intent.GoldenRecord) error {
	m.records = append(m.records, rec)
	return nil
}

func newMiniredisT(t *testing.T) *redis.Client {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	c, err := corpus.New([]*intent.Intent{
		{ID: "transfer_to_account", Examples: []string{"transfer money", "send money"}},
	})
	require.NoError(t, err)

	n := normalize.New(nil)
	e := embedding.New(32)
	fm := memory.New()
	res := resolver.New(c, n, e, fm, nil, resolver.DefaultConfig())

	q := review.New(&memReviewStore{})
	stats, err := feedback.NewStats(&memStatsStore{})
	require.NoError(t, err)

	mr := newMiniredisT(t)
	pending := feedback.NewPendingCache(mr, "test:pending", time.Hour)
	mgr := feedback.New(c, fm, q, pending, &memGoldenStore{}, stats)

	res.SetPendingRecorder(feedback.NewPendingCacheRecorder(pending))

	return NewServer(database.NewClientFromDB(nil), res, mgr, stats, q, nil, func() bool { return true })
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func TestResolveIntentHandler_Success(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/resolve-intent", ResolveRequest{
		CommandText: "transfer money",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ResolveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "transfer_to_account", resp.ResolvedIntent)
	assert.NotEmpty(t, resp.RequestID)
}

func TestResolveIntentHandler_RejectsEmptyCommandText(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/resolve-intent", ResolveRequest{CommandText: ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFeedbackHandler_SuccessRoundTrip(t *testing.T) {
	s := newTestServer(t)

	resolveRec := doJSON(t, s, http.MethodPost, "/resolve-intent", ResolveRequest{CommandText: "transfer money"})
	require.Equal(t, http.StatusOK, resolveRec.Code)
	var resolveResp ResolveResponse
	require.NoError(t, json.Unmarshal(resolveRec.Body.Bytes(), &resolveResp))

	rec := doJSON(t, s, http.MethodPost, "/feedback", FeedbackRequest{
		RequestID:      resolveResp.RequestID,
		UserCorrection: "transfer_to_account",
		WasSuccessful:  true,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp FeedbackResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "logged_for_learning", resp.ActionTaken)
	assert.Equal(t, int64(1), resp.LearningStatus.TotalFeedbacks)
}

func TestFeedbackHandler_InvalidRequestID(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/feedback", FeedbackRequest{
		RequestID: "not-a-uuid", UserCorrection: "x", WasSuccessful: true,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReviewQueueHandlers_AppendAndResolve(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/feedback", FeedbackRequest{
		RequestID: uuid.NewString(), UserCorrection: "borrow_money", WasSuccessful: false,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	listRec := doJSON(t, s, http.MethodGet, "/feedback/review-queue", nil)
	require.Equal(t, http.StatusOK, listRec.Code)
	var list ReviewQueueResponse
	require.NoError(t, json.Unmarshal(listRec.Body.Bytes(), &list))
	require.Len(t, list.Items, 1)

	itemID := list.Items[0].ItemID
	resolveRec := doJSON(t, s, http.MethodPost, "/feedback/review-queue/"+itemID+"/resolve", nil)
	assert.Equal(t, http.StatusOK, resolveRec.Code)
}

func TestStatsHandler_ReflectsCounters(t *testing.T) {
	s := newTestServer(t)

	_ = doJSON(t, s, http.MethodPost, "/feedback", FeedbackRequest{
		RequestID: uuid.NewString(), UserCorrection: "x", WasSuccessful: false,
	})

	rec := doJSON(t, s, http.MethodGet, "/feedback/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp StatsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.TotalFeedbacks)
	assert.Equal(t, int64(1), resp.IncorrectFeedbacks)
}

func TestNotReadyMiddleware_Returns503BeforeStartup(t *testing.T) {
	c, err := corpus.New([]*intent.Intent{{ID: "x", Examples: []string{"x"}}})
	require.NoError(t, err)
	n := normalize.New(nil)
	e := embedding.New(32)
	fm := memory.New()
	res := resolver.New(c, n, e, fm, nil, resolver.DefaultConfig())
	q := review.New(&memReviewStore{})
	stats, err := feedback.NewStats(&memStatsStore{})
	require.NoError(t, err)
	mr := newMiniredisT(t)
	pending := feedback.NewPendingCache(mr, "test:pending", time.Hour)
	mgr := feedback.New(c, fm, q, pending, &memGoldenStore{}, stats)

	s := NewServer(database.NewClientFromDB(nil), res, mgr, stats, q, nil, func() bool { return false })

	rec := doJSON(t, s, http.MethodPost, "/resolve-intent", ResolveRequest{CommandText: "x"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
