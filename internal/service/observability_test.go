package service

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/contract"
	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/domain"
)

type recordingObserver struct {
	events []UseCaseEvent
}

func (r *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	r.events = append(r.events, e)
}

func TestUseCaseObserver_RecordsOutcome(t *testing.T) {
	obs := &recordingObserver{}
	h := newHarness(t, obs)
	p := h.project(t)
	ctx := context.Background()

	_, err := h.releases.Create(ctx, member, p.ID, contract.NewCreateReleaseRequest("r", "MINOR"))
	require.ErrorIs(t, err, domain.ErrNotProjectLeader)
	rel := h.release(t, p.ID, "MINOR")

	var creates []UseCaseEvent
	for _, e := range obs.events {
		if e.Name == "release.create" {
			creates = append(creates, e)
		}
	}
	require.Len(t, creates, 2)
	assert.False(t, creates[0].Success)
	assert.ErrorIs(t, creates[0].Err, domain.ErrNotProjectLeader)
	assert.True(t, creates[1].Success)
	assert.Equal(t, rel.Version, creates[1].Fields["version"])
	assert.Equal(t, p.ID, creates[1].Fields["project_id"])
}

func TestPrometheusUseCaseObserver(t *testing.T) {
	reg := prometheus.NewRegistry()
	prom, err := NewPrometheusUseCaseObserver(reg)
	require.NoError(t, err)

	h := newHarness(t, prom)
	p := h.project(t)
	ctx := context.Background()

	h.release(t, p.ID, "MINOR")
	_, err = h.releases.Create(ctx, member, p.ID, contract.NewCreateReleaseRequest("r", "MINOR"))
	require.Error(t, err)
	_, err = h.releases.Create(ctx, leader, p.ID, contract.NewCreateReleaseRequest("r", "MINOR"))
	require.NoError(t, err)

	assert.Equal(t, 2.0, promtestutil.ToFloat64(prom.total.WithLabelValues("release.create", OutcomeOK)))
	assert.Equal(t, 1.0, promtestutil.ToFloat64(prom.total.WithLabelValues("release.create", OutcomeRejected)))
	assert.Equal(t, 0.0, promtestutil.ToFloat64(prom.total.WithLabelValues("release.create", OutcomeError)))

	n, err := promtestutil.GatherAndCount(reg, "momentum_use_case_duration_seconds")
	require.NoError(t, err)
	assert.Positive(t, n)

	_, err = NewPrometheusUseCaseObserver(reg)
	assert.Error(t, err, "double registration is reported")
}

func TestPrometheusUseCaseObserver_BlankInputIsRejectedNotError(t *testing.T) {
	reg := prometheus.NewRegistry()
	prom, err := NewPrometheusUseCaseObserver(reg)
	require.NoError(t, err)

	h := newHarness(t, prom)
	p := h.project(t)
	ctx := context.Background()

	_, err = h.issues.Create(ctx, member, p.ID, contract.CreateIssueRequest{Title: ""})
	require.ErrorIs(t, err, domain.ErrEmptyTitle)
	_, err = h.projects.AddMember(ctx, leader, p.ID, "")
	require.ErrorIs(t, err, domain.ErrEmptyUserID)

	assert.Equal(t, 1.0, promtestutil.ToFloat64(prom.total.WithLabelValues("issue.create", OutcomeRejected)))
	assert.Equal(t, 1.0, promtestutil.ToFloat64(prom.total.WithLabelValues("project.add_member", OutcomeRejected)))
	assert.Equal(t, 0.0, promtestutil.ToFloat64(prom.total.WithLabelValues("issue.create", OutcomeError)))
	assert.Equal(t, 0.0, promtestutil.ToFloat64(prom.total.WithLabelValues("project.add_member", OutcomeError)))
}

func TestLogUseCaseObserver_LevelsByErrorKind(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	obs := NewLogUseCaseObserver(logger)
	ctx := context.Background()

	obs.ObserveUseCase(ctx, UseCaseEvent{Name: "a", Success: true})
	obs.ObserveUseCase(ctx, UseCaseEvent{Name: "b", Err: domain.ErrNotProjectLeader})
	obs.ObserveUseCase(ctx, UseCaseEvent{Name: "c", Err: assert.AnError})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	var levels []string
	for _, line := range lines {
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		levels = append(levels, rec["level"].(string))
	}
	assert.Equal(t, []string{"INFO", "WARN", "ERROR"}, levels)

	assert.IsType(t, NoopUseCaseObserver{}, NewLogUseCaseObserver(nil))
}

func TestUseCaseObserverOrNoop(t *testing.T) {
	assert.IsType(t, NoopUseCaseObserver{}, useCaseObserverOrNoop(nil))
	assert.IsType(t, NoopUseCaseObserver{}, useCaseObserverOrNoop([]UseCaseObserver{nil}))

	one := &recordingObserver{}
	assert.Same(t, one, useCaseObserverOrNoop([]UseCaseObserver{nil, one}))

	two := &recordingObserver{}
	multi := useCaseObserverOrNoop([]UseCaseObserver{one, two})
	multi.ObserveUseCase(context.Background(), UseCaseEvent{Name: "x"})
	assert.Len(t, one.events, 1)
	assert.Len(t, two.events, 1)
}

func TestUseCase_Spans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})

	h := newHarness(t)
	p := h.project(t)
	rel := h.release(t, p.ID, "MINOR")
	_, err := h.approvals.Vote(context.Background(), leader, rel.ID, domain.ApprovalYes)
	require.Error(t, err)

	spans := map[string]sdktrace.ReadOnlySpan{}
	for _, s := range recorder.Ended() {
		spans[s.Name()] = s
	}
	require.Contains(t, spans, "service.release.create")
	require.Contains(t, spans, "service.approval.vote")

	assert.Equal(t, codes.Unset, spans["service.release.create"].Status().Code)
	vote := spans["service.approval.vote"]
	assert.Equal(t, codes.Error, vote.Status().Code)

	attrs := map[string]string{}
	for _, kv := range vote.Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, rel.ID, attrs["momentum.release_id"])
	assert.Equal(t, "deploy", attrs["momentum.effect"])
}
