package sweeper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"gitlab.com/meshopt-cloud.net/internal/adapter/logging"
	"gitlab.com/meshopt-cloud.net/internal/config"
	"gitlab.com/meshopt-cloud.net/internal/domain"
)

type fakeJobRepo struct {
	pending   []*domain.Job
	gotCutoff time.Time
	statuses  map[uuid.UUID]domain.JobStatus
	updateErr error
}

func (f *fakeJobRepo) SaveJob(ctx context.Context, job *domain.Job) error { return nil }

func (f *fakeJobRepo) GetJob(ctx context.Context, jobID uuid.UUID) (*domain.Job, error) {
	return nil, nil
}

func (f *fakeJobRepo) MarkCompleted(ctx context.Context, jobID uuid.UUID, status domain.JobStatus, reportURL string) error {
	return nil
}

func (f *fakeJobRepo) GetPendingBefore(ctx context.Context, cutoff time.Time, limit int) ([]*domain.Job, error) {
	f.gotCutoff = cutoff
	return f.pending, nil
}

func (f *fakeJobRepo) UpdateJobStatus(ctx context.Context, jobID uuid.UUID, status domain.JobStatus) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if f.statuses == nil {
		f.statuses = make(map[uuid.UUID]domain.JobStatus)
	}
	f.statuses[jobID] = status
	return nil
}

type capturingPublisher struct {
	events []domain.PushEvent
}

func (p *capturingPublisher) Publish(event domain.PushEvent) {
	p.events = append(p.events, event)
}

func newTestEngine(repo *fakeJobRepo, publisher *capturingPublisher) *Engine {
	cfg := &config.SweepConfig{Interval: time.Minute, Deadline: 30 * time.Minute}
	return NewEngine(cfg, repo, publisher, logging.NewZapLogger())
}

func TestSweepMarksOverdueJobsStale(t *testing.T) {
	first := domain.NewJob(uuid.New(), "wi-1", "nick.A+dev", "in1", "out1")
	second := domain.NewJob(uuid.New(), "wi-2", "nick.A+dev", "in2", "out2")
	repo := &fakeJobRepo{pending: []*domain.Job{first, second}}
	publisher := &capturingPublisher{}

	newTestEngine(repo, publisher).Sweep(context.Background())

	require.Equal(t, domain.JobStatusStale, repo.statuses[first.ID])
	require.Equal(t, domain.JobStatusStale, repo.statuses[second.ID])

	require.Len(t, publisher.events, 2)
	for _, event := range publisher.events {
		require.Equal(t, domain.EventError, event.Event)
		require.NotEmpty(t, event.Message)
	}
	require.Equal(t, first.ID, publisher.events[0].JobID)
	require.Equal(t, second.ID, publisher.events[1].JobID)
}

func TestSweepCutoffHonorsDeadline(t *testing.T) {
	repo := &fakeJobRepo{}
	newTestEngine(repo, &capturingPublisher{}).Sweep(context.Background())

	expected := time.Now().Add(-30 * time.Minute)
	require.WithinDuration(t, expected, repo.gotCutoff, 5*time.Second)
}

func TestSweepSkipsEventWhenUpdateFails(t *testing.T) {
	job := domain.NewJob(uuid.New(), "wi-1", "nick.A+dev", "in", "out")
	repo := &fakeJobRepo{pending: []*domain.Job{job}, updateErr: errors.New("db down")}
	publisher := &capturingPublisher{}

	newTestEngine(repo, publisher).Sweep(context.Background())

	require.Empty(t, publisher.events, "no event should be pushed for a job still recorded pending")
}
