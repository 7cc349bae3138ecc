package events_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmate/job-finder/internal/events"
	"jobmate/job-finder/internal/model"
	"jobmate/job-finder/internal/pipeline"
)

func setup(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func sampleResult(n int) *pipeline.Result {
	res := &pipeline.Result{
		RunID:      "run-1",
		FinishedAt: time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC),
		Warnings:   []pipeline.Warning{{Source: model.SourceBMG, Err: errors.New("503")}},
	}
	for i := range n {
		res.Listings = append(res.Listings, model.Listing{
			Source: model.SourceRemotive, Title: fmt.Sprintf("Analyst %d", i), Score: 10 - i,
			URL: fmt.Sprintf("https://x.test/%d", i),
		})
	}
	return res
}

// ── NewSummary ─────────────────────────────────────────────────────────────

func TestNewSummary_TopIsBounded(t *testing.T) {
	s := events.NewSummary(sampleResult(8), 3)

	assert.Equal(t, events.Channel, s.Type)
	assert.Equal(t, 8, s.Selected)
	assert.Equal(t, 3, s.New)
	assert.Equal(t, []model.Source{model.SourceBMG}, s.Failed)
	require.Len(t, s.Top, 5)
	assert.Equal(t, "Analyst 0", s.Top[0].Title)
}

func TestNewSummary_EmptyRun(t *testing.T) {
	s := events.NewSummary(&pipeline.Result{RunID: "r"}, -1)
	assert.Empty(t, s.Top)
	assert.NotNil(t, s.Top)
}

// ── Publisher ──────────────────────────────────────────────────────────────

func TestPublish_SetsLastRunAndPublishes(t *testing.T) {
	mr, rdb := setup(t)
	ctx := context.Background()

	sub := rdb.Subscribe(ctx, events.Channel)
	defer sub.Close()
	_, err := sub.Receive(ctx) // subscription confirmation
	require.NoError(t, err)

	p := events.NewPublisher(rdb, time.Hour)
	require.NoError(t, p.Publish(ctx, events.NewSummary(sampleResult(2), 2)))

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)
	var got events.Summary
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
	assert.Equal(t, "run-1", got.RunID)
	assert.Len(t, got.Top, 2)

	assert.True(t, mr.Exists(events.LastRunKey))
	assert.Equal(t, time.Hour, mr.TTL(events.LastRunKey))
}

func TestLastRun(t *testing.T) {
	_, rdb := setup(t)
	ctx := context.Background()
	p := events.NewPublisher(rdb, 0)

	_, ok, err := p.LastRun(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, p.Publish(ctx, events.NewSummary(sampleResult(1), 1)))
	s, ok, err := p.LastRun(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "run-1", s.RunID)
	assert.Equal(t, 1, s.Selected)
}

func TestPublish_RedisDown(t *testing.T) {
	mr, rdb := setup(t)
	mr.SetError("LOADING server is loading")

	err := events.NewPublisher(rdb, 0).Publish(context.Background(), events.NewSummary(sampleResult(1), 0))
	assert.Error(t, err)
}
