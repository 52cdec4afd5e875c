package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshua-takyi/pawmates/internal/failure"
)

// fakeRatingRepo holds a single sitter's aggregate in memory and enforces the
// same compare-and-set contract as the Mongo implementation. conflictsLeft
// injects spurious conflicts to exercise the retry loop.
type fakeRatingRepo struct {
	mu            sync.Mutex
	rating        *float64
	count         int
	conflictsLeft int
	casCalls      int
}

func (f *fakeRatingRepo) GetSitterRating(_ context.Context, _ string) (*float64, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rating == nil {
		return nil, f.count, nil
	}
	v := *f.rating
	return &v, f.count, nil
}

func (f *fakeRatingRepo) CompareAndSetRating(_ context.Context, sitterID string, expectRating *float64, expectCount int, newRating *float64, newCount int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.casCalls++

	if f.conflictsLeft > 0 {
		f.conflictsLeft--
		return failure.AggregateConflict(sitterID)
	}
	if expectCount != f.count || !floatPtrEqual(expectRating, f.rating) {
		return failure.AggregateConflict(sitterID)
	}
	f.rating = newRating
	f.count = newCount
	return nil
}

func floatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func TestRatingServiceApplyAdd(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRatingRepo{}
	svc := NewRatingService(repo)

	require.NoError(t, svc.ApplyAdd(ctx, "sitter-1", 5))
	require.NotNil(t, repo.rating)
	assert.Equal(t, 5.0, *repo.rating)
	assert.Equal(t, 1, repo.count)

	require.NoError(t, svc.ApplyAdd(ctx, "sitter-1", 3))
	assert.Equal(t, 4.0, *repo.rating)
	assert.Equal(t, 2, repo.count)

	require.NoError(t, svc.ApplyAdd(ctx, "sitter-1", 4))
	assert.Equal(t, 4.0, *repo.rating)
	assert.Equal(t, 3, repo.count)
}

func TestRatingServiceAddOrderIndependent(t *testing.T) {
	ctx := context.Background()
	orders := [][]int{
		{5, 3, 4},
		{3, 4, 5},
		{4, 5, 3},
	}
	for _, order := range orders {
		repo := &fakeRatingRepo{}
		svc := NewRatingService(repo)
		for _, r := range order {
			require.NoError(t, svc.ApplyAdd(ctx, "sitter-1", r))
		}
		require.NotNil(t, repo.rating)
		assert.Equal(t, 4.0, *repo.rating, "order %v", order)
		assert.Equal(t, 3, repo.count, "order %v", order)
	}
}

func TestRatingServiceApplyEdit(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRatingRepo{}
	svc := NewRatingService(repo)

	require.NoError(t, svc.ApplyAdd(ctx, "sitter-1", 5))
	require.NoError(t, svc.ApplyEdit(ctx, "sitter-1", 5, 3))

	require.NotNil(t, repo.rating)
	assert.Equal(t, 3.0, *repo.rating)
	assert.Equal(t, 1, repo.count, "edits never change the count")
}

func TestRatingServiceEditSameValueIsNoop(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRatingRepo{}
	svc := NewRatingService(repo)

	require.NoError(t, svc.ApplyAdd(ctx, "sitter-1", 4))
	before := repo.casCalls

	require.NoError(t, svc.ApplyEdit(ctx, "sitter-1", 4, 4))
	assert.Equal(t, before, repo.casCalls, "no write should happen when the value is unchanged")
}

func TestRatingServiceApplyRemove(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRatingRepo{}
	svc := NewRatingService(repo)

	for _, r := range []int{5, 3, 4} {
		require.NoError(t, svc.ApplyAdd(ctx, "sitter-1", r))
	}

	require.NoError(t, svc.ApplyRemove(ctx, "sitter-1", 3))
	require.NotNil(t, repo.rating)
	assert.Equal(t, 4.5, *repo.rating)
	assert.Equal(t, 2, repo.count)
}

func TestRatingServiceRemoveLastReviewResets(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRatingRepo{}
	svc := NewRatingService(repo)

	require.NoError(t, svc.ApplyAdd(ctx, "sitter-1", 2))
	require.NoError(t, svc.ApplyRemove(ctx, "sitter-1", 2))

	assert.Nil(t, repo.rating, "removing the last review resets the mean to null")
	assert.Equal(t, 0, repo.count)
}

func TestRatingServiceRemoveFromEmptyIsNoop(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRatingRepo{}
	svc := NewRatingService(repo)

	require.NoError(t, svc.ApplyRemove(ctx, "sitter-1", 5))
	assert.Nil(t, repo.rating)
	assert.Equal(t, 0, repo.count)
	assert.Equal(t, 0, repo.casCalls)
}

func TestRatingServiceRetriesOnConflict(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRatingRepo{conflictsLeft: 2}
	svc := NewRatingService(repo)

	require.NoError(t, svc.ApplyAdd(ctx, "sitter-1", 5))
	require.NotNil(t, repo.rating)
	assert.Equal(t, 5.0, *repo.rating)
	assert.Equal(t, 3, repo.casCalls, "two conflicts then one successful write")
}

func TestRatingServiceConflictExhaustion(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRatingRepo{conflictsLeft: ratingMaxAttempts}
	svc := NewRatingService(repo)

	err := svc.ApplyAdd(ctx, "sitter-1", 5)
	require.Error(t, err)
	assert.True(t, failure.IsKind(err, failure.KindAggregateConflict))
	assert.Nil(t, repo.rating, "no write should have landed")
	assert.Equal(t, 0, repo.count)
}

// TestRatingServiceMixedSequence replays a long interleaving of adds, edits
// and removes through the service, tracking the surviving ratings on the side
// the way ReviewService supplies stored values, and checks the incremental
// aggregate lands on the from-scratch mean over the survivors. Per-step
// rounding can drift the running mean by a tenth or two mid-sequence, so the
// tolerance applies to the final value only; the count must match exactly at
// every step.
func TestRatingServiceMixedSequence(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRatingRepo{}
	svc := NewRatingService(repo)

	type op struct {
		kind  string
		value int // add: rating; edit: new rating
		index int // edit/remove: position among survivors
	}
	ops := []op{
		{kind: "add", value: 3}, {kind: "edit", index: 0, value: 4}, {kind: "edit", index: 0, value: 2},
		{kind: "add", value: 3}, {kind: "add", value: 2}, {kind: "add", value: 5},
		{kind: "add", value: 5}, {kind: "edit", index: 0, value: 2}, {kind: "add", value: 3},
		{kind: "edit", index: 3, value: 2}, {kind: "add", value: 2}, {kind: "edit", index: 4, value: 4},
		{kind: "edit", index: 1, value: 1}, {kind: "add", value: 2}, {kind: "edit", index: 2, value: 2},
		{kind: "remove", index: 5}, {kind: "edit", index: 4, value: 2}, {kind: "edit", index: 5, value: 2},
		{kind: "add", value: 3}, {kind: "add", value: 3}, {kind: "add", value: 2},
		{kind: "edit", index: 4, value: 1}, {kind: "remove", index: 4}, {kind: "edit", index: 0, value: 5},
		{kind: "remove", index: 1}, {kind: "remove", index: 5}, {kind: "remove", index: 3},
		{kind: "remove", index: 1}, {kind: "add", value: 4}, {kind: "edit", index: 0, value: 3},
		{kind: "add", value: 3}, {kind: "add", value: 1}, {kind: "edit", index: 6, value: 3},
		{kind: "add", value: 5}, {kind: "add", value: 4}, {kind: "add", value: 2},
		{kind: "edit", index: 3, value: 1}, {kind: "edit", index: 7, value: 3}, {kind: "edit", index: 5, value: 5},
		{kind: "remove", index: 7},
	}

	var survivors []int
	for i, o := range ops {
		switch o.kind {
		case "add":
			require.NoError(t, svc.ApplyAdd(ctx, "sitter-1", o.value), "op %d", i)
			survivors = append(survivors, o.value)
		case "edit":
			old := survivors[o.index]
			require.NoError(t, svc.ApplyEdit(ctx, "sitter-1", old, o.value), "op %d", i)
			survivors[o.index] = o.value
		case "remove":
			old := survivors[o.index]
			require.NoError(t, svc.ApplyRemove(ctx, "sitter-1", old), "op %d", i)
			survivors = append(survivors[:o.index], survivors[o.index+1:]...)
		}
		assert.Equal(t, len(survivors), repo.count, "count after op %d", i)
	}

	require.NotEmpty(t, survivors)
	sum := 0
	for _, r := range survivors {
		sum += r
	}
	expected := roundRating(float64(sum) / float64(len(survivors)))

	require.NotNil(t, repo.rating)
	assert.InDelta(t, expected, *repo.rating, 0.1)
	assert.Equal(t, len(survivors), repo.count)
}

func TestRoundRating(t *testing.T) {
	assert.Equal(t, 4.3, roundRating(4.333333))
	assert.Equal(t, 4.7, roundRating(4.666666))
	assert.Equal(t, 2.7, roundRating(8.0/3.0))
	assert.Equal(t, 3.5, roundRating(3.5))
}
