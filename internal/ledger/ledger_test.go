package ledger

import (
	"sync"
	"sync/atomic"
	"testing"

	"fast-vote-api/internal/models"
	"fast-vote-api/internal/testutil"

	"github.com/stretchr/testify/require"
)

func TestCastVote_Success(t *testing.T) {
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)

	poll, options, err := testutil.SeedPoll(db, "owner", "Favorite language?", "Go", "Python")
	require.NoError(t, err)

	pollID, results, err := CastVote(db, "s1", options[0].ID)
	require.NoError(t, err)
	require.Equal(t, poll.ID, pollID)
	require.Equal(t, []models.OptionResult{
		{ID: options[0].ID, OptionText: "Go", Votes: 1},
		{ID: options[1].ID, OptionText: "Python", Votes: 0},
	}, results)
}

func TestCastVote_DuplicateRejected(t *testing.T) {
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)

	_, options, err := testutil.SeedPoll(db, "owner", "Q?", "A", "B")
	require.NoError(t, err)

	_, _, err = CastVote(db, "s1", options[0].ID)
	require.NoError(t, err)

	_, _, err = CastVote(db, "s1", options[0].ID)
	require.ErrorIs(t, err, ErrDuplicateVote)

	// Exactly one vote row for the pair.
	var count int64
	require.NoError(t, db.Model(&models.Vote{}).
		Where("user_id = ? AND option_id = ?", "s1", options[0].ID).
		Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestCastVote_DifferentOptionAllowed(t *testing.T) {
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)

	_, options, err := testutil.SeedPoll(db, "owner", "Q?", "A", "B")
	require.NoError(t, err)

	_, _, err = CastVote(db, "s1", options[0].ID)
	require.NoError(t, err)

	_, results, err := CastVote(db, "s1", options[1].ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, results[0].Votes)
	require.EqualValues(t, 1, results[1].Votes)
}

func TestCastVote_UnknownOption(t *testing.T) {
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)

	_, _, err = CastVote(db, "s1", "no-such-option")
	require.ErrorIs(t, err, ErrOptionNotFound)
}

func TestCastVote_MissingSession(t *testing.T) {
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)

	_, options, err := testutil.SeedPoll(db, "owner", "Q?", "A", "B")
	require.NoError(t, err)

	_, _, err = CastVote(db, "", options[0].ID)
	require.ErrorIs(t, err, ErrSessionMissing)
}

// TestCastVote_ConcurrentSamePair verifies that N identical concurrent vote
// requests produce exactly one committed vote and N-1 duplicate rejections.
func TestCastVote_ConcurrentSamePair(t *testing.T) {
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)

	_, options, err := testutil.SeedPoll(db, "owner", "Q?", "A", "B")
	require.NoError(t, err)

	const attempts = 10
	var accepted, duplicates atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := CastVote(db, "racer", options[0].ID)
			switch {
			case err == nil:
				accepted.Add(1)
			case err == ErrDuplicateVote:
				duplicates.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	require.EqualValues(t, 1, accepted.Load())
	require.EqualValues(t, attempts-1, duplicates.Load())

	var count int64
	require.NoError(t, db.Model(&models.Vote{}).
		Where("user_id = ? AND option_id = ?", "racer", options[0].ID).
		Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestProject_SumsCommittedVotes(t *testing.T) {
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)

	poll, options, err := testutil.SeedPoll(db, "owner", "Q?", "A", "B", "C")
	require.NoError(t, err)

	sessions := []string{"s1", "s2", "s3"}
	for _, sid := range sessions {
		_, _, err := CastVote(db, sid, options[0].ID)
		require.NoError(t, err)
	}
	_, _, err = CastVote(db, "s1", options[2].ID)
	require.NoError(t, err)

	results, err := Project(db, poll.ID)
	require.NoError(t, err)
	require.Len(t, results, 3)

	var total int64
	for _, r := range results {
		total += r.Votes
	}
	require.EqualValues(t, 4, total)
	require.EqualValues(t, 3, results[0].Votes)
	require.EqualValues(t, 0, results[1].Votes)
	require.EqualValues(t, 1, results[2].Votes)
}

func TestProject_OtherPollUnaffected(t *testing.T) {
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)

	pollA, optionsA, err := testutil.SeedPoll(db, "owner", "A?", "A1", "A2")
	require.NoError(t, err)
	pollB, _, err := testutil.SeedPoll(db, "owner", "B?", "B1", "B2")
	require.NoError(t, err)

	_, _, err = CastVote(db, "s1", optionsA[0].ID)
	require.NoError(t, err)

	resultsA, err := Project(db, pollA.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, resultsA[0].Votes)

	resultsB, err := Project(db, pollB.ID)
	require.NoError(t, err)
	for _, r := range resultsB {
		require.EqualValues(t, 0, r.Votes)
	}
}
