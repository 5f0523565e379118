package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/ballotbox/internal/core/domain"
	"github.com/vncsmyrnk/ballotbox/internal/core/ports"
)

type candidateJSON struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Votes int64  `json:"votes"`
}

func TestVotingScenario(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	// 1. List candidates (seeds the table)
	resp, err := app.Client.Get(app.Server.URL + "/api/candidates")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listing struct {
		Candidates []candidateJSON `json:"candidates"`
		Degraded   bool            `json:"degraded"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listing))
	resp.Body.Close()
	require.False(t, listing.Degraded)
	require.Len(t, listing.Candidates, 5)
	for i, c := range listing.Candidates {
		assert.Equal(t, seedNames[i], c.Name)
		assert.Zero(t, c.Votes)
	}
	first, second := listing.Candidates[0], listing.Candidates[1]

	// 2. Has not voted yet
	assert.False(t, hasVoted(t, app, "v1"))

	// 3. Vote
	voteBody, _ := json.Marshal(map[string]any{"candidateId": first.ID, "voterIdentifier": "v1"})
	resp, err = app.Client.Post(app.Server.URL+"/api/votes", "application/json", bytes.NewReader(voteBody))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var cast struct {
		Success    bool            `json:"success"`
		Candidates []candidateJSON `json:"candidates"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cast))
	resp.Body.Close()
	assert.True(t, cast.Success)
	for _, c := range cast.Candidates {
		if c.ID == first.ID {
			assert.Equal(t, int64(1), c.Votes)
		} else {
			assert.Zero(t, c.Votes)
		}
	}

	// 4. Has voted now
	assert.True(t, hasVoted(t, app, "v1"))

	// 5. Second vote for another candidate is rejected
	voteBody, _ = json.Marshal(map[string]any{"candidateId": second.ID, "voterIdentifier": "v1"})
	resp, err = app.Client.Post(app.Server.URL+"/api/votes", "application/json", bytes.NewReader(voteBody))
	require.NoError(t, err)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	var errResp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	resp.Body.Close()
	assert.Equal(t, "DUPLICATE_VOTE", errResp.Error.Code)

	var rows int
	err = app.DB.QueryRow("SELECT COUNT(*) FROM votes WHERE voter_identifier = $1", "v1").Scan(&rows)
	require.NoError(t, err)
	assert.Equal(t, 1, rows)

	var secondVotes int64
	err = app.DB.QueryRow("SELECT vote_count FROM candidates WHERE id = $1", second.ID).Scan(&secondVotes)
	require.NoError(t, err)
	assert.Zero(t, secondVotes)
}

func TestConcurrentSeeding(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			listing := app.VoteSvc.ListCandidates(context.Background())
			assert.False(t, listing.Degraded)
		}()
	}
	wg.Wait()

	var count int
	err := app.DB.QueryRow("SELECT COUNT(*) FROM candidates").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, len(seedNames), count)
}

func TestConcurrentVotesSameVoter(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	candidates := app.VoteSvc.ListCandidates(context.Background()).Candidates
	require.Len(t, candidates, 5)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		others    []error
	)
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := app.VoteSvc.CastVote(context.Background(), ports.CastVoteInput{
				CandidateID:     candidates[i%len(candidates)].ID,
				VoterIdentifier: "203.0.113.9",
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case !errors.Is(err, domain.ErrAlreadyVoted):
				others = append(others, err)
			}
		}(i)
	}
	wg.Wait()

	require.Empty(t, others)
	assert.Equal(t, 1, successes)

	var rows int
	err := app.DB.QueryRow("SELECT COUNT(*) FROM votes WHERE voter_identifier = $1", "203.0.113.9").Scan(&rows)
	require.NoError(t, err)
	assert.Equal(t, 1, rows)

	var total int64
	err = app.DB.QueryRow("SELECT COALESCE(SUM(vote_count), 0) FROM candidates").Scan(&total)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestTallyConsistencyUnderLoad(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	candidates := app.VoteSvc.ListCandidates(context.Background()).Candidates
	require.Len(t, candidates, 5)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := app.VoteSvc.CastVote(context.Background(), ports.CastVoteInput{
				CandidateID:     candidates[i%2].ID,
				VoterIdentifier: fmt.Sprintf("voter-%d", i),
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	var mismatched int
	err := app.DB.QueryRow(`
		SELECT COUNT(*) FROM (
			SELECT c.id
			FROM candidates c
			LEFT JOIN votes v ON v.candidate_id = c.id
			GROUP BY c.id
			HAVING c.vote_count <> COUNT(v.id)
		) drift
	`).Scan(&mismatched)
	require.NoError(t, err)
	assert.Zero(t, mismatched)

	after := app.VoteSvc.ListCandidates(context.Background()).Candidates
	assert.Equal(t, int64(25), after[0].Votes)
	assert.Equal(t, int64(25), after[1].Votes)

	drift, err := app.TallySvc.ReconcileAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, drift)
}

func TestUnknownCandidate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	app.VoteSvc.ListCandidates(context.Background())

	_, err := app.VoteSvc.CastVote(context.Background(), ports.CastVoteInput{CandidateID: 424242, VoterIdentifier: "v1"})
	require.ErrorIs(t, err, domain.ErrCandidateNotFound)

	var rows int
	err = app.DB.QueryRow("SELECT COUNT(*) FROM votes").Scan(&rows)
	require.NoError(t, err)
	assert.Zero(t, rows)
}

func TestReconcileCorrectsDrift(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	candidates := app.VoteSvc.ListCandidates(context.Background()).Candidates
	_, err := app.VoteSvc.CastVote(context.Background(), ports.CastVoteInput{CandidateID: candidates[3].ID, VoterIdentifier: "v1"})
	require.NoError(t, err)

	_, err = app.DB.Exec("UPDATE candidates SET vote_count = 9 WHERE id = $1", candidates[3].ID)
	require.NoError(t, err)

	drift, err := app.TallySvc.ReconcileAll(context.Background())
	require.NoError(t, err)
	require.Len(t, drift, 1)
	assert.Equal(t, domain.TallyDrift{CandidateID: candidates[3].ID, Name: seedNames[3], Stored: 9, Counted: 1}, drift[0])

	after := app.VoteSvc.ListCandidates(context.Background()).Candidates
	assert.Equal(t, int64(1), after[3].Votes)
}

func hasVoted(t *testing.T, app *TestApp, voter string) bool {
	t.Helper()

	body, _ := json.Marshal(map[string]string{"voterIdentifier": voter})
	resp, err := app.Client.Post(app.Server.URL+"/api/votes/status", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var status struct {
		HasVoted bool `json:"hasVoted"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	return status.HasVoted
}
