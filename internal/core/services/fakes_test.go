package services

import (
	"context"
	"sync"
	"time"

	"github.com/vncsmyrnk/ballotbox/internal/core/domain"
)

// memoryStore is an in-memory ledger store implementing the candidate, vote
// and tally repositories with the same guarantees as the SQL adapters.
type memoryStore struct {
	mu         sync.Mutex
	candidates []domain.Candidate
	votes      map[string]domain.Vote
	seedWrites int

	seedErr  error
	listErr  error
	voteErr  error
	castErr  error
	pingErr  error
	castSeen []*domain.Vote
}

func newMemoryStore() *memoryStore {
	return &memoryStore{votes: map[string]domain.Vote{}}
}

func (m *memoryStore) SeedIfEmpty(_ context.Context, names []string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seedErr != nil {
		return false, m.seedErr
	}
	if len(m.candidates) > 0 || len(names) == 0 {
		return false, nil
	}
	for i, name := range names {
		m.candidates = append(m.candidates, domain.Candidate{ID: int64(i + 1), Name: name, CreatedAt: time.Now()})
	}
	m.seedWrites++
	return true, nil
}

func (m *memoryStore) List(context.Context) ([]domain.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]domain.Candidate(nil), m.candidates...), nil
}

func (m *memoryStore) Ping(context.Context) error {
	return m.pingErr
}

func (m *memoryStore) HasVoted(_ context.Context, voterIdentifier string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.voteErr != nil {
		return false, m.voteErr
	}
	_, ok := m.votes[voterIdentifier]
	return ok, nil
}

func (m *memoryStore) CastVote(_ context.Context, vote *domain.Vote) ([]domain.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.castSeen = append(m.castSeen, vote)
	if m.castErr != nil {
		return nil, m.castErr
	}
	if _, ok := m.votes[vote.VoterIdentifier]; ok {
		return nil, domain.ErrAlreadyVoted
	}
	for i := range m.candidates {
		if m.candidates[i].ID == vote.CandidateID {
			m.votes[vote.VoterIdentifier] = *vote
			m.candidates[i].Votes++
			return append([]domain.Candidate(nil), m.candidates...), nil
		}
	}
	return nil, domain.ErrCandidateNotFound
}

func (m *memoryStore) Reconcile(context.Context) ([]domain.TallyDrift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counted := map[int64]int64{}
	for _, v := range m.votes {
		counted[v.CandidateID]++
	}
	var drift []domain.TallyDrift
	for i, c := range m.candidates {
		if c.Votes != counted[c.ID] {
			drift = append(drift, domain.TallyDrift{CandidateID: c.ID, Name: c.Name, Stored: c.Votes, Counted: counted[c.ID]})
			m.candidates[i].Votes = counted[c.ID]
		}
	}
	return drift, nil
}

// blockingStore never answers before its context is done.
type blockingStore struct{}

func (blockingStore) SeedIfEmpty(ctx context.Context, _ []string) (bool, error) {
	<-ctx.Done()
	return false, ctx.Err()
}

func (blockingStore) List(ctx context.Context) ([]domain.Candidate, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (blockingStore) Ping(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func (blockingStore) HasVoted(ctx context.Context, _ string) (bool, error) {
	<-ctx.Done()
	return false, ctx.Err()
}

func (blockingStore) CastVote(ctx context.Context, _ *domain.Vote) ([]domain.Candidate, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}
