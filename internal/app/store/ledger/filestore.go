// internal/app/store/ledger/filestore.go
package ledgerstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/wonyeong0810/studyBot/internal/app/policy/penaltypolicy"
	"github.com/wonyeong0810/studyBot/internal/domain/models"
	"go.uber.org/zap"
)

// FileStore keeps the entire multi-community structure in memory and
// mirrors it to a single JSON file on every mutating call. One mutex
// serializes every load/mutate/persist cycle, since scheduler sweeps
// and live event handlers run concurrently.
type FileStore struct {
	mu          sync.Mutex
	path        string
	communities map[string]*models.Community
	log         *zap.Logger
}

var _ Store = (*FileStore)(nil)

// NewFileStore loads (or initializes) the ledger file at path. A
// missing or unreadable file starts as empty state rather than failing
// startup; the trade-off favors availability over refusing to run.
func NewFileStore(path string, logger *zap.Logger) (*FileStore, error) {
	s := &FileStore{
		path:        path,
		communities: map[string]*models.Community{},
		log:         logger,
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// First run.
	case err != nil:
		logger.Warn("ledger file unreadable, starting empty",
			zap.String("path", path), zap.Error(err))
	default:
		if err := json.Unmarshal(data, &s.communities); err != nil {
			logger.Warn("ledger file corrupt, starting empty",
				zap.String("path", path), zap.Error(err))
			s.communities = map[string]*models.Community{}
		}
	}

	// Hand-edited or older files may omit fields; nil maps are not
	// usable by the mutation paths.
	for id, c := range s.communities {
		c.ID = id
		if c.Participants == nil {
			c.Participants = []string{}
		}
		if c.Debt == nil {
			c.Debt = map[string]int64{}
		}
		if c.Submissions == nil {
			c.Submissions = map[string][]string{}
		}
	}

	return s, nil
}

// community returns the record for id, creating it lazily. Callers hold mu.
func (s *FileStore) community(id string) *models.Community {
	c, ok := s.communities[id]
	if !ok {
		c = models.NewCommunity(id)
		s.communities[id] = c
	}
	return c
}

// persist rewrites the ledger file atomically: write a temporary
// sibling, fsync, then rename over the target, so a crash mid-write
// never corrupts the previous durable state. Callers hold mu.
func (s *FileStore) persist() error {
	data, err := json.MarshalIndent(s.communities, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal ledger: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create ledger dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp ledger file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp ledger file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp ledger file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp ledger file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace ledger file: %w", err)
	}
	committed = true
	return nil
}

func (s *FileStore) BindChannel(ctx context.Context, communityID, channelID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.community(communityID).ChannelID = channelID
	return s.persist()
}

func (s *FileStore) Channel(ctx context.Context, communityID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.communities[communityID]; ok {
		return c.ChannelID, nil
	}
	return "", nil
}

func (s *FileStore) AddParticipant(ctx context.Context, communityID, memberID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.community(communityID)
	if !c.IsParticipant(memberID) {
		c.Participants = append(c.Participants, memberID)
	}
	if _, ok := c.Debt[memberID]; !ok {
		c.Debt[memberID] = 0
	}
	return s.persist()
}

func (s *FileStore) RemoveParticipant(ctx context.Context, communityID, memberID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.community(communityID)
	kept := c.Participants[:0]
	for _, p := range c.Participants {
		if p != memberID {
			kept = append(kept, p)
		}
	}
	c.Participants = kept
	return s.persist()
}

func (s *FileStore) IsParticipant(ctx context.Context, communityID, memberID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.communities[communityID]; ok {
		return c.IsParticipant(memberID), nil
	}
	return false, nil
}

func (s *FileStore) RecordSubmission(ctx context.Context, communityID, day, memberID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.community(communityID)
	if c.HasSubmitted(day, memberID) {
		return nil
	}
	c.Submissions[day] = append(c.Submissions[day], memberID)
	return s.persist()
}

func (s *FileStore) HasSubmitted(ctx context.Context, communityID, day, memberID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.communities[communityID]; ok {
		return c.HasSubmitted(day, memberID), nil
	}
	return false, nil
}

func (s *FileStore) PendingFor(ctx context.Context, communityID, day string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.communities[communityID]; ok {
		return c.Pending(day), nil
	}
	return []string{}, nil
}

func (s *FileStore) AssessPenalties(ctx context.Context, communityID, day string) ([]models.BalanceEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.community(communityID)
	missed := penaltypolicy.Missed(c.Participants, c.Submissions[day])
	changed := penaltypolicy.Assess(missed, c.Debt)
	if len(changed) == 0 {
		return changed, nil
	}

	for _, e := range changed {
		c.Debt[e.Member] = e.Amount
	}
	if err := s.persist(); err != nil {
		return nil, err
	}
	return changed, nil
}

func (s *FileStore) BalanceOf(ctx context.Context, communityID, memberID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.communities[communityID]; ok {
		return c.Balance(memberID), nil
	}
	return 0, nil
}

func (s *FileStore) Leaderboard(ctx context.Context, communityID string, limit int) ([]models.BalanceEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.communities[communityID]; ok {
		return c.Leaderboard(limit), nil
	}
	return []models.BalanceEntry{}, nil
}

func (s *FileStore) TotalBalance(ctx context.Context, communityID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.communities[communityID]; ok {
		return c.TotalDebt(), nil
	}
	return 0, nil
}

func (s *FileStore) Communities(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.communities))
	for id := range s.communities {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
