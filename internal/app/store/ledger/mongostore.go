// internal/app/store/ledger/mongostore.go
package ledgerstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/wonyeong0810/studyBot/internal/app/policy/penaltypolicy"
	"github.com/wonyeong0810/studyBot/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore keeps one document per community in the communities
// collection, keyed by community id. Mutations are targeted field-level
// updates ($set, $addToSet, $pull, $inc) rather than whole-document
// rewrites, so concurrent updates to different fields never lose each
// other. Documents materialize lazily on first reference via upserts,
// mirroring the file backend's lazy-community semantics.
type MongoStore struct {
	c *mongo.Collection
}

var _ Store = (*MongoStore)(nil)

// NewMongoStore creates a ledger store over db's communities collection.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{c: db.Collection("communities")}
}

// load materializes the community document, returning an empty record
// when none exists yet. Query methods share this so both backends
// answer through the same models.Community helpers.
func (s *MongoStore) load(ctx context.Context, communityID string) (*models.Community, error) {
	var c models.Community
	err := s.c.FindOne(ctx, bson.M{"_id": communityID}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return models.NewCommunity(communityID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load community %s: %w", communityID, err)
	}

	c.ID = communityID
	if c.Participants == nil {
		c.Participants = []string{}
	}
	if c.Debt == nil {
		c.Debt = map[string]int64{}
	}
	if c.Submissions == nil {
		c.Submissions = map[string][]string{}
	}
	return &c, nil
}

func (s *MongoStore) BindChannel(ctx context.Context, communityID, channelID string) error {
	update := bson.M{
		"$set": bson.M{"channel_id": channelID},
		"$setOnInsert": bson.M{
			"participants": []string{},
			"debt":         bson.M{},
			"submissions":  bson.M{},
		},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := s.c.UpdateOne(ctx, bson.M{"_id": communityID}, update, opts); err != nil {
		return fmt.Errorf("bind channel for %s: %w", communityID, err)
	}
	return nil
}

func (s *MongoStore) Channel(ctx context.Context, communityID string) (string, error) {
	c, err := s.load(ctx, communityID)
	if err != nil {
		return "", err
	}
	return c.ChannelID, nil
}

func (s *MongoStore) AddParticipant(ctx context.Context, communityID, memberID string) error {
	update := bson.M{
		"$addToSet": bson.M{"participants": memberID},
		"$setOnInsert": bson.M{
			"debt":        bson.M{},
			"submissions": bson.M{},
		},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := s.c.UpdateOne(ctx, bson.M{"_id": communityID}, update, opts); err != nil {
		return fmt.Errorf("add participant %s to %s: %w", memberID, communityID, err)
	}

	// Ensure a zero balance entry exists without clobbering an existing
	// one: the filter only matches when the field is absent.
	zero := bson.M{"$set": bson.M{"debt." + memberID: int64(0)}}
	filter := bson.M{"_id": communityID, "debt." + memberID: bson.M{"$exists": false}}
	if _, err := s.c.UpdateOne(ctx, filter, zero); err != nil {
		return fmt.Errorf("init balance for %s in %s: %w", memberID, communityID, err)
	}
	return nil
}

func (s *MongoStore) RemoveParticipant(ctx context.Context, communityID, memberID string) error {
	update := bson.M{
		"$pull": bson.M{"participants": memberID},
		"$setOnInsert": bson.M{
			"debt":        bson.M{},
			"submissions": bson.M{},
		},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := s.c.UpdateOne(ctx, bson.M{"_id": communityID}, update, opts); err != nil {
		return fmt.Errorf("remove participant %s from %s: %w", memberID, communityID, err)
	}
	return nil
}

func (s *MongoStore) IsParticipant(ctx context.Context, communityID, memberID string) (bool, error) {
	count, err := s.c.CountDocuments(ctx, bson.M{"_id": communityID, "participants": memberID})
	if err != nil {
		return false, fmt.Errorf("check participant %s in %s: %w", memberID, communityID, err)
	}
	return count > 0, nil
}

func (s *MongoStore) RecordSubmission(ctx context.Context, communityID, day, memberID string) error {
	update := bson.M{
		"$addToSet": bson.M{"submissions." + day: memberID},
		"$setOnInsert": bson.M{
			"participants": []string{},
			"debt":         bson.M{},
		},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := s.c.UpdateOne(ctx, bson.M{"_id": communityID}, update, opts); err != nil {
		return fmt.Errorf("record submission for %s in %s on %s: %w", memberID, communityID, day, err)
	}
	return nil
}

func (s *MongoStore) HasSubmitted(ctx context.Context, communityID, day, memberID string) (bool, error) {
	count, err := s.c.CountDocuments(ctx, bson.M{"_id": communityID, "submissions." + day: memberID})
	if err != nil {
		return false, fmt.Errorf("check submission for %s in %s: %w", memberID, communityID, err)
	}
	return count > 0, nil
}

func (s *MongoStore) PendingFor(ctx context.Context, communityID, day string) ([]string, error) {
	c, err := s.load(ctx, communityID)
	if err != nil {
		return nil, err
	}
	return c.Pending(day), nil
}

func (s *MongoStore) AssessPenalties(ctx context.Context, communityID, day string) ([]models.BalanceEntry, error) {
	c, err := s.load(ctx, communityID)
	if err != nil {
		return nil, err
	}

	missed := penaltypolicy.Missed(c.Participants, c.Submissions[day])
	changed := penaltypolicy.Assess(missed, c.Debt)
	if len(changed) == 0 {
		return changed, nil
	}

	inc := bson.M{}
	for _, m := range missed {
		inc["debt."+m] = models.PenaltyUnit
	}
	if _, err := s.c.UpdateOne(ctx, bson.M{"_id": communityID}, bson.M{"$inc": inc}); err != nil {
		return nil, fmt.Errorf("assess penalties for %s on %s: %w", communityID, day, err)
	}
	return changed, nil
}

func (s *MongoStore) BalanceOf(ctx context.Context, communityID, memberID string) (int64, error) {
	c, err := s.load(ctx, communityID)
	if err != nil {
		return 0, err
	}
	return c.Balance(memberID), nil
}

func (s *MongoStore) Leaderboard(ctx context.Context, communityID string, limit int) ([]models.BalanceEntry, error) {
	c, err := s.load(ctx, communityID)
	if err != nil {
		return nil, err
	}
	return c.Leaderboard(limit), nil
}

func (s *MongoStore) TotalBalance(ctx context.Context, communityID string) (int64, error) {
	c, err := s.load(ctx, communityID)
	if err != nil {
		return 0, err
	}
	return c.TotalDebt(), nil
}

func (s *MongoStore) Communities(ctx context.Context) ([]string, error) {
	raw, err := s.c.Distinct(ctx, "_id", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list communities: %w", err)
	}

	ids := make([]string, 0, len(raw))
	for _, v := range raw {
		if id, ok := v.(string); ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}
