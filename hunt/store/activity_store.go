package store

import (
	"context"
	"fmt"

	"github.com/Ftotnem/HUNT-SERVICES/shared/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ScanStore is the append-only scan ledger. It never updates a scan.
type ScanStore struct {
	collection *mongo.Collection
}

func NewScanStore(collection *mongo.Collection) *ScanStore {
	return &ScanStore{collection: collection}
}

func (s *ScanStore) Insert(ctx context.Context, scan *models.Scan) error {
	ensureID(&scan.ID)
	ensureTime(&scan.CreatedAt)
	if _, err := s.collection.InsertOne(ctx, scan); err != nil {
		return fmt.Errorf("failed to record %s scan of %s: %w", scan.ItemType, scan.ItemID.Hex(), err)
	}
	return nil
}

// ListByItemType returns every scan of the given item type, oldest first.
func (s *ScanStore) ListByItemType(ctx context.Context, itemType models.ItemType) ([]models.Scan, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := s.collection.Find(ctx, bson.M{"itemType": itemType}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s scans: %w", itemType, err)
	}
	var scans []models.Scan
	if err := cursor.All(ctx, &scans); err != nil {
		return nil, fmt.Errorf("failed to decode %s scans: %w", itemType, err)
	}
	return scans, nil
}

func (s *ScanStore) DeleteAll(ctx context.Context) error {
	return deleteAll(ctx, s.collection)
}

// NotificationStore persists user- and team-addressed notifications.
type NotificationStore struct {
	collection *mongo.Collection
}

func NewNotificationStore(collection *mongo.Collection) *NotificationStore {
	return &NotificationStore{collection: collection}
}

func (s *NotificationStore) InsertMany(ctx context.Context, ns []models.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	docs := make([]interface{}, len(ns))
	for i := range ns {
		ensureID(&ns[i].ID)
		ensureTime(&ns[i].CreatedAt)
		docs[i] = ns[i]
	}
	if _, err := s.collection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert %d notifications: %w", len(ns), err)
	}
	return nil
}

func (s *NotificationStore) ListForUser(ctx context.Context, userID primitive.ObjectID, limit int) ([]models.Notification, error) {
	return s.find(ctx, bson.M{"user": userID}, limit)
}

func (s *NotificationStore) ListForTeam(ctx context.Context, teamID primitive.ObjectID, limit int) ([]models.Notification, error) {
	return s.find(ctx, bson.M{"team": teamID}, limit)
}

func (s *NotificationStore) find(ctx context.Context, filter bson.M, limit int) ([]models.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	var ns []models.Notification
	if err := cursor.All(ctx, &ns); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %w", err)
	}
	return ns, nil
}

// MarkRead sets read (and viewed) on a notification the recipient owns.
func (s *NotificationStore) MarkRead(ctx context.Context, id primitive.ObjectID, r Recipient) (*models.Notification, error) {
	return s.mark(ctx, id, r, bson.M{"read": true, "viewed": true})
}

func (s *NotificationStore) MarkViewed(ctx context.Context, id primitive.ObjectID, r Recipient) (*models.Notification, error) {
	return s.mark(ctx, id, r, bson.M{"viewed": true})
}

func (s *NotificationStore) mark(ctx context.Context, id primitive.ObjectID, r Recipient, set bson.M) (*models.Notification, error) {
	owners := bson.A{bson.M{"user": r.User}}
	if r.Team != nil {
		owners = append(owners, bson.M{"team": *r.Team})
	}
	filter := bson.M{"_id": id, "$or": owners}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var n models.Notification
	if err := s.collection.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&n); err != nil {
		return nil, translate(err)
	}
	return &n, nil
}

func (s *NotificationStore) DeleteAll(ctx context.Context) error {
	return deleteAll(ctx, s.collection)
}

// WallStore persists posts on player and team walls.
type WallStore struct {
	collection *mongo.Collection
}

func NewWallStore(collection *mongo.Collection) *WallStore {
	return &WallStore{collection: collection}
}

func (s *WallStore) Create(ctx context.Context, p *models.WallPost) error {
	ensureID(&p.ID)
	ensureTime(&p.CreatedAt)
	if _, err := s.collection.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("failed to create wall post: %w", err)
	}
	return nil
}

func (s *WallStore) List(ctx context.Context, targetType models.WallTarget, targetID primitive.ObjectID) ([]models.WallPost, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.collection.Find(ctx, bson.M{"targetType": targetType, "targetId": targetID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query wall posts: %w", err)
	}
	var posts []models.WallPost
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("failed to decode wall posts: %w", err)
	}
	return posts, nil
}

func (s *WallStore) DeleteAll(ctx context.Context) error {
	return deleteAll(ctx, s.collection)
}
