package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mssola/useragent"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Entry struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
	Action    string             `bson:"action" json:"action"`
	Detail    string             `bson:"detail" json:"detail"`
	Username  string             `bson:"username" json:"username"`
	IP        string             `bson:"ip" json:"ip"`
	UserAgent string             `bson:"user_agent" json:"user_agent"`
	Client    string             `bson:"client" json:"client"`
	RequestID string             `bson:"request_id" json:"requestId"`
}

type Filter struct {
	Action   string
	Username string
}

type Service struct {
	logs   *mongo.Collection
	logger *slog.Logger
}

func New(database *mongo.Database, logger *slog.Logger) *Service {
	return &Service{logs: database.Collection("audit_logs"), logger: logger}
}

// Record writes one audit entry. Failures are logged and swallowed so a slow
// or unavailable log collection never fails the request it describes.
func (s *Service) Record(ctx context.Context, entry Entry) {
	if s == nil || s.logs == nil {
		return
	}
	entry.Timestamp = time.Now().UTC()
	entry.Client = describeClient(entry.UserAgent)
	if _, err := s.logs.InsertOne(ctx, entry); err != nil {
		s.logger.Warn("audit record failed", "action", entry.Action, "error", err)
	}
}

func (s *Service) Count(ctx context.Context, filter Filter) (int64, error) {
	return s.logs.CountDocuments(ctx, filter.predicate())
}

// List returns entries newest first.
func (s *Service) List(ctx context.Context, filter Filter, skip, limit int64) ([]Entry, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)
	cursor, err := s.logs.Find(ctx, filter.predicate(), opts)
	if err != nil {
		return nil, err
	}
	var out []Entry
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Purge drops entries older than the cutoff and returns how many went.
func (s *Service) Purge(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.logs.DeleteMany(ctx, bson.M{"timestamp": bson.M{"$lt": cutoff.UTC()}})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func (f Filter) predicate() bson.M {
	predicate := bson.M{}
	if f.Action != "" {
		predicate["action"] = f.Action
	}
	if f.Username != "" {
		predicate["username"] = f.Username
	}
	return predicate
}

// describeClient condenses a raw User-Agent header into "Browser x.y on OS".
func describeClient(rawUA string) string {
	if rawUA == "" {
		return "unknown"
	}
	ua := useragent.New(rawUA)
	name, version := ua.Browser()
	if name == "" {
		return "unknown"
	}
	if os := ua.OS(); os != "" {
		return fmt.Sprintf("%s %s on %s", name, version, os)
	}
	return fmt.Sprintf("%s %s", name, version)
}
