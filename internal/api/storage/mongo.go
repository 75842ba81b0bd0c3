package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cuongbtq/jobboard-be/internal/api/domain"
	"github.com/cuongbtq/jobboard-be/internal/api/model"
	"github.com/cuongbtq/jobboard-be/shared/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	jobsCollection  = "jobs"
	usersCollection = "users"
)

// MongoStore is the document-store backend
type MongoStore struct {
	client *mongodb.Client
	jobs   *mongo.Collection
	users  *mongo.Collection
	logger *slog.Logger
}

// NewMongoStore binds the collections and makes sure the indexes exist
func NewMongoStore(ctx context.Context, client *mongodb.Client, logger *slog.Logger) (*MongoStore, error) {
	s := &MongoStore{
		client: client,
		jobs:   client.Collection(jobsCollection),
		users:  client.Collection(usersCollection),
		logger: logger,
	}

	if err := s.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create users email index: %w", err)
	}

	_, err = s.jobs.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create jobs order index: %w", err)
	}

	s.logger.Info("MongoDB indexes ensured")
	return nil
}

func parseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrInvalidID
	}
	return oid, nil
}

// BSON dates have millisecond precision
func mongoNow() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func (s *MongoStore) ListJobs(ctx context.Context, filter JobFilter) ([]domain.Job, error) {
	query := bson.M{}
	if c := filter.Cursor; c != nil {
		oid, err := parseObjectID(c.JobID)
		if err != nil {
			return nil, err
		}
		query = bson.M{"$or": bson.A{
			bson.M{"createdAt": bson.M{"$gt": c.CreatedAt}},
			bson.M{"createdAt": c.CreatedAt, "_id": bson.M{"$gt": oid}},
		}}
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	if n := limit(filter); n > 0 {
		opts.SetLimit(int64(n))
	}

	cur, err := s.jobs.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer cur.Close(ctx)

	var docs []model.JobDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode jobs: %w", err)
	}

	jobs := make([]domain.Job, len(docs))
	for i := range docs {
		jobs[i] = docs[i].ToDomain()
	}
	return jobs, nil
}

func (s *MongoStore) CreateJob(ctx context.Context, job *domain.Job) error {
	now := mongoNow()
	job.CreatedAt = now
	job.UpdatedAt = now

	doc := model.NewJobDocument(job)
	doc.ID = primitive.NewObjectID()

	if _, err := s.jobs.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}

	job.ID = doc.ID.Hex()
	return nil
}

func (s *MongoStore) GetJobByID(ctx context.Context, id string) (*domain.Job, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	var doc model.JobDocument
	err = s.jobs.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	job := doc.ToDomain()
	return &job, nil
}

// jobPatchUpdate turns a patch into a $set document using dotted paths, so a
// partial company patch does not replace the whole sub-document.
func jobPatchUpdate(patch domain.JobPatch, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Type != nil {
		set["type"] = *patch.Type
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if c := patch.Company; c != nil {
		if c.Name != nil {
			set["company.name"] = *c.Name
		}
		if c.ContactEmail != nil {
			set["company.contactEmail"] = *c.ContactEmail
		}
		if c.ContactPhone != nil {
			set["company.contactPhone"] = *c.ContactPhone
		}
	}
	return bson.M{"$set": set}
}

func (s *MongoStore) UpdateJob(ctx context.Context, id string, patch domain.JobPatch) (*domain.Job, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc model.JobDocument
	err = s.jobs.FindOneAndUpdate(ctx, bson.M{"_id": oid}, jobPatchUpdate(patch, mongoNow()), opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update job: %w", err)
	}

	job := doc.ToDomain()
	return &job, nil
}

func (s *MongoStore) DeleteJob(ctx context.Context, id string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}

	res, err := s.jobs.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrJobNotFound
	}
	return nil
}

func (s *MongoStore) CreateUser(ctx context.Context, user *domain.User) error {
	user.CreatedAt = mongoNow()

	doc := model.NewUserDocument(user)
	doc.ID = primitive.NewObjectID()

	if _, err := s.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	user.ID = doc.ID.Hex()
	return nil
}

func (s *MongoStore) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	return s.findUser(ctx, bson.M{"_id": oid})
}

func (s *MongoStore) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.findUser(ctx, bson.M{"email": email})
}

func (s *MongoStore) findUser(ctx context.Context, filter bson.M) (*domain.User, error) {
	var doc model.UserDocument
	err := s.users.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return doc.ToDomain(), nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Close(ctx)
}
