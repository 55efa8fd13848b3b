package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/admitpath/admissions-api/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EssaysCollection is the document-store collection holding essays.
const EssaysCollection = "essays"

// EssayUpdate is a partial update; nil fields are left untouched.
type EssayUpdate struct {
	Title     *string
	Content   *string
	Type      *domain.EssayType
	Status    *domain.EssayStatus
	CollegeID *int64
	Prompt    *string
	WordLimit *int
}

type EssayRepository interface {
	Create(ctx context.Context, e *domain.Essay) error
	GetByID(ctx context.Context, id string) (*domain.Essay, error)
	ListByStudent(ctx context.Context, studentID int64, limit int) ([]domain.Essay, error)
	Update(ctx context.Context, id string, fields EssayUpdate) (*domain.Essay, error)
	Delete(ctx context.Context, id string) error
}

type essayDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	StudentID int64              `bson:"student_id"`
	Title     string             `bson:"title"`
	Content   string             `bson:"content"`
	Type      string             `bson:"essay_type"`
	Status    string             `bson:"status"`
	CollegeID *int64             `bson:"college_id,omitempty"`
	Prompt    *string            `bson:"prompt,omitempty"`
	WordLimit *int               `bson:"word_limit,omitempty"`
	WordCount int                `bson:"word_count"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

type MongoEssayRepo struct {
	collection *mongo.Collection
}

func NewMongoEssayRepo(db *mongo.Database) *MongoEssayRepo {
	return &MongoEssayRepo{collection: db.Collection(EssaysCollection)}
}

func (r *MongoEssayRepo) Create(ctx context.Context, e *domain.Essay) error {
	now := time.Now().UTC()
	doc := essayDocument{
		StudentID: e.StudentID,
		Title:     e.Title,
		Content:   e.Content,
		Type:      e.Type.String(),
		Status:    e.Status.String(),
		CollegeID: e.CollegeID,
		Prompt:    e.Prompt,
		WordLimit: e.WordLimit,
		WordCount: e.WordCount,
		CreatedAt: now,
		UpdatedAt: now,
	}

	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to insert essay: %w", err)
	}

	objectID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("unexpected inserted id type %T", result.InsertedID)
	}

	e.ID = objectID.Hex()
	e.CreatedAt = now
	e.UpdatedAt = now
	return nil
}

func (r *MongoEssayRepo) GetByID(ctx context.Context, id string) (*domain.Essay, error) {
	objectID, err := parseEssayID(id)
	if err != nil {
		return nil, err
	}

	var doc essayDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load essay: %w", err)
	}

	return essayDocumentToDomain(&doc)
}

func (r *MongoEssayRepo) ListByStudent(ctx context.Context, studentID int64, limit int) ([]domain.Essay, error) {
	if limit < 1 {
		limit = DefaultListLimit
	}
	limit = min(limit, MaxListLimit)

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{"student_id": studentID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list essays: %w", err)
	}
	defer cursor.Close(ctx)

	essays := make([]domain.Essay, 0)
	for cursor.Next(ctx) {
		var doc essayDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode essay: %w", err)
		}
		essay, err := essayDocumentToDomain(&doc)
		if err != nil {
			return nil, err
		}
		essays = append(essays, *essay)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("essay cursor failed: %w", err)
	}

	return essays, nil
}

func (r *MongoEssayRepo) Update(ctx context.Context, id string, fields EssayUpdate) (*domain.Essay, error) {
	objectID, err := parseEssayID(id)
	if err != nil {
		return nil, err
	}

	updates := bson.M{}
	if fields.Title != nil {
		updates["title"] = *fields.Title
	}
	if fields.Content != nil {
		updates["content"] = *fields.Content
		updates["word_count"] = len(strings.Fields(*fields.Content))
	}
	if fields.Type != nil {
		updates["essay_type"] = fields.Type.String()
	}
	if fields.Status != nil {
		updates["status"] = fields.Status.String()
	}
	if fields.CollegeID != nil {
		updates["college_id"] = *fields.CollegeID
	}
	if fields.Prompt != nil {
		updates["prompt"] = *fields.Prompt
	}
	if fields.WordLimit != nil {
		updates["word_limit"] = *fields.WordLimit
	}

	if len(updates) == 0 {
		return r.GetByID(ctx, id)
	}
	updates["updated_at"] = time.Now().UTC()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": updates})
	if err != nil {
		return nil, fmt.Errorf("failed to update essay: %w", err)
	}
	if result.MatchedCount == 0 {
		return nil, domain.ErrNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *MongoEssayRepo) Delete(ctx context.Context, id string) error {
	objectID, err := parseEssayID(id)
	if err != nil {
		return err
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete essay: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func parseEssayID(id string) (primitive.ObjectID, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: invalid essay id %q", domain.ErrValidation, id)
	}
	return objectID, nil
}

func essayDocumentToDomain(doc *essayDocument) (*domain.Essay, error) {
	essayType, err := domain.ParseEssayTypeFromString(doc.Type)
	if err != nil {
		return nil, fmt.Errorf("essay %s: %w", doc.ID.Hex(), err)
	}
	status, err := domain.ParseEssayStatusFromString(doc.Status)
	if err != nil {
		return nil, fmt.Errorf("essay %s: %w", doc.ID.Hex(), err)
	}

	return &domain.Essay{
		ID:        doc.ID.Hex(),
		StudentID: doc.StudentID,
		Title:     doc.Title,
		Content:   doc.Content,
		Type:      essayType,
		Status:    status,
		CollegeID: doc.CollegeID,
		Prompt:    doc.Prompt,
		WordLimit: doc.WordLimit,
		WordCount: doc.WordCount,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}, nil
}
