package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/worklog/pkg/worklog"
)

type noteDocument struct {
	ID          string    `bson:"_id"`
	UserID      string    `bson:"userId"`
	UserEmail   string    `bson:"userEmail"`
	Title       string    `bson:"title"`
	Description string    `bson:"description"`
	ProjectName string    `bson:"projectName"`
	Date        time.Time `bson:"date"`
	HoursWorked float64   `bson:"hoursWorked"`
	CreatedAt   time.Time `bson:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt"`
}

func toNoteDocument(note *worklog.Note) noteDocument {
	return noteDocument{
		ID:          note.ID.String(),
		UserID:      note.UserID.String(),
		UserEmail:   note.UserEmail,
		Title:       note.Title,
		Description: note.Description,
		ProjectName: note.ProjectName,
		Date:        note.Date,
		HoursWorked: note.HoursWorked,
		CreatedAt:   note.CreatedAt,
		UpdatedAt:   note.UpdatedAt,
	}
}

func (d noteDocument) toNote() (worklog.Note, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return worklog.Note{}, fmt.Errorf("parse note id: %w", err)
	}
	userID, err := uuid.Parse(d.UserID)
	if err != nil {
		return worklog.Note{}, fmt.Errorf("parse note user id: %w", err)
	}
	return worklog.Note{
		ID:          id,
		UserID:      userID,
		UserEmail:   d.UserEmail,
		Title:       d.Title,
		Description: d.Description,
		ProjectName: d.ProjectName,
		Date:        d.Date,
		HoursWorked: d.HoursWorked,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}, nil
}

// NoteStore persists work notes. Aggregations run server-side; listings
// come back newest first off the (userId, date) index.
type NoteStore struct {
	collection *mongo.Collection
}

// NewNoteStore creates the work note storage adapter.
func NewNoteStore(db *mongo.Database) *NoteStore {
	return &NoteStore{collection: db.Collection(notesCollection)}
}

func (s *NoteStore) CreateNote(ctx context.Context, note *worklog.Note) error {
	if _, err := s.collection.InsertOne(ctx, toNoteDocument(note)); err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	return nil
}

func (s *NoteStore) GetNote(ctx context.Context, id uuid.UUID) (*worklog.Note, error) {
	var doc noteDocument
	if err := s.collection.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, worklog.ErrNoteNotFound
		}
		return nil, fmt.Errorf("find note: %w", err)
	}
	note, err := doc.toNote()
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (s *NoteStore) ListNotes(ctx context.Context, userID uuid.UUID, filter worklog.Filter) ([]worklog.Note, error) {
	query := bson.M{"userId": userID.String()}
	if filter.ProjectName != "" {
		query["projectName"] = filter.ProjectName
	}
	if filter.HasDateRange() {
		query["date"] = bson.M{"$gte": filter.From, "$lte": filter.To}
	}

	cursor, err := s.collection.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find notes: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []noteDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode notes: %w", err)
	}

	notes := make([]worklog.Note, 0, len(docs))
	for _, doc := range docs {
		note, err := doc.toNote()
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, nil
}

func (s *NoteStore) UpdateNote(ctx context.Context, note *worklog.Note) error {
	result, err := s.collection.UpdateOne(ctx,
		bson.M{"_id": note.ID.String()},
		bson.M{"$set": bson.M{
			"title":       note.Title,
			"description": note.Description,
			"projectName": note.ProjectName,
			"date":        note.Date,
			"hoursWorked": note.HoursWorked,
			"updatedAt":   note.UpdatedAt,
		}},
	)
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	if result.MatchedCount == 0 {
		return worklog.ErrNoteNotFound
	}
	return nil
}

func (s *NoteStore) DeleteNote(ctx context.Context, id uuid.UUID) error {
	if _, err := s.collection.DeleteOne(ctx, bson.M{"_id": id.String()}); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}

func (s *NoteStore) PeriodTotals(ctx context.Context, userID uuid.UUID, from, to time.Time) (worklog.PeriodTotals, error) {
	cursor, err := s.collection.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"userId": userID.String(),
			"date":   bson.M{"$gte": from, "$lte": to},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"tasks": bson.M{"$sum": 1},
			"hours": bson.M{"$sum": "$hoursWorked"},
		}}},
	})
	if err != nil {
		return worklog.PeriodTotals{}, fmt.Errorf("aggregate period totals: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		Tasks int64   `bson:"tasks"`
		Hours float64 `bson:"hours"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return worklog.PeriodTotals{}, fmt.Errorf("decode period totals: %w", err)
	}
	if len(results) == 0 {
		return worklog.PeriodTotals{}, nil
	}
	return worklog.PeriodTotals{Tasks: results[0].Tasks, Hours: results[0].Hours}, nil
}

func (s *NoteStore) ProjectBreakdown(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]worklog.ProjectStat, error) {
	cursor, err := s.collection.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"userId": userID.String(),
			"date":   bson.M{"$gte": from, "$lte": to},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$projectName",
			"count": bson.M{"$sum": 1},
			"hours": bson.M{"$sum": "$hoursWorked"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("aggregate project breakdown: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		ProjectName string  `bson:"_id"`
		Count       int64   `bson:"count"`
		Hours       float64 `bson:"hours"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("decode project breakdown: %w", err)
	}

	stats := make([]worklog.ProjectStat, 0, len(results))
	for _, r := range results {
		stats = append(stats, worklog.ProjectStat{
			ProjectName: r.ProjectName,
			Count:       r.Count,
			Hours:       r.Hours,
		})
	}
	return stats, nil
}

func (s *NoteStore) DistinctProjects(ctx context.Context, userID uuid.UUID) ([]string, error) {
	var projects []string
	err := s.collection.Distinct(ctx, "projectName", bson.M{"userId": userID.String()}).Decode(&projects)
	if err != nil {
		return nil, fmt.Errorf("distinct projects: %w", err)
	}
	return projects, nil
}

var _ worklog.Storage = (*NoteStore)(nil)
