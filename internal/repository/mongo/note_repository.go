package mongo

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"note-service-be/internal/entity"
	"note-service-be/internal/repository/contract"
	"note-service-be/pkg/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionName = "notes"

type noteDocument struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Title         string             `bson:"title"`
	Content       string             `bson:"content"`
	Tags          []string           `bson:"tags"`
	SchemaVersion int                `bson:"schemaVersion"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

func (d *noteDocument) toEntity() *entity.Note {
	return &entity.Note{
		Id:            d.ID.Hex(),
		Title:         d.Title,
		Content:       d.Content,
		Tags:          d.Tags,
		SchemaVersion: d.SchemaVersion,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

func fromEntity(n *entity.Note) *noteDocument {
	return &noteDocument{
		Title:         n.Title,
		Content:       n.Content,
		Tags:          n.Tags,
		SchemaVersion: n.SchemaVersion,
		CreatedAt:     n.CreatedAt,
		UpdatedAt:     n.UpdatedAt,
	}
}

// stateTracker follows the driver's heartbeats so State never blocks on the network.
// A failed heartbeat means the server is lost (disconnected) until one succeeds again.
type stateTracker struct {
	state  atomic.Int32
	closed atomic.Bool
}

func (t *stateTracker) set(s contract.ConnectionState) {
	t.state.Store(int32(s))
}

func (t *stateTracker) get() contract.ConnectionState {
	return contract.ConnectionState(t.state.Load())
}

// close pins the state so late heartbeats cannot move it after shutdown starts.
func (t *stateTracker) close() {
	t.closed.Store(true)
	t.set(contract.StateDisconnecting)
}

// move switches to to when the current state is one of from and the client is open.
func (t *stateTracker) move(to contract.ConnectionState, from ...contract.ConnectionState) {
	if t.closed.Load() {
		return
	}
	for _, f := range from {
		if t.state.CompareAndSwap(int32(f), int32(to)) {
			return
		}
	}
}

func (t *stateTracker) monitor() *event.ServerMonitor {
	return &event.ServerMonitor{
		ServerHeartbeatSucceeded: func(*event.ServerHeartbeatSucceededEvent) {
			t.move(contract.StateConnected, contract.StateConnecting, contract.StateDisconnected)
		},
		ServerHeartbeatFailed: func(*event.ServerHeartbeatFailedEvent) {
			t.move(contract.StateDisconnected, contract.StateConnected, contract.StateConnecting)
		},
	}
}

type NoteRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
	tracker    *stateTracker
}

// Connect dials the server and returns a repository over <dbName>.notes.
func Connect(ctx context.Context, uri, dbName string) (*NoteRepository, error) {
	tracker := &stateTracker{}
	tracker.set(contract.StateConnecting)

	client, err := database.NewMongoClient(ctx, uri, tracker.monitor())
	if err != nil {
		tracker.set(contract.StateDisconnected)
		return nil, err
	}
	tracker.set(contract.StateConnected)

	return &NoteRepository{
		client:     client,
		collection: client.Database(dbName).Collection(collectionName),
		tracker:    tracker,
	}, nil
}

func (r *NoteRepository) Driver() string {
	return "mongo"
}

func (r *NoteRepository) State() contract.ConnectionState {
	return r.tracker.get()
}

func (r *NoteRepository) Find(ctx context.Context) ([]*entity.Note, error) {
	cursor, err := r.collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}

	var docs []*noteDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	notes := make([]*entity.Note, len(docs))
	for i, d := range docs {
		notes[i] = d.toEntity()
	}
	return notes, nil
}

func (r *NoteRepository) FindById(ctx context.Context, id string) (*entity.Note, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid note id %q: %w", id, err)
	}

	var doc noteDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return doc.toEntity(), nil
}

func (r *NoteRepository) Create(ctx context.Context, note *entity.Note) error {
	doc := fromEntity(note)
	doc.ID = primitive.NewObjectID()

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return err
	}
	note.Id = doc.ID.Hex()
	return nil
}

func (r *NoteRepository) FindByIdAndUpdate(ctx context.Context, id string, patch entity.NotePatch) (*entity.Note, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid note id %q: %w", id, err)
	}

	set := bson.M{"updatedAt": patch.UpdatedAt}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Content != nil {
		set["content"] = *patch.Content
	}
	if patch.Tags != nil {
		set["tags"] = *patch.Tags
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc noteDocument
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return doc.toEntity(), nil
}

func (r *NoteRepository) FindByIdAndDelete(ctx context.Context, id string) (*entity.Note, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid note id %q: %w", id, err)
	}

	var doc noteDocument
	if err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return doc.toEntity(), nil
}

func (r *NoteRepository) Close(ctx context.Context) error {
	r.tracker.close()
	err := r.client.Disconnect(ctx)
	r.tracker.set(contract.StateDisconnected)
	return err
}
