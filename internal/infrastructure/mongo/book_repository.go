package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oksasatya/bookshelf-api/internal/domain/entity"
	"github.com/oksasatya/bookshelf-api/internal/domain/repository"
)

type bookDoc struct {
	ID         string            `bson:"_id"`
	Kind       string            `bson:"kind"`
	ETag       string            `bson:"etag,omitempty"`
	VolumeInfo entity.VolumeInfo `bson:"volumeInfo"`
	Owner      string            `bson:"owner"`
	CreatedAt  time.Time         `bson:"createdAt"`
	UpdatedAt  time.Time         `bson:"updatedAt"`
}

func (d *bookDoc) toEntity() *entity.Book {
	return &entity.Book{
		ID:         d.ID,
		Kind:       d.Kind,
		ETag:       d.ETag,
		VolumeInfo: d.VolumeInfo,
		Owner:      d.Owner,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

type BookRepository struct {
	books *mongo.Collection
	users *mongo.Collection
	now   func() time.Time
}

func NewBookRepository(db *mongo.Database) *BookRepository {
	return &BookRepository{
		books: db.Collection(booksCollection),
		users: db.Collection(usersCollection),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (r *BookRepository) GetByID(ctx context.Context, id string) (*entity.Book, error) {
	var doc bookDoc
	if err := r.books.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return doc.toEntity(), nil
}

func (r *BookRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.Book, error) {
	if len(ids) == 0 {
		return []entity.Book{}, nil
	}
	cur, err := r.books.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, translate(err)
	}
	var docs []bookDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	byID := make(map[string]*bookDoc, len(docs))
	for i := range docs {
		byID[docs[i].ID] = &docs[i]
	}
	out := make([]entity.Book, 0, len(docs))
	for _, id := range ids {
		if d, ok := byID[id]; ok {
			out = append(out, *d.toEntity())
		}
	}
	return out, nil
}

// CreateIfAbsent upserts with $setOnInsert so the first writer wins and later
// callers get the stored document back unchanged.
func (r *BookRepository) CreateIfAbsent(ctx context.Context, b *entity.Book) (*entity.Book, bool, error) {
	now := r.now()
	res, err := r.books.UpdateOne(ctx, bson.M{"_id": b.ID}, bson.M{
		"$setOnInsert": bookDoc{
			ID:         b.ID,
			Kind:       b.Kind,
			ETag:       b.ETag,
			VolumeInfo: b.VolumeInfo,
			Owner:      b.Owner,
			CreatedAt:  now,
			UpdatedAt:  now,
		},
	}, options.Update().SetUpsert(true))
	created := false
	switch {
	case err == nil:
		created = res.UpsertedCount > 0
	case mongo.IsDuplicateKeyError(err):
		// two concurrent upserts on one _id; the loser reads the winner's document
	default:
		return nil, false, translate(err)
	}
	stored, err := r.GetByID(ctx, b.ID)
	if err != nil {
		return nil, false, err
	}
	return stored, created, nil
}

// countReferences sums favorite and read entries pointing at id across users.
func (r *BookRepository) countReferences(ctx context.Context, id string) (int64, error) {
	fav, err := r.users.CountDocuments(ctx, bson.M{"favoriteBooks": id})
	if err != nil {
		return 0, translate(err)
	}
	read, err := r.users.CountDocuments(ctx, bson.M{"readBooks": id})
	if err != nil {
		return 0, translate(err)
	}
	return fav + read, nil
}

// DeleteIfOrphaned is not atomic: an add landing between the count and the
// delete leaves a dangling reference.
func (r *BookRepository) DeleteIfOrphaned(ctx context.Context, id string) (bool, error) {
	n, err := r.countReferences(ctx, id)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	res, err := r.books.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, translate(err)
	}
	return res.DeletedCount > 0, nil
}

var _ repository.BookRepository = (*BookRepository)(nil)
