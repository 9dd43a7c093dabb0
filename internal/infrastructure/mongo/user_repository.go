package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/oksasatya/bookshelf-api/internal/domain/entity"
	"github.com/oksasatya/bookshelf-api/internal/domain/repository"
)

type userDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Name          string             `bson:"name"`
	Email         string             `bson:"email"`
	Password      string             `bson:"password"`
	YearOfBirth   int                `bson:"yearOfBirth"`
	FavoriteBooks []string           `bson:"favoriteBooks"`
	ReadBooks     []string           `bson:"readBooks"`
	Goal          float64            `bson:"goal"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

func (d *userDoc) toEntity() *entity.User {
	u := &entity.User{
		ID:            d.ID.Hex(),
		Name:          d.Name,
		Email:         d.Email,
		Password:      d.Password,
		YearOfBirth:   d.YearOfBirth,
		FavoriteBooks: d.FavoriteBooks,
		ReadBooks:     d.ReadBooks,
		Goal:          d.Goal,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
	if u.FavoriteBooks == nil {
		u.FavoriteBooks = []string{}
	}
	if u.ReadBooks == nil {
		u.ReadBooks = []string{}
	}
	return u
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, repository.ErrInvalidID
	}
	return oid, nil
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return repository.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return repository.ErrDuplicateEmail
	}
	return err
}

type UserRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		coll: db.Collection(usersCollection),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	now := r.now()
	doc := userDoc{
		ID:            primitive.NewObjectID(),
		Name:          u.Name,
		Email:         u.Email,
		Password:      u.Password,
		YearOfBirth:   u.YearOfBirth,
		FavoriteBooks: []string{},
		ReadBooks:     []string{},
		Goal:          u.Goal,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return translate(err)
	}
	u.ID = doc.ID.Hex()
	u.FavoriteBooks, u.ReadBooks = doc.FavoriteBooks, doc.ReadBooks
	u.CreatedAt, u.UpdatedAt = now, now
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*entity.User, error) {
	var doc userDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return doc.toEntity(), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	oid, err := objectID(u.ID)
	if err != nil {
		return err
	}
	u.UpdatedAt = r.now()
	res, err := r.coll.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"name":      u.Name,
		"email":     u.Email,
		"goal":      u.Goal,
		"updatedAt": u.UpdatedAt,
	}})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// AddBook only matches while the array lacks bookID, so MatchedCount tells
// whether the element was added.
func (r *UserRepository) AddBook(ctx context.Context, userID string, kind entity.ListKind, bookID string) (bool, error) {
	return r.mutateList(ctx, userID, bson.M{kind.Field(): bson.M{"$ne": bookID}}, "$addToSet", kind, bookID)
}

func (r *UserRepository) RemoveBook(ctx context.Context, userID string, kind entity.ListKind, bookID string) (bool, error) {
	return r.mutateList(ctx, userID, bson.M{kind.Field(): bookID}, "$pull", kind, bookID)
}

func (r *UserRepository) mutateList(ctx context.Context, userID string, match bson.M, op string, kind entity.ListKind, bookID string) (bool, error) {
	oid, err := objectID(userID)
	if err != nil {
		return false, err
	}
	match["_id"] = oid
	res, err := r.coll.UpdateOne(ctx, match, bson.M{
		op:     bson.M{kind.Field(): bookID},
		"$set": bson.M{"updatedAt": r.now()},
	})
	if err != nil {
		return false, translate(err)
	}
	if res.MatchedCount > 0 {
		return true, nil
	}
	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, translate(err)
	}
	if n == 0 {
		return false, repository.ErrNotFound
	}
	return false, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
