package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bloghub/blog-api/internal/core/domain"
)

const blogCollection = "blogs"

type MongoBlogRepository struct {
	coll *mongo.Collection
}

func NewBlogRepository(db *mongo.Database) *MongoBlogRepository {
	return &MongoBlogRepository{coll: db.Collection(blogCollection)}
}

type mongoBlog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Content   string             `bson:"content"`
	AuthorID  string             `bson:"author_id"`
	Published bool               `bson:"published"`
	CreatedAt int64              `bson:"created_at"`
	UpdatedAt int64              `bson:"updated_at"`
}

func (mb *mongoBlog) toDomain() *domain.Blog {
	return &domain.Blog{
		ID:        mb.ID.Hex(),
		Title:     mb.Title,
		Content:   mb.Content,
		AuthorID:  mb.AuthorID,
		Published: mb.Published,
		CreatedAt: unixToTime(mb.CreatedAt),
		UpdatedAt: unixToTime(mb.UpdatedAt),
	}
}

func (r *MongoBlogRepository) Insert(ctx context.Context, blog *domain.Blog) (*domain.Blog, error) {
	doc := mongoBlog{
		Title:     blog.Title,
		Content:   blog.Content,
		AuthorID:  blog.AuthorID,
		Published: blog.Published,
		CreatedAt: blog.CreatedAt.Unix(),
		UpdatedAt: blog.UpdatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert blog: %w", err)
	}

	created := *blog
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *MongoBlogRepository) FindByID(ctx context.Context, id string) (*domain.Blog, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrBlogNotFound
	}

	var mb mongoBlog
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mb); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrBlogNotFound
		}
		return nil, fmt.Errorf("find blog: %w", err)
	}
	return mb.toDomain(), nil
}

func (r *MongoBlogRepository) FindPublished(ctx context.Context) ([]domain.Blog, error) {
	return r.find(ctx, bson.M{"published": true})
}

func (r *MongoBlogRepository) FindByAuthor(ctx context.Context, authorID string) ([]domain.Blog, error) {
	return r.find(ctx, bson.M{"author_id": authorID})
}

// find runs the given filter sorted newest first.
func (r *MongoBlogRepository) find(ctx context.Context, filter bson.M) ([]domain.Blog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find blogs: %w", err)
	}
	defer cur.Close(ctx)

	var blogs []domain.Blog
	for cur.Next(ctx) {
		var mb mongoBlog
		if err := cur.Decode(&mb); err != nil {
			return nil, fmt.Errorf("decode blog: %w", err)
		}
		blogs = append(blogs, *mb.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate blogs: %w", err)
	}
	return blogs, nil
}

func (r *MongoBlogRepository) Update(ctx context.Context, blog *domain.Blog) (*domain.Blog, error) {
	oid, err := primitive.ObjectIDFromHex(blog.ID)
	if err != nil {
		return nil, domain.ErrBlogNotFound
	}

	update := bson.M{"$set": bson.M{
		"title":      blog.Title,
		"content":    blog.Content,
		"published":  blog.Published,
		"updated_at": blog.UpdatedAt.Unix(),
	}}

	res, err := r.coll.UpdateByID(ctx, oid, update)
	if err != nil {
		return nil, fmt.Errorf("update blog: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrBlogNotFound
	}
	return blog, nil
}

func (r *MongoBlogRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrBlogNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete blog: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrBlogNotFound
	}
	return nil
}
