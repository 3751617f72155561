package models

import (
	"context"
	"errors"
	"fmt"

	"github.com/joshua-takyi/estate/internal/helpers"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ListingRepo interface {
	CreateListing(ctx context.Context, listing *Listing) (*Listing, error)
	GetListingByID(ctx context.Context, id primitive.ObjectID) (*Listing, error)
	ReplaceListing(ctx context.Context, listing *Listing) (*Listing, error)
	DeleteListing(ctx context.Context, id, owner primitive.ObjectID) error
	DeleteListingsByOwner(ctx context.Context, owner primitive.ObjectID) (int64, error)
	SearchListings(ctx context.Context, query ListingQuery) ([]*Listing, int64, error)
}

func (mdb *MongodbRepo) CreateListing(ctx context.Context, listing *Listing) (*Listing, error) {
	col, err := mdb.GetCollection(ctx, ListingsCollection)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}

	if listing.ID.IsZero() {
		listing.ID = primitive.NewObjectID()
	}
	if _, err := col.InsertOne(ctx, listing); err != nil {
		return nil, fmt.Errorf("error inserting listing: %w", err)
	}
	return listing, nil
}

func (mdb *MongodbRepo) GetListingByID(ctx context.Context, id primitive.ObjectID) (*Listing, error) {
	col, err := mdb.GetCollection(ctx, ListingsCollection)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}

	var listing Listing
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&listing); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("error finding listing: %w", err)
	}
	return &listing, nil
}

// ReplaceListing overwrites the stored document. The filter includes the
// owner so a listing can never be taken over by a replace.
func (mdb *MongodbRepo) ReplaceListing(ctx context.Context, listing *Listing) (*Listing, error) {
	col, err := mdb.GetCollection(ctx, ListingsCollection)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}

	filter := bson.M{"_id": listing.ID, "userRef": listing.UserRef}
	opts := options.FindOneAndReplace().SetReturnDocument(options.After)

	var updated Listing
	if err := col.FindOneAndReplace(ctx, filter, listing, opts).Decode(&updated); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("error replacing listing: %w", err)
	}
	return &updated, nil
}

func (mdb *MongodbRepo) DeleteListing(ctx context.Context, id, owner primitive.ObjectID) error {
	col, err := mdb.GetCollection(ctx, ListingsCollection)
	if err != nil {
		return fmt.Errorf("error getting collection: %w", err)
	}

	res, err := col.DeleteOne(ctx, bson.M{"_id": id, "userRef": owner})
	if err != nil {
		return fmt.Errorf("error deleting listing: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrListingNotFound
	}
	return nil
}

func (mdb *MongodbRepo) DeleteListingsByOwner(ctx context.Context, owner primitive.ObjectID) (int64, error) {
	col, err := mdb.GetCollection(ctx, ListingsCollection)
	if err != nil {
		return 0, fmt.Errorf("error getting collection: %w", err)
	}

	res, err := col.DeleteMany(ctx, bson.M{"userRef": owner})
	if err != nil {
		return 0, fmt.Errorf("error deleting listings of user %s: %w", owner.Hex(), err)
	}
	return res.DeletedCount, nil
}

// SearchListings returns one page of matches together with the total number
// of matches. query must already be normalized.
func (mdb *MongodbRepo) SearchListings(ctx context.Context, query ListingQuery) ([]*Listing, int64, error) {
	col, err := mdb.GetCollection(ctx, ListingsCollection)
	if err != nil {
		return nil, 0, fmt.Errorf("error getting collection: %w", err)
	}

	filter := BuildListingFilter(query)

	total, err := col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("error counting listings: %w", err)
	}

	opts := options.Find().
		SetSort(BuildListingSort(query)).
		SetSkip(int64(query.Offset)).
		SetLimit(int64(query.Limit))

	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("error finding listings: %w", err)
	}
	defer cursor.Close(ctx)

	listings := make([]*Listing, 0, query.Limit)
	for cursor.Next(ctx) {
		var listing Listing
		if err := cursor.Decode(&listing); err != nil {
			return nil, 0, fmt.Errorf("error decoding listing: %w", err)
		}
		listings = append(listings, &listing)
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, fmt.Errorf("cursor error: %w", err)
	}

	return listings, total, nil
}

func BuildListingFilter(q ListingQuery) bson.M {
	filter := bson.M{}

	if pattern := helpers.SearchPattern(q.SearchTerm); pattern != "" {
		regex := primitive.Regex{Pattern: pattern, Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": regex},
			bson.M{"description": regex},
		}
	}
	if q.Type != "" {
		filter["type"] = q.Type
	}
	if q.Parking {
		filter["parking"] = true
	}
	if q.Furnished {
		filter["furnished"] = true
	}
	if q.Offer {
		filter["offer"] = true
	}

	price := bson.M{}
	if q.MinPrice != nil {
		price["$gte"] = *q.MinPrice
	}
	if q.MaxPrice != nil {
		price["$lte"] = *q.MaxPrice
	}
	if len(price) > 0 {
		filter["regularPrice"] = price
	}

	if q.UserRef != nil {
		filter["userRef"] = *q.UserRef
	}
	return filter
}

// BuildListingSort orders by the requested key and breaks ties by newest
// first, then by id, so consecutive pages never overlap.
func BuildListingSort(q ListingQuery) bson.D {
	dir := -1
	if q.Order == OrderAsc {
		dir = 1
	}

	if q.Sort == SortRegularPrice {
		return bson.D{
			{Key: "regularPrice", Value: dir},
			{Key: "createdAt", Value: -1},
			{Key: "_id", Value: -1},
		}
	}
	return bson.D{
		{Key: "createdAt", Value: dir},
		{Key: "_id", Value: -1},
	}
}
