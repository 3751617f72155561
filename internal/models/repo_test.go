package models

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func newMockRepo(mt *mtest.T) *MongodbRepo {
	return MongodbNewRepo(mt.Client, "estate_test")
}

func TestUserRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("create user", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		user, err := newMockRepo(mt).CreateUser(ctx, &User{Username: "alice", Email: "a@x.com", Password: "hash"})
		require.NoError(mt, err)
		assert.False(mt, user.ID.IsZero())
		assert.False(mt, user.CreatedAt.IsZero())
	})

	mt.Run("duplicate user", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: estate_test.users index: email_1",
		}))

		_, err := newMockRepo(mt).CreateUser(ctx, &User{Username: "alice", Email: "a@x.com"})
		assert.ErrorIs(mt, err, ErrDuplicateKey)
	})

	mt.Run("get user by email", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "estate_test.users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "username", Value: "alice"},
			{Key: "email", Value: "a@x.com"},
			{Key: "password", Value: "hash"},
		}))

		user, err := newMockRepo(mt).GetUserByEmail(ctx, "a@x.com")
		require.NoError(mt, err)
		assert.Equal(mt, id, user.ID)
		assert.Equal(mt, "alice", user.Username)
		assert.Equal(mt, "hash", user.Password)
	})

	mt.Run("user not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "estate_test.users", mtest.FirstBatch))

		_, err := newMockRepo(mt).GetUserByID(ctx, primitive.NewObjectID())
		assert.ErrorIs(mt, err, ErrUserNotFound)
	})

	mt.Run("delete missing user", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		err := newMockRepo(mt).DeleteUser(ctx, primitive.NewObjectID())
		assert.ErrorIs(mt, err, ErrUserNotFound)
	})
}

func TestListingRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	ns := "estate_test.listings"

	listingDoc := func(id, owner primitive.ObjectID, name string, price float64) bson.D {
		return bson.D{
			{Key: "_id", Value: id},
			{Key: "name", Value: name},
			{Key: "type", Value: "rent"},
			{Key: "parking", Value: true},
			{Key: "regularPrice", Value: price},
			{Key: "imageUrls", Value: bson.A{"https://img.example.com/1.jpg"}},
			{Key: "userRef", Value: owner},
			{Key: "createdAt", Value: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		}
	}

	mt.Run("get listing", func(mt *mtest.T) {
		id, owner := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, listingDoc(id, owner, "Loft", 2500)))

		listing, err := newMockRepo(mt).GetListingByID(ctx, id)
		require.NoError(mt, err)
		assert.Equal(mt, "Loft", listing.Name)
		assert.Equal(mt, owner, listing.UserRef)
		assert.Equal(mt, []string{"https://img.example.com/1.jpg"}, listing.ImageUrls)
	})

	mt.Run("listing not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := newMockRepo(mt).GetListingByID(ctx, primitive.NewObjectID())
		assert.ErrorIs(mt, err, ErrListingNotFound)
	})

	mt.Run("delete scoped to owner", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		err := newMockRepo(mt).DeleteListing(ctx, primitive.NewObjectID(), primitive.NewObjectID())
		assert.ErrorIs(mt, err, ErrListingNotFound)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "delete", started.CommandName)
	})

	mt.Run("delete by owner", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 3}))

		n, err := newMockRepo(mt).DeleteListingsByOwner(ctx, primitive.NewObjectID())
		require.NoError(mt, err)
		assert.EqualValues(mt, 3, n)
	})

	mt.Run("search returns page and total", func(mt *mtest.T) {
		owner := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "n", Value: int64(5)}}),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
				listingDoc(primitive.NewObjectID(), owner, "A", 1000),
				listingDoc(primitive.NewObjectID(), owner, "B", 2000),
			),
		)

		q := ListingQuery{Type: "rent", Parking: true, Limit: 2, Offset: 2}
		require.NoError(mt, q.Normalize())

		listings, total, err := newMockRepo(mt).SearchListings(ctx, q)
		require.NoError(mt, err)
		assert.EqualValues(mt, 5, total)
		require.Len(mt, listings, 2)
		assert.Equal(mt, "A", listings[0].Name)
		assert.Equal(mt, "B", listings[1].Name)
	})
}
