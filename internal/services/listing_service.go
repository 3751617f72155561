package services

import (
	"context"
	"errors"
	"iter"
	"time"

	"github.com/joshua-takyi/estate/internal/apperrors"
	"github.com/joshua-takyi/estate/internal/cache"
	"github.com/joshua-takyi/estate/internal/helpers"
	"github.com/joshua-takyi/estate/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const maxContactMessage = 2000

type ListingService struct {
	listingRepo models.ListingRepo
	userRepo    models.UserRepo
	cache       cache.ListingCache
	now         func() time.Time
}

func NewListingService(listingRepo models.ListingRepo, userRepo models.UserRepo, listingCache cache.ListingCache) *ListingService {
	if listingCache == nil {
		listingCache = cache.Noop{}
	}
	return &ListingService{
		listingRepo: listingRepo,
		userRepo:    userRepo,
		cache:       listingCache,
		now:         time.Now,
	}
}

// SearchResult is one page of a listing search.
type SearchResult struct {
	Listings []*models.Listing
	Total    int64
	Limit    int
	Offset   int
}

// ContactLink lets a visitor reach the landlord of a listing by email.
type ContactLink struct {
	ListingID   string `json:"listingId"`
	ListingName string `json:"listingName"`
	Landlord    string `json:"landlord"`
	Email       string `json:"email"`
	Mailto      string `json:"mailto"`
}

// timestamps are stored with millisecond precision
func (ls *ListingService) timestamp() time.Time {
	return ls.now().UTC().Truncate(time.Millisecond)
}

func (ls *ListingService) Create(ctx context.Context, ownerID primitive.ObjectID, draft *models.ListingDraft) (*models.Listing, error) {
	if ownerID.IsZero() {
		return nil, apperrors.Unauthenticated("authentication required", nil)
	}
	// sessions outlive deleted accounts
	if _, err := ls.userRepo.GetUserByID(ctx, ownerID); err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, apperrors.Unauthenticated("account no longer exists", err)
		}
		return nil, storeError("user", err)
	}

	listing := draft.ToListing(ownerID, ls.timestamp())
	if err := listing.Validate(); err != nil {
		return nil, invalidInput(err)
	}

	created, err := ls.listingRepo.CreateListing(ctx, listing)
	if err != nil {
		return nil, storeError("listing", err)
	}
	return created, nil
}

func (ls *ListingService) Get(ctx context.Context, id primitive.ObjectID) (*models.Listing, error) {
	if cached, ok := ls.cache.Get(ctx, id.Hex()); ok {
		return cached, nil
	}

	listing, err := ls.listingRepo.GetListingByID(ctx, id)
	if err != nil {
		return nil, storeError("listing", err)
	}
	ls.cache.Set(ctx, listing)
	return listing, nil
}

// owned loads a listing straight from the store and checks that requester
// owns it.
func (ls *ListingService) owned(ctx context.Context, requesterID, id primitive.ObjectID, action string) (*models.Listing, error) {
	listing, err := ls.listingRepo.GetListingByID(ctx, id)
	if err != nil {
		return nil, storeError("listing", err)
	}
	if listing.UserRef != requesterID {
		return nil, apperrors.Forbidden("you can only " + action + " your own listings")
	}
	return listing, nil
}

func (ls *ListingService) Update(ctx context.Context, requesterID, id primitive.ObjectID, patch *models.ListingPatch) (*models.Listing, error) {
	existing, err := ls.owned(ctx, requesterID, id, "update")
	if err != nil {
		return nil, err
	}

	merged := patch.ApplyTo(existing, ls.timestamp())
	if err := merged.Validate(); err != nil {
		return nil, invalidInput(err)
	}

	updated, err := ls.listingRepo.ReplaceListing(ctx, merged)
	if err != nil {
		return nil, storeError("listing", err)
	}
	ls.cache.Invalidate(ctx, id.Hex())
	return updated, nil
}

func (ls *ListingService) Delete(ctx context.Context, requesterID, id primitive.ObjectID) error {
	if _, err := ls.owned(ctx, requesterID, id, "delete"); err != nil {
		return err
	}
	if err := ls.listingRepo.DeleteListing(ctx, id, requesterID); err != nil {
		return storeError("listing", err)
	}
	ls.cache.Invalidate(ctx, id.Hex())
	return nil
}

func (ls *ListingService) Search(ctx context.Context, query models.ListingQuery) (*SearchResult, error) {
	if err := query.Normalize(); err != nil {
		return nil, apperrors.InvalidInput(err.Error(), err)
	}

	listings, total, err := ls.listingRepo.SearchListings(ctx, query)
	if err != nil {
		return nil, storeError("listing", err)
	}
	return &SearchResult{
		Listings: listings,
		Total:    total,
		Limit:    query.Limit,
		Offset:   query.Offset,
	}, nil
}

// Iterate walks every match of query page by page, starting at its offset.
// Each range over the sequence re-runs the search from the beginning.
func (ls *ListingService) Iterate(ctx context.Context, query models.ListingQuery) iter.Seq2[*models.Listing, error] {
	return func(yield func(*models.Listing, error) bool) {
		page := query
		if err := page.Normalize(); err != nil {
			yield(nil, apperrors.InvalidInput(err.Error(), err))
			return
		}

		for {
			listings, total, err := ls.listingRepo.SearchListings(ctx, page)
			if err != nil {
				yield(nil, storeError("listing", err))
				return
			}
			for _, l := range listings {
				if !yield(l, nil) {
					return
				}
			}

			page.Offset += len(listings)
			if len(listings) < page.Limit || int64(page.Offset) >= total {
				return
			}
		}
	}
}

// ListByOwner returns all listings of ownerID. Only the owner may see the
// full list.
func (ls *ListingService) ListByOwner(ctx context.Context, requesterID, ownerID primitive.ObjectID) ([]*models.Listing, error) {
	if requesterID != ownerID {
		return nil, apperrors.Forbidden("you can only view your own listings")
	}

	query := models.ListingQuery{UserRef: &ownerID, Limit: models.MaxSearchLimit}
	listings := []*models.Listing{}
	for l, err := range ls.Iterate(ctx, query) {
		if err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	return listings, nil
}

// DeleteAllByOwner removes every listing of ownerID and drops them from the
// cache.
func (ls *ListingService) DeleteAllByOwner(ctx context.Context, ownerID primitive.ObjectID) (int64, error) {
	var ids []string
	query := models.ListingQuery{UserRef: &ownerID, Limit: models.MaxSearchLimit}
	for l, err := range ls.Iterate(ctx, query) {
		if err != nil {
			return 0, err
		}
		ids = append(ids, l.ID.Hex())
	}

	n, err := ls.listingRepo.DeleteListingsByOwner(ctx, ownerID)
	if err != nil {
		return 0, storeError("listing", err)
	}
	ls.cache.Invalidate(ctx, ids...)
	return n, nil
}

func (ls *ListingService) Contact(ctx context.Context, listingID primitive.ObjectID, message string) (*ContactLink, error) {
	message = helpers.StringTrim(message)
	if len(message) > maxContactMessage {
		return nil, apperrors.InvalidInput("message is too long", nil)
	}

	listing, err := ls.Get(ctx, listingID)
	if err != nil {
		return nil, err
	}

	landlord, err := ls.userRepo.GetUserByID(ctx, listing.UserRef)
	if err != nil {
		return nil, storeError("landlord", err)
	}

	return &ContactLink{
		ListingID:   listing.ID.Hex(),
		ListingName: listing.Name,
		Landlord:    landlord.Username,
		Email:       landlord.Email,
		Mailto:      helpers.MailtoLink(landlord.Email, listing.Name, message),
	}, nil
}
