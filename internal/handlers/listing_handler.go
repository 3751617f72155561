package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/estate/internal/apperrors"
	"github.com/joshua-takyi/estate/internal/models"
	"github.com/joshua-takyi/estate/internal/services"
)

func CreateListing(ls *services.ListingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, err := requester(c)
		if err != nil {
			_ = c.Error(err)
			return
		}

		var draft models.ListingDraft
		if err := bindJSON(c, &draft); err != nil {
			_ = c.Error(err)
			return
		}

		listing, err := ls.Create(c.Request.Context(), ownerID, &draft)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(http.StatusCreated, listing, "Listing created successfully"))
	}
}

func GetListing(ls *services.ListingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := services.ParseID("listing", c.Param("id"))
		if err != nil {
			_ = c.Error(err)
			return
		}

		listing, err := ls.Get(c.Request.Context(), id)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(http.StatusOK, listing, ""))
	}
}

func UpdateListing(ls *services.ListingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		requesterID, err := requester(c)
		if err != nil {
			_ = c.Error(err)
			return
		}
		id, err := services.ParseID("listing", c.Param("id"))
		if err != nil {
			_ = c.Error(err)
			return
		}

		var patch models.ListingPatch
		if err := bindJSON(c, &patch); err != nil {
			_ = c.Error(err)
			return
		}

		listing, err := ls.Update(c.Request.Context(), requesterID, id, &patch)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(http.StatusOK, listing, "Listing updated successfully"))
	}
}

func DeleteListing(ls *services.ListingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		requesterID, err := requester(c)
		if err != nil {
			_ = c.Error(err)
			return
		}
		id, err := services.ParseID("listing", c.Param("id"))
		if err != nil {
			_ = c.Error(err)
			return
		}

		if err := ls.Delete(c.Request.Context(), requesterID, id); err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(http.StatusOK, nil, "Listing has been deleted!"))
	}
}

// SearchListings serves the listing search page. startIndex is accepted as
// an alias of offset.
func SearchListings(ls *services.ListingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		query, err := parseListingQuery(c)
		if err != nil {
			_ = c.Error(err)
			return
		}

		res, err := ls.Search(c.Request.Context(), query)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, models.PaginatedResponse(http.StatusOK, res.Listings, res.Total, res.Limit, res.Offset))
	}
}

func parseListingQuery(c *gin.Context) (models.ListingQuery, error) {
	q := models.ListingQuery{
		SearchTerm: c.Query("searchTerm"),
		Type:       c.Query("type"),
		Sort:       c.Query("sort"),
		Order:      c.Query("order"),
	}

	var err error
	if q.Parking, err = queryBool(c, "parking"); err != nil {
		return q, err
	}
	if q.Furnished, err = queryBool(c, "furnished"); err != nil {
		return q, err
	}
	if q.Offer, err = queryBool(c, "offer"); err != nil {
		return q, err
	}
	if q.MinPrice, err = queryFloat(c, "minPrice"); err != nil {
		return q, err
	}
	if q.MaxPrice, err = queryFloat(c, "maxPrice"); err != nil {
		return q, err
	}
	if q.Limit, err = queryInt(c, "limit"); err != nil {
		return q, err
	}

	offsetKey := "offset"
	if _, ok := c.GetQuery(offsetKey); !ok {
		offsetKey = "startIndex"
	}
	if q.Offset, err = queryInt(c, offsetKey); err != nil {
		return q, err
	}
	return q, nil
}

func queryBool(c *gin.Context, key string) (bool, error) {
	v := c.Query(key)
	if v == "" || v == "undefined" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, apperrors.InvalidInput(key+" must be true or false", err)
	}
	return b, nil
}

func queryFloat(c *gin.Context, key string) (*float64, error) {
	v := c.Query(key)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, apperrors.InvalidInput(key+" must be a number", err)
	}
	return &f, nil
}

func queryInt(c *gin.Context, key string) (int, error) {
	v := c.Query(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, apperrors.InvalidInput(key+" must be an integer", err)
	}
	return n, nil
}

func ContactLandlord(ls *services.ListingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := services.ParseID("listing", c.Param("id"))
		if err != nil {
			_ = c.Error(err)
			return
		}

		link, err := ls.Contact(c.Request.Context(), id, c.Query("message"))
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(http.StatusOK, link, ""))
	}
}
