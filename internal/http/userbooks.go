package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bookfriends/server/internal/entities"
)

// CollectionService is the collection manager as seen by the HTTP layer.
type CollectionService interface {
	AddToCollection(ctx context.Context, userID, isbn string) error
	RemoveFromCollection(ctx context.Context, userID, isbn string) error
	ListCollection(ctx context.Context, userID string) ([]entities.Book, error)
}

type UserBooksController struct {
	collections CollectionService
}

func NewUserBooksController(collections CollectionService) *UserBooksController {
	return &UserBooksController{collections: collections}
}

type userBookRequest struct {
	UserID string `json:"userId"`
	ISBN   string `json:"isbn"`
}

// bindUserBook reads the request body and settles the acting user: the
// session user, which an explicit userId must match.
func bindUserBook(c *gin.Context) (userBookRequest, bool) {
	var req userBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return req, false
	}

	sessionUser := GetUserID(c)
	if req.UserID == "" {
		req.UserID = sessionUser
	} else if sessionUser != "" && req.UserID != sessionUser {
		respondError(c, http.StatusForbidden, "cannot modify another user's collection")
		return req, false
	}
	return req, true
}

// Store adds a book to the user's collection, resolving it first.
// POST /api/userbook/store
func (uc *UserBooksController) Store(c *gin.Context) {
	req, ok := bindUserBook(c)
	if !ok {
		return
	}

	if err := uc.collections.AddToCollection(c.Request.Context(), req.UserID, req.ISBN); err != nil {
		respondCollectionError(c, err, "store book")
		return
	}
	respondSuccess(c, "book stored")
}

// Unstore removes a book from the user's collection.
// POST /api/userbook/unstore
func (uc *UserBooksController) Unstore(c *gin.Context) {
	req, ok := bindUserBook(c)
	if !ok {
		return
	}

	if err := uc.collections.RemoveFromCollection(c.Request.Context(), req.UserID, req.ISBN); err != nil {
		respondCollectionError(c, err, "unstore book")
		return
	}
	respondSuccess(c, "book removed")
}

// Books lists a user's collection. userId defaults to the session user.
// GET /api/userbook/books?userId=
func (uc *UserBooksController) Books(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		userID = GetUserID(c)
	}

	books, err := uc.collections.ListCollection(c.Request.Context(), userID)
	if err != nil {
		respondCollectionError(c, err, "list books")
		return
	}
	c.JSON(http.StatusOK, books)
}
