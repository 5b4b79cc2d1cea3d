package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bookfriends/server/internal/entities"
	"github.com/bookfriends/server/internal/resolver"
)

type BookResolver interface {
	Resolve(ctx context.Context, isbn string) (*entities.Book, error)
}

type BooksController struct {
	resolver BookResolver
}

func NewBooksController(r BookResolver) *BooksController {
	return &BooksController{resolver: r}
}

// GetBook resolves a book by ISBN, from the cache or the metadata provider.
// GET /api/book/:isbn
func (bc *BooksController) GetBook(c *gin.Context) {
	book, err := bc.resolver.Resolve(c.Request.Context(), c.Param("isbn"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, book)
	case errors.Is(err, resolver.ErrInvalidISBN):
		respondBadRequest(c, err.Error())
	case errors.Is(err, resolver.ErrNotFound):
		respondNotFound(c, "book")
	case errors.Is(err, resolver.ErrProviderUnavailable):
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "metadata provider unavailable", Code: "UPSTREAM_UNAVAILABLE"})
	default:
		respondInternalError(c, err, "resolve book")
	}
}
