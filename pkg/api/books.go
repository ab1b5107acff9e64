package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"booklib/pkg/models"
)

func (c *Client) ListBooks(ctx context.Context) ([]models.Book, error) {
	var books []models.Book
	err := c.do(ctx, http.MethodGet, "/api/books", nil, nil, &books)
	return books, err
}

func (c *Client) GetBook(ctx context.Context, id uint) (models.Book, error) {
	var book models.Book
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/books/%d", id), nil, nil, &book)
	return book, err
}

func (c *Client) BooksByCategory(ctx context.Context, category string) ([]models.Book, error) {
	var books []models.Book
	query := url.Values{"category": {category}}
	err := c.do(ctx, http.MethodGet, "/api/books/category", query, nil, &books)
	return books, err
}

func (c *Client) SearchBooks(ctx context.Context, keyword string) ([]models.Book, error) {
	var books []models.Book
	query := url.Values{"keyword": {keyword}}
	err := c.do(ctx, http.MethodGet, "/api/books/search", query, nil, &books)
	return books, err
}

func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := c.do(ctx, http.MethodGet, "/api/books/categories", nil, nil, &categories)
	return categories, err
}

// Admin-only catalog management.

func (c *Client) CreateBook(ctx context.Context, book models.Book) (models.Book, error) {
	var created models.Book
	err := c.do(ctx, http.MethodPost, "/api/books", nil, book, &created)
	return created, err
}

func (c *Client) UpdateBook(ctx context.Context, id uint, book models.Book) (models.Book, error) {
	var updated models.Book
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/books/%d", id), nil, book, &updated)
	return updated, err
}

func (c *Client) DeleteBook(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/books/%d", id), nil, nil, nil)
}
