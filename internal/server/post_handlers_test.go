package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"quill/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func samplePost() *models.Post {
	return &models.Post{
		ID:       7,
		Title:    "The Life of Cactus",
		Subtitle: "Who knew that cacti lived such interesting lives.",
		Date:     "October 20, 2020",
		Body:     "Cacti are adapted to live in very dry environments.",
		ImgURL:   "https://example.com/cactus.jpg",
		AuthorID: 1,
		Author:   models.User{ID: 1, Name: "Admin"},
	}
}

func TestHome(t *testing.T) {
	app, _, postRepo, _ := newTestServer(t)

	postRepo.On("List", mock.Anything).Return([]*models.Post{samplePost()}, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "The Life of Cactus")
	assert.Contains(t, string(body), "October 20, 2020")
}

func TestShowPost(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		app, _, postRepo, _ := newTestServer(t)

		post := samplePost()
		post.Comments = []models.Comment{
			{ID: 1, Text: "Great read", PostID: 7, Author: models.User{Name: "Reader"}},
		}
		postRepo.On("GetByID", mock.Anything, uint(7)).Return(post, nil)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/post/7", nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), "The Life of Cactus")
		assert.Contains(t, string(body), "Great read")
	})

	t.Run("Not Found", func(t *testing.T) {
		app, _, postRepo, _ := newTestServer(t)

		postRepo.On("GetByID", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/post/99", nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("Invalid ID", func(t *testing.T) {
		app, _, _, _ := newTestServer(t)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/post/abc", nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestAddComment(t *testing.T) {
	t.Run("Requires Login", func(t *testing.T) {
		app, _, postRepo, commentRepo := newTestServer(t)

		postRepo.On("GetByID", mock.Anything, uint(7)).Return(samplePost(), nil)

		resp, err := app.Test(formRequest("/post/7", url.Values{"text": {"anonymous hot take"}}))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/login", resp.Header.Get("Location"))
		commentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Logged In", func(t *testing.T) {
		app, _, postRepo, commentRepo := newTestServer(t)
		ck := loginAs(t, app, 2)

		postRepo.On("GetByID", mock.Anything, uint(7)).Return(samplePost(), nil)
		commentRepo.On("Create", mock.Anything, mock.MatchedBy(func(cm *models.Comment) bool {
			return cm.Text == "lovely piece" && cm.PostID == 7 && cm.AuthorID == 2
		})).Return(nil)
		commentRepo.On("ListByPost", mock.Anything, uint(7)).Return([]models.Comment{
			{ID: 1, Text: "lovely piece", PostID: 7, AuthorID: 2, Author: models.User{ID: 2, Name: "Reader"}},
		}, nil)

		req := formRequest("/post/7", url.Values{"text": {"lovely piece"}})
		req.AddCookie(ck)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		commentRepo.AssertExpectations(t)

		// The re-rendered page carries the fresh comment
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), "lovely piece")
	})

	t.Run("Unknown Post", func(t *testing.T) {
		app, _, postRepo, commentRepo := newTestServer(t)
		ck := loginAs(t, app, 2)

		postRepo.On("GetByID", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound)

		req := formRequest("/post/99", url.Values{"text": {"into the void"}})
		req.AddCookie(ck)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
		commentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestAdminGate(t *testing.T) {
	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/new-post"},
		{http.MethodPost, "/new-post"},
		{http.MethodGet, "/edit-post/7"},
		{http.MethodPost, "/edit-post/7"},
		{http.MethodGet, "/delete/7"},
	}

	t.Run("Anonymous", func(t *testing.T) {
		app, _, postRepo, _ := newTestServer(t)

		for _, rt := range routes {
			resp, err := app.Test(httptest.NewRequest(rt.method, rt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusForbidden, resp.StatusCode, "%s %s", rt.method, rt.path)
			_ = resp.Body.Close()
		}
		postRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("Ordinary User", func(t *testing.T) {
		app, _, postRepo, _ := newTestServer(t)
		ck := loginAs(t, app, 2)

		for _, rt := range routes {
			req := httptest.NewRequest(rt.method, rt.path, nil)
			req.AddCookie(ck)
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusForbidden, resp.StatusCode, "%s %s", rt.method, rt.path)
			_ = resp.Body.Close()
		}
		postRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("Admin Sees Form", func(t *testing.T) {
		app, _, _, _ := newTestServer(t)
		ck := loginAs(t, app, 1)

		req := httptest.NewRequest(http.MethodGet, "/new-post", nil)
		req.AddCookie(ck)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), "New Post")
	})
}

func TestCreatePost(t *testing.T) {
	form := url.Values{
		"title":    {"Fresh Ink"},
		"subtitle": {"Notes from the desk"},
		"img_url":  {"https://example.com/ink.jpg"},
		"body":     {"Some long-form writing."},
	}

	t.Run("Success", func(t *testing.T) {
		app, _, postRepo, _ := newTestServer(t)
		ck := loginAs(t, app, 1)

		postRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *models.Post) bool {
			if p.Title != "Fresh Ink" || p.AuthorID != 1 {
				return false
			}
			// The date stamp must round-trip through the display layout
			_, err := time.Parse(models.DateLayout, p.Date)
			return err == nil
		})).Return(nil)

		req := formRequest("/new-post", form)
		req.AddCookie(ck)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/", resp.Header.Get("Location"))
		postRepo.AssertExpectations(t)
	})

	t.Run("Duplicate Title", func(t *testing.T) {
		app, _, postRepo, _ := newTestServer(t)
		ck := loginAs(t, app, 1)

		postRepo.On("Create", mock.Anything, mock.Anything).Return(gorm.ErrDuplicatedKey)

		req := formRequest("/new-post", form)
		req.AddCookie(ck)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), "A post with that title already exists.")
	})

	t.Run("Missing Fields", func(t *testing.T) {
		app, _, postRepo, _ := newTestServer(t)
		ck := loginAs(t, app, 1)

		req := formRequest("/new-post", url.Values{"title": {"Only a Title"}})
		req.AddCookie(ck)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		postRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestUpdatePost(t *testing.T) {
	app, _, postRepo, _ := newTestServer(t)
	ck := loginAs(t, app, 1)

	existing := samplePost()
	existing.AuthorID = 5
	existing.Author = models.User{ID: 5, Name: "Former Author"}
	postRepo.On("GetByID", mock.Anything, uint(7)).Return(existing, nil)
	postRepo.On("Update", mock.Anything, mock.MatchedBy(func(p *models.Post) bool {
		// Editing rewrites the content, moves authorship to the editor and
		// leaves the original date stamp alone.
		return p.ID == 7 &&
			p.Title == "Revised Title" &&
			p.AuthorID == 1 &&
			p.Date == "October 20, 2020"
	})).Return(nil)

	req := formRequest("/edit-post/7", url.Values{
		"title":    {"Revised Title"},
		"subtitle": {"Revised subtitle"},
		"img_url":  {"https://example.com/new.jpg"},
		"body":     {"Revised body."},
	})
	req.AddCookie(ck)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/post/7", resp.Header.Get("Location"))
	postRepo.AssertExpectations(t)
}

func TestShowEditPost(t *testing.T) {
	app, _, postRepo, _ := newTestServer(t)
	ck := loginAs(t, app, 1)

	postRepo.On("GetByID", mock.Anything, uint(7)).Return(samplePost(), nil)

	req := httptest.NewRequest(http.MethodGet, "/edit-post/7", nil)
	req.AddCookie(ck)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Edit Post")
	assert.Contains(t, string(body), "The Life of Cactus")
	assert.Contains(t, string(body), "/edit-post/7")
}

func TestDeletePost(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		app, _, postRepo, _ := newTestServer(t)
		ck := loginAs(t, app, 1)

		postRepo.On("Delete", mock.Anything, uint(7)).Return(nil)

		req := httptest.NewRequest(http.MethodGet, "/delete/7", nil)
		req.AddCookie(ck)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/", resp.Header.Get("Location"))
		postRepo.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		app, _, postRepo, _ := newTestServer(t)
		ck := loginAs(t, app, 1)

		postRepo.On("Delete", mock.Anything, uint(99)).Return(gorm.ErrRecordNotFound)

		req := httptest.NewRequest(http.MethodGet, "/delete/99", nil)
		req.AddCookie(ck)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}
