package server

import (
	"errors"
	"fmt"
	"time"

	"quill/internal/models"
	"quill/internal/validation"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type postForm struct {
	Title    string `form:"title"`
	Subtitle string `form:"subtitle"`
	ImgURL   string `form:"img_url"`
	Body     string `form:"body"`
}

type commentForm struct {
	Text string `form:"text"`
}

// Home handles GET /: render every post plus the caller's login status.
func (s *Server) Home(c *fiber.Ctx) error {
	posts, err := s.postRepo.List(c.Context())
	if err != nil {
		return models.NewInternalError(err)
	}
	return s.render(c, "index", fiber.Map{"Posts": posts})
}

// ShowPost handles GET /post/:id: the post, its comments, and an empty
// comment form.
func (s *Server) ShowPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return err
	}

	post, err := s.postRepo.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Post", id)
		}
		return models.NewInternalError(err)
	}

	return s.render(c, "post", fiber.Map{"Post": post})
}

// AddComment handles POST /post/:id. Commenting requires a login; an
// unauthenticated attempt flashes, redirects to login and discards the text.
func (s *Server) AddComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return err
	}

	post, err := s.postRepo.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Post", id)
		}
		return models.NewInternalError(err)
	}

	userID := s.currentUserID(c)
	if userID == 0 {
		s.flash(c, "You need to login or register to comment")
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	var form commentForm
	if err := c.BodyParser(&form); err != nil {
		return s.render(c, "post", fiber.Map{"Post": post, "Error": "Invalid form submission"})
	}
	if err := validation.ValidateCommentText(form.Text); err != nil {
		return s.render(c, "post", fiber.Map{"Post": post, "Error": err.Error()})
	}

	comment := &models.Comment{
		Text:     form.Text,
		PostID:   post.ID,
		AuthorID: userID,
	}
	if err := s.commentRepo.Create(c.Context(), comment); err != nil {
		return models.NewInternalError(err)
	}

	// Reload the comment list so the page shows the new comment.
	comments, err := s.commentRepo.ListByPost(c.Context(), post.ID)
	if err != nil {
		return models.NewInternalError(err)
	}
	post.Comments = comments
	return s.render(c, "post", fiber.Map{"Post": post})
}

// ShowNewPost handles GET /new-post (admin only).
func (s *Server) ShowNewPost(c *fiber.Ctx) error {
	if err := s.requireAdmin(c); err != nil {
		return err
	}
	return s.render(c, "make-post", fiber.Map{"Heading": "New Post"})
}

// CreatePost handles POST /new-post (admin only). The post is stamped with
// today's date and the current user as author.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	if err := s.requireAdmin(c); err != nil {
		return err
	}

	var form postForm
	if err := c.BodyParser(&form); err != nil {
		return s.render(c, "make-post", fiber.Map{"Heading": "New Post", "Error": "Invalid form submission"})
	}
	if err := validation.ValidatePostForm(form.Title, form.Subtitle, form.ImgURL, form.Body); err != nil {
		return s.render(c, "make-post", fiber.Map{"Heading": "New Post", "Error": err.Error(), "Form": form})
	}

	post := &models.Post{
		Title:    form.Title,
		Subtitle: form.Subtitle,
		Date:     time.Now().Format(models.DateLayout),
		Body:     form.Body,
		ImgURL:   form.ImgURL,
		AuthorID: s.currentUserID(c),
	}
	if err := s.postRepo.Create(c.Context(), post); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.render(c, "make-post", fiber.Map{
				"Heading": "New Post",
				"Error":   "A post with that title already exists.",
				"Form":    form,
			})
		}
		return models.NewInternalError(err)
	}

	return c.Redirect("/", fiber.StatusSeeOther)
}

// ShowEditPost handles GET /edit-post/:id (admin only) with a pre-filled form.
func (s *Server) ShowEditPost(c *fiber.Ctx) error {
	if err := s.requireAdmin(c); err != nil {
		return err
	}

	id, err := s.parseID(c, "id")
	if err != nil {
		return err
	}

	post, err := s.postRepo.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Post", id)
		}
		return models.NewInternalError(err)
	}

	form := postForm{
		Title:    post.Title,
		Subtitle: post.Subtitle,
		ImgURL:   post.ImgURL,
		Body:     post.Body,
	}
	return s.render(c, "make-post", fiber.Map{"Heading": "Edit Post", "Form": form, "PostID": post.ID})
}

// UpdatePost handles POST /edit-post/:id (admin only). Title, subtitle, image
// and body are overwritten; authorship moves to the editor; the date stamp is
// left alone.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	if err := s.requireAdmin(c); err != nil {
		return err
	}

	id, err := s.parseID(c, "id")
	if err != nil {
		return err
	}

	post, err := s.postRepo.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Post", id)
		}
		return models.NewInternalError(err)
	}

	var form postForm
	if err := c.BodyParser(&form); err != nil {
		return s.render(c, "make-post", fiber.Map{"Heading": "Edit Post", "Error": "Invalid form submission", "PostID": post.ID})
	}
	if err := validation.ValidatePostForm(form.Title, form.Subtitle, form.ImgURL, form.Body); err != nil {
		return s.render(c, "make-post", fiber.Map{"Heading": "Edit Post", "Error": err.Error(), "Form": form, "PostID": post.ID})
	}

	post.Title = form.Title
	post.Subtitle = form.Subtitle
	post.ImgURL = form.ImgURL
	post.Body = form.Body
	post.AuthorID = s.currentUserID(c)

	if err := s.postRepo.Update(c.Context(), post); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.render(c, "make-post", fiber.Map{
				"Heading": "Edit Post",
				"Error":   "A post with that title already exists.",
				"Form":    form,
				"PostID":  post.ID,
			})
		}
		return models.NewInternalError(err)
	}

	return c.Redirect(fmt.Sprintf("/post/%d", post.ID), fiber.StatusSeeOther)
}

// DeletePost handles GET /delete/:id (admin only). The post's comments go
// with it; an unknown id is a 404, not a crash.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	if err := s.requireAdmin(c); err != nil {
		return err
	}

	id, err := s.parseID(c, "id")
	if err != nil {
		return err
	}

	if err := s.postRepo.Delete(c.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Post", id)
		}
		return models.NewInternalError(err)
	}

	return c.Redirect("/", fiber.StatusSeeOther)
}
