package server

import (
	"errors"

	"quill/internal/models"
	"quill/internal/validation"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type registerForm struct {
	Name     string `form:"name"`
	Email    string `form:"email"`
	Password string `form:"password"`
}

type loginForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

// ShowRegister handles GET /register
func (s *Server) ShowRegister(c *fiber.Ctx) error {
	return s.render(c, "register", nil)
}

// Register handles POST /register: create the account, log the new user in,
// redirect home. A duplicate email flashes and redirects to login instead.
func (s *Server) Register(c *fiber.Ctx) error {
	var form registerForm
	if err := c.BodyParser(&form); err != nil {
		return s.render(c, "register", fiber.Map{"Error": "Invalid form submission"})
	}

	if err := validation.ValidateName(form.Name); err != nil {
		return s.render(c, "register", fiber.Map{"Error": err.Error(), "Form": form})
	}
	if err := validation.ValidateEmail(form.Email); err != nil {
		return s.render(c, "register", fiber.Map{"Error": err.Error(), "Form": form})
	}
	if err := validation.ValidatePassword(form.Password); err != nil {
		return s.render(c, "register", fiber.Map{"Error": err.Error(), "Form": form})
	}

	existing, err := s.userRepo.GetByEmail(c.Context(), form.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		s.flash(c, "You've already signed up with that email, log in instead!")
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.NewInternalError(err)
	}

	user := &models.User{
		Email:    form.Email,
		Password: string(hashed),
		Name:     form.Name,
	}
	if err := s.userRepo.Create(c.Context(), user); err != nil {
		// A concurrent registration can slip in between the lookup and the
		// insert; the unique index catches it.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			s.flash(c, "You've already signed up with that email, log in instead!")
			return c.Redirect("/login", fiber.StatusSeeOther)
		}
		return models.NewInternalError(err)
	}

	if err := s.establishSession(c, user.ID); err != nil {
		return models.NewInternalError(err)
	}

	return c.Redirect("/", fiber.StatusSeeOther)
}

// ShowLogin handles GET /login
func (s *Server) ShowLogin(c *fiber.Ctx) error {
	return s.render(c, "login", nil)
}

// Login handles POST /login. On success the post list is rendered in place
// rather than redirecting; failures flash and redirect back to the form
// without revealing more than the message class.
func (s *Server) Login(c *fiber.Ctx) error {
	var form loginForm
	if err := c.BodyParser(&form); err != nil {
		return s.render(c, "login", fiber.Map{"Error": "Invalid form submission"})
	}

	user, err := s.userRepo.GetByEmail(c.Context(), form.Email)
	if err != nil {
		return err
	}
	if user == nil {
		s.flash(c, "User with that email doesn't exist, register instead.")
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(form.Password)); err != nil {
		s.flash(c, "Password incorrect, please try again.")
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	if err := s.establishSession(c, user.ID); err != nil {
		return models.NewInternalError(err)
	}

	posts, err := s.postRepo.List(c.Context())
	if err != nil {
		return models.NewInternalError(err)
	}

	return s.render(c, "index", fiber.Map{"Posts": posts})
}

// Logout handles GET /logout: tear down the session unconditionally.
func (s *Server) Logout(c *fiber.Ctx) error {
	s.destroySession(c)
	return c.Redirect("/", fiber.StatusFound)
}
