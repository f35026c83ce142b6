package server

import (
	"github.com/gofiber/fiber/v2"
)

// About handles GET /about.
func (s *Server) About(c *fiber.Ctx) error {
	return s.render(c, "about", nil)
}

// ShowContact handles GET /contact.
func (s *Server) ShowContact(c *fiber.Ctx) error {
	return s.render(c, "contact", nil)
}

// Contact handles POST /contact. No mail is sent; the page re-renders with a
// confirmation note.
func (s *Server) Contact(c *fiber.Ctx) error {
	return s.render(c, "contact", fiber.Map{"Message": "Message received, thanks for reaching out."})
}
