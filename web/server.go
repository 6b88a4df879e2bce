// Package web exposes the admin API: recipients, settings, custom stores,
// the current listings view and a manual check trigger.
package web

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"freegamewatch/config"
	"freegamewatch/logger"
	"freegamewatch/services/store"
	"freegamewatch/services/worker"
)

type Server struct {
	app      *fiber.App
	store    store.Store
	worker   *worker.Worker
	cfg      *config.Config
	validate *validator.Validate
	log      *logger.Logger
}

func NewServer(cfg *config.Config, st store.Store, w *worker.Worker) *Server {
	s := &Server{
		app: fiber.New(fiber.Config{
			AppName:               "freegamewatch",
			DisableStartupMessage: true,
		}),
		store:    st,
		worker:   w,
		cfg:      cfg,
		validate: validator.New(),
		log:      logger.ForWeb(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	api := s.app.Group("/api")

	api.Get("/listings", s.handleListings)
	api.Post("/check-now", s.handleCheckNow)

	api.Get("/recipients", s.handleGetRecipients)
	api.Post("/recipients", s.handleAddRecipient)
	api.Delete("/recipients", s.handleRemoveRecipient)

	api.Get("/config", s.handleGetConfig)
	api.Post("/config", s.handleSetConfig)

	api.Get("/stores/custom", s.handleGetCustomStores)
	api.Post("/stores/custom", s.handleAddCustomStore)
	api.Delete("/stores/custom/:id", s.handleRemoveCustomStore)
}

// Listen blocks serving the API on addr.
func (s *Server) Listen(addr string) error {
	s.log.Info().Str("addr", addr).Msg("Admin API listening")
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) handleListings(c *fiber.Ctx) error {
	listings, err := s.worker.CurrentListings()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{
		"count":    len(listings),
		"listings": listings,
	})
}

func (s *Server) handleCheckNow(c *fiber.Ctx) error {
	summary := s.worker.RunCycle()
	return c.JSON(summary)
}

func (s *Server) handleGetRecipients(c *fiber.Ctx) error {
	recipients, err := s.store.ActiveRecipients()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"recipients": recipients})
}

type recipientRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (s *Server) handleAddRecipient(c *fiber.Ctx) error {
	var req recipientRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid email address")
	}
	if err := s.store.AddRecipient(req.Email); err != nil {
		return fiber.NewError(fiber.StatusConflict, "recipient already exists")
	}
	return c.JSON(fiber.Map{"success": true, "email": req.Email})
}

func (s *Server) handleRemoveRecipient(c *fiber.Ctx) error {
	var req recipientRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email is required")
	}
	if err := s.store.RemoveRecipient(req.Email); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"success": true})
}

func (s *Server) handleGetConfig(c *fiber.Ctx) error {
	settings, err := s.store.Settings()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(settings)
}

// settingKeys is the allow-list of admin-editable settings.
var settingKeys = map[string]bool{
	"schedule_day":   true,
	"schedule_time":  true,
	"enabled_stores": true,
	"recency_hours":  true,
}

func (s *Server) handleSetConfig(c *fiber.Ctx) error {
	var req map[string]string
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	for key, value := range req {
		if !settingKeys[key] {
			return fiber.NewError(fiber.StatusBadRequest, "unknown setting: "+key)
		}
		if err := s.store.SetSetting(key, value); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(fiber.Map{"success": true, "message": "Configuration updated"})
}

func (s *Server) handleGetCustomStores(c *fiber.Ctx) error {
	stores, err := s.store.CustomStores()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"stores": stores})
}

type customStoreRequest struct {
	Name    string `json:"name" validate:"required"`
	URL     string `json:"url" validate:"required,url"`
	Pattern string `json:"pattern" validate:"required"`
}

func (s *Server) handleAddCustomStore(c *fiber.Ctx) error {
	var req customStoreRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := s.validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "name, url and pattern are required")
	}
	id, err := s.store.AddCustomStore(req.Name, req.URL, req.Pattern)
	if err != nil {
		return fiber.NewError(fiber.StatusConflict, "custom store already exists")
	}
	return c.JSON(fiber.Map{"success": true, "id": id})
}

func (s *Server) handleRemoveCustomStore(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid store id")
	}
	if err := s.store.RemoveCustomStore(int64(id)); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"success": true})
}
