package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/prefs/pkg/pref"
	"github.com/papercomputeco/prefs/pkg/storage"
)

// ErrorResponse is the JSON body returned on any non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// FetchAllResponse contains every stored preference for an identity.
type FetchAllResponse struct {
	Identity    string                     `json:"identity"`
	Preferences map[string]pref.TypedValue `json:"preferences"`
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// handleFetchAll returns all preferences stored for an identity. An identity
// with no stored preferences gets an empty map, not a 404: to a syncing
// client "nothing stored yet" is a successful, empty result.
func (s *Server) handleFetchAll(c *fiber.Ctx) error {
	identity := c.Params("identity")
	if identity == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "identity parameter required"})
	}

	prefs, err := s.store.All(c.Context(), identity)
	if err != nil {
		s.logger.Error("failed to load preferences", "identity", identity, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to load preferences"})
	}

	if prefs == nil {
		prefs = map[string]pref.TypedValue{}
	}

	return c.JSON(FetchAllResponse{
		Identity:    identity,
		Preferences: prefs,
	})
}

// handleUpsert stores a single preference value for an identity.
func (s *Server) handleUpsert(c *fiber.Ctx) error {
	identity := c.Params("identity")
	key := c.Params("key")
	if identity == "" || key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "identity and key parameters required"})
	}

	var tv pref.TypedValue
	if err := c.BodyParser(&tv); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	switch tv.DataType {
	case pref.TypeString, pref.TypeBool, pref.TypeInt, pref.TypeDouble:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "unknown data_type: " + tv.DataType})
	}

	if err := s.store.Set(c.Context(), identity, key, tv); err != nil {
		s.logger.Error("failed to store preference", "identity", identity, "key", key, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to store preference"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// handleDelete removes a single preference for an identity. Deleting an
// absent key is a no-op and still returns 204.
func (s *Server) handleDelete(c *fiber.Ctx) error {
	identity := c.Params("identity")
	key := c.Params("key")
	if identity == "" || key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "identity and key parameters required"})
	}

	if err := s.store.Delete(c.Context(), identity, key); err != nil {
		var nfe storage.NotFoundError
		if errors.As(err, &nfe) {
			return c.SendStatus(fiber.StatusNoContent)
		}
		s.logger.Error("failed to delete preference", "identity", identity, "key", key, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to delete preference"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
