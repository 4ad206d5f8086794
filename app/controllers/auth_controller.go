package controllers

import (
	"errors"
	"strings"
	"time"

	"github.com/DedS3t/minopolis/app/models"
	"github.com/DedS3t/minopolis/platform/queries"
	jwt "github.com/form3tech-oss/jwt-go"
	"github.com/gofiber/fiber/v2"
	uuid "github.com/satori/go.uuid"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 72 * time.Hour

func (h *Controller) CreateUser(c *fiber.Ctx) error {
	userDto := new(models.UserDto)
	if err := c.BodyParser(userDto); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	userDto.Email = strings.ToLower(strings.TrimSpace(userDto.Email))
	if userDto.Email == "" || len(userDto.Pass) < 6 {
		return fiber.NewError(fiber.StatusBadRequest, "email and a password of at least 6 characters are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(userDto.Pass), bcrypt.DefaultCost)
	if err != nil {
		return h.fail(c, err)
	}
	user := &models.User{
		Id:       uuid.NewV4().String(),
		Email:    userDto.Email,
		Password: string(hash),
	}
	if err := h.Repo.CreateUser(c.Context(), user); err != nil {
		if errors.Is(err, queries.ErrDuplicate) {
			return fiber.NewError(fiber.StatusConflict, "email already registered")
		}
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": user.Id})
}

func (h *Controller) Login(c *fiber.Ctx) error {
	userDto := new(models.UserDto)
	if err := c.BodyParser(userDto); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	user, err := h.Repo.GetUserByEmail(c.Context(), strings.ToLower(strings.TrimSpace(userDto.Email)))
	if errors.Is(err, queries.ErrNotFound) {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}
	if err != nil {
		return h.fail(c, err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(userDto.Pass)) != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}

	token := jwt.New(jwt.SigningMethodHS256)
	claims := token.Claims.(jwt.MapClaims)
	claims["user_id"] = user.Id
	claims["email"] = user.Email
	claims["exp"] = time.Now().Add(tokenTTL).Unix()
	t, err := token.SignedString(h.Secret)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"access_token": t})
}

func (h *Controller) Cur(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"user_id": userID(c)})
}

// userID reads the caller from the token the jwt middleware verified.
func userID(c *fiber.Ctx) string {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return ""
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	id, _ := claims["user_id"].(string)
	return id
}
