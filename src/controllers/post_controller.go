package controllers

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/connectups/backend/src/lib"
	"github.com/connectups/backend/src/services"
)

type PostController struct {
	posts *services.PostService
}

func NewPostController(posts *services.PostService) *PostController {
	return &PostController{posts: posts}
}

// Create publishes a post.
func (ct *PostController) Create(c *fiber.Ctx) error {
	user := currentUser(c)
	var body struct {
		Content  string `json:"content"`
		ImageURL string `json:"imageUrl"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("invalid request body"))
	}
	post, err := ct.posts.Create(c.Context(), user.Id, body.Content, body.ImageURL)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// Feed returns the global feed, newest first.
func (ct *PostController) Feed(c *fiber.Ctx) error {
	posts, err := ct.posts.Feed(c.Context(), 50)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(posts)
}

// ByUser returns one user's posts.
func (ct *PostController) ByUser(c *fiber.Ctx) error {
	author, err := paramID(c, "userId")
	if err != nil {
		return respondError(c, err)
	}
	posts, err := ct.posts.ByUser(c.Context(), author)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(posts)
}

// Delete removes one of the authenticated user's posts.
func (ct *PostController) Delete(c *fiber.Ctx) error {
	user := currentUser(c)
	postId, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := ct.posts.Delete(c.Context(), postId, user.Id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(lib.MessageResponse("post deleted"))
}

// Like toggles the authenticated user's like on a post.
func (ct *PostController) Like(c *fiber.Ctx) error {
	user := currentUser(c)
	postId, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	liked, err := ct.posts.Like(c.Context(), postId, user.Id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"liked": liked})
}

// Comment appends a comment to a post.
func (ct *PostController) Comment(c *fiber.Ctx) error {
	user := currentUser(c)
	postId, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var body struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("invalid request body"))
	}
	comment, err := ct.posts.Comment(c.Context(), postId, user.Id, body.Content)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// UploadImage stores a post image and returns its URL.
func (ct *PostController) UploadImage(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("image file is required"))
	}
	file, err := fileHeader.Open()
	if err != nil {
		return respondError(c, err)
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return respondError(c, err)
	}
	contentType := fileHeader.Header.Get("Content-Type")
	url, err := ct.posts.UploadImage(c.Context(), data, contentType)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"url": url})
}
