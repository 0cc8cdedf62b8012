package handlers

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/aliasadad-hash/Journeyman/internal/apperr"
	"github.com/aliasadad-hash/Journeyman/internal/auth"
	"github.com/aliasadad-hash/Journeyman/internal/giphy"
	"github.com/aliasadad-hash/Journeyman/internal/models"
	"github.com/aliasadad-hash/Journeyman/internal/repository"
	"github.com/aliasadad-hash/Journeyman/internal/storage"
)

const (
	maxImageBytes        = 10 << 20
	maxVideoBytes        = 50 << 20
	maxProfilePhotoBytes = 5 << 20
	maxGalleryPhotos     = 6
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true, "image/png": true, "image/gif": true, "image/webp": true,
}

var allowedVideoTypes = map[string]bool{
	"video/mp4": true, "video/quicktime": true, "video/webm": true,
}

type MediaHandler struct {
	media *repository.MediaRepo
	users *repository.UserRepo
	store *storage.S3Store
	gifs  *giphy.Client
	log   *zap.SugaredLogger
}

func NewMediaHandler(media *repository.MediaRepo, users *repository.UserRepo,
	store *storage.S3Store, gifs *giphy.Client, log *zap.SugaredLogger) *MediaHandler {
	return &MediaHandler{media: media, users: users, store: store, gifs: gifs, log: log}
}

// Upload stores a chat or profile media file in S3 and records it.
func (h *MediaHandler) Upload(c *fiber.Ctx) error {
	if h.store == nil {
		return fail(c, fmt.Errorf("media storage not configured: %w", apperr.ErrUpstream))
	}
	userID := auth.UserID(c)
	mediaType := c.FormValue("media_type", "image")

	data, contentType, filename, err := readUpload(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	switch mediaType {
	case "image":
		if !allowedImageTypes[contentType] {
			return badRequest(c, "invalid image format, allowed: JPEG, PNG, GIF, WebP")
		}
		if len(data) > maxImageBytes {
			return badRequest(c, "file too large, max size: 10MB")
		}
	case "video":
		if !allowedVideoTypes[contentType] {
			return badRequest(c, "invalid video format, allowed: MP4, MOV, WebM")
		}
		if len(data) > maxVideoBytes {
			return badRequest(c, "file too large, max size: 50MB")
		}
	default:
		return badRequest(c, "media_type must be image or video")
	}

	key := fmt.Sprintf("%s/%s%s", userID, models.NewID("file"), extensionFor(filename, mediaType))
	url, err := h.store.Upload(c.Context(), key, contentType, data)
	if err != nil {
		h.log.Errorw("media upload failed", "key", key, "err", err)
		return fail(c, err)
	}

	var thumbURL string
	if mediaType == "image" {
		if thumb, err := storage.Thumbnail(data); err == nil {
			thumbURL, err = h.store.Upload(c.Context(), key+"_thumb.jpg", "image/jpeg", thumb)
			if err != nil {
				h.log.Warnw("thumbnail upload failed", "key", key, "err", err)
				thumbURL = ""
			}
		}
	}

	media := &models.Media{
		MediaID:     models.NewID("media"),
		UserID:      userID,
		Filename:    key,
		MediaType:   mediaType,
		ContentType: contentType,
		Size:        len(data),
		URL:         url,
		Thumbnail:   thumbURL,
		CreatedAt:   timeNow(),
	}
	if err := h.media.Insert(c.Context(), media); err != nil {
		return fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(media)
}

// UploadProfilePhoto uploads an avatar and sets it on the profile.
func (h *MediaHandler) UploadProfilePhoto(c *fiber.Ctx) error {
	if h.store == nil {
		return fail(c, fmt.Errorf("media storage not configured: %w", apperr.ErrUpstream))
	}
	userID := auth.UserID(c)

	data, contentType, filename, err := readUpload(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	if contentType != "image/jpeg" && contentType != "image/png" && contentType != "image/webp" {
		return badRequest(c, "invalid format, use JPEG, PNG, or WebP")
	}
	if len(data) > maxProfilePhotoBytes {
		return badRequest(c, "profile photo must be under 5MB")
	}

	key := fmt.Sprintf("profiles/%s/avatar_%s%s", userID, models.NewID("img"), extensionFor(filename, "image"))
	url, err := h.store.Upload(c.Context(), key, contentType, data)
	if err != nil {
		h.log.Errorw("profile photo upload failed", "key", key, "err", err)
		return fail(c, err)
	}
	if err := h.users.Set(c.Context(), userID, bson.M{"profile_photo": url}); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"url": url, "message": "Profile photo updated"})
}

// AddGalleryPhoto uploads a photo into the profile gallery, capped at
// six photos.
func (h *MediaHandler) AddGalleryPhoto(c *fiber.Ctx) error {
	if h.store == nil {
		return fail(c, fmt.Errorf("media storage not configured: %w", apperr.ErrUpstream))
	}
	userID := auth.UserID(c)
	user, err := h.users.FindByID(c.Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	if len(user.Photos) >= maxGalleryPhotos {
		return badRequest(c, "gallery is full, maximum 6 photos")
	}

	data, contentType, filename, err := readUpload(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	if !allowedImageTypes[contentType] {
		return badRequest(c, "invalid image format")
	}
	if len(data) > maxImageBytes {
		return badRequest(c, "file too large, max size: 10MB")
	}

	key := fmt.Sprintf("gallery/%s/%s%s", userID, models.NewID("img"), extensionFor(filename, "image"))
	url, err := h.store.Upload(c.Context(), key, contentType, data)
	if err != nil {
		h.log.Errorw("gallery upload failed", "key", key, "err", err)
		return fail(c, err)
	}
	if err := h.users.PushPhoto(c.Context(), userID, url); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"url": url, "photo_count": len(user.Photos) + 1})
}

// RemoveGalleryPhoto pulls a photo URL out of the gallery. The S3
// object is left in place.
func (h *MediaHandler) RemoveGalleryPhoto(c *fiber.Ctx) error {
	photoURL := c.Query("photo_url")
	if photoURL == "" {
		return badRequest(c, "photo_url required")
	}
	removed, err := h.users.PullPhoto(c.Context(), auth.UserID(c), photoURL)
	if err != nil {
		return fail(c, err)
	}
	if !removed {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "photo not found in gallery"})
	}
	return c.JSON(fiber.Map{"message": "Photo removed from gallery"})
}

// Status reports whether media storage is configured.
func (h *MediaHandler) Status(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"storage": "s3", "available": h.store != nil})
}

func (h *MediaHandler) SearchGifs(c *fiber.Ctx) error {
	gifs, err := h.gifs.Search(c.Context(), c.Query("q"), c.QueryInt("limit", 20))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"gifs": gifs})
}

func (h *MediaHandler) TrendingGifs(c *fiber.Ctx) error {
	gifs, err := h.gifs.Trending(c.Context(), c.QueryInt("limit", 20))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"gifs": gifs})
}

func readUpload(c *fiber.Ctx) (data []byte, contentType, filename string, err error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, "", "", fmt.Errorf("file missing")
	}
	f, err := fileHeader.Open()
	if err != nil {
		return nil, "", "", fmt.Errorf("cannot open file")
	}
	defer f.Close()

	data, err = io.ReadAll(f)
	if err != nil {
		return nil, "", "", fmt.Errorf("cannot read file")
	}

	contentType = fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return data, contentType, fileHeader.Filename, nil
}

func extensionFor(filename, mediaType string) string {
	if ext := strings.ToLower(filepath.Ext(filename)); ext != "" {
		return ext
	}
	if mediaType == "video" {
		return ".mp4"
	}
	return ".jpg"
}
