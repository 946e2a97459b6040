package handlers

import (
	"net/url"
	"strconv"
	"time"

	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/fitplan/fitplan_backend/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func UploadMedia(c *fiber.Ctx) error {
	me, err := identity(c)
	if err != nil {
		return err
	}
	header, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "file is required")
	}
	file, err := header.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "cannot read file")
	}
	defer file.Close()

	media, err := mediaService.CreateMedia(c.UserContext(), services.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get(fiber.HeaderContentType),
		Size:        header.Size,
		Content:     file,
	}, me.Email)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(media)
}

func GetMediaInfo(c *fiber.Ctx) error {
	me, err := identity(c)
	if err != nil {
		return err
	}
	id, err := mediaID(c)
	if err != nil {
		return err
	}
	media, err := mediaService.GetMediaInfo(c.UserContext(), id, me.Email)
	if err != nil {
		return err
	}
	return c.JSON(media)
}

func GetMediaData(c *fiber.Ctx) error {
	me, err := identity(c)
	if err != nil {
		return err
	}
	id, err := mediaID(c)
	if err != nil {
		return err
	}
	media, body, err := mediaService.GetMedia(c.UserContext(), id, me.Email)
	if err != nil {
		return err
	}
	if media.ContentType != "" {
		c.Set(fiber.HeaderContentType, media.ContentType)
	}
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+media.Filename+`"`)
	return c.SendStream(body)
}

// GetGymMedia streams gym pictures to anyone.
func GetGymMedia(c *fiber.Ctx) error {
	id, err := mediaID(c)
	if err != nil {
		return err
	}
	media, body, err := mediaService.GetGymMedia(c.UserContext(), id)
	if err != nil {
		return err
	}
	if media.ContentType != "" {
		c.Set(fiber.HeaderContentType, media.ContentType)
	}
	return c.SendStream(body)
}

// GenerateUploadSignature signs a direct browser upload into the media folder.
func GenerateUploadSignature(c *fiber.Ctx) error {
	if cloudinaryURL == "" {
		return services.ErrStorageUnavailable
	}
	parsedURL, err := url.Parse(cloudinaryURL)
	if err != nil {
		return err
	}
	secret, _ := parsedURL.User.Password()

	paramsToSign, err := api.StructToParams(uploader.UploadParams{Folder: mediaFolder})
	if err != nil {
		return err
	}
	timestamp := time.Now().Unix()
	paramsToSign.Set("timestamp", strconv.FormatInt(timestamp, 10))

	signature, err := api.SignParameters(paramsToSign, secret)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"signature":  signature,
		"timestamp":  timestamp,
		"api_key":    parsedURL.User.Username(),
		"cloud_name": parsedURL.Host,
		"folder":     mediaFolder,
	})
}

func mediaID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("mediaId"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid mediaId")
	}
	return id, nil
}
