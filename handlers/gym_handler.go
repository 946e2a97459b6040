package handlers

import (
	"context"
	"fmt"

	"github.com/fitplan/fitplan_backend/database"
	"github.com/fitplan/fitplan_backend/errs"
	"github.com/fitplan/fitplan_backend/models"
	"github.com/fitplan/fitplan_backend/repositories"
	"github.com/gofiber/fiber/v2"
)

type CreateGymRequest struct {
	Name              string  `json:"name" validate:"required"`
	LicenseNumber     string  `json:"license_number" validate:"required"`
	LicenseImage      *string `json:"license_image"`
	Location          *string `json:"location"`
	Image             *string `json:"image"`
	SportFacilities   *string `json:"sport_facilities"`
	WelfareFacilities *string `json:"welfare_facilities"`
}

type GymPlanPriceRequest struct {
	SessionCounts int  `json:"session_counts" validate:"gte=0"`
	DurationDays  int  `json:"duration_days" validate:"gte=0"`
	IsVIP         bool `json:"is_vip"`
	Price         int  `json:"price" validate:"gte=0"`
}

type CommentRequest struct {
	Comment *string `json:"comment"`
	Rating  int     `json:"rating"`
	Date    *string `json:"date"`
}

func CreateMyGym(c *fiber.Ctx) error {
	me, err := identity(c)
	if err != nil {
		return err
	}
	var req CreateGymRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	gym, err := repositories.NewGymRepository(database.DB).CreateGymWithOwner(c.UserContext(), &models.Gym{
		Name:              req.Name,
		LicenseNumber:     req.LicenseNumber,
		LicenseImage:      req.LicenseImage,
		Location:          req.Location,
		Image:             req.Image,
		SportFacilities:   req.SportFacilities,
		WelfareFacilities: req.WelfareFacilities,
	}, me.ID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(gym)
}

func ListMyGyms(c *fiber.Ctx) error {
	me, err := identity(c)
	if err != nil {
		return err
	}
	gyms, err := repositories.NewGymRepository(database.DB).ListOwnedVerifiedGyms(c.UserContext(), me.ID)
	if err != nil {
		return err
	}
	return c.JSON(gyms)
}

func ListMyGymPlanPrices(c *fiber.Ctx) error {
	me, err := identity(c)
	if err != nil {
		return err
	}
	gymID, err := paramID(c, "gymId")
	if err != nil {
		return err
	}
	prices, err := repositories.NewGymRepository(database.DB).ListVerifiedGymPlanPrices(c.UserContext(), me.ID, gymID)
	if err != nil {
		return err
	}
	return c.JSON(prices)
}

func CreateMyGymPlanPrice(c *fiber.Ctx) error {
	me, err := identity(c)
	if err != nil {
		return err
	}
	gymID, err := paramID(c, "gymId")
	if err != nil {
		return err
	}
	var req GymPlanPriceRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	price, err := repositories.NewGymRepository(database.DB).CreateGymPlanPrice(c.UserContext(), me.ID, &models.GymPlanPrice{
		GymID:         gymID,
		SessionCounts: req.SessionCounts,
		DurationDays:  req.DurationDays,
		IsVIP:         req.IsVIP,
		Price:         req.Price,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(price)
}

func UpdateMyGymPlanPrice(c *fiber.Ctx) error {
	me, err := identity(c)
	if err != nil {
		return err
	}
	planPriceID, err := paramID(c, "planPriceId")
	if err != nil {
		return err
	}
	fields, err := parseFields(c, "session_counts", "duration_days", "is_vip", "price")
	if err != nil {
		return err
	}

	gyms := repositories.NewGymRepository(database.DB)
	if err := ensureOwnsPlanPrice(c.UserContext(), gyms, me.ID, planPriceID); err != nil {
		return err
	}
	price, err := gyms.UpdateGymPlanPrice(c.UserContext(), planPriceID, fields)
	if err != nil {
		return err
	}
	return c.JSON(price)
}

func DeleteMyGymPlanPrice(c *fiber.Ctx) error {
	me, err := identity(c)
	if err != nil {
		return err
	}
	planPriceID, err := paramID(c, "planPriceId")
	if err != nil {
		return err
	}

	gyms := repositories.NewGymRepository(database.DB)
	if err := ensureOwnsPlanPrice(c.UserContext(), gyms, me.ID, planPriceID); err != nil {
		return err
	}
	price, err := gyms.DeleteGymPlanPrice(c.UserContext(), planPriceID)
	if err != nil {
		return err
	}
	return c.JSON(price)
}

func ensureOwnsPlanPrice(ctx context.Context, gyms *repositories.GymRepository, coachID, planPriceID uint) error {
	price, err := gyms.GetGymPlanPrice(ctx, planPriceID)
	if err != nil {
		return err
	}
	gym, err := gyms.GetGym(ctx, price.GymID)
	if err != nil {
		return err
	}
	if gym.OwnerID != coachID {
		return fmt.Errorf("gym plan price %d: %w", planPriceID, errs.ErrPermissionDenied)
	}
	return nil
}

// GetGym is public and only shows verified gyms.
func GetGym(c *fiber.Ctx) error {
	gymID, err := paramID(c, "gymId")
	if err != nil {
		return err
	}
	gym, err := repositories.NewGymRepository(database.DB).GetVerifiedGym(c.UserContext(), gymID)
	if err != nil {
		return err
	}
	return c.JSON(gym)
}

func ListGymComments(c *fiber.Ctx) error {
	gymID, err := paramID(c, "gymId")
	if err != nil {
		return err
	}
	comments, err := repositories.NewCommentRepository(database.DB).ListGymComments(c.UserContext(), gymID)
	if err != nil {
		return err
	}
	return c.JSON(comments)
}

func CreateGymComment(c *fiber.Ctx) error {
	me, err := identity(c)
	if err != nil {
		return err
	}
	gymID, err := paramID(c, "gymId")
	if err != nil {
		return err
	}
	var req CommentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if _, err := repositories.NewGymRepository(database.DB).GetVerifiedGym(c.UserContext(), gymID); err != nil {
		return err
	}
	comment, err := repositories.NewCommentRepository(database.DB).CreateGymComment(c.UserContext(), &models.GymComment{
		UserID:  me.ID,
		GymID:   gymID,
		Comment: req.Comment,
		Rating:  req.Rating,
		Date:    req.Date,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

func DeleteGymComment(c *fiber.Ctx) error {
	me, err := identity(c)
	if err != nil {
		return err
	}
	gymID, err := paramID(c, "gymId")
	if err != nil {
		return err
	}
	commentID, err := paramID(c, "commentId")
	if err != nil {
		return err
	}
	if _, err := repositories.NewCommentRepository(database.DB).DeleteGymComment(c.UserContext(), me.ID, gymID, commentID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
