package product

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"eshop-api/internal/httpx"
	"eshop-api/internal/models"
)

// maxGalleryImages caps one gallery update, matching the upload form.
const maxGalleryImages = 10

var fileExtensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
}

type Controller struct {
	useCase   *UseCase
	uploadDir string
	log       *zap.Logger
}

func NewController(useCase *UseCase, uploadDir string, log *zap.Logger) *Controller {
	return &Controller{useCase: useCase, uploadDir: uploadDir, log: log}
}

func (ct *Controller) List(c *fiber.Ctx) error {
	var categories []primitive.ObjectID
	if raw := c.Query("categories"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := primitive.ObjectIDFromHex(strings.TrimSpace(part))
			if err != nil {
				return httpx.Validationf("invalid category ID")
			}
			categories = append(categories, id)
		}
	}
	products, err := ct.useCase.List(c.UserContext(), categories)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(products)
}

func (ct *Controller) Get(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return httpx.Validationf("invalid product ID")
	}
	product, err := ct.useCase.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(product)
}

func (ct *Controller) Count(c *fiber.Ctx) error {
	count, err := ct.useCase.Count(c.UserContext())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"productCount": count})
}

func (ct *Controller) Featured(c *fiber.Ctx) error {
	limit, err := strconv.ParseInt(c.Params("count", "0"), 10, 64)
	if err != nil || limit < 0 {
		return httpx.Validationf("invalid featured count")
	}
	products, err := ct.useCase.Featured(c.UserContext(), limit)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(products)
}

// Create takes a multipart form: the product fields plus a mandatory
// "image" file.
func (ct *Controller) Create(c *fiber.Ctx) error {
	product, err := ct.productFromForm(c)
	if err != nil {
		return err
	}

	file, err := c.FormFile("image")
	if err != nil {
		return httpx.Validationf("no image in the request")
	}
	imageURL, err := ct.saveUpload(c, file)
	if err != nil {
		return err
	}
	product.Image = imageURL

	created, err := ct.useCase.Create(c.UserContext(), product)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(created)
}

func (ct *Controller) Update(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return httpx.Validationf("invalid product ID")
	}

	existing, err := ct.useCase.Get(c.UserContext(), id)
	if err != nil {
		return err
	}

	product, err := ct.productFromForm(c)
	if err != nil {
		return err
	}

	// a new image is optional on update; keep the old one otherwise
	if file, ferr := c.FormFile("image"); ferr == nil {
		imageURL, err := ct.saveUpload(c, file)
		if err != nil {
			return err
		}
		product.Image = imageURL
	} else {
		product.Image = existing.Image
		product.Images = existing.Images
	}

	updated, err := ct.useCase.Update(c.UserContext(), id, product)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(updated)
}

func (ct *Controller) UpdateGallery(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return httpx.Validationf("invalid product ID")
	}

	form, err := c.MultipartForm()
	if err != nil {
		return httpx.Validationf("invalid request body")
	}
	files := form.File["images"]
	if len(files) > maxGalleryImages {
		files = files[:maxGalleryImages]
	}

	images := make([]string, 0, len(files))
	for _, file := range files {
		imageURL, err := ct.saveUpload(c, file)
		if err != nil {
			return err
		}
		images = append(images, imageURL)
	}

	updated, err := ct.useCase.UpdateGallery(c.UserContext(), id, images)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(updated)
}

func (ct *Controller) Delete(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return httpx.Validationf("invalid product ID")
	}
	if err := ct.useCase.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "the product is deleted"})
}

func (ct *Controller) productFromForm(c *fiber.Ctx) (*models.Product, error) {
	category, err := primitive.ObjectIDFromHex(c.FormValue("category"))
	if err != nil {
		return nil, httpx.Validationf("invalid category")
	}

	price, err := strconv.ParseFloat(c.FormValue("price", "0"), 64)
	if err != nil || price < 0 {
		return nil, httpx.Validationf("invalid price")
	}
	countInStock, err := strconv.Atoi(c.FormValue("countInStock", "0"))
	if err != nil || countInStock < 0 {
		return nil, httpx.Validationf("invalid stock count")
	}
	rating, err := strconv.ParseFloat(c.FormValue("rating", "0"), 64)
	if err != nil {
		return nil, httpx.Validationf("invalid rating")
	}
	numReviews, err := strconv.Atoi(c.FormValue("numReviews", "0"))
	if err != nil {
		return nil, httpx.Validationf("invalid review count")
	}
	isFeatured, err := strconv.ParseBool(c.FormValue("isFeatured", "false"))
	if err != nil {
		return nil, httpx.Validationf("invalid featured flag")
	}

	return &models.Product{
		Name:            c.FormValue("name"),
		Description:     c.FormValue("description"),
		RichDescription: c.FormValue("richDescription"),
		Brand:           c.FormValue("brand"),
		Price:           price,
		Category:        category,
		CountInStock:    countInStock,
		Rating:          rating,
		NumReviews:      numReviews,
		IsFeatured:      isFeatured,
	}, nil
}

// saveUpload stores the file under the upload dir and returns its public
// URL. Only png/jpeg uploads are accepted.
func (ct *Controller) saveUpload(c *fiber.Ctx, file *multipart.FileHeader) (string, error) {
	ext, ok := fileExtensions[file.Header.Get(fiber.HeaderContentType)]
	if !ok {
		return "", httpx.Validationf("invalid image type")
	}

	base := strings.ReplaceAll(file.Filename, " ", "-")
	base = filepath.Base(base)
	name := fmt.Sprintf("%s-%d.%s", strings.TrimSuffix(base, filepath.Ext(base)), time.Now().UnixMilli(), ext)

	if err := c.SaveFile(file, filepath.Join(ct.uploadDir, name)); err != nil {
		ct.log.Error("failed to store upload", zap.String("file", name), zap.Error(err))
		return "", httpx.Persistencef("the image cannot be stored")
	}
	return c.BaseURL() + "/public/uploads/" + name, nil
}
