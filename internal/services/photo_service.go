package services

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/vasitha1/lebailleur-app/internal/cache"
	"github.com/vasitha1/lebailleur-app/internal/models"
	"github.com/vasitha1/lebailleur-app/internal/repository"
	"github.com/vasitha1/lebailleur-app/internal/storage"
)

// photo size limits, longest edge in pixels
const (
	photoWebSize   = 1600
	photoThumbSize = 320
)

// PhotoJob is the payload pushed onto the photo queue after an original
// upload. The worker resizes it out of band.
type PhotoJob struct {
	PropertyID uuid.UUID `json:"property_id"`
	Path       string    `json:"path"`
}

// PhotoService handles property photo uploads. Originals go straight to
// storage; resizing happens in the photo worker.
type PhotoService struct {
	properties PropertyStore
	driver     storage.Driver
	cache      RolesCache
}

func NewPhotoService(properties PropertyStore, driver storage.Driver, cache RolesCache) *PhotoService {
	return &PhotoService{properties: properties, driver: driver, cache: cache}
}

// Upload stores a property photo and queues it for resizing. Returns the
// public URL of the original.
func (s *PhotoService) Upload(ctx context.Context, propertyID uuid.UUID, scope models.Scope, filename string, file io.Reader) (string, error) {
	if scope.Role == models.RoleTenant {
		return "", fmt.Errorf("tenants cannot upload property photos: %w", repository.ErrForbidden)
	}
	if _, err := s.properties.Get(ctx, propertyID, scope); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp", ".gif":
	default:
		return "", fmt.Errorf("unsupported photo format %q: %w", ext, repository.ErrInvalidInput)
	}

	path := fmt.Sprintf("properties/%s/photo-%s%s", propertyID, uuid.New().String(), ext)
	storagePath, publicURL, err := s.driver.Upload(ctx, file, path)
	if err != nil {
		return "", fmt.Errorf("failed to store photo: %w", err)
	}

	if err := s.properties.SetPhotoURL(ctx, propertyID, publicURL); err != nil {
		s.driver.Delete(ctx, storagePath)
		return "", err
	}

	if s.cache != nil {
		payload, err := json.Marshal(PhotoJob{PropertyID: propertyID, Path: storagePath})
		if err != nil {
			return "", err
		}
		if err := s.cache.Enqueue(ctx, cache.PhotoQueue, payload); err != nil {
			// original is already live, resizing can be redone later
			slog.Warn("failed to enqueue photo job", "property_id", propertyID, "error", err)
		}
	}
	return publicURL, nil
}

// Process resizes an uploaded original into web and thumbnail variants and
// repoints the property at the web-sized one. Called by the photo worker.
func (s *PhotoService) Process(ctx context.Context, job PhotoJob) error {
	reader, err := s.driver.Reader(ctx, job.Path)
	if err != nil {
		return fmt.Errorf("failed to open photo: %w", err)
	}
	defer reader.Close()

	src, format, err := image.Decode(reader)
	if err != nil {
		return fmt.Errorf("failed to decode photo: %w", err)
	}

	webPath, webURL, err := s.storeVariant(ctx, src, format, job.Path, "web", photoWebSize)
	if err != nil {
		return err
	}
	if _, _, err := s.storeVariant(ctx, src, format, job.Path, "thumb", photoThumbSize); err != nil {
		s.driver.Delete(ctx, webPath)
		return err
	}

	if err := s.properties.SetPhotoURL(ctx, job.PropertyID, webURL); err != nil {
		return err
	}
	slog.Info("property photo processed", "property_id", job.PropertyID, "path", job.Path)
	return nil
}

// storeVariant resizes to fit maxSize, re-encodes in the source format and
// uploads next to the original
func (s *PhotoService) storeVariant(ctx context.Context, src image.Image, format, originalPath, suffix string, maxSize int) (string, string, error) {
	resized := imaging.Fit(src, maxSize, maxSize, imaging.Lanczos)

	ext := filepath.Ext(originalPath)
	base := strings.TrimSuffix(filepath.Base(originalPath), ext)
	variantPath := filepath.Join(filepath.Dir(originalPath), fmt.Sprintf("%s_%s%s", base, suffix, ext))

	pr, pw := io.Pipe()
	go func() {
		var encodeErr error
		switch format {
		case "png":
			encodeErr = png.Encode(pw, resized)
		default:
			encodeErr = jpeg.Encode(pw, resized, &jpeg.Options{Quality: 90})
		}
		pw.CloseWithError(encodeErr)
	}()

	storagePath, publicURL, err := s.driver.Upload(ctx, pr, variantPath)
	if err != nil {
		return "", "", fmt.Errorf("failed to upload %s variant: %w", suffix, err)
	}
	return storagePath, publicURL, nil
}
