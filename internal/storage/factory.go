package storage

import (
	"fmt"

	"github.com/vasitha1/lebailleur-app/internal/config"
)

// New builds the configured photo storage driver
func New(cfg *config.StorageConfig) (Driver, error) {
	switch cfg.Driver {
	case "local", "":
		path := cfg.UploadsPath
		if path == "" {
			path = "./uploads"
		}
		return NewLocal(path), nil
	case "s3":
		return NewS3(cfg)
	case "r2":
		return NewR2(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}
}
