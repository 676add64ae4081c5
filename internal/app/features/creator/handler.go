// internal/app/features/creator/handler.go
package creator

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/getmeachai/getmeachai/internal/app/donation"
	uierrors "github.com/getmeachai/getmeachai/internal/app/features/errors"
)

// Handler owns the public creator page and its donation endpoint.
type Handler struct {
	DB        *mongo.Database
	Donations *donation.Service
	Log       *zap.Logger
	ErrLog    *uierrors.ErrorLogger

	// PlatformPublishableKey is used for card confirmation when the
	// creator has not stored their own publishable key.
	PlatformPublishableKey string
}

func NewHandler(db *mongo.Database, donations *donation.Service, errLog *uierrors.ErrorLogger, platformPubKey string, logger *zap.Logger) *Handler {
	return &Handler{
		DB:                     db,
		Donations:              donations,
		Log:                    logger,
		ErrLog:                 errLog,
		PlatformPublishableKey: platformPubKey,
	}
}
