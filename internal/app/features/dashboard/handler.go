// internal/app/features/dashboard/handler.go
package dashboard

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	uierrors "github.com/getmeachai/getmeachai/internal/app/features/errors"
	"github.com/getmeachai/getmeachai/internal/app/system/secrets"
)

// Handler owns the signed-in creator's dashboard: the profile form and the
// payments summary.
type Handler struct {
	DB     *mongo.Database
	Sealer *secrets.Sealer
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
}

func NewHandler(db *mongo.Database, sealer *secrets.Sealer, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Sealer: sealer,
		Log:    logger,
		ErrLog: errLog,
	}
}
