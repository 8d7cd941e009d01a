package utils

import (
	"errors"

	"github.com/ether/seqfield-go/lib/settings"
	"github.com/ether/seqfield-go/lib/store"
	"go.uber.org/zap"
)

func GetStore(retrievedSettings settings.Settings, setupLogger *zap.SugaredLogger) (store.ChangesetStore, error) {
	if retrievedSettings.DBType == settings.SQLITE {
		setupLogger.Infof("Using SQLite revision log at %s", retrievedSettings.DBPath)
		return store.NewSQLiteStore(retrievedSettings.DBPath)
	} else if retrievedSettings.DBType == settings.MEMORY {
		setupLogger.Info("Using in-memory revision log (data will be lost on exit)")
		return store.NewMemoryStore(), nil
	}
	return nil, errors.New("unsupported database type")
}
