package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/premiumgate/premiumgate/app/models"
	"github.com/premiumgate/premiumgate/internal/pkg/config"
	"github.com/premiumgate/premiumgate/internal/pkg/logging"
)

func TestOpenTestDBMigratesModels(t *testing.T) {
	db := OpenTestDB(t)

	assert.True(t, db.Migrator().HasTable(&models.User{}))
	assert.True(t, db.Migrator().HasTable(&models.PaymentNotification{}))
	require.NoError(t, Ping(context.Background(), db))
}

func TestUserEmailIsUnique(t *testing.T) {
	db := OpenTestDB(t)

	require.NoError(t, db.Create(&models.User{Email: "a@x.com", Password: "h"}).Error)
	err := db.Create(&models.User{Email: "a@x.com", Password: "h"}).Error
	assert.Error(t, err)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(config.DatabaseConfig{Driver: "oracle"}, logging.Discard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oracle")
}
