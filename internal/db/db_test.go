package db

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/brightride/brightride-api/internal/models"
)

func TestConnectMigrateSQLite(t *testing.T) {
	gdb, err := Connect("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(gdb) })

	require.NoError(t, Migrate(gdb))
	require.NoError(t, Ping(context.Background(), gdb))

	for _, m := range []any{&models.User{}, &models.DriverProfile{}, &models.MechanicProfile{}, &models.Ride{}, &models.ServiceRequest{}} {
		assert.True(t, gdb.Migrator().HasTable(m))
	}
}

func TestConnectUnknownDriver(t *testing.T) {
	_, err := Connect("oracle", "dsn")
	assert.Error(t, err)
}

func TestConnectPostgresBadDSN(t *testing.T) {
	_, err := Connect("postgres", "host=localhost port=notaport")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse db config")
}

func TestLoggerSkipsRecordNotFound(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf)
	query := func() (string, int64) { return "SELECT 1", 0 }

	l.Trace(context.Background(), time.Now(), query, gorm.ErrRecordNotFound)
	assert.Empty(t, buf.String())

	l.Trace(context.Background(), time.Now(), query, errors.New("relation missing"))
	assert.Contains(t, buf.String(), "relation missing")
}

func TestContainsIsCaseSensitive(t *testing.T) {
	gdb, err := Connect("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(gdb) })
	require.NoError(t, Migrate(gdb))

	u := models.User{Email: "d@x.io", Name: "D", PasswordHash: "h", Role: models.RoleDriver}
	require.NoError(t, gdb.Create(&u).Error)
	require.NoError(t, gdb.Create(&models.DriverProfile{UserID: u.ID, VehicleDetails: "v", LicenseNumber: "l", CurrentLocation: "Downtown East", IsAvailable: true}).Error)

	var n int64
	require.NoError(t, gdb.Model(&models.DriverProfile{}).Where(Contains(gdb, "current_location"), "Downtown").Count(&n).Error)
	assert.EqualValues(t, 1, n)

	require.NoError(t, gdb.Model(&models.DriverProfile{}).Where(Contains(gdb, "current_location"), "downtown").Count(&n).Error)
	assert.EqualValues(t, 0, n)
}
