package setting

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.Setting{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func TestGet(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Create(&models.Setting{Name: "site_name", Value: []byte("My Site")}).Error)

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		settingName   string
		expectedError error
		expectedValue []byte
	}{
		{
			name:          "nil database",
			settingName:   "test",
			expectedError: ErrDBNil,
		},
		{
			name:          "empty name",
			dbParam:       db,
			expectedError: ErrSettingNameEmpty,
		},
		{
			name:          "setting not found",
			dbParam:       db,
			settingName:   "nonexistent",
			expectedError: ErrSettingNotFound,
		},
		{
			name:          "successful get",
			dbParam:       db,
			settingName:   "site_name",
			expectedValue: []byte("My Site"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			setting, err := Get(tc.dbParam, tc.settingName)

			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, setting)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.settingName, setting.Name)
			assert.Equal(t, tc.expectedValue, setting.Value)
		})
	}
}

func TestSet(t *testing.T) {
	db := setupTestDB(t)

	_, err := Set(nil, "x", nil)
	require.ErrorIs(t, err, ErrDBNil)

	_, err = Set(db, "", nil)
	require.ErrorIs(t, err, ErrSettingNameEmpty)

	created, err := Set(db, "theme", []byte("dark"))
	require.NoError(t, err)
	assert.Equal(t, []byte("dark"), created.Value)

	updated, err := Set(db, "theme", []byte("light"))
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, []byte("light"), updated.Value)

	var count int64
	require.NoError(t, db.Model(&models.Setting{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestDelete(t *testing.T) {
	db := setupTestDB(t)

	_, err := Set(db, "theme", []byte("dark"))
	require.NoError(t, err)

	require.ErrorIs(t, Delete(nil, "theme"), ErrDBNil)
	require.ErrorIs(t, Delete(db, ""), ErrSettingNameEmpty)
	require.NoError(t, Delete(db, "theme"))
	require.ErrorIs(t, Delete(db, "theme"), ErrSettingNotFound)
}

func TestJSONRoundTrip(t *testing.T) {
	db := setupTestDB(t)

	type blob struct {
		URL   string `json:"url"`
		Flags []string
	}

	var missing blob
	require.ErrorIs(t, LoadJSON(db, "blob", &missing), ErrSettingNotFound)

	require.NoError(t, SaveJSON(db, "blob", blob{URL: "https://example.com", Flags: []string{"a"}}))

	var got blob
	require.NoError(t, LoadJSON(db, "blob", &got))
	assert.Equal(t, "https://example.com", got.URL)
	assert.Equal(t, []string{"a"}, got.Flags)

	_, err := Set(db, "broken", []byte("{"))
	require.NoError(t, err)
	require.Error(t, LoadJSON(db, "broken", &got))
}
