package profile

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/eldercare/internal/database"
	"github.com/mrlokans/eldercare/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, *database.Database) {
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "profile.db"), database.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(db.DB, db.Tracker), db
}

func TestRepository_GetProfile_Empty(t *testing.T) {
	repo, _ := setupTestDB(t)

	p, err := repo.GetProfile()
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestRepository_SaveProfile_ForcesSingleRow(t *testing.T) {
	repo, db := setupTestDB(t)

	require.NoError(t, repo.SaveProfile(&entities.MedicalProfile{ID: 7, BloodType: "A+", Allergies: "penicillin"}))
	require.NoError(t, repo.SaveProfile(&entities.MedicalProfile{BloodType: "0-", DoctorName: "Dr. Who"}))

	var count int64
	require.NoError(t, db.DB.Model(&entities.MedicalProfile{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	p, err := repo.GetProfile()
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, entities.ProfileID, p.ID)
	assert.Equal(t, "0-", p.BloodType)
	assert.Equal(t, "Dr. Who", p.DoctorName)
	assert.Empty(t, p.Allergies, "save replaces the whole row")
}

func TestRepository_InsertAndUpdate(t *testing.T) {
	repo, _ := setupTestDB(t)

	require.NoError(t, repo.Insert(&entities.MedicalProfile{ID: entities.ProfileID, BloodType: "B+"}))

	p, err := repo.GetProfile()
	require.NoError(t, err)
	require.NotNil(t, p)
	p.InsuranceInfo = "Policy 123"
	require.NoError(t, repo.Update(p))

	got, err := repo.GetProfile()
	require.NoError(t, err)
	assert.Equal(t, "B+", got.BloodType)
	assert.Equal(t, "Policy 123", got.InsuranceInfo)
}

func TestRepository_InsertWithoutIDIsTheProfileRow(t *testing.T) {
	repo, db := setupTestDB(t)

	require.NoError(t, repo.Insert(&entities.MedicalProfile{BloodType: "B+"}))

	p, err := repo.GetProfile()
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, entities.ProfileID, p.ID)
	assert.Equal(t, "B+", p.BloodType)

	require.NoError(t, repo.Update(&entities.MedicalProfile{BloodType: "AB-", DoctorName: "Dr. Lee"}))

	p, err = repo.GetProfile()
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "AB-", p.BloodType)
	assert.Equal(t, "Dr. Lee", p.DoctorName)

	var count int64
	require.NoError(t, db.DB.Model(&entities.MedicalProfile{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRepository_WatchProfile(t *testing.T) {
	repo, _ := setupTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := repo.WatchProfile(ctx)
	first := <-ch
	require.NoError(t, first.Err)
	assert.Nil(t, first.Value)

	require.NoError(t, repo.SaveProfile(&entities.MedicalProfile{BloodType: "AB+"}))
	second := <-ch
	require.NoError(t, second.Err)
	require.NotNil(t, second.Value)
	assert.Equal(t, "AB+", second.Value.BloodType)
}
