package repositories

import (
	"context"
	"testing"
	"time"

	"zoorequest/internal/models"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type AnimalRepoTestSuite struct {
	suite.Suite
	mock      pgxmock.PgxPoolIface
	repo      AnimalRepository
	creatorID uuid.UUID
	animalID  uuid.UUID
	ctx       context.Context
}

func (suite *AnimalRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewAnimalRepo(mock)
	suite.creatorID = uuid.New()
	suite.animalID = uuid.New()
	suite.ctx = context.Background()
}

func (suite *AnimalRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestAnimalRepoTestSuite(t *testing.T) {
	suite.Run(t, new(AnimalRepoTestSuite))
}

func (suite *AnimalRepoTestSuite) TestAcquireDraft_CreatesWhenAbsent() {
	suite.mock.ExpectExec(`INSERT INTO animals`).
		WithArgs(pgxmock.AnyArg(), suite.creatorID).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectQuery(`SELECT id FROM animals WHERE creator_id = \$1 AND status = 'DRAFT'`).
		WithArgs(suite.creatorID).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(suite.animalID))

	id, err := suite.repo.AcquireDraft(suite.ctx, suite.mock, suite.creatorID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.animalID, id)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *AnimalRepoTestSuite) TestAcquireDraft_ReusesOnConflict() {
	// A racing insert lost against the partial unique index; the existing
	// draft id comes back from the follow-up select.
	suite.mock.ExpectExec(`INSERT INTO animals`).
		WithArgs(pgxmock.AnyArg(), suite.creatorID).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))
	suite.mock.ExpectQuery(`SELECT id FROM animals WHERE creator_id = \$1 AND status = 'DRAFT'`).
		WithArgs(suite.creatorID).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(suite.animalID))

	id, err := suite.repo.AcquireDraft(suite.ctx, suite.mock, suite.creatorID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.animalID, id)
}

func (suite *AnimalRepoTestSuite) TestForm_Success() {
	suite.mock.ExpectExec(`UPDATE animals`).
		WithArgs(suite.animalID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	assert.NoError(suite.T(), suite.repo.Form(suite.ctx, suite.animalID))
}

func (suite *AnimalRepoTestSuite) TestForm_WrongStateIsNotFound() {
	suite.mock.ExpectExec(`UPDATE animals`).
		WithArgs(suite.animalID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := suite.repo.Form(suite.ctx, suite.animalID)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *AnimalRepoTestSuite) TestResolve_GuardedByFormedStatus() {
	moderatorID := uuid.New()
	completion := time.Now().UTC()
	recordDate := completion.AddDate(0, 0, 14)

	suite.mock.ExpectExec(`UPDATE animals`).
		WithArgs(models.StatusCompleted, completion, recordDate, moderatorID, suite.animalID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := suite.repo.Resolve(suite.ctx, suite.animalID, models.StatusCompleted, moderatorID, completion, recordDate)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *AnimalRepoTestSuite) TestMarkDeleted_OnlyFromDraft() {
	suite.mock.ExpectExec(`UPDATE animals SET status = 'DELETED'`).
		WithArgs(suite.animalID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := suite.repo.MarkDeleted(suite.ctx, suite.animalID)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *AnimalRepoTestSuite) TestUpdateDraft_OwnerMismatchIsNotFound() {
	name := "cheetah"
	suite.mock.ExpectExec(`UPDATE animals`).
		WithArgs(&name, (*string)(nil), (*string)(nil), suite.animalID, suite.creatorID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := suite.repo.UpdateDraft(suite.ctx, suite.animalID, suite.creatorID, models.AnimalUpdate{Animal: &name})
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *AnimalRepoTestSuite) TestFindDraftID_NoneMeansNil() {
	suite.mock.ExpectQuery(`SELECT id FROM animals WHERE creator_id = \$1 AND status = 'DRAFT'`).
		WithArgs(suite.creatorID).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	id, err := suite.repo.FindDraftID(suite.ctx, suite.creatorID)
	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), id)
}
