package repository_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"milhier/internal/database"
	"milhier/internal/models"
	"milhier/internal/repository"
	"milhier/internal/testutil"
)

type fixtures struct {
	db          *database.Database
	units       *repository.UnitRepository
	soldiers    *repository.SoldierRepository
	rawInputs   *repository.RawInputRepository
	reports     *repository.ReportRepository
	suggestions *repository.SuggestionRepository
	sequences   *repository.SequenceRepository
	documents   *repository.DocumentRepository
}

func setup(t *testing.T) *fixtures {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	return &fixtures{
		db:          db,
		units:       repository.NewUnitRepository(db),
		soldiers:    repository.NewSoldierRepository(db),
		rawInputs:   repository.NewRawInputRepository(db),
		reports:     repository.NewReportRepository(db),
		suggestions: repository.NewSuggestionRepository(db),
		sequences:   repository.NewSequenceRepository(db),
		documents:   repository.NewDocumentRepository(db),
	}
}

func (f *fixtures) createUnit(t *testing.T, name string, parent *string) *models.Unit {
	t.Helper()
	unit := &models.Unit{
		UnitID:       uuid.New().String(),
		Name:         name,
		Level:        "platoon",
		ParentUnitID: parent,
	}
	require.NoError(t, f.units.Create(unit))
	return unit
}

func (f *fixtures) createSoldier(t *testing.T, name, unitID string) *models.Soldier {
	t.Helper()
	soldier := &models.Soldier{
		SoldierID: uuid.New().String(),
		Name:      name,
		Rank:      "SGT",
		UnitID:    unitID,
	}
	require.NoError(t, f.soldiers.Create(soldier))
	return soldier
}

func (f *fixtures) createReport(t *testing.T, soldier *models.Soldier, reportType, structured string) *models.Report {
	t.Helper()
	report := &models.Report{
		ReportID:       uuid.New().String(),
		SoldierID:      soldier.SoldierID,
		UnitID:         soldier.UnitID,
		Timestamp:      time.Now(),
		ReportType:     reportType,
		StructuredJSON: structured,
		Confidence:     0.9,
		Status:         "submitted",
	}
	tx, err := f.db.Begin()
	require.NoError(t, err)
	require.NoError(t, f.reports.InsertTx(tx, report))
	require.NoError(t, tx.Commit())
	return report
}

func TestUnitCreateAndGet(t *testing.T) {
	f := setup(t)

	unit := f.createUnit(t, "1st Platoon", nil)

	got, err := f.units.GetByID(unit.UnitID)
	require.NoError(t, err)
	assert.Equal(t, unit.Name, got.Name)
	assert.Nil(t, got.ParentUnitID)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestUnitCreateUnknownParent(t *testing.T) {
	f := setup(t)

	missing := uuid.New().String()
	err := f.units.Create(&models.Unit{
		UnitID:       uuid.New().String(),
		Name:         "Orphan",
		Level:        "squad",
		ParentUnitID: &missing,
	})
	assert.ErrorIs(t, err, repository.ErrUnitNotFound)
}

func TestUnitDeleteRejectsDependents(t *testing.T) {
	f := setup(t)

	parent := f.createUnit(t, "Company A", nil)
	child := f.createUnit(t, "1st Platoon", &parent.UnitID)

	err := f.units.Delete(parent.UnitID)
	assert.ErrorIs(t, err, repository.ErrUnitHasDependents)

	soldier := f.createSoldier(t, "Miller", child.UnitID)
	err = f.units.Delete(child.UnitID)
	assert.ErrorIs(t, err, repository.ErrUnitHasDependents)

	require.NoError(t, f.soldiers.Delete(soldier.SoldierID))
	require.NoError(t, f.units.Delete(child.UnitID))
	require.NoError(t, f.units.Delete(parent.UnitID))

	_, err = f.units.GetByID(parent.UnitID)
	assert.ErrorIs(t, err, repository.ErrUnitNotFound)
}

func TestSoldierCreateRequiresUnit(t *testing.T) {
	f := setup(t)

	err := f.soldiers.Create(&models.Soldier{
		SoldierID: uuid.New().String(),
		Name:      "Nobody",
		UnitID:    uuid.New().String(),
	})
	assert.ErrorIs(t, err, repository.ErrUnitNotFound)
}

func TestSoldierGetJoinsUnitName(t *testing.T) {
	f := setup(t)

	unit := f.createUnit(t, "2nd Platoon", nil)
	soldier := f.createSoldier(t, "Reyes", unit.UnitID)

	got, err := f.soldiers.GetByID(soldier.SoldierID)
	require.NoError(t, err)
	assert.Equal(t, "2nd Platoon", got.UnitName)
	assert.Equal(t, "active", got.Status)
	require.NotNil(t, got.LastSeen)
}

func TestSoldierUpdateStatus(t *testing.T) {
	f := setup(t)

	unit := f.createUnit(t, "2nd Platoon", nil)
	soldier := f.createSoldier(t, "Reyes", unit.UnitID)

	require.NoError(t, f.soldiers.UpdateStatus(soldier.SoldierID, "wounded"))

	got, err := f.soldiers.GetByID(soldier.SoldierID)
	require.NoError(t, err)
	assert.Equal(t, "wounded", got.Status)

	assert.ErrorIs(t, f.soldiers.UpdateStatus(uuid.New().String(), "active"), repository.ErrSoldierNotFound)
}

func TestSoldierDeleteRejectsDependents(t *testing.T) {
	f := setup(t)

	unit := f.createUnit(t, "3rd Platoon", nil)
	soldier := f.createSoldier(t, "Okafor", unit.UnitID)
	f.createReport(t, soldier, models.ReportTypeSITREP, `{}`)

	assert.ErrorIs(t, f.soldiers.Delete(soldier.SoldierID), repository.ErrSoldierHasDependents)
}

func TestRawInputRoundTrip(t *testing.T) {
	f := setup(t)

	unit := f.createUnit(t, "3rd Platoon", nil)
	soldier := f.createSoldier(t, "Okafor", unit.UnitID)

	input := &models.RawInput{
		InputID:    uuid.New().String(),
		SoldierID:  soldier.SoldierID,
		Timestamp:  time.Now(),
		RawText:    "contact north of checkpoint",
		Confidence: 0.8,
	}
	require.NoError(t, f.rawInputs.Create(input))
	assert.Equal(t, "voice", input.InputType)

	inputs, err := f.rawInputs.GetBySoldier(soldier.SoldierID, 0)
	require.NoError(t, err)
	require.Len(t, inputs, 1)
	assert.Equal(t, "contact north of checkpoint", inputs[0].RawText)

	err = f.rawInputs.Create(&models.RawInput{
		InputID:   uuid.New().String(),
		SoldierID: uuid.New().String(),
		Timestamp: time.Now(),
		RawText:   "x",
	})
	assert.ErrorIs(t, err, repository.ErrSoldierNotFound)
}

func TestReportListFiltersAndOrder(t *testing.T) {
	f := setup(t)

	unitA := f.createUnit(t, "Alpha", nil)
	unitB := f.createUnit(t, "Bravo", nil)
	soldierA := f.createSoldier(t, "Adams", unitA.UnitID)
	soldierB := f.createSoldier(t, "Baker", unitB.UnitID)

	first := f.createReport(t, soldierA, models.ReportTypeSITREP, `{}`)
	time.Sleep(2 * time.Millisecond)
	second := f.createReport(t, soldierA, models.ReportTypeContact, `{}`)
	f.createReport(t, soldierB, models.ReportTypeLogstat, `{}`)

	all, err := f.reports.List(repository.ReportFilters{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	byUnit, err := f.reports.List(repository.ReportFilters{UnitID: unitA.UnitID})
	require.NoError(t, err)
	require.Len(t, byUnit, 2)
	assert.Equal(t, second.ReportID, byUnit[0].ReportID, "newest first")
	assert.Equal(t, first.ReportID, byUnit[1].ReportID)
	assert.Equal(t, "Adams", byUnit[0].SoldierName)
	assert.Equal(t, "Alpha", byUnit[0].UnitName)

	bySoldier, err := f.reports.List(repository.ReportFilters{SoldierID: soldierB.SoldierID})
	require.NoError(t, err)
	assert.Len(t, bySoldier, 1)
}

func TestReportMissingIDs(t *testing.T) {
	f := setup(t)

	unit := f.createUnit(t, "Alpha", nil)
	soldier := f.createSoldier(t, "Adams", unit.UnitID)
	report := f.createReport(t, soldier, models.ReportTypeSITREP, `{}`)

	ghost := uuid.New().String()
	missing, err := f.reports.MissingIDs([]string{report.ReportID, ghost})
	require.NoError(t, err)
	assert.Equal(t, []string{ghost}, missing)

	missing, err = f.reports.MissingIDs(nil)
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestSuggestionReviewTransitions(t *testing.T) {
	f := setup(t)

	unit := f.createUnit(t, "Alpha", nil)
	s := &models.Suggestion{
		SuggestionID:   uuid.New().String(),
		SuggestionType: models.DocTypeCASEVAC,
		Urgency:        models.UrgencyHigh,
		Reason:         "2 casualties reported",
		Confidence:     0.9,
		SourceReports:  []string{"r-1"},
		Status:         models.SuggestionPending,
		UnitID:         &unit.UnitID,
		CreatedAt:      time.Now(),
	}
	tx, err := f.db.Begin()
	require.NoError(t, err)
	require.NoError(t, f.suggestions.InsertTx(tx, s))
	require.NoError(t, tx.Commit())

	reviewed, err := f.suggestions.Review(s.SuggestionID, models.SuggestionAccepted, "cpt.hale")
	require.NoError(t, err)
	assert.Equal(t, models.SuggestionAccepted, reviewed.Status)
	require.NotNil(t, reviewed.ReviewedAt)
	require.NotNil(t, reviewed.ReviewedBy)
	assert.Equal(t, "cpt.hale", *reviewed.ReviewedBy)
	assert.Equal(t, []string{"r-1"}, reviewed.SourceReports)

	// Reviewed suggestions are immutable
	_, err = f.suggestions.Review(s.SuggestionID, models.SuggestionRejected, "someone.else")
	assert.ErrorIs(t, err, repository.ErrSuggestionReviewed)

	_, err = f.suggestions.Review(uuid.New().String(), models.SuggestionAccepted, "x")
	assert.ErrorIs(t, err, repository.ErrSuggestionNotFound)
}

func TestSuggestionListFilters(t *testing.T) {
	f := setup(t)

	unit := f.createUnit(t, "Alpha", nil)
	insert := func(urgency, status string) {
		s := &models.Suggestion{
			SuggestionID:   uuid.New().String(),
			SuggestionType: models.DocTypeEOINCREP,
			Urgency:        urgency,
			Reason:         "Enemy activity detected",
			Confidence:     0.8,
			Status:         status,
			UnitID:         &unit.UnitID,
			CreatedAt:      time.Now(),
		}
		tx, err := f.db.Begin()
		require.NoError(t, err)
		require.NoError(t, f.suggestions.InsertTx(tx, s))
		require.NoError(t, tx.Commit())
	}
	insert(models.UrgencyHigh, models.SuggestionPending)
	insert(models.UrgencyMedium, models.SuggestionPending)
	insert(models.UrgencyHigh, models.SuggestionRejected)

	pending, err := f.suggestions.List(repository.SuggestionFilters{Status: models.SuggestionPending})
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	high, err := f.suggestions.List(repository.SuggestionFilters{Urgency: models.UrgencyHigh})
	require.NoError(t, err)
	assert.Len(t, high, 2)

	both, err := f.suggestions.List(repository.SuggestionFilters{
		Status:  models.SuggestionPending,
		Urgency: models.UrgencyHigh,
	})
	require.NoError(t, err)
	assert.Len(t, both, 1)
}
