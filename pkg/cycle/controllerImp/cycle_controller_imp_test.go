package controllerImp

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"canecycle/database"
	"canecycle/entities"
	actRepoImp "canecycle/pkg/activity/repositoryImp"
	blocRepoImp "canecycle/pkg/bloc/repositoryImp"
	cycleRepoImp "canecycle/pkg/cycle/repositoryImp"
	cycleSvcImp "canecycle/pkg/cycle/serviceImp"
	metricsSvcImp "canecycle/pkg/metrics/serviceImp"
	obsRepoImp "canecycle/pkg/observation/repositoryImp"
)

func newCtrlFixture(t *testing.T) (*gorm.DB, *CycleCtrl) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	blocRepo := blocRepoImp.New(db)
	cycleRepo := cycleRepoImp.New(db)
	obsRepo := obsRepoImp.New(db)
	actRepo := actRepoImp.New(db)
	metrics := metricsSvcImp.New(cycleRepo, blocRepo, actRepo, obsRepo)
	svc := cycleSvcImp.New(cycleRepo, blocRepo, actRepo, obsRepo, metrics, nil, nil)
	return db, New(svc, metrics, cycleRepo, blocRepo)
}

func seedActiveCycle(t *testing.T, db *gorm.DB) *entities.CropCycle {
	t.Helper()
	b := &entities.Bloc{UserID: "U_TEST", Name: "B1", AreaHectares: 10}
	if err := db.Create(b).Error; err != nil {
		t.Fatalf("create bloc: %v", err)
	}
	planting := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	c := &entities.CropCycle{
		BlocID:             b.BlocID,
		Type:               entities.CycleTypePlantation,
		Status:             entities.CycleStatusActive,
		CycleNumber:        1,
		SugarcaneVarietyID: "r570",
		IntercropVarietyID: entities.IntercropNone,
		PlantingDate:       &planting,
		PlannedHarvestDate: planting.AddDate(0, 5, 0),
		ExpectedYieldTPH:   85,
	}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("create cycle: %v", err)
	}
	return c
}

func postClose(t *testing.T, ctrl *CycleCtrl, cycleID uint, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/cycles/:id/close", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("uid", "U_TEST")
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(int(cycleID)))
	if err := ctrl.Close(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	return rec
}

func TestCloseRejectsMissingHarvestDate(t *testing.T) {
	db, ctrl := newCtrlFixture(t)
	cycle := seedActiveCycle(t, db)

	rec := postClose(t, ctrl, cycle.CycleID, `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "actual_harvest_date is required") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}

	var got entities.CropCycle
	if err := db.First(&got, "cycle_id = ?", cycle.CycleID).Error; err != nil {
		t.Fatalf("reload cycle: %v", err)
	}
	if got.Status != entities.CycleStatusActive {
		t.Fatalf("cycle status = %s, want active", got.Status)
	}
}

func TestCloseRejectsMalformedHarvestDate(t *testing.T) {
	db, ctrl := newCtrlFixture(t)
	cycle := seedActiveCycle(t, db)

	rec := postClose(t, ctrl, cycle.CycleID, `{"actual_harvest_date":"15/06/2025"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body %s", rec.Code, rec.Body.String())
	}
}
