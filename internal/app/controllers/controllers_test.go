package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/disa/mapa/internal/app/models"
	"github.com/disa/mapa/internal/app/models/dto"
	"github.com/disa/mapa/internal/app/roster"
	"github.com/disa/mapa/internal/middleware"
	"github.com/disa/mapa/internal/pkg/apperrors"
	"github.com/disa/mapa/internal/pkg/spreadsheet"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := middleware.RegisterValidators(); err != nil {
		panic(err)
	}
}

type stubPersonnelService struct {
	list        []models.Personnel
	specialties map[int64]string
	created     *models.Personnel
	createErr   error
	importErr   error
	gotDryRun   bool
	gotUpload   []byte
	gotCriteria roster.Criteria
}

func (s *stubPersonnelService) Load(context.Context) ([]models.Personnel, error) { return s.list, nil }

func (s *stubPersonnelService) View(_ context.Context, c roster.Criteria) (roster.View, error) {
	s.gotCriteria = c
	return roster.ApplyFilter(s.list, c), nil
}

func (s *stubPersonnelService) GetPersonnelByID(_ context.Context, id int64) (*models.Personnel, error) {
	for i := range s.list {
		if s.list[i].ID == id {
			return &s.list[i], nil
		}
	}
	return nil, apperrors.ErrPersonnelNotFound
}

func (s *stubPersonnelService) CreatePersonnel(_ context.Context, p *models.Personnel) (int64, error) {
	if s.createErr != nil {
		return 0, s.createErr
	}
	p.ID = int64(len(s.list) + 10)
	s.created = p
	stored := *p
	if p.SpecialtyID != nil {
		stored.SpecialtyName = s.specialties[*p.SpecialtyID]
	}
	s.list = append(s.list, stored)
	return p.ID, nil
}

func (s *stubPersonnelService) UpdatePersonnel(context.Context, *models.Personnel) error { return nil }
func (s *stubPersonnelService) DeletePersonnel(context.Context, int64) error { return nil }

func (s *stubPersonnelService) ImportRows(context.Context, []spreadsheet.Row, bool) (*dto.BatchResult, error) {
	return &dto.BatchResult{}, nil
}

func (s *stubPersonnelService) ImportSpreadsheet(_ context.Context, r io.Reader, dryRun bool) (*dto.BatchResult, error) {
	s.gotDryRun = dryRun
	s.gotUpload, _ = io.ReadAll(r)
	if s.importErr != nil {
		return nil, s.importErr
	}
	return &dto.BatchResult{BatchID: "b1", DryRun: dryRun, Created: 2}, nil
}

func newPersonnelRouter(svc *stubPersonnelService, maxUpload int64) *gin.Engine {
	ctrl := NewPersonnelController(svc, maxUpload, zerolog.Nop())
	r := gin.New()
	r.GET("/personnel", ctrl.GetAllPersonnel)
	r.GET("/personnel/view", ctrl.GetPersonnelView)
	r.POST("/personnel", ctrl.CreatePersonnel)
	r.GET("/personnel/:id", ctrl.GetPersonnelByID)
	r.POST("/personnel/import", ctrl.ImportPersonnel)
	return r
}

func perform(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var envelope struct {
		Data T `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope.Data
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorCode {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp.Error.Code
}

func uploadRequest(t *testing.T, target string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "personal.xlsx")
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func seq(n int64) *int64 { return &n }

func TestGetPersonnelView(t *testing.T) {
	svc := &stubPersonnelService{list: []models.Personnel{
		{ID: 1, Kind: models.KindMilitary, Rank: "SM", Surname: "Gomez", ImportSequence: seq(2)},
		{ID: 2, Kind: models.KindMilitary, Rank: "CN", Surname: "Diaz", ImportSequence: seq(1)},
		{ID: 3, Kind: models.KindCivilian, Surname: "Alo"},
	}}
	r := newPersonnelRouter(svc, 1<<20)

	t.Run("whole list", func(t *testing.T) {
		w := perform(r, httptest.NewRequest(http.MethodGet, "/personnel/view?type=todos&q=", nil))
		require.Equal(t, http.StatusOK, w.Code)
		view := decode[dto.PersonnelViewResponse](t, w)
		require.Len(t, view.Items, 3)
		assert.Equal(t, "Diaz", view.Items[0].Surname)
		assert.Nil(t, view.Pagination)
		assert.Equal(t, 3, view.Counts.Total)
	})

	t.Run("paged", func(t *testing.T) {
		w := perform(r, httptest.NewRequest(http.MethodGet, "/personnel/view?page=2&size=2", nil))
		require.Equal(t, http.StatusOK, w.Code)
		view := decode[dto.PersonnelViewResponse](t, w)
		require.Len(t, view.Items, 1)
		assert.Equal(t, "Alo", view.Items[0].Surname)
		require.NotNil(t, view.Pagination)
		assert.Equal(t, 2, view.Pagination.TotalPages)
	})

	t.Run("page past the end", func(t *testing.T) {
		w := perform(r, httptest.NewRequest(http.MethodGet, "/personnel/view?page=9223372036854775807&size=500", nil))
		require.Equal(t, http.StatusOK, w.Code)
		view := decode[dto.PersonnelViewResponse](t, w)
		assert.Empty(t, view.Items)
		assert.Equal(t, 3, view.Counts.Total)
	})

	t.Run("search forwarded", func(t *testing.T) {
		w := perform(r, httptest.NewRequest(http.MethodGet, "/personnel/view?type=officer&q=di", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, roster.Criteria{Type: roster.FilterOfficer, Search: "di"}, svc.gotCriteria)
	})

	t.Run("unknown type", func(t *testing.T) {
		w := perform(r, httptest.NewRequest(http.MethodGet, "/personnel/view?type=admiral", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCreatePersonnel_Binding(t *testing.T) {
	svc := &stubPersonnelService{}
	r := newPersonnelRouter(svc, 1<<20)

	body := `{"kind":"military","rank":"TN","surname":"Gomez","givenName":"Carlos","destinationCode":"hnpb","nationalId":"30111222"}`
	req := httptest.NewRequest(http.MethodPost, "/personnel", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := perform(r, req)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "HNPB", svc.created.DestinationCode)

	bad := `{"kind":"military","rank":"TN","surname":"Gomez","givenName":"Carlos","destinationCode":"HN-1","nationalId":"1"}`
	req = httptest.NewRequest(http.MethodPost, "/personnel", strings.NewReader(bad))
	req.Header.Set("Content-Type", "application/json")
	w = perform(r, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrorCodeValidationFailed, errorCode(t, w))

	svc.createErr = apperrors.ErrUnknownDestination
	req = httptest.NewRequest(http.MethodPost, "/personnel", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w = perform(r, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreatePersonnel_RespondsWithStoredRecord(t *testing.T) {
	svc := &stubPersonnelService{specialties: map[int64]string{4: "Cirugía"}}
	r := newPersonnelRouter(svc, 1<<20)

	body := `{"kind":"military","rank":"TN","surname":"Gomez","givenName":"Carlos","destinationCode":"HNPB","nationalId":"30111222","specialtyId":4}`
	req := httptest.NewRequest(http.MethodPost, "/personnel", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := perform(r, req)
	require.Equal(t, http.StatusCreated, w.Code)

	created := decode[models.Personnel](t, w)
	assert.Equal(t, svc.created.ID, created.ID)
	assert.Equal(t, "Cirugía", created.SpecialtyName)
	assert.Nil(t, created.ImportSequence)
}

func TestGetPersonnelByID(t *testing.T) {
	r := newPersonnelRouter(&stubPersonnelService{}, 1<<20)

	assert.Equal(t, http.StatusBadRequest, perform(r, httptest.NewRequest(http.MethodGet, "/personnel/abc", nil)).Code)
	assert.Equal(t, http.StatusNotFound, perform(r, httptest.NewRequest(http.MethodGet, "/personnel/7", nil)).Code)
}

func TestImportPersonnel(t *testing.T) {
	t.Run("forwards upload and dry run", func(t *testing.T) {
		svc := &stubPersonnelService{}
		w := perform(newPersonnelRouter(svc, 1<<20), uploadRequest(t, "/personnel/import?dryRun=true", []byte("xlsx-bytes")))
		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, svc.gotDryRun)
		assert.Equal(t, []byte("xlsx-bytes"), svc.gotUpload)
		assert.Equal(t, 2, decode[dto.BatchResult](t, w).Created)
	})

	t.Run("missing file", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/personnel/import", strings.NewReader(""))
		w := perform(newPersonnelRouter(&stubPersonnelService{}, 1<<20), req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("too large", func(t *testing.T) {
		w := perform(newPersonnelRouter(&stubPersonnelService{}, 64), uploadRequest(t, "/personnel/import", bytes.Repeat([]byte("x"), 4096)))
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Equal(t, dto.ErrorCodeUploadTooLarge, errorCode(t, w))
	})

	t.Run("unreadable", func(t *testing.T) {
		svc := &stubPersonnelService{importErr: apperrors.NewCustomError(apperrors.ErrUnreadableSpreadsheet, "spreadsheet could not be read")}
		w := perform(newPersonnelRouter(svc, 1<<20), uploadRequest(t, "/personnel/import", []byte("junk")))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, dto.ErrorCodeUnreadableSpreadsheet, errorCode(t, w))
	})

	t.Run("bad flag", func(t *testing.T) {
		w := perform(newPersonnelRouter(&stubPersonnelService{}, 1<<20), uploadRequest(t, "/personnel/import?dryRun=maybe", []byte("x")))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

type stubInstitutionService struct {
	created *models.Institution
}

func (s *stubInstitutionService) CreateInstitution(_ context.Context, inst *models.Institution) (int64, error) {
	if inst.DestinationCode == "TAKN" {
		return 0, apperrors.ErrDestinationCodeTaken
	}
	inst.ID = 1
	s.created = inst
	return 1, nil
}
func (s *stubInstitutionService) GetInstitutionByID(context.Context, int64) (*models.Institution, error) {
	return nil, apperrors.ErrInstitutionNotFound
}
func (s *stubInstitutionService) List(context.Context) ([]models.Institution, error) {
	return []models.Institution{}, nil
}
func (s *stubInstitutionService) UpdateInstitution(context.Context, *models.Institution) error {
	return nil
}
func (s *stubInstitutionService) DeleteInstitution(context.Context, int64) error { return nil }

func TestCreateInstitution(t *testing.T) {
	svc := &stubInstitutionService{}
	ctrl := NewInstitutionController(svc)
	r := gin.New()
	r.POST("/institutions", ctrl.CreateInstitution)
	r.GET("/institutions/:id", ctrl.GetInstitutionByID)

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/institutions", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		return perform(r, req)
	}

	w := post(`{"destinationCode":"hnpb","name":"Hospital Naval","kind":"hospital","category":"I","latitude":-38.9,"longitude":-62.1}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "HNPB", svc.created.DestinationCode)

	w = post(`{"destinationCode":"hnpb","name":"Hospital Naval","kind":"clinic","category":"I"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = post(`{"destinationCode":"TAKN","name":"Hospital Naval","kind":"hospital","category":"I"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	assert.Equal(t, http.StatusNotFound, perform(r, httptest.NewRequest(http.MethodGet, "/institutions/3", nil)).Code)
}

type stubLookupService struct {
	opts *dto.FilterOptions
}

func (s *stubLookupService) List(_ context.Context, kind models.LookupKind) ([]models.Lookup, error) {
	if kind == models.LookupSpecialty {
		return s.opts.Specialties, nil
	}
	return s.opts.PersonnelTypes, nil
}
func (s *stubLookupService) Create(_ context.Context, _ models.LookupKind, l *models.Lookup) (int64, error) {
	l.ID = 5
	return 5, nil
}
func (s *stubLookupService) Update(context.Context, models.LookupKind, *models.Lookup) error {
	return nil
}
func (s *stubLookupService) Delete(context.Context, models.LookupKind, int64) error {
	return apperrors.ErrLookupNotFound
}
func (s *stubLookupService) FilterOptions(context.Context) *dto.FilterOptions { return s.opts }

type stubMapService struct {
	got roster.MarkerFilter
}

func (s *stubMapService) Markers(_ context.Context, f roster.MarkerFilter) ([]roster.Marker, error) {
	s.got = f
	return []roster.Marker{}, nil
}

type stubStatsService struct{}

func (stubStatsService) Distribution(context.Context) (roster.Distribution, error) {
	return roster.Distribution{TotalPersonnel: 4}, nil
}

func TestLookupRoutes(t *testing.T) {
	svc := &stubLookupService{opts: &dto.FilterOptions{Specialties: []models.Lookup{{ID: 1, Name: "Cardiología"}}}}
	ctrl := NewLookupController(svc, models.LookupSpecialty, "Specialty")
	r := gin.New()
	r.GET("/specialties", ctrl.List)
	r.POST("/specialties", ctrl.Create)
	r.DELETE("/specialties/:id", ctrl.Delete)

	w := perform(r, httptest.NewRequest(http.MethodGet, "/specialties", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Lookup](t, w), 1)

	req := httptest.NewRequest(http.MethodPost, "/specialties", strings.NewReader(`{"name":"Pediatría","color":"#ff8800"}`))
	req.Header.Set("Content-Type", "application/json")
	assert.Equal(t, http.StatusCreated, perform(r, req).Code)

	req = httptest.NewRequest(http.MethodPost, "/specialties", strings.NewReader(`{"name":"Pediatría","color":"orange"}`))
	req.Header.Set("Content-Type", "application/json")
	assert.Equal(t, http.StatusBadRequest, perform(r, req).Code)

	assert.Equal(t, http.StatusNotFound, perform(r, httptest.NewRequest(http.MethodDelete, "/specialties/9", nil)).Code)
}

func TestDashboardRoutes(t *testing.T) {
	lookups := &stubLookupService{opts: &dto.FilterOptions{
		PersonnelTypes: []models.Lookup{},
		Specialties:    []models.Lookup{},
		Warnings:       []string{"specialties unavailable"},
	}}
	maps := &stubMapService{}
	ctrl := NewDashboardController(lookups, maps, stubStatsService{})
	r := gin.New()
	r.GET("/filter-options", ctrl.GetFilterOptions)
	r.GET("/map/markers", ctrl.GetMarkers)
	r.GET("/stats/distribution", ctrl.GetDistribution)

	w := perform(r, httptest.NewRequest(http.MethodGet, "/filter-options", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"specialties unavailable"}, decode[dto.FilterOptions](t, w).Warnings)

	w = perform(r, httptest.NewRequest(http.MethodGet, "/map/markers?institutionKind=hospital,infirmary&personnelKind=civilian&specialtyId=3&specialtyId=4", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, roster.MarkerFilter{
		InstitutionKinds: []models.InstitutionKind{models.InstitutionHospital, models.InstitutionInfirmary},
		PersonnelKinds:   []models.PersonnelKind{models.KindCivilian},
		SpecialtyIDs:     []int64{3, 4},
	}, maps.got)

	assert.Equal(t, http.StatusBadRequest, perform(r, httptest.NewRequest(http.MethodGet, "/map/markers?institutionKind=base", nil)).Code)
	assert.Equal(t, http.StatusBadRequest, perform(r, httptest.NewRequest(http.MethodGet, "/map/markers?specialtyId=x", nil)).Code)

	w = perform(r, httptest.NewRequest(http.MethodGet, "/stats/distribution", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 4, decode[roster.Distribution](t, w).TotalPersonnel)
}
