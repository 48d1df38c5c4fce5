package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/namefreezers/weather-archive-export/internal/repository"
	"github.com/namefreezers/weather-archive-export/internal/weather/types"
)

type MockRepo struct {
	mock.Mock
}

func (m *MockRepo) EnsureSchema(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockRepo) UpsertSeries(ctx context.Context, runID uuid.UUID, series types.DailySeries) error {
	return m.Called(ctx, runID, series).Error(0)
}

func (m *MockRepo) ListByCity(ctx context.Context, city string, from, to time.Time) ([]repository.DailyWeather, error) {
	args := m.Called(ctx, city, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.DailyWeather), args.Error(1)
}

func (m *MockRepo) ListCities(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func newRouter(repo repository.DailyWeatherRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/cities", CitiesHandler(repo))
	r.GET("/api/weather/daily", DailyWeatherHandler(repo))
	return r
}

func do(r http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestDailyWeatherHandler_OK(t *testing.T) {
	repo := new(MockRepo)
	from := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC)
	temp := 41.5
	repo.On("ListByCity", mock.Anything, "San Jose", from, to).
		Return([]repository.DailyWeather{{City: "San Jose", Date: from, Temperature2mMean: &temp}}, nil)

	w := do(newRouter(repo), "/api/weather/daily?city=San+Jose&from=2023-01-01&to=2023-01-31")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		City string `json:"city"`
		Days []struct {
			Temperature2mMean *float64 `json:"temperature_2m_mean"`
		} `json:"days"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "San Jose", body.City)
	require.Len(t, body.Days, 1)
	assert.Equal(t, 41.5, *body.Days[0].Temperature2mMean)
	repo.AssertExpectations(t)
}

func TestDailyWeatherHandler_BadRequests(t *testing.T) {
	r := newRouter(new(MockRepo))
	for _, target := range []string{
		"/api/weather/daily",
		"/api/weather/daily?city=Dallas&from=01/01/2023",
		"/api/weather/daily?city=Dallas&to=tomorrow",
		"/api/weather/daily?city=Dallas&from=2023-02-01&to=2023-01-01",
	} {
		assert.Equal(t, http.StatusBadRequest, do(r, target).Code, target)
	}
}

func TestDailyWeatherHandler_NotFound(t *testing.T) {
	repo := new(MockRepo)
	repo.On("ListByCity", mock.Anything, "Atlantis", mock.Anything, mock.Anything).
		Return([]repository.DailyWeather{}, nil)

	assert.Equal(t, http.StatusNotFound, do(newRouter(repo), "/api/weather/daily?city=Atlantis").Code)
}

func TestDailyWeatherHandler_RepoError(t *testing.T) {
	repo := new(MockRepo)
	repo.On("ListByCity", mock.Anything, "Dallas", mock.Anything, mock.Anything).
		Return(nil, errors.New("db down"))

	assert.Equal(t, http.StatusInternalServerError, do(newRouter(repo), "/api/weather/daily?city=Dallas").Code)
}

func TestCitiesHandler(t *testing.T) {
	repo := new(MockRepo)
	repo.On("ListCities", mock.Anything).Return([]string{"Chicago", "Houston"}, nil)

	w := do(newRouter(repo), "/api/cities")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"cities":["Chicago","Houston"]}`, w.Body.String())
}

func TestCitiesHandler_Empty(t *testing.T) {
	repo := new(MockRepo)
	repo.On("ListCities", mock.Anything).Return(nil, nil)

	w := do(newRouter(repo), "/api/cities")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"cities":[]}`, w.Body.String())
}
