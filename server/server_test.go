package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uyouii/percentile-chart/model"
	"github.com/uyouii/percentile-chart/overlay"
	"github.com/uyouii/percentile-chart/state"
	"github.com/uyouii/percentile-chart/svgchart"
)

func newServer(t *testing.T, initial model.Percentile) (*Server, *state.Store) {
	t.Helper()
	renderer, err := overlay.NewRenderer(model.DefaultControlPoints(), overlay.DefaultOptions())
	require.NoError(t, err)
	store, err := state.NewStore(initial)
	require.NoError(t, err)
	s := New(context.Background(), renderer, store, svgchart.DefaultFrame())
	t.Cleanup(s.Close)
	return s, store
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, r))
	return rec
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

func TestChartSVG(t *testing.T) {
	s, _ := newServer(t, model.NewPercentile(27))
	h := s.Handler()

	rec := do(t, h, http.MethodGet, "/chart.svg", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "your percentile")

	rec = do(t, h, http.MethodGet, "/chart.svg?percentile=none", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "your percentile")

	assert.Equal(t, 2.0, testutil.ToFloat64(s.renders.WithLabelValues("svg", "ok")))
}

func TestChartHover(t *testing.T) {
	s, _ := newServer(t, model.NoPercentile)
	h := s.Handler()

	rec := do(t, h, http.MethodGet, "/chart.svg?hover=7", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "value: 90")

	m := svgchart.DefaultFrame().Mapper(s.renderer)
	x, y := m.Point(45, 90)
	rec = do(t, h, http.MethodGet, "/chart.svg?mx="+ftoa(x+1)+"&my="+ftoa(y-1), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "value: 90")

	rec = do(t, h, http.MethodGet, "/chart.svg?mx=0&my=0", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "value:")
}

func TestChartBadQuery(t *testing.T) {
	s, _ := newServer(t, model.NoPercentile)
	h := s.Handler()

	for _, target := range []string{
		"/chart.svg?percentile=abc",
		"/chart.svg?percentile=150",
		"/chart.svg?hover=x",
		"/chart.png?mx=1&my=y",
	} {
		rec := do(t, h, http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, h, http.MethodPost, "/chart.svg", "").Code)
}

func TestChartPNG(t *testing.T) {
	s, _ := newServer(t, model.NewPercentile(50))
	rec := do(t, s.Handler(), http.MethodGet, "/chart.png?hover=3", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "\x89PNG"))
}

func TestPercentileEndpoint(t *testing.T) {
	s, store := newServer(t, model.NoPercentile)
	h := s.Handler()

	rec := do(t, h, http.MethodGet, "/percentile", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"percentile": null, "revision": 0}`, rec.Body.String())

	rec = do(t, h, http.MethodPut, "/percentile", `{"percentile": 27}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"percentile": 27, "revision": 1}`, rec.Body.String())
	assert.Equal(t, model.NewPercentile(27), store.Get())
	assert.Equal(t, 27.0, testutil.ToFloat64(s.current))

	rec = do(t, h, http.MethodPut, "/percentile", `{"percentile": 101}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(t, h, http.MethodPut, "/percentile", `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, model.NewPercentile(27), store.Get())

	rec = do(t, h, http.MethodDelete, "/percentile", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"percentile": null, "revision": 2}`, rec.Body.String())
	assert.Equal(t, -1.0, testutil.ToFloat64(s.current))
	assert.Equal(t, 2.0, testutil.ToFloat64(s.updates))

	assert.Equal(t, http.StatusMethodNotAllowed, do(t, h, http.MethodPost, "/percentile", "").Code)
}

func TestIndexAndMetrics(t *testing.T) {
	s, _ := newServer(t, model.NoPercentile)
	h := s.Handler()

	rec := do(t, h, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `src="/chart.svg"`)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/nothing", "").Code)

	do(t, h, http.MethodGet, "/chart.svg", "")
	rec = do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `percentile_chart_renders_total{format="svg",status="ok"} 1`)
	assert.Contains(t, rec.Body.String(), "percentile_chart_percentile -1")
}

func TestPercentileGaugeFollowsConcurrentWrites(t *testing.T) {
	s, store := newServer(t, model.NoPercentile)
	h := s.Handler()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			do(t, h, http.MethodPut, "/percentile", `{"percentile": `+strconv.Itoa(i*5)+`}`)
		}(i)
	}
	wg.Wait()

	v, ok := store.Get().Value()
	require.True(t, ok)
	assert.Equal(t, v, testutil.ToFloat64(s.current))
	assert.Equal(t, 20.0, testutil.ToFloat64(s.updates))
}
