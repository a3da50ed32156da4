package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uyouii/percentile-chart/common"
	"github.com/uyouii/percentile-chart/gochart"
	"github.com/uyouii/percentile-chart/model"
	"github.com/uyouii/percentile-chart/overlay"
	"github.com/uyouii/percentile-chart/state"
	"github.com/uyouii/percentile-chart/svgchart"
	"github.com/uyouii/percentile-chart/utils"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

// Server hosts the chart: it renders the current store percentile on every request and
// exposes the percentile itself over JSON.
type Server struct {
	renderer *overlay.Renderer
	store    *state.Store
	frame    svgchart.Frame
	logger   *zap.Logger

	registry *prometheus.Registry
	renders  *prometheus.CounterVec
	updates  prometheus.Counter
	current  prometheus.Gauge

	cancel func()
}

func New(ctx context.Context, renderer *overlay.Renderer, store *state.Store, frame svgchart.Frame) *Server {
	s := &Server{
		renderer: renderer,
		store:    store,
		frame:    frame,
		logger:   utils.GetLogger(ctx),
		registry: prometheus.NewRegistry(),

		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "percentile_chart_renders_total", Help: "charts rendered",
		}, []string{"format", "status"}),
		updates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "percentile_chart_updates_total", Help: "percentile changes",
		}),
		current: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "percentile_chart_percentile", Help: "current percentile, -1 when none",
		}),
	}
	s.registry.MustRegister(s.renders, s.updates, s.current)

	s.observe(store.Get())
	s.cancel = store.Subscribe(func(p model.Percentile) {
		s.updates.Inc()
		s.observe(p)
		s.logger.Info("percentile changed", zap.Stringer("percentile", p))
	})
	return s
}

func (s *Server) observe(p model.Percentile) {
	if v, ok := p.Value(); ok {
		s.current.Set(v)
		return
	}
	s.current.Set(-1)
}

// Close detaches the server from its store.
func (s *Server) Close() {
	s.cancel()
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/chart.svg", s.handleChart(gochart.SVG))
	mux.HandleFunc("/chart.png", s.handleChart(gochart.PNG))
	mux.HandleFunc("/percentile", s.handlePercentile)
	mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	return mux
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting web server", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleChart(format gochart.Format) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		defer func() {
			if e := recover(); e != nil {
				s.logger.Error("render chart recover panic error!", zap.Any("err", e),
					zap.String("panic info", utils.GetPanicInfo()))
				s.renders.WithLabelValues(string(format), "error").Inc()
				http.Error(w, "render failed", http.StatusInternalServerError)
			}
		}()

		percentile, hover, err := s.parseChartQuery(r)
		if err != nil {
			s.renders.WithLabelValues(string(format), "bad_request").Inc()
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var buf bytes.Buffer
		ctx := utils.WithLogger(r.Context(), s.logger)
		switch format {
		case gochart.SVG:
			err = svgchart.Render(&buf, s.renderer, percentile, hover, s.frame)
		default:
			err = gochart.Render(ctx, &buf, s.renderer, percentile, hover, s.frame.Width, s.frame.Height, format)
		}
		if err != nil {
			s.logger.Error("render chart failed", zap.Error(err), zap.String("format", string(format)),
				zap.Stringer("percentile", percentile), zap.Stringer("hover", hover))
			s.renders.WithLabelValues(string(format), "error").Inc()
			http.Error(w, err.Error(), statusOf(err))
			return
		}

		s.renders.WithLabelValues(string(format), "ok").Inc()
		if format == gochart.SVG {
			w.Header().Set("Content-Type", "image/svg+xml")
		} else {
			w.Header().Set("Content-Type", "image/png")
		}
		w.Header().Set("Cache-Control", "no-store")
		w.Write(buf.Bytes())
	}
}

// parseChartQuery reads the optional percentile override and the hover point, given as an
// index (hover=3) or as a pointer position on the svg frame (mx=120&my=40).
func (s *Server) parseChartQuery(r *http.Request) (model.Percentile, model.HoverState, error) {
	q := r.URL.Query()

	percentile := s.store.Get()
	if v := q.Get("percentile"); v != "" {
		p, err := parsePercentile(v)
		if err != nil {
			return model.NoPercentile, model.NoHover(), err
		}
		percentile = p
	}

	if v := q.Get("hover"); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			return model.NoPercentile, model.NoHover(), fmt.Errorf("hover %q: %w", v, common.ErrorInvalidValue)
		}
		return percentile, model.HoverAt(i), nil
	}

	mx, my := q.Get("mx"), q.Get("my")
	if mx == "" || my == "" {
		return percentile, model.NoHover(), nil
	}
	x, errX := strconv.ParseFloat(mx, 64)
	y, errY := strconv.ParseFloat(my, 64)
	if errX != nil || errY != nil {
		return model.NoPercentile, model.NoHover(), fmt.Errorf("pointer (%q, %q): %w", mx, my, common.ErrorInvalidValue)
	}
	hover := overlay.HitTest(s.renderer.Points(), s.frame.Mapper(s.renderer), x, y, overlay.DefaultHitRadius)
	return percentile, hover, nil
}

func parsePercentile(v string) (model.Percentile, error) {
	if v == "none" || v == "null" {
		return model.NoPercentile, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return model.NoPercentile, fmt.Errorf("percentile %q: %w", v, common.ErrorInvalidPercentile)
	}
	p := model.NewPercentile(f)
	if err := p.Validate(); err != nil {
		return model.NoPercentile, err
	}
	return p, nil
}

func statusOf(err error) int {
	if errors.Is(err, common.ErrorInvalidValue) || errors.Is(err, common.ErrorInvalidPercentile) ||
		errors.Is(err, common.ErrorInvalidControlPoints) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

type percentileBody struct {
	Percentile model.Percentile `json:"percentile"`
	Revision   uint64           `json:"revision"`
}

func (s *Server) handlePercentile(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
	case http.MethodPut:
		var body percentileBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid body: "+err.Error(), http.StatusBadRequest)
			return
		}
		if err := s.store.Set(body.Percentile); err != nil {
			http.Error(w, err.Error(), statusOf(err))
			return
		}
	case http.MethodDelete:
		s.store.Clear()
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, percentileBody{Percentile: s.store.Get(), Revision: s.store.Revision()})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, indexPage, s.frame.Width, s.frame.Height)
}

const indexPage = `<!DOCTYPE html>
<html>
<head><title>percentile distribution</title></head>
<body>
<img id="chart" src="/chart.svg" width="%d" height="%d">
<script>
const img = document.getElementById("chart");
img.addEventListener("mousemove", e => { img.src = "/chart.svg?mx=" + e.offsetX + "&my=" + e.offsetY; });
img.addEventListener("mouseleave", () => { img.src = "/chart.svg"; });
</script>
</body>
</html>
`

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
