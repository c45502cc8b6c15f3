package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"chosenoffset.com/sightline/internal/geojson"
	"chosenoffset.com/sightline/internal/world/scene"
	"chosenoffset.com/sightline/visibility"
)

var errTooManySegments = errors.New("too many segments")

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// decode reads a JSON body of at most MaxBodyBytes into v.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}

// prepare turns the obstacles of a request into sweep-ready segments.
func (s *Server) prepare(req *visibilityRequest) ([]visibility.Segment, error) {
	polygons, err := toPolygons(req.Obstacles)
	if err != nil {
		return nil, err
	}

	segments := visibility.ConvertToSegments(polygons)
	for _, seg := range req.Segments {
		segments = append(segments, visibility.Segment{A: toPoint(seg[0]), B: toPoint(seg[1])})
	}
	if len(segments) > s.cfg.MaxSegments {
		return nil, fmt.Errorf("%w: %d exceeds the limit of %d", errTooManySegments, len(segments), s.cfg.MaxSegments)
	}

	if wantsBreak(req.BreakIntersections) {
		segments = visibility.BreakIntersections(segments)
	}
	return segments, nil
}

// compute runs the sweep for req over segments.
func compute(req *visibilityRequest, segments []visibility.Segment) visibilityResponse {
	observer := toPoint(*req.Observer)

	var polygon visibility.Polygon
	clipped := req.Viewport != nil
	if clipped {
		polygon = visibility.ComputeViewport(observer, segments, toPoint(req.Viewport.Min), toPoint(req.Viewport.Max))
	} else {
		polygon = visibility.Compute(observer, segments)
	}

	return visibilityResponse{
		ID:       req.ID,
		Polygon:  fromPolygon(polygon),
		Vertices: len(polygon),
		Area:     polygon.Area(),
		Segments: len(segments),
		Clipped:  clipped,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"scenes": len(s.scenes),
	})
}

func (s *Server) handleVisibility(w http.ResponseWriter, r *http.Request) {
	var req visibilityRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Observer == nil {
		writeError(w, http.StatusBadRequest, "observer is required")
		return
	}

	segments, err := s.prepare(&req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, compute(&req, segments))
}

func (s *Server) handleSegments(w http.ResponseWriter, r *http.Request) {
	var req segmentsRequest
	if !s.decode(w, r, &req) {
		return
	}

	polygons, err := toPolygons(req.Polygons)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	segments := visibility.ConvertToSegments(polygons)
	if len(segments) > s.cfg.MaxSegments {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("%v: %d exceeds the limit of %d", errTooManySegments, len(segments), s.cfg.MaxSegments))
		return
	}
	if wantsBreak(req.BreakIntersections) {
		segments = visibility.BreakIntersections(segments)
	}

	writeJSON(w, http.StatusOK, segmentsResponse{
		Segments: fromSegments(segments),
		Count:    len(segments),
	})
}

func (s *Server) handleContains(w http.ResponseWriter, r *http.Request) {
	var req containsRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Point == nil {
		writeError(w, http.StatusBadRequest, "point is required")
		return
	}
	polygons, err := toPolygons([][][2]float64{req.Polygon})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, containsResponse{
		Inside: visibility.InPolygon(toPoint(*req.Point), polygons[0]),
	})
}

func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	summaries := make([]sceneSummary, 0, len(s.scenes))
	for _, name := range scene.Names(s.scenes) {
		sc := s.scenes[name]
		_, projErr := sc.Projector()
		summaries = append(summaries, sceneSummary{
			Name:        sc.Name,
			Description: sc.Description,
			Segments:    len(sc.Segments()),
			Geo:         projErr == nil,
			Viewport:    sc.Viewport != nil,
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"scenes": summaries})
}

func (s *Server) lookupScene(w http.ResponseWriter, r *http.Request) (*scene.Scene, bool) {
	name := mux.Vars(r)["name"]
	sc, ok := s.scenes[name]
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown scene %q", name))
	}
	return sc, ok
}

func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.lookupScene(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sc.Document())
}

func (s *Server) handleSceneVisibility(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.lookupScene(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	observer := sc.Observer
	for _, param := range []struct {
		name string
		dst  *float64
	}{
		{"x", &observer.X},
		{"y", &observer.Y},
	} {
		raw := query.Get(param.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid %s: %q", param.name, raw))
			return
		}
		*param.dst = v
	}

	clip := true
	if raw := query.Get("clip"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid clip: %q", raw))
			return
		}
		clip = v
	}

	polygon := sc.Visibility(observer, clip)
	clipped := sc.Clips(observer, clip)

	switch format := query.Get("format"); format {
	case "", "json":
		writeJSON(w, http.StatusOK, visibilityResponse{
			Polygon:  fromPolygon(polygon),
			Vertices: len(polygon),
			Area:     polygon.Area(),
			Segments: len(sc.Segments()),
			Clipped:  clipped,
		})
	case "geojson":
		w.Header().Set("Content-Type", geojson.ContentType)
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(geojson.NewFeature(sc, observer, polygon, clipped))
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown format %q", format))
	}
}
