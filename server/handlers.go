package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pbanos/sapling"
	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/dataset/csv"
	"github.com/pbanos/sapling/feature"
	"github.com/pbanos/sapling/store"
	"github.com/pbanos/sapling/tree"
	treejson "github.com/pbanos/sapling/tree/json"
)

const (
	// AlgorithmHybrid splits numeric features on thresholds and categorical
	// ones on their values
	AlgorithmHybrid = "hybrid"
	// AlgorithmID3 splits every feature on its values
	AlgorithmID3 = "id3"
)

// requestError is an error caused by the request, answered with its status
type requestError struct {
	status int
	err    error
}

func (re *requestError) Error() string {
	return re.err.Error()
}

func badRequest(format string, a ...interface{}) error {
	return &requestError{http.StatusBadRequest, fmt.Errorf(format, a...)}
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	var re *requestError
	switch {
	case errors.As(err, &re):
		s.writeError(w, re.status, re.err)
	case errors.Is(err, store.ErrNotFound):
		s.writeError(w, http.StatusNotFound, err)
	case errors.Is(err, context.DeadlineExceeded):
		s.writeError(w, http.StatusServiceUnavailable, err)
	default:
		s.writeError(w, http.StatusInternalServerError, err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	t, err := s.uploadedTable(w, r)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, dataset.Summarize(t, dataset.DefaultSummarySampleSize))
}

func (s *Server) handleCreateDataset(w http.ResponseWriter, r *http.Request) {
	t, err := s.uploadedTable(w, r)
	if err != nil {
		s.fail(w, err)
		return
	}
	id, err := s.store.Create(r.Context(), t)
	if err != nil {
		s.fail(w, fmt.Errorf("storing dataset: %v", err))
		return
	}
	s.logger.Info("server: dataset stored", "id", id, "rows", t.Len(), "columns", len(t.Headers))
	s.writeJSON(w, http.StatusCreated, map[string]interface{}{
		"id":      id,
		"preview": dataset.Summarize(t, dataset.DefaultSummarySampleSize),
	})
}

func (s *Server) handleGetDataset(w http.ResponseWriter, r *http.Request) {
	t, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, dataset.Summarize(t, dataset.DefaultSummarySampleSize))
}

func (s *Server) handleDeleteDataset(w http.ResponseWriter, r *http.Request) {
	err := s.store.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type growRequest struct {
	target    string
	algorithm string
	cfg       sapling.Config
}

func (s *Server) handleDecisionTree(w http.ResponseWriter, r *http.Request) {
	t, err := s.requestTable(w, r)
	if err != nil {
		s.fail(w, err)
		return
	}
	req, err := s.parseGrowRequest(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	if t.Index(req.target) < 0 {
		s.fail(w, badRequest("target column %q not found", req.target))
		return
	}
	features := feature.Without(feature.Infer(t), req.target)
	if req.algorithm == AlgorithmID3 {
		features = feature.AsCategorical(features)
	}
	d, err := dataset.FromTable(t, req.target, features)
	if err != nil {
		s.fail(w, badRequest("reading dataset: %v", err))
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.BuildTimeout)
	defer cancel()
	var model *sapling.Model
	err = s.pool.Do(ctx, func(ctx context.Context) error {
		start := time.Now()
		var err error
		model, err = sapling.Train(d, req.target, req.cfg)
		s.metrics.growDuration.Observe(time.Since(start).Seconds())
		return err
	})
	if err != nil {
		s.fail(w, fmt.Errorf("growing tree: %w", err))
		return
	}
	s.metrics.treesGrown.WithLabelValues(req.algorithm).Inc()
	s.metrics.treeHeight.Observe(float64(model.Tree.Height()))
	s.logger.Info("server: tree grown",
		"target", req.target,
		"algorithm", req.algorithm,
		"samples", d.Len(),
		"height", model.Tree.Height(),
		"leaves", model.Tree.Leaves(),
		"accuracy", model.Accuracy,
	)
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"tree":           treejson.Encode(model.Tree.Root),
		"accuracy_train": model.Accuracy,
		"target":         req.target,
		"feature_types":  model.FeatureTypes,
	})
}

func (s *Server) parseGrowRequest(r *http.Request) (*growRequest, error) {
	req := &growRequest{
		target:    strings.TrimSpace(r.FormValue("target")),
		algorithm: strings.ToLower(strings.TrimSpace(r.FormValue("algorithm"))),
		cfg: sapling.Config{
			MaxDepth:        s.cfg.DefaultMaxDepth,
			MinSamplesSplit: sapling.DefaultMinSamplesSplit,
		},
	}
	if req.target == "" {
		return nil, badRequest("target is required")
	}
	switch req.algorithm {
	case "":
		req.algorithm = AlgorithmHybrid
	case AlgorithmHybrid, AlgorithmID3:
	default:
		return nil, badRequest("unknown algorithm %q", req.algorithm)
	}
	if v := strings.TrimSpace(r.FormValue("max_depth")); v != "" {
		depth, err := strconv.Atoi(v)
		if err != nil || depth < 0 {
			return nil, badRequest("max_depth must be a non-negative integer, got %q", v)
		}
		if depth > s.cfg.MaxDepthLimit {
			depth = s.cfg.MaxDepthLimit
		}
		req.cfg.MaxDepth = depth
	}
	if v := strings.TrimSpace(r.FormValue("min_samples_split")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, badRequest("min_samples_split must be a positive integer, got %q", v)
		}
		req.cfg.MinSamplesSplit = n
	}
	return req, nil
}

type predictRequest struct {
	Tree   interface{}              `json:"tree"`
	Rows   []map[string]interface{} `json:"rows"`
	Unseen string                   `json:"unseen"`
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	req := &predictRequest{}
	err := json.NewDecoder(body).Decode(req)
	if err != nil {
		s.fail(w, badRequest("parsing request: %v", err))
		return
	}
	if req.Tree == nil {
		s.fail(w, badRequest("tree is required"))
		return
	}
	root, err := treejson.Decode(req.Tree)
	if err != nil {
		s.fail(w, badRequest("decoding tree: %v", err))
		return
	}
	policy, err := tree.ParseUnseenPolicy(req.Unseen)
	if err != nil {
		s.fail(w, badRequest("%v", err))
		return
	}
	t := tree.New(root, "")
	predictions := make([]interface{}, len(req.Rows))
	for i, row := range req.Rows {
		p, err := t.PredictWithPolicy(dataset.NewSample(row), policy)
		if err == tree.ErrUndetermined {
			s.metrics.predictions.WithLabelValues("undetermined").Inc()
			continue
		}
		if err != nil {
			s.fail(w, fmt.Errorf("predicting row %d: %v", i, err))
			return
		}
		s.metrics.predictions.WithLabelValues("predicted").Inc()
		predictions[i] = p
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"predictions": predictions})
}

/*
requestTable returns the table uploaded in the request's file field or, when
there is none, the stored table named by its dataset_id field.
*/
func (s *Server) requestTable(w http.ResponseWriter, r *http.Request) (*dataset.Table, error) {
	err := s.parseForm(w, r)
	if err != nil {
		return nil, err
	}
	if r.MultipartForm != nil && len(r.MultipartForm.File["file"]) > 0 {
		return s.formFileTable(r)
	}
	id := strings.TrimSpace(r.FormValue("dataset_id"))
	if id == "" {
		return nil, badRequest("a file or a dataset_id is required")
	}
	t, err := s.store.Get(r.Context(), id)
	if err != nil {
		return nil, fmt.Errorf("retrieving dataset %s: %w", id, err)
	}
	return t, nil
}

func (s *Server) uploadedTable(w http.ResponseWriter, r *http.Request) (*dataset.Table, error) {
	err := s.parseForm(w, r)
	if err != nil {
		return nil, err
	}
	return s.formFileTable(r)
}

func (s *Server) parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	err := r.ParseMultipartForm(s.cfg.MaxUploadBytes)
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return badRequest("parsing form: %v", err)
	}
	if err != nil {
		err = r.ParseForm()
		if err != nil {
			return badRequest("parsing form: %v", err)
		}
	}
	return nil
}

func (s *Server) formFileTable(r *http.Request) (*dataset.Table, error) {
	f, header, err := r.FormFile("file")
	if err != nil {
		return nil, badRequest("reading file field: %v", err)
	}
	defer f.Close()
	t, err := csv.ReadTable(f)
	if err != nil {
		return nil, badRequest("parsing %s: %v", header.Filename, err)
	}
	return t, nil
}
