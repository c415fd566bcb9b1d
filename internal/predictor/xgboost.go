// Getaround - Rental Analytics and Pricing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/getaround

package predictor

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Objectives whose raw margin is the prediction.
var identityObjectives = map[string]bool{
	"reg:squarederror":      true,
	"reg:squaredlogerror":   true,
	"reg:absoluteerror":     true,
	"reg:pseudohubererror":  true,
	"reg:quantileerror":     true,
	"reg:linear":            true,
	"reg:squarederror_mean": true,
}

// Objectives with a log link: margin = log(base_score) + sum(leaves).
var logObjectives = map[string]bool{
	"reg:gamma":     true,
	"reg:tweedie":   true,
	"count:poisson": true,
}

// XGBoostModel is a gradient boosted tree ensemble read from the JSON format
// written by Booster.save_model.
type XGBoostModel struct {
	objective    string
	baseMargin   float64
	numFeature   int
	featureNames []string
	trees        []xgbTree
}

type xgbTree struct {
	left      []int
	right     []int
	split     []int
	cond      []float64
	defLeft   []bool
	numNodes  int
	iteration int
}

// JSON layout of the parts of the model file used for inference.
type xgbDocument struct {
	Learner struct {
		Attributes      map[string]string `json:"attributes"`
		FeatureNames    []string          `json:"feature_names"`
		GradientBooster struct {
			Name  string `json:"name"`
			Model struct {
				Params struct {
					NumTrees        string `json:"num_trees"`
					NumParallelTree string `json:"num_parallel_tree"`
				} `json:"gbtree_model_param"`
				TreeInfo []int           `json:"tree_info"`
				Trees    []xgbTreeDocument `json:"trees"`
			} `json:"model"`
		} `json:"gradient_booster"`
		ModelParam struct {
			BaseScore  string `json:"base_score"`
			NumFeature string `json:"num_feature"`
			NumClass   string `json:"num_class"`
			NumTarget  string `json:"num_target"`
		} `json:"learner_model_param"`
		Objective struct {
			Name string `json:"name"`
		} `json:"objective"`
	} `json:"learner"`
}

type xgbTreeDocument struct {
	LeftChildren    []int     `json:"left_children"`
	RightChildren   []int     `json:"right_children"`
	SplitIndices    []int     `json:"split_indices"`
	SplitConditions []float64 `json:"split_conditions"`
	DefaultLeft     flagList  `json:"default_left"`
}

// flagList accepts both [0, 1] and [false, true].
type flagList []bool

func (f *flagList) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out := make([]bool, len(raw))
	for i, r := range raw {
		switch string(bytes.TrimSpace(r)) {
		case "1", "true":
			out[i] = true
		case "0", "false":
		default:
			return fmt.Errorf("invalid default_left value %s", r)
		}
	}
	*f = out
	return nil
}

// LoadXGBoost reads a model.json file.
func LoadXGBoost(path string) (*XGBoostModel, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	return ParseXGBoost(b)
}

// ParseXGBoost decodes a JSON model document.
func ParseXGBoost(b []byte) (*XGBoostModel, error) {
	var doc xgbDocument
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidModel, err)
	}
	l := doc.Learner
	if name := l.GradientBooster.Name; name != "gbtree" {
		return nil, fmt.Errorf("%w: booster %q is not supported", ErrInvalidModel, name)
	}
	if n := atoiDefault(l.ModelParam.NumClass, 0); n > 1 {
		return nil, fmt.Errorf("%w: multi-class models are not supported", ErrInvalidModel)
	}
	if n := atoiDefault(l.ModelParam.NumTarget, 1); n > 1 {
		return nil, fmt.Errorf("%w: multi-target models are not supported", ErrInvalidModel)
	}

	objective := l.Objective.Name
	if !identityObjectives[objective] && !logObjectives[objective] {
		return nil, fmt.Errorf("%w: objective %q is not supported", ErrInvalidModel, objective)
	}

	base, err := parseBaseScore(l.ModelParam.BaseScore)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidModel, err)
	}
	margin := base
	if logObjectives[objective] {
		if base <= 0 {
			return nil, fmt.Errorf("%w: base_score %v must be positive for %s", ErrInvalidModel, base, objective)
		}
		margin = math.Log(base)
	}

	m := &XGBoostModel{
		objective:    objective,
		baseMargin:   margin,
		numFeature:   atoiDefault(l.ModelParam.NumFeature, 0),
		featureNames: l.FeatureNames,
	}

	parallel := atoiDefault(l.GradientBooster.Model.Params.NumParallelTree, 1)
	if parallel < 1 {
		parallel = 1
	}
	limit := len(l.GradientBooster.Model.Trees)
	if s, ok := l.Attributes["best_iteration"]; ok {
		best, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("%w: best_iteration %q", ErrInvalidModel, s)
		}
		limit = min(limit, (best+1)*parallel)
	}

	for i, td := range l.GradientBooster.Model.Trees[:limit] {
		t, err := buildTree(td, m.numFeature)
		if err != nil {
			return nil, fmt.Errorf("%w: tree %d: %w", ErrInvalidModel, i, err)
		}
		t.iteration = i / parallel
		m.trees = append(m.trees, t)
	}
	if len(m.trees) == 0 {
		return nil, fmt.Errorf("%w: model has no trees", ErrInvalidModel)
	}
	return m, nil
}

func buildTree(td xgbTreeDocument, numFeature int) (xgbTree, error) {
	n := len(td.LeftChildren)
	if n == 0 {
		return xgbTree{}, fmt.Errorf("empty tree")
	}
	if len(td.RightChildren) != n || len(td.SplitIndices) != n || len(td.SplitConditions) != n {
		return xgbTree{}, fmt.Errorf("node arrays have different lengths")
	}
	defLeft := []bool(td.DefaultLeft)
	if len(defLeft) == 0 {
		defLeft = make([]bool, n)
	} else if len(defLeft) != n {
		return xgbTree{}, fmt.Errorf("default_left has %d entries for %d nodes", len(defLeft), n)
	}
	for i := 0; i < n; i++ {
		l, r := td.LeftChildren[i], td.RightChildren[i]
		if l == -1 {
			continue
		}
		if l <= i || r <= i || l >= n || r >= n {
			return xgbTree{}, fmt.Errorf("node %d has invalid children %d/%d", i, l, r)
		}
		if numFeature > 0 && td.SplitIndices[i] >= numFeature {
			return xgbTree{}, fmt.Errorf("node %d splits on feature %d of %d", i, td.SplitIndices[i], numFeature)
		}
	}
	return xgbTree{
		left:     td.LeftChildren,
		right:    td.RightChildren,
		split:    td.SplitIndices,
		cond:     td.SplitConditions,
		defLeft:  defLeft,
		numNodes: n,
	}, nil
}

// leaf walks the tree. NaN inputs follow the default direction. Inputs and
// thresholds are compared as float32, as xgboost stores them.
func (t *xgbTree) leaf(x []float64) float32 {
	i := 0
	for t.left[i] != -1 {
		v := math.NaN()
		if idx := t.split[i]; idx < len(x) {
			v = x[idx]
		}
		switch {
		case math.IsNaN(v):
			if t.defLeft[i] {
				i = t.left[i]
			} else {
				i = t.right[i]
			}
		case float32(v) < float32(t.cond[i]):
			i = t.left[i]
		default:
			i = t.right[i]
		}
	}
	return float32(t.cond[i])
}

// NumFeatures implements Model.
func (m *XGBoostModel) NumFeatures() int { return m.numFeature }

// FeatureNames implements Model.
func (m *XGBoostModel) FeatureNames() []string { return m.featureNames }

// PredictVector implements Model.
func (m *XGBoostModel) PredictVector(x []float64) (float64, error) {
	margin := float32(m.baseMargin)
	for i := range m.trees {
		margin += m.trees[i].leaf(x)
	}
	if logObjectives[m.objective] {
		return math.Exp(float64(margin)), nil
	}
	return float64(margin), nil
}

// parseBaseScore accepts "5E-1" and the vector form "[5E-1]".
func parseBaseScore(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0.5, nil
	}
	s = strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
	if i := strings.IndexByte(s, ','); i >= 0 {
		s = s[:i]
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("base_score %q: %w", s, err)
	}
	return v, nil
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
