//-------------------------------------------------------------------------
//
// pgEdge Tourcast
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package forecast

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/pgEdge/pgedge-tourcast/internal/datagen"
)

// ErrNoRows is returned when a model is fitted on an empty matrix.
var ErrNoRows = errors.New("no training rows")

// Params configures gradient-boosted tree fitting.
type Params struct {
	Trees        int     `json:"trees"`
	LearningRate float64 `json:"learning_rate"`
	MaxDepth     int     `json:"max_depth"`
	Subsample    float64 `json:"subsample"`
	ColSample    float64 `json:"colsample"`
	Seed         uint64  `json:"seed"`

	// Bins caps the histogram buckets per feature.
	Bins int `json:"bins"`

	// MinLeaf is the smallest number of rows a leaf may hold.
	MinLeaf int `json:"min_leaf"`

	// Lambda is the L2 penalty on leaf weights.
	Lambda float64 `json:"lambda"`
}

// withDefaults fills unset tuning fields.
func (p Params) withDefaults() Params {
	if p.Bins <= 1 || p.Bins > 256 {
		p.Bins = 64
	}
	if p.MinLeaf < 1 {
		p.MinLeaf = 1
	}
	if p.Lambda <= 0 {
		p.Lambda = 1
	}
	if p.Subsample <= 0 || p.Subsample > 1 {
		p.Subsample = 1
	}
	if p.ColSample <= 0 || p.ColSample > 1 {
		p.ColSample = 1
	}
	return p
}

// Node is a tree node. Leaves carry Value; internal nodes send a row to
// Left when its Feature value is <= Threshold.
type Node struct {
	Feature   int     `json:"f,omitempty"`
	Threshold float64 `json:"t,omitempty"`
	Left      int     `json:"l,omitempty"`
	Right     int     `json:"r,omitempty"`
	Leaf      bool    `json:"leaf,omitempty"`
	Value     float64 `json:"v,omitempty"`
}

// Tree is a regression tree stored as a flat node list rooted at 0.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Eval returns the leaf value reached by row.
func (t Tree) Eval(row []float64) float64 {
	if len(t.Nodes) == 0 {
		return 0
	}
	i := 0
	for !t.Nodes[i].Leaf {
		n := t.Nodes[i]
		if row[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
	return t.Nodes[i].Value
}

// Model is a fitted additive tree ensemble.
type Model struct {
	Base         float64 `json:"base"`
	LearningRate float64 `json:"learning_rate"`
	Features     int     `json:"features"`
	Trees        []Tree  `json:"trees"`
}

// Predict returns the raw model output for row.
func (m *Model) Predict(row []float64) float64 {
	out := m.Base
	for _, t := range m.Trees {
		out += t.Eval(row)
	}
	return out
}

// binned is a column-major bucket index matrix.
type binned struct {
	cuts [][]float64
	bins [][]uint8
}

// cutPoints returns ascending thresholds for one feature. Few distinct
// values get midpoints; otherwise quantiles of the sorted values.
func cutPoints(values []float64, maxBins int) []float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	uniq := sorted[:0:0]
	for i, v := range sorted {
		if i == 0 || v != sorted[i-1] {
			uniq = append(uniq, v)
		}
	}
	if len(uniq) <= 1 {
		return nil
	}

	var cuts []float64
	if len(uniq) <= maxBins {
		for i := 1; i < len(uniq); i++ {
			cuts = append(cuts, (uniq[i-1]+uniq[i])/2)
		}
		return cuts
	}

	for k := 1; k < maxBins; k++ {
		c := sorted[k*len(sorted)/maxBins]
		if c >= uniq[len(uniq)-1] {
			break
		}
		if len(cuts) == 0 || c > cuts[len(cuts)-1] {
			cuts = append(cuts, c)
		}
	}
	return cuts
}

func binMatrix(X [][]float64, features, maxBins int) binned {
	b := binned{
		cuts: make([][]float64, features),
		bins: make([][]uint8, features),
	}
	col := make([]float64, len(X))
	for f := 0; f < features; f++ {
		for i, row := range X {
			col[i] = row[f]
		}
		cuts := cutPoints(col, maxBins)
		b.cuts[f] = cuts
		idx := make([]uint8, len(X))
		for i, v := range col {
			idx[i] = uint8(sort.SearchFloat64s(cuts, v))
		}
		b.bins[f] = idx
	}
	return b
}

// Fit trains a squared-error gradient-boosted ensemble on X and y.
func Fit(X [][]float64, y []float64, p Params) (*Model, error) {
	if len(X) == 0 {
		return nil, ErrNoRows
	}
	if len(X) != len(y) {
		return nil, fmt.Errorf("feature rows (%d) and targets (%d) differ", len(X), len(y))
	}
	features := len(X[0])
	for i, row := range X {
		if len(row) != features {
			return nil, fmt.Errorf("row %d has %d features, expected %d", i, len(row), features)
		}
	}
	p = p.withDefaults()

	var base float64
	for _, v := range y {
		base += v
	}
	base /= float64(len(y))

	m := &Model{Base: base, LearningRate: p.LearningRate, Features: features}
	if features == 0 {
		return m, nil
	}

	b := binMatrix(X, features, p.Bins)
	faker := datagen.NewFakerWithSeed(p.Seed)

	pred := make([]float64, len(y))
	for i := range pred {
		pred[i] = base
	}
	resid := make([]float64, len(y))

	allRows := make([]int, len(X))
	for i := range allRows {
		allRows[i] = i
	}
	allCols := make([]int, features)
	for i := range allCols {
		allCols[i] = i
	}
	nRows := sampleSize(len(X), p.Subsample)
	nCols := sampleSize(features, p.ColSample)

	for t := 0; t < p.Trees; t++ {
		for i := range y {
			resid[i] = y[i] - pred[i]
		}

		rows := allRows
		if nRows < len(allRows) {
			rows = append([]int(nil), allRows...)
			datagen.Shuffle(faker, rows)
			rows = rows[:nRows]
		}
		cols := allCols
		if nCols < len(allCols) {
			cols = append([]int(nil), allCols...)
			datagen.Shuffle(faker, cols)
			cols = cols[:nCols]
			sort.Ints(cols)
		}

		g := grower{b: &b, resid: resid, cols: cols, p: p}
		g.grow(append([]int(nil), rows...), 0)
		tree := Tree{Nodes: g.nodes}
		m.Trees = append(m.Trees, tree)

		for i, row := range X {
			pred[i] += tree.Eval(row)
		}
	}
	return m, nil
}

func sampleSize(n int, frac float64) int {
	k := int(math.Ceil(frac * float64(n)))
	if k < 1 {
		k = 1
	}
	if k > n {
		k = n
	}
	return k
}

type grower struct {
	b     *binned
	resid []float64
	cols  []int
	p     Params
	nodes []Node
}

type split struct {
	feature int
	bin     int
	gain    float64
}

// grow appends the subtree for rows and returns its node index.
func (g *grower) grow(rows []int, depth int) int {
	var sum float64
	for _, i := range rows {
		sum += g.resid[i]
	}

	idx := len(g.nodes)
	g.nodes = append(g.nodes, Node{})

	best, ok := g.bestSplit(rows, sum, depth)
	if !ok {
		g.nodes[idx] = Node{
			Leaf:  true,
			Value: g.p.LearningRate * sum / (float64(len(rows)) + g.p.Lambda),
		}
		return idx
	}

	fb := g.b.bins[best.feature]
	var left, right []int
	for _, i := range rows {
		if int(fb[i]) <= best.bin {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	l := g.grow(left, depth+1)
	r := g.grow(right, depth+1)
	g.nodes[idx] = Node{
		Feature:   best.feature,
		Threshold: g.b.cuts[best.feature][best.bin],
		Left:      l,
		Right:     r,
	}
	return idx
}

func (g *grower) bestSplit(rows []int, sum float64, depth int) (split, bool) {
	if depth >= g.p.MaxDepth || len(rows) < 2*g.p.MinLeaf {
		return split{}, false
	}

	n := float64(len(rows))
	lambda := g.p.Lambda
	parent := sum * sum / (n + lambda)

	best := split{gain: 1e-9}
	found := false

	for _, f := range g.cols {
		cuts := g.b.cuts[f]
		if len(cuts) == 0 {
			continue
		}
		hsum := make([]float64, len(cuts)+1)
		hcnt := make([]int, len(cuts)+1)
		fb := g.b.bins[f]
		for _, i := range rows {
			hsum[fb[i]] += g.resid[i]
			hcnt[fb[i]]++
		}

		var gl float64
		var nl int
		for j := 0; j < len(cuts); j++ {
			gl += hsum[j]
			nl += hcnt[j]
			nr := len(rows) - nl
			if nl < g.p.MinLeaf {
				continue
			}
			if nr < g.p.MinLeaf {
				break
			}
			gr := sum - gl
			gain := gl*gl/(float64(nl)+lambda) + gr*gr/(float64(nr)+lambda) - parent
			if gain > best.gain {
				best = split{feature: f, bin: j, gain: gain}
				found = true
			}
		}
	}
	return best, found
}
