// SPDX-License-Identifier: MIT

package errbudget_test

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/katalvlaran/lvprune/errbudget"
)

// NodeSuite groups the prune-decision tests for Node.
type NodeSuite struct {
	suite.Suite
}

// relative builds a Relative criterion with the given epsilon.
func (s *NodeSuite) relative(eps float64, opts ...errbudget.Option) *errbudget.Criterion {
	c, err := errbudget.NewCriterion(errbudget.Relative, errbudget.Params{Epsilon: eps}, opts...)
	s.Require().NoError(err)

	return c
}

// node returns a configured node with count live queries.
func (s *NodeSuite) node(c *errbudget.Criterion, count int) *errbudget.Node {
	n, err := errbudget.NewNode(c, count)
	s.Require().NoError(err)

	return n
}

// requireKind asserts err is an *InvariantError of the given kind.
func (s *NodeSuite) requireKind(err error, kind errbudget.InvariantKind) {
	s.Require().Error(err)
	s.Require().True(errors.Is(err, errbudget.ErrInvariant), "must match ErrInvariant: %v", err)
	var ie *errbudget.InvariantError
	s.Require().True(errors.As(err, &ie))
	s.Require().Equal(kind, ie.Kind, "got %s", ie.Kind)
}

// TestNoPruneWhenAllowedBelowHalfWidth: count=10, ref=4 ⇒ allowed=0.032 ≤ u=0.1.
func (s *NodeSuite) TestNoPruneWhenAllowedBelowHalfWidth() {
	n := s.node(s.relative(0.1), 10)

	ok, err := n.CanPrune(1.0, 0.8, 4)
	s.Require().NoError(err)
	s.Require().False(ok)
	s.Require().Equal(10, n.QueryCount())
	s.Require().Equal(0.1, n.Budget())
}

// TestPruneRejectedOnCountUnderflow: count=2, ref=4 ⇒ allowed=0.16 > u, but 2−4 < 0.
func (s *NodeSuite) TestPruneRejectedOnCountUnderflow() {
	n := s.node(s.relative(0.1), 2)

	ok, err := n.CanPrune(1.0, 0.8, 4)
	s.False(ok)
	s.requireKind(err, errbudget.QueryCountUnderflow)
	s.Require().Equal(2, n.QueryCount(), "rejected debit leaves the node untouched")
	s.Require().Equal(0.1, n.Budget())
}

// TestPruneDebitsBudgetAndCount: count=8, ref=4, ε=0.4 ⇒ allowed=0.16 > u=0.1.
func (s *NodeSuite) TestPruneDebitsBudgetAndCount() {
	n := s.node(s.relative(0.4), 8)

	ok, err := n.CanPrune(1.0, 0.8, 4)
	s.Require().NoError(err)
	s.Require().True(ok)
	s.Require().Equal(4, n.QueryCount())
	s.Require().InDelta(0.3, n.Budget(), 1e-12)
}

func (s *NodeSuite) TestInitInternalIgnoresChildren() {
	c := s.relative(0.1)
	left, right := s.node(c, 3), s.node(c, 4)

	var parent errbudget.Node
	s.Require().NoError(parent.Configure(c))
	parent.InitInternal(11, left, right)
	s.Require().Equal(11, parent.QueryCount(), "count comes from the range, not left+right")
	s.Require().Equal(3, left.QueryCount())
	s.Require().Equal(4, right.QueryCount())
}

func (s *NodeSuite) TestConfigureStartingBudget() {
	cases := []struct {
		v    errbudget.Variant
		want float64
	}{
		{errbudget.Absolute, 0.25},
		{errbudget.Relative, 0.25},
		{errbudget.Hybrid, 0.25},
		{errbudget.Exponential, 0},
		{errbudget.Gaussian, 0},
	}
	for _, tc := range cases {
		c, err := errbudget.NewCriterion(tc.v, errbudget.Params{Epsilon: 0.25, Steepness: 1, MaxError: 0.3, MinError: 0.02})
		s.Require().NoError(err)
		var n errbudget.Node
		s.Require().NoError(n.Configure(c))
		s.Require().Equal(tc.want, n.Budget(), tc.v.String())
		s.Require().Equal(tc.want, c.InitialBudget())
	}
}

func (s *NodeSuite) TestConfigureNil() {
	var n errbudget.Node
	s.Require().ErrorIs(n.Configure(nil), errbudget.ErrNilCriterion)
	s.Require().ErrorIs(n.Configure(nil), errbudget.ErrConfiguration)

	_, err := n.CanPrune(1, 0.5, 1)
	s.Require().ErrorIs(err, errbudget.ErrNilCriterion)
}

func (s *NodeSuite) TestInvertedBounds() {
	n := s.node(s.relative(0.1), 10)
	ok, err := n.CanPrune(0.5, 1.0, 1)
	s.False(ok)
	s.requireKind(err, errbudget.InvertedBounds)
}

func (s *NodeSuite) TestNaNBounds() {
	n := s.node(s.relative(0.1), 10)
	_, err := n.CanPrune(math.NaN(), 1.0, 1)
	s.requireKind(err, errbudget.NaNBounds)
}

func (s *NodeSuite) TestZeroQueryCount() {
	n := s.node(s.relative(0.1), 0)
	_, err := n.CanPrune(1.0, 0.9, 1)
	s.requireKind(err, errbudget.ZeroQueryCount)
}

func (s *NodeSuite) TestBudgetMayGoNegative() {
	// Exponential starts at budget 0, so the first prune overdraws it.
	c, err := errbudget.NewCriterion(errbudget.Exponential,
		errbudget.Params{MaxError: 0, Steepness: 1, MinError: 0.5})
	s.Require().NoError(err)
	n := s.node(c, 10)

	ok, err := n.CanPrune(1.0, 0.0, 10) // allowed = 0 ⇒ no prune
	s.Require().NoError(err)
	s.Require().False(ok)

	s.Require().NoError(n.SetQueryCount(1))
	ok, err = n.CanPrune(1.2, 1.0, 1) // u=0.1 < 1·0.5·1/1
	s.Require().NoError(err)
	s.Require().True(ok)
	s.Require().InDelta(-0.1, n.Budget(), 1e-12, "no floor on the budget by default")
	s.Require().Equal(0, n.QueryCount())
}

func (s *NodeSuite) TestNegativeTolerance() {
	c, err := errbudget.NewCriterion(errbudget.Gaussian,
		errbudget.Params{MaxError: 0, Steepness: 1, MinError: 0.1})
	s.Require().NoError(err)
	n := s.node(c, 1)

	ok, err := n.CanPrune(10.0, 9.0, 1) // u=0.5 < 9·0.1·1/1 ⇒ budget −0.5
	s.Require().NoError(err)
	s.Require().True(ok)
	s.Require().InDelta(-0.5, n.Budget(), 1e-12)

	s.Require().NoError(n.SetQueryCount(1))
	ok, err = n.CanPrune(10.0, 9.0, 1) // tolerance = 0.1 − 0.5 < 0
	s.False(ok)
	s.requireKind(err, errbudget.NegativeTolerance)
	s.Require().Equal(1, n.QueryCount())
}

func (s *NodeSuite) TestStrictBudget() {
	c, err := errbudget.NewCriterion(errbudget.Exponential,
		errbudget.Params{MaxError: 0, Steepness: 1, MinError: 0.5}, errbudget.WithStrictBudget())
	s.Require().NoError(err)
	n := s.node(c, 1)

	ok, err := n.CanPrune(1.2, 1.0, 1) // would prune, but budget 0 − 0.1 < 0
	s.False(ok)
	s.requireKind(err, errbudget.BudgetOverdraw)
	s.Require().Equal(1, n.QueryCount())
	s.Require().Equal(0.0, n.Budget())
}

func (s *NodeSuite) TestAssertionsOff() {
	n := s.node(s.relative(0.1, errbudget.WithAssertions(false)), 10)

	ok, err := n.CanPrune(0.5, 1.0, 1) // inverted: u < 0 < allowed ⇒ prunes silently
	s.Require().NoError(err)
	s.Require().True(ok)

	// The state guards stay on.
	s.Require().NoError(n.SetQueryCount(0))
	_, err = n.CanPrune(1.0, 0.9, 1)
	s.requireKind(err, errbudget.ZeroQueryCount)
}

func (s *NodeSuite) TestSetQueryCount() {
	n := s.node(s.relative(0.1), 3)
	s.Require().NoError(n.SetQueryCount(7))
	s.Require().Equal(7, n.QueryCount())

	s.requireKind(n.SetQueryCount(-1), errbudget.NegativeQueryCount)
	s.Require().Equal(7, n.QueryCount())
}

func (s *NodeSuite) TestAbsoluteZeroLowerNeverPrunes() {
	c, err := errbudget.NewCriterion(errbudget.Absolute, errbudget.Params{Epsilon: 0})
	s.Require().NoError(err)
	n := s.node(c, 4)

	ok, err := n.CanPrune(0, 0, 1) // tolerance 0/0 = NaN ⇒ allowed NaN ⇒ keep exact
	s.Require().NoError(err)
	s.Require().False(ok)
	s.Require().Equal(4, n.QueryCount())
}

// TestBudgetMonotonicity drives a random valid call sequence and checks that
// count and budget never grow, the count never goes negative, and rejected
// calls change nothing.
func (s *NodeSuite) TestBudgetMonotonicity() {
	rng := rand.New(rand.NewSource(7))
	for _, v := range []errbudget.Variant{errbudget.Absolute, errbudget.Relative, errbudget.Hybrid} {
		c, err := errbudget.NewCriterion(v, errbudget.Params{Epsilon: 0.5, Steepness: 0.3})
		s.Require().NoError(err)
		n := s.node(c, 1000)

		for i := 0; i < 500 && n.QueryCount() > 0; i++ {
			lower := rng.Float64()
			upper := lower + rng.Float64()*0.05
			ref := 1 + rng.Intn(n.QueryCount())
			count, budget := n.QueryCount(), n.Budget()

			ok, err := n.CanPrune(upper, lower, ref)
			s.Require().NoError(err)
			if ok {
				s.Require().Equal(count-ref, n.QueryCount())
				s.Require().LessOrEqual(n.Budget(), budget)
			} else {
				s.Require().Equal(count, n.QueryCount())
				s.Require().Equal(budget, n.Budget())
			}
			s.Require().GreaterOrEqual(n.QueryCount(), 0)
		}
	}
}

func (s *NodeSuite) TestLogsDecisions() {
	core, logs := observer.New(zap.DebugLevel)
	n := s.node(s.relative(0.4, errbudget.WithLogger(zap.New(core))), 8)

	_, err := n.CanPrune(1.0, 0.8, 4)
	s.Require().NoError(err)
	_, err = n.CanPrune(1.0, 0.8, 8)
	s.requireKind(err, errbudget.QueryCountUnderflow)

	s.Require().Equal(1, logs.FilterMessage("errbudget: prune decision").Len())
	s.Require().Equal(1, logs.FilterMessage("errbudget: invariant violation").Len())
}

func TestNodeSuite(t *testing.T) {
	suite.Run(t, new(NodeSuite))
}

func TestWithLoggerNilPanics(t *testing.T) {
	require.Panics(t, func() { errbudget.WithLogger(nil) })
}
