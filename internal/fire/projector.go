// Package fire projects how long a portfolio needs to reach financial
// independence and how likely a withdrawal plan is to survive retirement.
package fire

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

const (
	// MaxProjectionYears caps the deterministic projection when the target
	// is unreachable with the given inputs.
	MaxProjectionYears = 100

	// DecumulationYears is the retirement horizon every simulated path must survive.
	DecumulationYears = 30

	MaxSimulations       = 100000
	MaxAccumulationYears = 100
)

var (
	ErrInvalidWithdrawalRate = errors.New("withdrawal rate must be greater than zero")
	ErrInvalidSimulations    = fmt.Errorf("simulations must be between 1 and %d", MaxSimulations)
	ErrInvalidYears          = fmt.Errorf("years must be between 0 and %d", MaxAccumulationYears)
	ErrInvalidVolatility     = errors.New("volatility cannot be negative")
)

// ProjectionInput holds the deterministic projection parameters. Percent
// fields are whole percentages (4 means 4%).
type ProjectionInput struct {
	AnnualSpending        float64 `json:"annual_spending"`
	WithdrawalRatePercent float64 `json:"withdrawal_rate_percent"`
	CurrentPortfolio      float64 `json:"current_portfolio"`
	AnnualContributions   float64 `json:"annual_contributions"`
	ExpectedReturnPercent float64 `json:"expected_return_percent"`
}

type Projection struct {
	Target           float64 `json:"target"`
	YearsToFI        int     `json:"years_to_fi"`
	ProjectedBalance float64 `json:"projected_balance"`
	Reachable        bool    `json:"reachable"`
}

// MonteCarloInput holds the stochastic parameters. Rates are fractions
// (0.07 means 7%).
type MonteCarloInput struct {
	Initial            float64 `json:"initial"`
	AnnualContribution float64 `json:"annual_contribution"`
	Years              int     `json:"years"`
	MeanReturn         float64 `json:"mean_return"`
	Volatility         float64 `json:"volatility"`
	Inflation          float64 `json:"inflation"`
	AnnualWithdrawal   float64 `json:"annual_withdrawal"`
	Simulations        int     `json:"simulations"`
}

type MonteCarloResult struct {
	SuccessProbability float64 `json:"success_probability"`
	Successes          int     `json:"successes"`
	Simulations        int     `json:"simulations"`
}

// Projector runs projections. The random source is only used by MonteCarlo
// and is not safe for concurrent use, so callers needing parallel runs
// should create one Projector each.
type Projector struct {
	rng *rand.Rand
}

func NewProjector(source rand.Source) *Projector {
	return &Projector{rng: rand.New(source)}
}

// Target returns the portfolio size needed to sustain annualSpending at
// the given withdrawal rate.
func Target(annualSpending, withdrawalRatePercent float64) (float64, error) {
	if withdrawalRatePercent <= 0 {
		return 0, ErrInvalidWithdrawalRate
	}
	return annualSpending / (withdrawalRatePercent / 100), nil
}

// Project compounds the portfolio yearly until it reaches the target or
// MaxProjectionYears elapse.
func (p *Projector) Project(in ProjectionInput) (*Projection, error) {
	target, err := Target(in.AnnualSpending, in.WithdrawalRatePercent)
	if err != nil {
		return nil, err
	}

	r := in.ExpectedReturnPercent / 100
	balance := in.CurrentPortfolio
	years := 0
	for balance < target && years < MaxProjectionYears {
		balance = balance*(1+r) + in.AnnualContributions
		years++
	}

	return &Projection{
		Target:           target,
		YearsToFI:        years,
		ProjectedBalance: balance,
		Reachable:        balance >= target,
	}, nil
}

// MonteCarlo simulates in.Simulations independent paths of an accumulation
// phase followed by a DecumulationYears retirement with inflation-adjusted
// withdrawals. A path fails as soon as its balance drops to zero or below.
func (p *Projector) MonteCarlo(in MonteCarloInput) (*MonteCarloResult, error) {
	if in.Simulations <= 0 || in.Simulations > MaxSimulations {
		return nil, ErrInvalidSimulations
	}
	if in.Years < 0 || in.Years > MaxAccumulationYears {
		return nil, ErrInvalidYears
	}
	if in.Volatility < 0 {
		return nil, ErrInvalidVolatility
	}

	successes := 0
	for s := 0; s < in.Simulations; s++ {
		if p.survives(in) {
			successes++
		}
	}

	return &MonteCarloResult{
		SuccessProbability: float64(successes) / float64(in.Simulations),
		Successes:          successes,
		Simulations:        in.Simulations,
	}, nil
}

func (p *Projector) survives(in MonteCarloInput) bool {
	balance := in.Initial
	for y := 0; y < in.Years; y++ {
		r := p.normal(in.MeanReturn, in.Volatility)
		balance = balance*(1+r) + in.AnnualContribution
	}

	spend := in.AnnualWithdrawal
	for y := 0; y < DecumulationYears; y++ {
		r := p.normal(in.MeanReturn, in.Volatility)
		balance = balance*(1+r) - spend
		spend *= 1 + in.Inflation
		if balance <= 0 {
			return false
		}
	}
	return true
}

// normal draws from N(mean, std) with the Box-Muller transform.
func (p *Projector) normal(mean, std float64) float64 {
	var u, v float64
	for u == 0 {
		u = p.rng.Float64()
	}
	for v == 0 {
		v = p.rng.Float64()
	}
	n := math.Sqrt(-2.0*math.Log(u)) * math.Cos(2.0*math.Pi*v)
	return mean + n*std
}
