// Package scenario groups named activity sets, compares them against a
// baseline, diffs their inputs and persists them in a local SQLite store.
package scenario

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/lioncitydevops/carbon-calculator/internal/emissions"
)

// Scenario errors.
var (
	ErrNotFound     = errors.New("scenario not found")
	ErrDuplicateID  = errors.New("duplicate scenario id")
	ErrNoBaseline   = errors.New("baseline scenario not found")
	ErrNoScenarios  = errors.New("no scenarios")
	ErrInvalidInput = errors.New("invalid scenario")
)

// Scenario is a named activity set.
type Scenario struct {
	ID          string             `json:"id"                    yaml:"id"`
	Name        string             `json:"name"                  yaml:"name"`
	Description string             `json:"description,omitempty" yaml:"description,omitempty"`
	Activity    emissions.Activity `json:"activity"              yaml:",inline"`

	// Result caches the last calculation for this scenario.
	Result *emissions.Result `json:"result,omitempty" yaml:"-"`
}

// DisplayName is the name, falling back to the ID.
func (s Scenario) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.ID
}

// NewID returns a fresh lowercase ULID for a scenario.
func NewID() string {
	return strings.ToLower(ulid.MustNew(ulid.Now(), rand.Reader).String())
}

// Set is a list of scenarios with one of them marked as the baseline.
type Set struct {
	Baseline  string     `json:"baseline"  yaml:"baseline"`
	Scenarios []Scenario `json:"scenarios" yaml:"scenarios"`
}

// Validate checks that IDs are present and unique and that the baseline
// exists.
func (s Set) Validate() error {
	if len(s.Scenarios) == 0 {
		return ErrNoScenarios
	}
	seen := make(map[string]bool, len(s.Scenarios))
	for i, sc := range s.Scenarios {
		if strings.TrimSpace(sc.ID) == "" {
			return fmt.Errorf("%w: scenario %d has no id", ErrInvalidInput, i)
		}
		if seen[sc.ID] {
			return fmt.Errorf("%w: %q", ErrDuplicateID, sc.ID)
		}
		seen[sc.ID] = true
	}
	if !seen[s.Baseline] {
		return fmt.Errorf("%w: %q", ErrNoBaseline, s.Baseline)
	}
	return nil
}

// Find returns the scenario with the given ID.
func (s Set) Find(id string) (Scenario, error) {
	for _, sc := range s.Scenarios {
		if sc.ID == id {
			return sc, nil
		}
	}
	return Scenario{}, fmt.Errorf("%w: %q", ErrNotFound, id)
}

// BaselineScenario returns the baseline.
func (s Set) BaselineScenario() (Scenario, error) {
	sc, err := s.Find(s.Baseline)
	if err != nil {
		return Scenario{}, fmt.Errorf("%w: %q", ErrNoBaseline, s.Baseline)
	}
	return sc, nil
}

// Select narrows the set to the given IDs. The baseline is always kept and
// stays first.
func (s Set) Select(ids []string) (Set, error) {
	if len(ids) == 0 {
		return s, nil
	}
	base, err := s.BaselineScenario()
	if err != nil {
		return Set{}, err
	}
	out := Set{Baseline: s.Baseline, Scenarios: []Scenario{base}}
	picked := map[string]bool{s.Baseline: true}
	for _, id := range ids {
		if picked[id] {
			continue
		}
		sc, ferr := s.Find(id)
		if ferr != nil {
			return Set{}, ferr
		}
		picked[id] = true
		out.Scenarios = append(out.Scenarios, sc)
	}
	return out, nil
}

// Sample scenario IDs.
const (
	SampleBaseline   = "baseline"
	SampleRenewable  = "renewable"
	SampleEVFleet    = "ev-fleet"
	SampleRemoteWork = "remote-work"
	SampleCombined   = "combined"
)

// Samples returns the built-in what-if scenarios for a mid-sized company.
func Samples() Set {
	baseline := emissions.Activity{
		Scope1: emissions.Scope1Activity{
			NaturalGas: 50000, Diesel: 15000, Petrol: 8000, Refrigerants: 50, LPG: 2000,
		},
		Scope2: emissions.Scope2Activity{
			Electricity: 500000, Heating: 100000, Cooling: 80000, Steam: 50000,
		},
		Scope3: emissions.Scope3Activity{
			BusinessTravel: 200000, EmployeeCommuting: 500000, WasteGenerated: 100,
			PurchasedGoods: 5000000, UpstreamTransport: 100000, DownstreamTransport: 150000,
		},
	}

	renewable := baseline
	renewable.Scope2.Electricity = 250000

	evFleet := baseline
	evFleet.Scope1.Diesel = 0
	evFleet.Scope1.Petrol = 0
	evFleet.Scope2.Electricity = 550000

	remote := baseline
	remote.Scope2 = emissions.Scope2Activity{Electricity: 400000, Heating: 80000, Cooling: 60000, Steam: 40000}
	remote.Scope3 = emissions.Scope3Activity{
		BusinessTravel: 100000, EmployeeCommuting: 250000, WasteGenerated: 80,
		PurchasedGoods: 5000000, UpstreamTransport: 100000, DownstreamTransport: 150000,
	}

	combined := emissions.Activity{
		Scope1: emissions.Scope1Activity{NaturalGas: 30000, Refrigerants: 25, LPG: 1000},
		Scope2: emissions.Scope2Activity{Electricity: 200000, Heating: 60000, Cooling: 40000, Steam: 30000},
		Scope3: emissions.Scope3Activity{
			BusinessTravel: 80000, EmployeeCommuting: 200000, WasteGenerated: 50,
			PurchasedGoods: 4000000, UpstreamTransport: 80000, DownstreamTransport: 120000,
		},
	}

	return Set{
		Baseline: SampleBaseline,
		Scenarios: []Scenario{
			{ID: SampleBaseline, Name: "Current Baseline", Description: "Current operations without any changes", Activity: baseline},
			{ID: SampleRenewable, Name: "50% Renewable Energy", Description: "Switch 50% of electricity to renewable sources", Activity: renewable},
			{ID: SampleEVFleet, Name: "Electric Vehicle Fleet", Description: "Replace all company vehicles with EVs", Activity: evFleet},
			{ID: SampleRemoteWork, Name: "Hybrid Remote Work", Description: "50% reduction in commuting and business travel", Activity: remote},
			{ID: SampleCombined, Name: "Combined Strategy", Description: "All initiatives combined", Activity: combined},
		},
	}
}
