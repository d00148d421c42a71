package EOS

import (
	"fmt"
	"math"

	"github.com/notargets/gohydro/types"
)

// IdealGas is the gamma law gas, p = (gamma-1) d e
type IdealGas struct {
	Gamma float64
}

type IdealGasParams struct {
	Gamma float64 `mapstructure:"gamma"`
}

func NewIdealGas(igp IdealGasParams) (ig *IdealGas, err error) {
	if !(igp.Gamma > 1) {
		err = fmt.Errorf("ideal gas gamma must exceed 1, have %g", igp.Gamma)
		return
	}
	ig = &IdealGas{Gamma: igp.Gamma}
	return
}

func (ig *IdealGas) PressureFromDensityEnergy(d, e float64, _ types.Tracers) (p float64, err error) {
	if err = checkDensity(d); err != nil {
		return
	}
	if err = checkEnergy(e); err != nil {
		return
	}
	p = (ig.Gamma - 1) * d * e
	return
}

func (ig *IdealGas) EnergyFromDensityPressure(d, p float64, _ types.Tracers) (e float64, err error) {
	if err = checkDensity(d); err != nil {
		return
	}
	e = p / ((ig.Gamma - 1) * d)
	if err = checkEnergy(e); err != nil {
		e, err = 0, fmt.Errorf("density = %g, pressure = %g: %w", d, p, err)
	}
	return
}

func (ig *IdealGas) SoundSpeedFromDensityEnergyPressure(d, e, p float64, _ types.Tracers) (c float64, err error) {
	if err = checkDensity(d); err != nil {
		return
	}
	if err = checkEnergy(e); err != nil {
		return
	}
	c = math.Sqrt(math.Max(ig.Gamma*p/d, 0))
	return
}

// EntropyFromDensityPressure returns the entropy function p/d^gamma
func (ig *IdealGas) EntropyFromDensityPressure(d, p float64, _ types.Tracers) (s float64, err error) {
	if err = checkDensity(d); err != nil {
		return
	}
	s = p / math.Pow(d, ig.Gamma)
	return
}

func (ig *IdealGas) PressureFromEntropyDensity(s, d float64, _ types.Tracers) (p float64, err error) {
	if err = checkDensity(d); err != nil {
		return
	}
	p = s * math.Pow(d, ig.Gamma)
	return
}
