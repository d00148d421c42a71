package EOS

import (
	"errors"
	"fmt"
	"strings"

	"github.com/notargets/gohydro/types"
)

var (
	ErrInvalidDensity       = errors.New("density must be positive")
	ErrInvalidEnergy        = errors.New("energy must be positive")
	ErrNegativeDiscriminant = errors.New("negative discriminant in closed form energy inversion")
	ErrUnsupported          = errors.New("operation not supported by this equation of state")
)

/*
EquationOfState converts between the thermodynamic variables of a material. Energies are
specific internal energies. The tracer argument carries the cell's composition for models
that depend on it, it may be nil.
*/
type EquationOfState interface {
	PressureFromDensityEnergy(d, e float64, tracers types.Tracers) (p float64, err error)
	EnergyFromDensityPressure(d, p float64, tracers types.Tracers) (e float64, err error)
	SoundSpeedFromDensityEnergyPressure(d, e, p float64, tracers types.Tracers) (c float64, err error)
	EntropyFromDensityPressure(d, p float64, tracers types.Tracers) (s float64, err error)
	PressureFromEntropyDensity(s, d float64, tracers types.Tracers) (p float64, err error)
}

type EOSType uint8

const (
	EOS_Tillotson EOSType = iota
	EOS_IdealGas
)

var (
	EOSNames = map[string]EOSType{
		"tillotson": EOS_Tillotson,
		"ideal":     EOS_IdealGas,
		"idealgas":  EOS_IdealGas,
	}
	EOSPrintNames = []string{"Tillotson", "Ideal Gas"}
)

func (et EOSType) Print() (txt string) {
	txt = EOSPrintNames[et]
	return
}

func NewEOSType(label string) (et EOSType, err error) {
	var (
		ok bool
	)
	label = strings.ToLower(label)
	if et, ok = EOSNames[label]; !ok {
		err = fmt.Errorf("unable to use equation of state named %s", label)
	}
	return
}

func checkDensity(d float64) (err error) {
	if !(d > 0) {
		err = fmt.Errorf("%w: have %g", ErrInvalidDensity, d)
	}
	return
}

func checkEnergy(e float64) (err error) {
	if !(e > 0) {
		err = fmt.Errorf("%w: have %g", ErrInvalidEnergy, e)
	}
	return
}
