package EOS

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/notargets/gohydro/types"
	"github.com/notargets/gohydro/utils"
)

type Region uint8

const (
	RegionI  Region = iota // cold or compressed, d >= rho0 or e <= EIV
	RegionII               // blend of I and IV for EIV < e < ECV
	RegionIV               // expanded, e >= ECV
)

func (r Region) String() string {
	switch r {
	case RegionI:
		return "I"
	case RegionII:
		return "II"
	case RegionIV:
		return "IV"
	}
	return fmt.Sprintf("Region(%d)", r)
}

// Region II inversion and consistency gate settings
const (
	RegionIIDensityRatio     = 1000. // below rho0/RegionIIDensityRatio the looser settings apply
	RegionIIMaxIterations    = 50
	RegionIIToleranceBits    = 30
	RegionIILowMaxIterations = 100
	RegionIILowToleranceBits = 40
	GateRelativeTolerance    = 0.001  // allowed relative pressure mismatch
	GateThresholdFactor      = 2.     // mismatch is only checked above this multiple of PIV
	SoundSpeedFloorFactor    = 1.e-10 // squared sound speed floor as a multiple of E0
	// Beyond this value of alpha/eta^2 the expanded state exponential is treated as zero
	expansionCutoff = 35.
)

/*
Tillotson is the three region Tillotson equation of state for solids and their vapor.
With eta = d/rho0, mu = eta-1 and w0 = 1 + e/(E0 eta^2):

	Region I:  P = (a + b/w0) d e + A mu + B mu^2
	Region IV: P = a d e + (b d e/w0 + A mu exp(-beta (1/eta-1))) exp(-alpha (1/eta-1)^2)
	Region II: linear blend of I and IV in e between EIV and ECV

Region II has no closed form inverse and is inverted by bisection. The type holds no
mutable state and is safe for concurrent use.
*/
type Tillotson struct {
	TillotsonParams
	logger *zap.Logger
}

// TillotsonParams holds the material constants, keys follow the usual Tillotson notation
type TillotsonParams struct {
	SmallA float64 `mapstructure:"a"`     // dimensionless
	SmallB float64 `mapstructure:"b"`     // dimensionless
	BigA   float64 `mapstructure:"A"`     // bulk modulus, pressure units
	BigB   float64 `mapstructure:"B"`     // nonlinear modulus, pressure units
	Rho0   float64 `mapstructure:"rho0"`  // reference density
	E0     float64 `mapstructure:"E0"`    // reference specific energy
	EIV    float64 `mapstructure:"EIV"`   // incipient vaporization energy
	ECV    float64 `mapstructure:"ECV"`   // complete vaporization energy
	Alpha  float64 `mapstructure:"alpha"` // expanded state decay
	Beta   float64 `mapstructure:"beta"`  // expanded state decay
}

// DefaultTillotsonParams are aluminum-like constants in cgs units
func DefaultTillotsonParams() TillotsonParams {
	return TillotsonParams{
		SmallA: 0.5, SmallB: 1.5,
		BigA: 2.67e11, BigB: 2.67e11,
		Rho0: 2.7, E0: 4.87e12,
		EIV: 4.72e10, ECV: 1.82e11,
		Alpha: 5, Beta: 5,
	}
}

func (tp TillotsonParams) Validate() (err error) {
	switch {
	case !(tp.SmallA > 0):
		err = fmt.Errorf("tillotson a must be positive, have %g", tp.SmallA)
	case tp.SmallB < 0:
		err = fmt.Errorf("tillotson b must not be negative, have %g", tp.SmallB)
	case !(tp.Rho0 > 0):
		err = fmt.Errorf("tillotson rho0 must be positive, have %g", tp.Rho0)
	case !(tp.E0 > 0):
		err = fmt.Errorf("tillotson E0 must be positive, have %g", tp.E0)
	case !(tp.EIV > 0) || !(tp.ECV > tp.EIV):
		err = fmt.Errorf("tillotson requires 0 < EIV < ECV, have EIV = %g, ECV = %g", tp.EIV, tp.ECV)
	case tp.Alpha < 0 || tp.Beta < 0:
		err = fmt.Errorf("tillotson alpha and beta must not be negative, have %g, %g", tp.Alpha, tp.Beta)
	}
	return
}

// NewTillotson validates the constants, a nil logger disables logging
func NewTillotson(tp TillotsonParams, logger *zap.Logger) (t *Tillotson, err error) {
	if err = tp.Validate(); err != nil {
		return
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	t = &Tillotson{
		TillotsonParams: tp,
		logger:          logger,
	}
	return
}

// EnergySolution reports how an energy was recovered from density and pressure
type EnergySolution struct {
	Energy     float64
	Region     Region
	Iterations int  // bisection steps, zero for the closed form regions
	Converged  bool // false if the bisection hit its iteration ceiling
}

/*
NonConvergenceError is returned when the region II bisection ends on an energy whose
pressure misses the target by more than the gate allows.
*/
type NonConvergenceError struct {
	Density, Pressure, AchievedPressure float64
	EIV, ECV                            float64
	LowEnergy, HighEnergy               float64
	LowPressure, HighPressure           float64
	Iterations                          int
	Err                                 error // bisection failure, if any
}

func (nce *NonConvergenceError) Error() string {
	txt := fmt.Sprintf("no energy convergence from density and pressure: "+
		"density = %g, pressure = %g, new pressure = %g, EIV = %g, ECV = %g, "+
		"energies = [%g,%g], pressures = [%g,%g], iterations = %d",
		nce.Density, nce.Pressure, nce.AchievedPressure, nce.EIV, nce.ECV,
		nce.LowEnergy, nce.HighEnergy, nce.LowPressure, nce.HighPressure, nce.Iterations)
	if nce.Err != nil {
		txt += ": " + nce.Err.Error()
	}
	return txt
}

func (nce *NonConvergenceError) Unwrap() error { return nce.Err }

func (t *Tillotson) reduced(d float64) (eta, mu, c float64) {
	eta = d / t.Rho0
	mu = eta - 1
	c = t.E0 * utils.POW(eta, 2)
	return
}

// expansion returns the region IV exponential factors, zero when they underflow
func (t *Tillotson) expansion(d float64) (expAlpha, expBeta float64, underflow bool) {
	var (
		eta = d / t.Rho0
	)
	if t.Alpha > expansionCutoff*eta*eta {
		underflow = true
		return
	}
	x := t.Rho0/d - 1
	expAlpha = math.Exp(-t.Alpha * x * x)
	expBeta = math.Exp(-t.Beta * x)
	return
}

func (t *Tillotson) pressureI(d, e float64) float64 {
	var (
		_, mu, c = t.reduced(d)
	)
	return (t.SmallA+t.SmallB/(e/c+1))*d*e + t.BigA*mu + t.BigB*mu*mu
}

func (t *Tillotson) pressureIV(d, e float64) float64 {
	var (
		_, mu, c                     = t.reduced(d)
		expAlpha, expBeta, underflow = t.expansion(d)
	)
	if underflow {
		return t.SmallA * d * e
	}
	return t.SmallA*d*e + expAlpha*(t.SmallB*d*e/(e/c+1)+t.BigA*mu*expBeta)
}

func (t *Tillotson) blendWeight(e float64) float64 {
	return (e - t.EIV) / (t.ECV - t.EIV)
}

func (t *Tillotson) pressureII(d, e float64) float64 {
	return utils.Lerp(t.pressureI(d, e), t.pressureIV(d, e), t.blendWeight(e))
}

// Region classifies a density and energy
func (t *Tillotson) Region(d, e float64) Region {
	switch {
	case d >= t.Rho0, e <= t.EIV:
		return RegionI
	case e >= t.ECV:
		return RegionIV
	default:
		return RegionII
	}
}

// Thresholds returns the pressures bounding region II at density d, PIV on the cold side and PCV on the hot side
func (t *Tillotson) Thresholds(d float64) (PIV, PCV float64) {
	PIV = t.pressureI(d, t.EIV)
	PCV = t.pressureIV(d, t.ECV)
	return
}

func (t *Tillotson) pressure(d, e float64) float64 {
	switch t.Region(d, e) {
	case RegionI:
		return t.pressureI(d, e)
	case RegionIV:
		return t.pressureIV(d, e)
	default:
		return t.pressureII(d, e)
	}
}

func (t *Tillotson) PressureFromDensityEnergy(d, e float64, _ types.Tracers) (p float64, err error) {
	if err = checkDensity(d); err != nil {
		return
	}
	if err = checkEnergy(e); err != nil {
		return
	}
	p = t.pressure(d, e)
	return
}

/*
invertClosedForm solves X = a d e + bEff d e c/(e + c) for e, the positive root of
a d e^2 + ((a + bEff) c d - X) e - X c = 0.
*/
func (t *Tillotson) invertClosedForm(d, c, bEff, X float64) (e float64, err error) {
	var (
		a    = t.SmallA
		lin  = (a+bEff)*c*d - X
		disc = 4*a*c*d*X + lin*lin
	)
	if disc < 0 {
		err = fmt.Errorf("%w: density = %g, reduced pressure = %g, discriminant = %g",
			ErrNegativeDiscriminant, d, X, disc)
		return
	}
	e = (-lin + math.Sqrt(disc)) / (2 * a * d)
	if !(e > 0) {
		err = fmt.Errorf("%w: density = %g, reduced pressure = %g, energy = %g",
			ErrInvalidEnergy, d, X, e)
	}
	return
}

func (t *Tillotson) energyI(d, p float64) (e float64, err error) {
	var (
		_, mu, c = t.reduced(d)
	)
	return t.invertClosedForm(d, c, t.SmallB, p-t.BigA*mu-t.BigB*mu*mu)
}

func (t *Tillotson) energyIV(d, p float64) (e float64, err error) {
	var (
		_, mu, c                     = t.reduced(d)
		expAlpha, expBeta, underflow = t.expansion(d)
	)
	if underflow {
		if e = p / (t.SmallA * d); !(e > 0) {
			err = fmt.Errorf("%w: density = %g, pressure = %g, energy = %g",
				ErrInvalidEnergy, d, p, e)
		}
		return
	}
	return t.invertClosedForm(d, c, t.SmallB*expAlpha, p-expAlpha*t.BigA*mu*expBeta)
}

// SolveEnergy inverts the pressure relation and reports the region and bisection effort
func (t *Tillotson) SolveEnergy(d, p float64) (sol EnergySolution, err error) {
	if err = checkDensity(d); err != nil {
		return
	}
	sol.Converged = true
	if d >= t.Rho0 {
		sol.Region = RegionI
		sol.Energy, err = t.energyI(d, p)
		return
	}
	PIV, PCV := t.Thresholds(d)
	switch {
	case p <= PIV:
		sol.Region = RegionI
		sol.Energy, err = t.energyI(d, p)
		return
	case p >= PCV:
		sol.Region = RegionIV
		sol.Energy, err = t.energyIV(d, p)
		return
	}
	sol.Region = RegionII
	var (
		maxIter, bits = RegionIIMaxIterations, RegionIIToleranceBits
		br            utils.Bracket
	)
	if d*RegionIIDensityRatio <= t.Rho0 {
		maxIter, bits = RegionIILowMaxIterations, RegionIILowToleranceBits
	}
	// The target is captured per call, nothing is stored on the receiver
	residual := func(e float64) float64 {
		return p - t.pressureII(d, e)
	}
	br, err = utils.Bisect(residual, t.EIV, t.ECV, utils.RelativeTolerance(bits), maxIter)
	if err != nil {
		err = t.nonConvergence(d, p, utils.Bracket{Low: t.EIV, High: t.ECV}, err)
		return
	}
	sol.Energy, sol.Iterations, sol.Converged = br.Midpoint(), br.Iterations, br.Converged
	if !br.Converged {
		t.logger.Debug("region II bisection reached its iteration ceiling",
			zap.Float64("density", d), zap.Float64("pressure", p),
			zap.Float64("low", br.Low), zap.Float64("high", br.High),
			zap.Int("iterations", br.Iterations))
	}
	newP := t.pressure(d, sol.Energy)
	if newP > GateThresholdFactor*PIV && math.Abs(p-newP) > GateRelativeTolerance*math.Abs(p) {
		err = t.nonConvergence(d, p, br, nil)
		return
	}
	if !(sol.Energy > 0) {
		err = fmt.Errorf("%w: density = %g, pressure = %g, energy = %g",
			ErrInvalidEnergy, d, p, sol.Energy)
	}
	return
}

func (t *Tillotson) nonConvergence(d, p float64, br utils.Bracket, cause error) error {
	return &NonConvergenceError{
		Density:          d,
		Pressure:         p,
		AchievedPressure: t.pressure(d, br.Midpoint()),
		EIV:              t.EIV,
		ECV:              t.ECV,
		LowEnergy:        br.Low,
		HighEnergy:       br.High,
		LowPressure:      t.pressure(d, br.Low),
		HighPressure:     t.pressure(d, br.High),
		Iterations:       br.Iterations,
		Err:              cause,
	}
}

func (t *Tillotson) EnergyFromDensityPressure(d, p float64, _ types.Tracers) (e float64, err error) {
	var (
		sol EnergySolution
	)
	if sol, err = t.SolveEnergy(d, p); err != nil {
		return
	}
	e = sol.Energy
	return
}

/*
soundSpeedSquaredI is (dP/dd)_e + (p/d^2)(dP/de)_d for the region I form.
*/
func (t *Tillotson) soundSpeedSquaredI(d, e, p float64) float64 {
	var (
		_, mu, c = t.reduced(d)
		w0       = e/c + 1
		a, b     = t.SmallA, t.SmallB
	)
	dPdd := (t.BigA+2*t.BigB*mu)/t.Rho0 + e*(a+b/w0) + 2*b*e*(w0-1)/utils.POW(w0, 2)
	return dPdd + p*(a+b/utils.POW(w0, 2))/d
}

func (t *Tillotson) soundSpeedSquaredIV(d, e, p float64) float64 {
	var (
		eta, mu, c                   = t.reduced(d)
		expAlpha, expBeta, underflow = t.expansion(d)
		w0                           = e/c + 1
		a, b                         = t.SmallA, t.SmallB
	)
	if underflow {
		return a*e + p*a/d
	}
	var (
		x     = t.Rho0/d - 1
		H     = b * d * e / w0
		K     = t.BigA * mu * expBeta
		dHdd  = b * e / w0 * (1 + 2*(w0-1)/w0)
		dKdd  = t.BigA*expBeta/t.Rho0 + K*t.Beta/(eta*d)
		dFdd  = expAlpha * 2 * t.Alpha * x / (eta * d)
		dPdd  = a*e + dFdd*(H+K) + expAlpha*(dHdd+dKdd)
		dPdeD = a + expAlpha*b/utils.POW(w0, 2) // (dP/de)/d
	)
	return dPdd + p*dPdeD/d
}

func (t *Tillotson) SoundSpeedFromDensityEnergyPressure(d, e, p float64, _ types.Tracers) (cs float64, err error) {
	if err = checkDensity(d); err != nil {
		return
	}
	if err = checkEnergy(e); err != nil {
		return
	}
	var c2 float64
	switch t.Region(d, e) {
	case RegionI:
		c2 = t.soundSpeedSquaredI(d, e, p)
	case RegionIV:
		c2 = t.soundSpeedSquaredIV(d, e, p)
	default:
		c2 = utils.Lerp(t.soundSpeedSquaredI(d, e, p), t.soundSpeedSquaredIV(d, e, p), t.blendWeight(e))
	}
	// Roundoff near the seams can drive the blend negative
	cs = math.Sqrt(math.Max(c2, SoundSpeedFloorFactor*t.E0))
	return
}

func (t *Tillotson) SoundSpeedFromDensityEnergy(d, e float64, tracers types.Tracers) (cs float64, err error) {
	var p float64
	if p, err = t.PressureFromDensityEnergy(d, e, tracers); err != nil {
		return
	}
	return t.SoundSpeedFromDensityEnergyPressure(d, e, p, tracers)
}

func (t *Tillotson) SoundSpeedFromDensityPressure(d, p float64, tracers types.Tracers) (cs float64, err error) {
	var e float64
	if e, err = t.EnergyFromDensityPressure(d, p, tracers); err != nil {
		return
	}
	return t.SoundSpeedFromDensityEnergyPressure(d, e, p, tracers)
}

func (t *Tillotson) EntropyFromDensityPressure(_, _ float64, _ types.Tracers) (float64, error) {
	return 0, fmt.Errorf("%w: tillotson entropy from density and pressure", ErrUnsupported)
}

func (t *Tillotson) PressureFromEntropyDensity(_, _ float64, _ types.Tracers) (float64, error) {
	return 0, fmt.Errorf("%w: tillotson pressure from entropy and density", ErrUnsupported)
}
