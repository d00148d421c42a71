package EOS

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

/*
NewFromParams builds an equation of state from the loosely typed parameter map of an input
file. Every constant of the model must be present and no unknown keys are accepted.
*/
func NewFromParams(kind string, params map[string]float64, logger *zap.Logger) (eos EquationOfState, err error) {
	var (
		et EOSType
	)
	if et, err = NewEOSType(kind); err != nil {
		return
	}
	switch et {
	case EOS_Tillotson:
		var tp TillotsonParams
		if err = decodeParams(params, &tp, []string{"a", "b", "A", "B", "rho0", "E0", "EIV", "ECV", "alpha", "beta"}); err != nil {
			return
		}
		var till *Tillotson
		if till, err = NewTillotson(tp, logger); err != nil {
			return
		}
		eos = till
	case EOS_IdealGas:
		var igp IdealGasParams
		if err = decodeParams(params, &igp, []string{"gamma"}); err != nil {
			return
		}
		var ig *IdealGas
		if ig, err = NewIdealGas(igp); err != nil {
			return
		}
		eos = ig
	}
	return
}

func decodeParams(params map[string]float64, target interface{}, required []string) (err error) {
	var (
		missing []string
		dec     *mapstructure.Decoder
	)
	for _, key := range required {
		if _, ok := params[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) != 0 {
		err = fmt.Errorf("missing equation of state parameters: %s", strings.Join(missing, ", "))
		return
	}
	dec, err = mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      target,
		ErrorUnused: true,
	})
	if err != nil {
		return
	}
	if err = dec.Decode(params); err != nil {
		err = fmt.Errorf("unable to decode equation of state parameters: %w", err)
		return
	}
	return
}
