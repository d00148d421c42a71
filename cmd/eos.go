/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"

	"github.com/notargets/avs/chart2d"
	utils2 "github.com/notargets/avs/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"

	"github.com/notargets/gohydro/EOS"
	"github.com/notargets/gohydro/InputParameters"
)

type EOSModel struct {
	DensityRatios []float64
	EMin, EMax    float64
	N             int
	Graph         bool
}

// EOSCmd represents the eos command
var EOSCmd = &cobra.Command{
	Use:   "eos",
	Short: "Tabulate the Tillotson equation of state along isochores",
	Long: `Prints pressure, region and sound speed over a log spaced range of specific energies
for each requested density ratio d/rho0, then inverts each pressure back to energy as a check.
Parameters come from the EOS block of an input file, or the aluminum defaults.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			em     = &EOSModel{}
			icFile string
			tp     = EOS.DefaultTillotsonParams()
			till   *EOS.Tillotson
		)
		if icFile, err = cmd.Flags().GetString("inputConditionsFile"); err != nil {
			return
		}
		if len(icFile) != 0 {
			var ip *InputParameters.InputParametersHydro
			if ip, err = readInput(icFile, exampleFluxFile); err != nil {
				return
			}
			var eos EOS.EquationOfState
			if eos, err = EOS.NewFromParams(ip.EOS.Type, ip.EOS.Params, logger); err != nil {
				return
			}
			var ok bool
			if till, ok = eos.(*EOS.Tillotson); !ok {
				return fmt.Errorf("eos command tabulates the Tillotson model only, input has %s", ip.EOS.Type)
			}
		} else if till, err = EOS.NewTillotson(tp, logger); err != nil {
			return
		}
		if em.DensityRatios, err = cmd.Flags().GetFloat64Slice("ratios"); err != nil {
			return
		}
		em.EMin, _ = cmd.Flags().GetFloat64("emin")
		em.EMax, _ = cmd.Flags().GetFloat64("emax")
		em.N, _ = cmd.Flags().GetInt("n")
		em.Graph, _ = cmd.Flags().GetBool("graph")
		var tab []IsochorePoint
		if tab, err = em.Tabulate(till); err != nil {
			return
		}
		PrintIsochores(os.Stdout, tab)
		if em.Graph {
			PlotIsochores(tab)
		}
		return
	},
}

func init() {
	rootCmd.AddCommand(EOSCmd)
	EOSCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file with a Tillotson EOS block, default is aluminum")
	EOSCmd.Flags().Float64Slice("ratios", []float64{0.5, 0.9, 1, 1.1}, "density ratios d/rho0 of the isochores")
	EOSCmd.Flags().Float64("emin", 1.e8, "lowest specific energy")
	EOSCmd.Flags().Float64("emax", 1.e12, "highest specific energy")
	EOSCmd.Flags().IntP("n", "n", 13, "number of energies per isochore")
	EOSCmd.Flags().BoolP("graph", "g", false, "plot log pressure against log energy for each isochore")
}

type IsochorePoint struct {
	Ratio, Density, Energy float64
	Pressure, SoundSpeed   float64
	Region                 EOS.Region
	Inverted               float64 // energy recovered from the pressure
	Iterations             int
}

// Tabulate evaluates the model on the grid, stopping at the first failing point
func (em *EOSModel) Tabulate(till *EOS.Tillotson) (tab []IsochorePoint, err error) {
	if em.N < 2 || !(em.EMin > 0) || !(em.EMax > em.EMin) {
		err = fmt.Errorf("need n >= 2 and 0 < emin < emax, have n = %d, emin = %g, emax = %g",
			em.N, em.EMin, em.EMax)
		return
	}
	energies := floats.LogSpan(make([]float64, em.N), em.EMin, em.EMax)
	for _, ratio := range em.DensityRatios {
		d := ratio * till.Rho0
		for _, e := range energies {
			var (
				pt  = IsochorePoint{Ratio: ratio, Density: d, Energy: e, Region: till.Region(d, e)}
				sol EOS.EnergySolution
			)
			if pt.Pressure, err = till.PressureFromDensityEnergy(d, e, nil); err != nil {
				return
			}
			if pt.SoundSpeed, err = till.SoundSpeedFromDensityEnergy(d, e, nil); err != nil {
				return
			}
			if sol, err = till.SolveEnergy(d, pt.Pressure); err != nil {
				logger.Warn("pressure inversion failed", zap.Float64("density", d),
					zap.Float64("energy", e), zap.Error(err))
				err = nil
				pt.Inverted = math.NaN()
			} else {
				pt.Inverted, pt.Iterations = sol.Energy, sol.Iterations
			}
			tab = append(tab, pt)
		}
	}
	return
}

func PrintIsochores(w io.Writer, tab []IsochorePoint) {
	fmt.Fprintf(w, "%8s %14s %14s %6s %14s %14s %5s\n",
		"d/rho0", "Energy", "Pressure", "Region", "SoundSpeed", "Inverted", "Iter")
	for _, pt := range tab {
		fmt.Fprintf(w, "%8.4f %14.6e %14.6e %6s %14.6e %14.6e %5d\n",
			pt.Ratio, pt.Energy, pt.Pressure, pt.Region, pt.SoundSpeed, pt.Inverted, pt.Iterations)
	}
}

// PlotIsochores does not return, the chart window owns the process from here
func PlotIsochores(tab []IsochorePoint) {
	var (
		colors     = []color.RGBA{utils2.RED, utils2.GREEN, utils2.BLUE, utils2.WHITE}
		lines      = make(map[float64][]float32)
		order      []float64
		xMin, xMax = float32(math.MaxFloat32), -float32(math.MaxFloat32)
		yMin, yMax = float32(math.MaxFloat32), -float32(math.MaxFloat32)
		prev       = make(map[float64][2]float32)
	)
	for _, pt := range tab {
		if !(pt.Pressure > 0) {
			continue
		}
		x, y := float32(math.Log10(pt.Energy)), float32(math.Log10(pt.Pressure))
		xMin, xMax = min(xMin, x), max(xMax, x)
		yMin, yMax = min(yMin, y), max(yMax, y)
		if last, ok := prev[pt.Ratio]; ok {
			lines[pt.Ratio] = append(lines[pt.Ratio], last[0], last[1], x, y)
		} else {
			order = append(order, pt.Ratio)
		}
		prev[pt.Ratio] = [2]float32{x, y}
	}
	ch := chart2d.NewChart2D(xMin, xMax, yMin, yMax,
		1024, 1024, utils2.WHITE, utils2.BLACK)
	for i, ratio := range order {
		fmt.Printf("d/rho0 = %g is drawn in color %d\n", ratio, i%len(colors))
		ch.AddLine(lines[ratio], colors[i%len(colors)])
	}
	for {
	}
}
