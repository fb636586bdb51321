package sim

import (
	"fmt"
	"image/color"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// NewHeadingPlot creates new plot of the simulated heading from two data sources:
// truth:    true heading
// estimate: estimated heading
// Both matrices hold elapsed time in the first column and heading in degrees in the second one.
// It returns error if the plot fails to be created. This can be due to either of the following conditions:
// * either of the supplied data matrices is nil
// * either of the supplied data matrices does not have at least 2 columns
// * gonum plot fails to be created
func NewHeadingPlot(truth, estimate *mat.Dense) (*plot.Plot, error) {
	if truth == nil || estimate == nil {
		return nil, fmt.Errorf("invalid data supplied")
	}

	_, ct := truth.Dims()
	_, ce := estimate.Dims()

	if ct < 2 || ce < 2 {
		return nil, fmt.Errorf("invalid data dimensions")
	}

	p := plot.New()

	p.Title.Text = "Heading"
	p.X.Label.Text = "Time [s]"
	p.Y.Label.Text = "East angle [deg]"
	p.Y.Min = -180
	p.Y.Max = 180

	legend := plot.NewLegend()
	legend.Top = true
	p.Legend = legend

	truthLine, err := plotter.NewLine(makePoints(truth))
	if err != nil {
		return nil, fmt.Errorf("failed to create line: %v", err)
	}
	truthLine.LineStyle.Color = color.RGBA{R: 255, B: 128, A: 255}
	truthLine.LineStyle.Width = vg.Points(1)

	p.Add(truthLine)
	p.Legend.Add("truth", truthLine)

	estScatter, err := plotter.NewScatter(makePoints(estimate))
	if err != nil {
		return nil, fmt.Errorf("failed to create scatter: %v", err)
	}
	estScatter.GlyphStyle.Color = color.RGBA{R: 169, G: 169, B: 169}
	estScatter.Shape = draw.CrossGlyph{}
	estScatter.GlyphStyle.Radius = vg.Points(3)

	p.Add(estScatter)
	p.Legend.Add("estimate", estScatter)

	return p, nil
}

func makePoints(m *mat.Dense) plotter.XYs {
	r, _ := m.Dims()
	pts := make(plotter.XYs, r)
	for i := 0; i < r; i++ {
		pts[i].X = m.At(i, 0)
		pts[i].Y = m.At(i, 1)
	}

	return pts
}
