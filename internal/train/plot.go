package train

import (
	"fmt"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// SaveCurves renders the accuracy and loss curves as PNG files in dir:
// accuracy.png and loss.png.
func (h *History) SaveCurves(dir string) error {
	if h.Epochs() == 0 {
		return fmt.Errorf("history is empty, nothing to plot")
	}
	if err := h.savePlot(
		filepath.Join(dir, "accuracy.png"),
		"FTSwish training / validation accuracies",
		"Accuracy",
		h.Accuracy, h.ValAccuracy,
	); err != nil {
		return err
	}
	return h.savePlot(
		filepath.Join(dir, "loss.png"),
		"FTSwish training / validation loss values",
		"Loss",
		h.Loss, h.ValLoss,
	)
}

// savePlot draws one train/validation metric pair over epochs.
func (h *History) savePlot(path, title, yLabel string, trainVals, valVals []float32) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Epoch"
	p.Y.Label.Text = yLabel
	p.Legend.Top = true
	p.Legend.Left = true

	if err := plotutil.AddLinePoints(p,
		"Training", toXYs(trainVals),
		"Validation", toXYs(valVals),
	); err != nil {
		return fmt.Errorf("build %s: %w", path, err)
	}

	if err := p.Save(8*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func toXYs(vals []float32) plotter.XYs {
	xys := make(plotter.XYs, len(vals))
	for i, v := range vals {
		xys[i].X = float64(i + 1)
		xys[i].Y = float64(v)
	}
	return xys
}
