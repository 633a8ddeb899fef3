// Package train collects per-epoch training metrics and renders them as
// training-curve charts.
package train

// History accumulates one entry per epoch for each tracked metric,
// mirroring the loss/accuracy/val_loss/val_accuracy quartet of a Keras
// fit history.
type History struct {
	Loss        []float32
	Accuracy    []float32
	ValLoss     []float32
	ValAccuracy []float32
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{}
}

// Append records the metrics of one completed epoch.
func (h *History) Append(loss, accuracy, valLoss, valAccuracy float32) {
	h.Loss = append(h.Loss, loss)
	h.Accuracy = append(h.Accuracy, accuracy)
	h.ValLoss = append(h.ValLoss, valLoss)
	h.ValAccuracy = append(h.ValAccuracy, valAccuracy)
}

// Epochs returns the number of recorded epochs.
func (h *History) Epochs() int {
	return len(h.Loss)
}
