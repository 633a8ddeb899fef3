package main

import (
	"math"
	"testing"

	"github.com/HwayGuo/keras-cnn/internal/autodiff"
	"github.com/HwayGuo/keras-cnn/internal/backend/cpu"
	"github.com/HwayGuo/keras-cnn/internal/dataset"
	"github.com/HwayGuo/keras-cnn/internal/model"
	"github.com/HwayGuo/keras-cnn/internal/nn"
)

// TestEvaluateAveragesPerSample checks the epoch loss is a per-sample
// mean: with batches of size 2 and 1, each batch contributes in
// proportion to its size rather than equally.
func TestEvaluateAveragesPerSample(t *testing.T) {
	backend := autodiff.New(cpu.New())
	net := model.NewFTSwishCNN(nn.DefaultThreshold, backend)
	criterion := nn.NewCrossEntropyLoss[*autodiff.AutodiffBackend[*cpu.Backend]](backend)

	data := dataset.Synthetic(3)
	batches, err := dataset.CreateBatches(data, 2, false, backend)
	if err != nil {
		t.Fatal(err)
	}
	if len(batches) != 2 || batches[0].Size != 2 || batches[1].Size != 1 {
		t.Fatalf("unexpected batch layout: %d batches", len(batches))
	}

	got, _ := evaluate(net, criterion, batches, backend)

	// Recompute the size-weighted mean directly.
	net.SetTraining(false)
	defer net.SetTraining(true)
	var want float32
	for _, batch := range batches {
		probs := net.Forward(batch.Images)
		want += criterion.Forward(probs, batch.Labels).Item() * float32(batch.Size)
	}
	want /= 3

	if math.Abs(float64(got-want)) > 1e-6 {
		t.Errorf("evaluate loss = %v, want per-sample mean %v", got, want)
	}
}
